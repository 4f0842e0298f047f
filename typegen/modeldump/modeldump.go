// Package modeldump renders the intermediate schema model itself, as JSON or
// YAML, for debugging and for tools that would rather read the model than IDL.
package modeldump

import (
	"bytes"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"gopkg.in/yaml.v3"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/schema"
	"github.com/teranos/schemagen/typegen"
)

// Document is the dumped form of one package result.
type Document struct {
	Package     string               `json:"package" yaml:"package"`
	Path        string               `json:"path" yaml:"path"`
	FileID      uint64               `json:"fileId,string" yaml:"fileId"`
	Definitions []*schema.Definition `json:"definitions" yaml:"definitions"`
	Skipped     []typegen.Skipped    `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// NewDocument builds the dump document of result.
func NewDocument(result *typegen.Result) Document {
	defs := result.Definitions
	if defs == nil {
		defs = []*schema.Definition{}
	}
	return Document{
		Package:     result.PackageName,
		Path:        result.PackagePath,
		FileID:      schema.DeriveFileID(result.PackagePath),
		Definitions: defs,
		Skipped:     result.Skipped,
	}
}

// JSON renders results as indented JSON
type JSON struct{}

// NewJSON creates a JSON model generator
func NewJSON() *JSON { return &JSON{} }

func (g *JSON) Language() string      { return "json" }
func (g *JSON) FileExtension() string { return "json" }

// GenerateFile marshals the result deterministically, so regenerating an
// unchanged package produces identical bytes.
func (g *JSON) GenerateFile(result *typegen.Result) (string, error) {
	out, err := json.Marshal(NewDocument(result),
		json.Deterministic(true),
		jsontext.WithIndent("  "),
	)
	if err != nil {
		return "", errors.Wrapf(err, "failed to marshal %s", result.PackagePath)
	}
	return string(out) + "\n", nil
}

// YAML renders results as YAML
type YAML struct{}

// NewYAML creates a YAML model generator
func NewYAML() *YAML { return &YAML{} }

func (g *YAML) Language() string      { return "yaml" }
func (g *YAML) FileExtension() string { return "yaml" }

func (g *YAML) GenerateFile(result *typegen.Result) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(result)); err != nil {
		return "", errors.Wrapf(err, "failed to marshal %s", result.PackagePath)
	}
	if err := enc.Close(); err != nil {
		return "", errors.Wrap(err, "failed to flush yaml encoder")
	}
	return buf.String(), nil
}

var (
	_ typegen.Generator = (*JSON)(nil)
	_ typegen.Generator = (*YAML)(nil)
)
