package typegen

import "github.com/teranos/schemagen/schema"

// Result holds the analyzed types of one Go package.
// This is language-agnostic - each Generator formats it differently.
type Result struct {
	// PackageName is the Go package name (e.g., "models")
	PackageName string

	// PackagePath is the import path; it is also the namespace of every definition
	PackagePath string

	// Definitions are in declaration order
	Definitions []*schema.Definition

	// Skipped lists exported types that could not be analyzed
	Skipped []Skipped
}

// Skipped records one type left out of a Result and why.
type Skipped struct {
	Name   string `json:"name" yaml:"name"`
	Reason string `json:"reason" yaml:"reason"`
}

// Names returns the definition names in order.
func (r *Result) Names() []string {
	names := make([]string, 0, len(r.Definitions))
	for _, def := range r.Definitions {
		names = append(names, def.Name)
	}
	return names
}
