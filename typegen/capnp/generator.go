// Package capnp renders schema definitions as Cap'n Proto IDL text.
package capnp

import (
	"fmt"
	"strings"

	"github.com/teranos/schemagen/schema"
	"github.com/teranos/schemagen/typegen"
)

// Generator implements typegen.Generator for Cap'n Proto
type Generator struct{}

// NewGenerator creates a new Cap'n Proto generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns "capnp"
func (g *Generator) Language() string {
	return "capnp"
}

// FileExtension returns "capnp"
func (g *Generator) FileExtension() string {
	return "capnp"
}

// Render emits one definition: the namespace directive when the namespace is set,
// then the definition block. Output is a pure function of def.
func Render(def *schema.Definition) string {
	var sb strings.Builder
	if def.Namespace != "" {
		writeNamespace(&sb, def.Namespace)
		sb.WriteString("\n")
	}
	writeDefinition(&sb, def)
	return sb.String()
}

// GenerateFile renders every definition of a package into one schema file.
// The namespace directive is written once; definition bodies follow in order.
func (g *Generator) GenerateFile(result *typegen.Result) (string, error) {
	var sb strings.Builder

	sb.WriteString("# AUTO-GENERATED by schemagen - DO NOT EDIT\n")
	sb.WriteString(fmt.Sprintf("# Source: %s\n\n", result.PackagePath))
	sb.WriteString(fmt.Sprintf("@0x%X;\n\n", schema.DeriveFileID(result.PackagePath)))

	if result.PackagePath != "" {
		sb.WriteString("using Go = import \"/go.capnp\";\n")
		sb.WriteString(fmt.Sprintf("$Go.package(\"%s\");\n", result.PackageName))
		writeNamespace(&sb, result.PackagePath)
	}

	for _, def := range result.Definitions {
		sb.WriteString("\n")
		writeDefinition(&sb, def)
	}

	return sb.String(), nil
}

func writeNamespace(sb *strings.Builder, namespace string) {
	sb.WriteString(fmt.Sprintf("$Go.import(\"%s\");\n", namespace))
}

func writeDefinition(sb *strings.Builder, def *schema.Definition) {
	switch def.Kind {
	case schema.KindEnum:
		sb.WriteString(fmt.Sprintf("enum %s @0x%X {\n", def.Name, def.TypeID))
		for _, v := range def.EnumValues {
			sb.WriteString(fmt.Sprintf("  %s @%d;\n", strings.ToLower(v.Name), v.Value))
		}
	case schema.KindInterface:
		sb.WriteString(fmt.Sprintf("interface %s @0x%X {\n", def.Name, def.TypeID))
		for _, f := range def.Fields {
			sb.WriteString(fmt.Sprintf("  %s() -> ();\n", strings.ToLower(f.Name)))
		}
	default:
		sb.WriteString(fmt.Sprintf("struct %s @0x%X {\n", def.Name, def.TypeID))
		for _, f := range def.Fields {
			optional := ""
			if f.IsOptional {
				optional = "?"
			}
			sb.WriteString(fmt.Sprintf("  %s%s %s @%d;\n", TypeName(f.Type), optional, strings.ToLower(f.Name), f.Index))
		}
	}
	sb.WriteString("}\n")
}

// TypeName renders a type reference. Primitive names are lower-cased; names of
// referenced structs and enums keep their case.
func TypeName(t schema.Type) string {
	switch t.Kind {
	case schema.KindPrimitive:
		return strings.ToLower(t.TypeName)
	case schema.KindText:
		return "Text"
	case schema.KindData:
		return "Data"
	case schema.KindList:
		if t.Elem == nil {
			return "List(Void)"
		}
		return "List(" + TypeName(*t.Elem) + ")"
	case schema.KindStruct, schema.KindEnum:
		return t.TypeName
	default:
		return "Void"
	}
}

var _ typegen.Generator = (*Generator)(nil)
