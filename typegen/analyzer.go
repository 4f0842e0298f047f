// Package typegen turns host type metadata into schema definitions and schema
// definitions into generated files.
//
// Analysis is provider-agnostic: an Analyzer reads everything it needs through a
// typeinfo.Provider, and emitters (see typegen/capnp) only ever see the schema
// model.
package typegen

import (
	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/schema"
	"github.com/teranos/schemagen/typeinfo"
)

// Analyzer builds schema definitions from a metadata provider.
// It holds no mutable state and may be shared between goroutines as long as the
// provider allows concurrent reads.
type Analyzer[H comparable] struct {
	provider typeinfo.Provider[H]
}

// NewAnalyzer creates an analyzer reading metadata from provider.
func NewAnalyzer[H comparable](provider typeinfo.Provider[H]) *Analyzer[H] {
	return &Analyzer[H]{provider: provider}
}

// Analyze produces the schema definition of one enum, interface, or serializable
// record type. It fails with ErrNullInput for the zero handle and with
// ErrUnsupportedTypeKind for anything else.
func (a *Analyzer[H]) Analyze(h H) (*schema.Definition, error) {
	var zero H
	if h == zero {
		return nil, errors.WithStack(errors.ErrNullInput)
	}

	name, namespace := a.provider.NameOf(h)
	def := &schema.Definition{
		Name:      name,
		Namespace: namespace,
		TypeID:    a.TypeID(h),
	}

	switch kind := a.provider.KindOf(h); {
	case kind == typeinfo.KindEnum:
		def.Kind = schema.KindEnum
		a.analyzeEnum(h, def)
	case kind == typeinfo.KindInterface:
		def.Kind = schema.KindInterface
		a.analyzeInterface(h, def)
	case kind == typeinfo.KindStruct && a.provider.IsSerializableRecord(h):
		def.Kind = schema.KindStruct
		a.analyzeStruct(h, def)
	default:
		return nil, errors.NewUnsupportedTypeKind(schema.QualifiedName(namespace, name))
	}

	return def, nil
}

// TypeID resolves the identity of h: the explicit annotation when present,
// otherwise an ID derived from the fully-qualified name.
func (a *Analyzer[H]) TypeID(h H) uint64 {
	if id, ok := a.provider.ExplicitIdentityOf(h); ok {
		return id
	}
	name, namespace := a.provider.NameOf(h)
	return schema.DeriveID(schema.QualifiedName(namespace, name))
}

func (a *Analyzer[H]) analyzeEnum(h H, def *schema.Definition) {
	members := a.provider.EnumMembersOf(h)
	def.EnumValues = make([]schema.EnumValue, 0, len(members))
	for _, m := range members {
		def.EnumValues = append(def.EnumValues, schema.EnumValue{Name: m.Name, Value: m.Value})
	}
}

// analyzeInterface maps each method to a nullary, void-returning slot.
// Parameters and results are not modeled.
func (a *Analyzer[H]) analyzeInterface(h H, def *schema.Definition) {
	methods := a.provider.MethodsOf(h)
	def.Fields = make([]schema.Field, 0, len(methods))
	for i, name := range methods {
		def.Fields = append(def.Fields, schema.Field{
			Name:  name,
			Index: i,
			Type:  schema.Void(),
		})
	}
}

// analyzeStruct numbers read-write properties first and plain fields after them
// with one counter. Read-only and write-only properties take no index.
func (a *Analyzer[H]) analyzeStruct(h H, def *schema.Definition) {
	properties := a.provider.PropertiesOf(h)
	fields := a.provider.FieldsOf(h)
	def.Fields = make([]schema.Field, 0, len(properties)+len(fields))

	index := 0
	for _, p := range properties {
		if !p.CanRead || !p.CanWrite {
			continue
		}
		def.Fields = append(def.Fields, a.field(p.Member, index))
		index++
	}
	for _, f := range fields {
		def.Fields = append(def.Fields, a.field(f, index))
		index++
	}
}

func (a *Analyzer[H]) field(m typeinfo.Member[H], index int) schema.Field {
	return schema.Field{
		Name:       m.Name,
		Index:      index,
		Type:       a.MapType(m.Type),
		IsOptional: m.Nullable || a.provider.KindOf(m.Type) == typeinfo.KindNullable,
	}
}
