// Package schema defines the intermediate, language-neutral schema model that sits
// between type analysis and IDL emission.
//
// Every value here is built fresh by one analysis call and is not mutated after an
// emitter has consumed it.
package schema

// Kind classifies both definitions and type references.
// A Definition only ever uses KindStruct, KindEnum or KindInterface.
type Kind string

const (
	KindStruct    Kind = "struct"
	KindEnum      Kind = "enum"
	KindInterface Kind = "interface"
	KindList      Kind = "list"
	KindPrimitive Kind = "primitive"
	KindText      Kind = "text"
	KindData      Kind = "data"
	KindVoid      Kind = "void"
)

// Primitive vocabulary carried by Type.TypeName when Kind == KindPrimitive.
const (
	PrimitiveBool    = "Bool"
	PrimitiveInt8    = "Int8"
	PrimitiveUInt8   = "UInt8"
	PrimitiveInt16   = "Int16"
	PrimitiveUInt16  = "UInt16"
	PrimitiveInt32   = "Int32"
	PrimitiveUInt32  = "UInt32"
	PrimitiveInt64   = "Int64"
	PrimitiveUInt64  = "UInt64"
	PrimitiveFloat32 = "Float32"
	PrimitiveFloat64 = "Float64"
)

// Definition is one analyzed type.
type Definition struct {
	// Name is the bare type name, never empty
	Name string `json:"name" yaml:"name"`

	// TypeID is the identity of the type in the schema space
	TypeID uint64 `json:"typeId,string" yaml:"typeId"`

	// Kind is KindStruct, KindEnum or KindInterface
	Kind Kind `json:"kind" yaml:"kind"`

	// Namespace is the declaring package path, possibly empty
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`

	// Fields are struct members or interface method slots in wire order.
	// Empty for enums.
	Fields []Field `json:"fields,omitempty" yaml:"fields,omitempty"`

	// EnumValues are only set for enums.
	EnumValues []EnumValue `json:"enumValues,omitempty" yaml:"enumValues,omitempty"`

	// NestedTypes is reserved; the analyzer never populates it.
	NestedTypes []Definition `json:"nestedTypes,omitempty" yaml:"nestedTypes,omitempty"`
}

// FullName returns the namespace-qualified name used for identity derivation.
func (d *Definition) FullName() string {
	return QualifiedName(d.Namespace, d.Name)
}

// QualifiedName joins a namespace and a bare name with a dot.
func QualifiedName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

// Field is one struct member or one interface method slot.
type Field struct {
	Name string `json:"name" yaml:"name"`

	// Index is the wire ordinal, unique within the owning definition
	Index int `json:"index" yaml:"index"`

	Type Type `json:"type" yaml:"type"`

	// IsOptional is true when the declared type was a nullable wrapper
	IsOptional bool `json:"isOptional,omitzero" yaml:"isOptional,omitempty"`

	// DefaultValue is reserved and not emitted.
	DefaultValue any `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
}

// EnumValue is one enumerant. Value is the source ordinal, never renumbered.
type EnumValue struct {
	Name  string `json:"name" yaml:"name"`
	Value int64  `json:"value" yaml:"value"`
}

// Type is a reference to a schema type.
//
// Payload by kind:
//   - KindPrimitive: TypeName from the primitive vocabulary
//   - KindList: Elem
//   - KindStruct, KindEnum: TypeName and TypeID of the referenced type
//   - KindText, KindData, KindVoid, KindInterface: nothing
type Type struct {
	Kind     Kind   `json:"kind" yaml:"kind"`
	TypeName string `json:"typeName,omitempty" yaml:"typeName,omitempty"`
	TypeID   uint64 `json:"typeId,omitzero,string" yaml:"typeId,omitempty"`
	Elem     *Type  `json:"elementType,omitempty" yaml:"elementType,omitempty"`
}

// Primitive returns a primitive type reference.
func Primitive(name string) Type {
	return Type{Kind: KindPrimitive, TypeName: name}
}

// List wraps elem in a list type. The element is copied so the result owns it.
func List(elem Type) Type {
	e := elem
	return Type{Kind: KindList, Elem: &e}
}

// StructRef references a struct definition by name and identity.
func StructRef(name string, id uint64) Type {
	return Type{Kind: KindStruct, TypeName: name, TypeID: id}
}

// EnumRef references an enum definition by name and identity.
func EnumRef(name string, id uint64) Type {
	return Type{Kind: KindEnum, TypeName: name, TypeID: id}
}

// Text is the string type.
func Text() Type { return Type{Kind: KindText} }

// Data is the raw byte sequence type.
func Data() Type { return Type{Kind: KindData} }

// Void is the fallback for anything that cannot be classified.
func Void() Type { return Type{Kind: KindVoid} }
