// Package typeinfo abstracts the host type metadata that schema analysis reads.
//
// A Provider answers capability questions about an opaque type handle H. The
// analyzer in package typegen only talks to this interface, so it does not care
// whether metadata comes from runtime reflection (reflectinfo) or from loading
// source with go/types (pkginfo).
package typeinfo

// Kind classifies a handle for the type mapper.
type Kind int

const (
	KindUnknown Kind = iota
	KindBool
	KindInt8
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindBytes     // raw byte sequence
	KindTimestamp // absolute instant
	KindDuration  // elapsed time span
	KindList      // ordered collection; ElemOf gives the element
	KindNullable  // nullable wrapper; ElemOf gives the wrapped type
	KindEnum
	KindInterface
	KindStruct
)

var kindNames = [...]string{
	KindUnknown:   "unknown",
	KindBool:      "bool",
	KindInt8:      "int8",
	KindUint8:     "uint8",
	KindInt16:     "int16",
	KindUint16:    "uint16",
	KindInt32:     "int32",
	KindUint32:    "uint32",
	KindInt64:     "int64",
	KindUint64:    "uint64",
	KindFloat32:   "float32",
	KindFloat64:   "float64",
	KindString:    "string",
	KindBytes:     "bytes",
	KindTimestamp: "timestamp",
	KindDuration:  "duration",
	KindList:      "list",
	KindNullable:  "nullable",
	KindEnum:      "enum",
	KindInterface: "interface",
	KindStruct:    "struct",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// EnumMember is one declared enumerant and its underlying ordinal.
type EnumMember struct {
	Name  string
	Value int64
}

// Member is a struct field or the value side of a property.
type Member[H any] struct {
	Name string
	Type H
	// Nullable is true when the declared type is a nullable wrapper
	Nullable bool
}

// Property is an accessor pair (X() T / SetX(T)) declared on a type.
// Only properties that are both readable and writable become schema fields.
type Property[H any] struct {
	Member[H]
	CanRead  bool
	CanWrite bool
}

// Provider supplies type metadata for handles of type H. The zero H is treated
// as an absent type. Implementations must be safe for concurrent reads.
type Provider[H comparable] interface {
	// NameOf returns the bare type name and its namespace (package path).
	NameOf(h H) (name, namespace string)

	// KindOf classifies h.
	KindOf(h H) Kind

	// ElemOf returns the element of a KindList handle or the wrapped type of a
	// KindNullable handle, and the zero H otherwise.
	ElemOf(h H) H

	// EnumMembersOf lists enumerants in declaration order.
	EnumMembersOf(h H) []EnumMember

	// MethodsOf lists the exported, directly declared method names of an
	// interface in declaration order.
	MethodsOf(h H) []string

	// PropertiesOf lists accessor pairs in declaration order, including
	// read-only and write-only ones.
	PropertiesOf(h H) []Property[H]

	// FieldsOf lists exported plain fields in declaration order.
	FieldsOf(h H) []Member[H]

	// ExplicitIdentityOf returns an identity the author attached to the type.
	ExplicitIdentityOf(h H) (uint64, bool)

	// IsSerializableRecord reports whether h is a struct opted into schema
	// generation.
	IsSerializableRecord(h H) bool
}

// Record is implemented by structs that opt into schema generation.
type Record interface {
	CapnpRecord()
}

// Identified is implemented by types that carry an explicit schema identity.
type Identified interface {
	CapnpID() uint64
}

// Enumerated is implemented by named integer types that list their enumerants.
type Enumerated interface {
	CapnpEnumerants() []EnumMember
}

// Marker method names, used by providers that inspect method sets statically.
const (
	RecordMethod     = "CapnpRecord"
	IdentifiedMethod = "CapnpID"
	EnumeratedMethod = "CapnpEnumerants"
)
