package typegen

import (
	"github.com/teranos/schemagen/schema"
	"github.com/teranos/schemagen/typeinfo"
)

// primitives is the fixed host-to-schema primitive vocabulary.
// Timestamps and durations are carried as 64-bit integer counts.
var primitives = map[typeinfo.Kind]string{
	typeinfo.KindBool:      schema.PrimitiveBool,
	typeinfo.KindInt8:      schema.PrimitiveInt8,
	typeinfo.KindUint8:     schema.PrimitiveUInt8,
	typeinfo.KindInt16:     schema.PrimitiveInt16,
	typeinfo.KindUint16:    schema.PrimitiveUInt16,
	typeinfo.KindInt32:     schema.PrimitiveInt32,
	typeinfo.KindUint32:    schema.PrimitiveUInt32,
	typeinfo.KindInt64:     schema.PrimitiveInt64,
	typeinfo.KindUint64:    schema.PrimitiveUInt64,
	typeinfo.KindFloat32:   schema.PrimitiveFloat32,
	typeinfo.KindFloat64:   schema.PrimitiveFloat64,
	typeinfo.KindTimestamp: schema.PrimitiveInt64,
	typeinfo.KindDuration:  schema.PrimitiveInt64,
}

// MapType resolves a member type to a schema type reference. It never fails:
// anything it cannot classify becomes Void.
//
// Struct and enum references only resolve a name and an identity, so a type that
// refers back to itself does not recurse.
func (a *Analyzer[H]) MapType(h H) schema.Type {
	var zero H
	if h == zero {
		return schema.Void()
	}

	kind := a.provider.KindOf(h)
	if kind == typeinfo.KindNullable {
		h = a.provider.ElemOf(h)
		if h == zero {
			return schema.Void()
		}
		kind = a.provider.KindOf(h)
	}

	if kind == typeinfo.KindList {
		return schema.List(a.MapType(a.provider.ElemOf(h)))
	}

	if name, ok := primitives[kind]; ok {
		return schema.Primitive(name)
	}

	switch kind {
	case typeinfo.KindString:
		return schema.Text()
	case typeinfo.KindBytes:
		return schema.Data()
	case typeinfo.KindEnum:
		name, _ := a.provider.NameOf(h)
		return schema.EnumRef(name, a.TypeID(h))
	case typeinfo.KindStruct:
		if a.provider.IsSerializableRecord(h) {
			name, _ := a.provider.NameOf(h)
			return schema.StructRef(name, a.TypeID(h))
		}
	}

	return schema.Void()
}
