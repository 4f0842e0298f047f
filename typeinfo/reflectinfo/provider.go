// Package reflectinfo implements typeinfo.Provider over runtime reflection.
//
// Go has no runtime enum members or record annotations, so a Provider learns them
// either from its registry (RegisterEnum, RegisterRecord, SetIdentity) or from the
// marker interfaces in package typeinfo implemented by the type itself.
package reflectinfo

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/teranos/schemagen/typeinfo"
)

var (
	timeType       = reflect.TypeFor[time.Time]()
	durationType   = reflect.TypeFor[time.Duration]()
	rawMessageType = reflect.TypeFor[json.RawMessage]()

	recordType     = reflect.TypeFor[typeinfo.Record]()
	identifiedType = reflect.TypeFor[typeinfo.Identified]()
	enumeratedType = reflect.TypeFor[typeinfo.Enumerated]()
)

// Provider answers metadata questions about reflect.Type handles.
type Provider struct {
	mu      sync.RWMutex
	enums   map[reflect.Type][]typeinfo.EnumMember
	records map[reflect.Type]bool
	ids     map[reflect.Type]uint64
}

var _ typeinfo.Provider[reflect.Type] = (*Provider)(nil)

// New creates a provider with an empty registry.
func New() *Provider {
	return &Provider{
		enums:   make(map[reflect.Type][]typeinfo.EnumMember),
		records: make(map[reflect.Type]bool),
		ids:     make(map[reflect.Type]uint64),
	}
}

// RegisterEnum declares t as an enum with the given members in declaration order.
func (p *Provider) RegisterEnum(t reflect.Type, members ...typeinfo.EnumMember) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enums[t] = append([]typeinfo.EnumMember(nil), members...)
}

// RegisterRecord marks the struct t as a serializable record.
func (p *Provider) RegisterRecord(t reflect.Type) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records[t] = true
}

// SetIdentity attaches an explicit schema identity to t.
func (p *Provider) SetIdentity(t reflect.Type, id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids[t] = id
}

// NameOf returns the type name and package path. Unnamed types report their
// type string and no namespace.
func (p *Provider) NameOf(t reflect.Type) (string, string) {
	if t == nil {
		return "", ""
	}
	if t.Name() == "" {
		return t.String(), ""
	}
	return t.Name(), t.PkgPath()
}

// KindOf classifies t. Platform-sized int and uint are always 64-bit.
func (p *Provider) KindOf(t reflect.Type) typeinfo.Kind {
	if t == nil {
		return typeinfo.KindUnknown
	}

	switch {
	case t == timeType:
		return typeinfo.KindTimestamp
	case t == durationType:
		return typeinfo.KindDuration
	case t == rawMessageType:
		return typeinfo.KindBytes
	case isSQLNull(t):
		return typeinfo.KindNullable
	case p.isEnum(t):
		return typeinfo.KindEnum
	}

	switch t.Kind() {
	case reflect.Pointer:
		return typeinfo.KindNullable
	case reflect.Bool:
		return typeinfo.KindBool
	case reflect.Int8:
		return typeinfo.KindInt8
	case reflect.Uint8:
		return typeinfo.KindUint8
	case reflect.Int16:
		return typeinfo.KindInt16
	case reflect.Uint16:
		return typeinfo.KindUint16
	case reflect.Int32:
		return typeinfo.KindInt32
	case reflect.Uint32:
		return typeinfo.KindUint32
	case reflect.Int, reflect.Int64:
		return typeinfo.KindInt64
	case reflect.Uint, reflect.Uint64:
		return typeinfo.KindUint64
	case reflect.Float32:
		return typeinfo.KindFloat32
	case reflect.Float64:
		return typeinfo.KindFloat64
	case reflect.String:
		return typeinfo.KindString
	case reflect.Slice, reflect.Array:
		// A list of a uint8-backed enum stays a list
		if p.KindOf(t.Elem()) == typeinfo.KindUint8 {
			return typeinfo.KindBytes
		}
		return typeinfo.KindList
	case reflect.Interface:
		return typeinfo.KindInterface
	case reflect.Struct:
		return typeinfo.KindStruct
	default:
		return typeinfo.KindUnknown
	}
}

// ElemOf unwraps pointers, sql.Null wrappers, slices and arrays.
func (p *Provider) ElemOf(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}
	if isSQLNull(t) {
		return t.Field(0).Type
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array:
		return t.Elem()
	}
	return nil
}

// EnumMembersOf returns registered members, falling back to the Enumerated marker.
func (p *Provider) EnumMembersOf(t reflect.Type) []typeinfo.EnumMember {
	p.mu.RLock()
	members, ok := p.enums[t]
	p.mu.RUnlock()
	if ok {
		return append([]typeinfo.EnumMember(nil), members...)
	}
	if e, ok := zeroAs[typeinfo.Enumerated](t, enumeratedType); ok {
		return e.CapnpEnumerants()
	}
	return nil
}

// MethodsOf lists exported interface methods in reflect order, which is sorted by
// name. Methods promoted from embedded interfaces are indistinguishable at run
// time and are included.
func (p *Provider) MethodsOf(t reflect.Type) []string {
	if t == nil || t.Kind() != reflect.Interface {
		return nil
	}
	names := make([]string, 0, t.NumMethod())
	for i := 0; i < t.NumMethod(); i++ {
		if m := t.Method(i); m.IsExported() {
			names = append(names, m.Name)
		}
	}
	return names
}

// PropertiesOf finds accessor pairs in the method set of *t. A getter is X() T;
// a setter is SetX(T). Properties come back in method order.
func (p *Provider) PropertiesOf(t reflect.Type) []typeinfo.Property[reflect.Type] {
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	pt := reflect.PointerTo(t)
	getters := make(map[string]reflect.Type)
	setters := make(map[string]reflect.Type)
	var order []string
	seen := make(map[string]bool)

	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		// Method types on a reflect.Type include the receiver
		switch {
		case m.Type.NumIn() == 1 && m.Type.NumOut() == 1:
			getters[m.Name] = m.Type.Out(0)
			if !seen[m.Name] {
				seen[m.Name] = true
				order = append(order, m.Name)
			}
		case strings.HasPrefix(m.Name, "Set") && len(m.Name) > 3 && m.Type.NumIn() == 2 && m.Type.NumOut() == 0:
			name := strings.TrimPrefix(m.Name, "Set")
			setters[name] = m.Type.In(1)
			if !seen[name] {
				seen[name] = true
				order = append(order, name)
			}
		}
	}

	props := make([]typeinfo.Property[reflect.Type], 0, len(order))
	for _, name := range order {
		getter, canRead := getters[name]
		setter, canWrite := setters[name]
		if canRead && canWrite && getter != setter {
			// Mismatched accessor types do not form a property
			canWrite = false
		}
		typ := getter
		if !canRead {
			typ = setter
		}
		props = append(props, typeinfo.Property[reflect.Type]{
			Member:   typeinfo.Member[reflect.Type]{Name: name, Type: typ, Nullable: p.isNullable(typ)},
			CanRead:  canRead,
			CanWrite: canWrite,
		})
	}
	return props
}

// FieldsOf lists exported, non-embedded fields. A capnp:"-" tag skips a field.
func (p *Provider) FieldsOf(t reflect.Type) []typeinfo.Member[reflect.Type] {
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	fields := make([]typeinfo.Member[reflect.Type], 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Anonymous || f.Tag.Get("capnp") == "-" {
			continue
		}
		fields = append(fields, typeinfo.Member[reflect.Type]{
			Name:     f.Name,
			Type:     f.Type,
			Nullable: p.isNullable(f.Type),
		})
	}
	return fields
}

// ExplicitIdentityOf returns a registered identity or the Identified marker value.
func (p *Provider) ExplicitIdentityOf(t reflect.Type) (uint64, bool) {
	p.mu.RLock()
	id, ok := p.ids[t]
	p.mu.RUnlock()
	if ok {
		return id, true
	}
	if v, ok := zeroAs[typeinfo.Identified](t, identifiedType); ok {
		return v.CapnpID(), true
	}
	return 0, false
}

// IsSerializableRecord reports registered structs and structs implementing
// typeinfo.Record on the value or pointer receiver.
func (p *Provider) IsSerializableRecord(t reflect.Type) bool {
	if t == nil || t.Kind() != reflect.Struct {
		return false
	}
	p.mu.RLock()
	registered := p.records[t]
	p.mu.RUnlock()
	return registered || t.Implements(recordType) || reflect.PointerTo(t).Implements(recordType)
}

func (p *Provider) isEnum(t reflect.Type) bool {
	if !isInteger(t.Kind()) {
		return false
	}
	p.mu.RLock()
	_, ok := p.enums[t]
	p.mu.RUnlock()
	return ok || t.Implements(enumeratedType) || reflect.PointerTo(t).Implements(enumeratedType)
}

func (p *Provider) isNullable(t reflect.Type) bool {
	return p.KindOf(t) == typeinfo.KindNullable
}

// isSQLNull matches database/sql wrappers such as sql.NullString and sql.Null[T],
// whose first field holds the value.
func isSQLNull(t reflect.Type) bool {
	return t.Kind() == reflect.Struct &&
		t.PkgPath() == "database/sql" &&
		strings.HasPrefix(t.Name(), "Null") &&
		t.NumField() > 0
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// zeroAs returns a pointer to a fresh zero value of t as I when *t implements
// iface. Value-receiver methods are in the pointer method set too.
func zeroAs[I any](t reflect.Type, iface reflect.Type) (I, bool) {
	var none I
	if t == nil || t.Kind() == reflect.Interface {
		return none, false
	}
	if !reflect.PointerTo(t).Implements(iface) {
		return none, false
	}
	v, ok := reflect.New(t).Interface().(I)
	return v, ok
}
