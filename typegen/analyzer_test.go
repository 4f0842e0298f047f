package typegen_test

import (
	"database/sql"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/schema"
	"github.com/teranos/schemagen/typegen"
	"github.com/teranos/schemagen/typeinfo"
	"github.com/teranos/schemagen/typeinfo/reflectinfo"
)

const testNamespace = "github.com/teranos/schemagen/typegen_test"

type Person struct {
	Name   string
	Age    int32
	Active bool
}

type Status int

const (
	StatusNone Status = iota
	StatusActive
	StatusInactive
	StatusPending
)

type Greeter interface {
	Greet()
	Wave(times int) error
}

type Address struct {
	Street string
}

type Account struct {
	balance  int64
	note     string
	Owner    string
	Tags     []string
	Nickname *string
	Home     Address
	Status   Status
	Matrix   [][]int16
	Opened   time.Time
	Memo     sql.NullString
	Lookup   map[string]int
}

func (a *Account) Balance() int64     { return a.balance }
func (a *Account) SetBalance(v int64) { a.balance = v }
func (a *Account) Note() string       { return a.note }
func (a *Account) SetLimit(v int32)   {}
func (*Account) CapnpRecord()         {}

type Node struct {
	Value    int64
	Children []Node
	Parent   *Node
}

func (Node) CapnpRecord() {}

type Tier uint8

type Plan struct {
	Tiers  []Tier
	Levels [2]Tier
	Top    Tier
	Raw    []uint8
}

func newProvider() *reflectinfo.Provider {
	p := reflectinfo.New()
	p.RegisterRecord(reflect.TypeFor[Person]())
	p.SetIdentity(reflect.TypeFor[Person](), 0x10)
	p.RegisterRecord(reflect.TypeFor[Address]())
	p.RegisterEnum(reflect.TypeFor[Status](),
		typeinfo.EnumMember{Name: "None", Value: 0},
		typeinfo.EnumMember{Name: "Active", Value: 1},
		typeinfo.EnumMember{Name: "Inactive", Value: 2},
		typeinfo.EnumMember{Name: "Pending", Value: 3},
	)
	return p
}

func TestAnalyze_Person(t *testing.T) {
	a := typegen.NewAnalyzer[reflect.Type](newProvider())

	def, err := a.Analyze(reflect.TypeFor[Person]())
	require.NoError(t, err)

	assert.Equal(t, "Person", def.Name)
	assert.Equal(t, testNamespace, def.Namespace)
	assert.Equal(t, uint64(0x10), def.TypeID)
	assert.Equal(t, schema.KindStruct, def.Kind)
	assert.Empty(t, def.EnumValues)
	assert.Empty(t, def.NestedTypes)

	assert.Equal(t, []schema.Field{
		{Name: "Name", Index: 0, Type: schema.Text()},
		{Name: "Age", Index: 1, Type: schema.Primitive(schema.PrimitiveInt32)},
		{Name: "Active", Index: 2, Type: schema.Primitive(schema.PrimitiveBool)},
	}, def.Fields)
}

func TestAnalyze_EnumFidelity(t *testing.T) {
	a := typegen.NewAnalyzer[reflect.Type](newProvider())

	def, err := a.Analyze(reflect.TypeFor[Status]())
	require.NoError(t, err)

	assert.Equal(t, schema.KindEnum, def.Kind)
	assert.Empty(t, def.Fields)
	assert.Equal(t, []schema.EnumValue{
		{Name: "None", Value: 0},
		{Name: "Active", Value: 1},
		{Name: "Inactive", Value: 2},
		{Name: "Pending", Value: 3},
	}, def.EnumValues)
}

func TestAnalyze_EnumOrdinalsNotRenumbered(t *testing.T) {
	p := reflectinfo.New()
	p.RegisterEnum(reflect.TypeFor[Status](),
		typeinfo.EnumMember{Name: "Pending", Value: 30},
		typeinfo.EnumMember{Name: "None", Value: 0},
		typeinfo.EnumMember{Name: "Active", Value: 7},
	)
	a := typegen.NewAnalyzer[reflect.Type](p)

	def, err := a.Analyze(reflect.TypeFor[Status]())
	require.NoError(t, err)
	assert.Equal(t, []schema.EnumValue{
		{Name: "Pending", Value: 30},
		{Name: "None", Value: 0},
		{Name: "Active", Value: 7},
	}, def.EnumValues)
}

func TestAnalyze_Interface(t *testing.T) {
	a := typegen.NewAnalyzer[reflect.Type](newProvider())

	def, err := a.Analyze(reflect.TypeFor[Greeter]())
	require.NoError(t, err)

	assert.Equal(t, schema.KindInterface, def.Kind)
	require.Len(t, def.Fields, 2)
	assert.Equal(t, schema.Field{Name: "Greet", Index: 0, Type: schema.Void()}, def.Fields[0])
	assert.Equal(t, schema.Field{Name: "Wave", Index: 1, Type: schema.Void()}, def.Fields[1])
}

func TestAnalyze_PropertiesBeforeFields(t *testing.T) {
	p := newProvider()
	a := typegen.NewAnalyzer[reflect.Type](p)

	def, err := a.Analyze(reflect.TypeFor[Account]())
	require.NoError(t, err)

	names := make([]string, 0, len(def.Fields))
	for i, f := range def.Fields {
		assert.Equal(t, i, f.Index, "index of %s", f.Name)
		names = append(names, f.Name)
	}
	// Note is read-only and Limit is write-only: neither takes an index
	assert.Equal(t, []string{
		"Balance", "Owner", "Tags", "Nickname", "Home", "Status", "Matrix", "Opened", "Memo", "Lookup",
	}, names)

	byName := make(map[string]schema.Field)
	for _, f := range def.Fields {
		byName[f.Name] = f
	}

	assert.Equal(t, schema.Primitive(schema.PrimitiveInt64), byName["Balance"].Type)
	assert.Equal(t, schema.List(schema.Text()), byName["Tags"].Type)

	assert.True(t, byName["Nickname"].IsOptional)
	assert.Equal(t, schema.Text(), byName["Nickname"].Type)
	assert.True(t, byName["Memo"].IsOptional)
	assert.Equal(t, schema.Text(), byName["Memo"].Type)
	assert.False(t, byName["Owner"].IsOptional)

	addressID := a.TypeID(reflect.TypeFor[Address]())
	assert.Equal(t, schema.StructRef("Address", addressID), byName["Home"].Type)
	assert.Equal(t, schema.EnumRef("Status", schema.DeriveID(testNamespace+".Status")), byName["Status"].Type)
	assert.Equal(t, schema.List(schema.List(schema.Primitive(schema.PrimitiveInt16))), byName["Matrix"].Type)
	assert.Equal(t, schema.Primitive(schema.PrimitiveInt64), byName["Opened"].Type)
	assert.Equal(t, schema.Void(), byName["Lookup"].Type)
}

func TestAnalyze_SelfReference(t *testing.T) {
	a := typegen.NewAnalyzer[reflect.Type](reflectinfo.New())

	def, err := a.Analyze(reflect.TypeFor[Node]())
	require.NoError(t, err)

	id := schema.DeriveID(testNamespace + ".Node")
	assert.Equal(t, id, def.TypeID)
	require.Len(t, def.Fields, 3)
	assert.Equal(t, schema.List(schema.StructRef("Node", id)), def.Fields[1].Type)
	assert.Equal(t, schema.StructRef("Node", id), def.Fields[2].Type)
	assert.True(t, def.Fields[2].IsOptional)
}

func TestAnalyze_Errors(t *testing.T) {
	a := typegen.NewAnalyzer[reflect.Type](newProvider())

	_, err := a.Analyze(nil)
	require.Error(t, err)
	assert.True(t, errors.IsNullInput(err))

	_, err = a.Analyze(reflect.TypeFor[string]())
	require.Error(t, err)
	assert.True(t, errors.IsUnsupportedTypeKind(err))
	assert.Contains(t, err.Error(), "string")

	// A struct that never opted in is not a record
	type plain struct{ X int }
	_, err = a.Analyze(reflect.TypeFor[plain]())
	require.Error(t, err)
	assert.True(t, errors.IsUnsupportedTypeKind(err))
	assert.Contains(t, err.Error(), "plain")
}

func TestAnalyze_IdentityStability(t *testing.T) {
	a := typegen.NewAnalyzer[reflect.Type](newProvider())

	first, err := a.Analyze(reflect.TypeFor[Address]())
	require.NoError(t, err)
	second, err := a.Analyze(reflect.TypeFor[Address]())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, schema.DeriveID(testNamespace+".Address"), first.TypeID)
	assert.NotEqual(t, first.TypeID, schema.DeriveID(testNamespace+".Person"))
}

func TestMapType_Total(t *testing.T) {
	a := typegen.NewAnalyzer[reflect.Type](newProvider())

	assert.Equal(t, schema.Void(), a.MapType(nil))
	assert.Equal(t, schema.Void(), a.MapType(reflect.TypeFor[chan int]()))
	assert.Equal(t, schema.Void(), a.MapType(reflect.TypeFor[func()]()))
	assert.Equal(t, schema.Void(), a.MapType(reflect.TypeFor[Greeter]()))
	assert.Equal(t, schema.Data(), a.MapType(reflect.TypeFor[[]byte]()))
	assert.Equal(t, schema.List(schema.Data()), a.MapType(reflect.TypeFor[[][]byte]()))
	assert.Equal(t, schema.Primitive(schema.PrimitiveInt64), a.MapType(reflect.TypeFor[time.Duration]()))
	assert.Equal(t, schema.Primitive(schema.PrimitiveUInt64), a.MapType(reflect.TypeFor[*uint]()))
}

func TestAnalyze_ByteBackedEnumList(t *testing.T) {
	p := reflectinfo.New()
	p.RegisterEnum(reflect.TypeFor[Tier](),
		typeinfo.EnumMember{Name: "Free", Value: 0},
		typeinfo.EnumMember{Name: "Pro", Value: 1},
	)
	p.RegisterRecord(reflect.TypeFor[Plan]())
	a := typegen.NewAnalyzer[reflect.Type](p)

	def, err := a.Analyze(reflect.TypeFor[Plan]())
	require.NoError(t, err)
	require.Len(t, def.Fields, 4)

	tier := schema.EnumRef("Tier", schema.DeriveID(testNamespace+".Tier"))
	assert.Equal(t, schema.List(tier), def.Fields[0].Type)
	assert.Equal(t, schema.List(tier), def.Fields[1].Type)
	assert.Equal(t, tier, def.Fields[2].Type)
	assert.Equal(t, schema.Data(), def.Fields[3].Type)
}

func TestMapType_Primitives(t *testing.T) {
	a := typegen.NewAnalyzer[reflect.Type](reflectinfo.New())

	tests := []struct {
		typ  reflect.Type
		want string
	}{
		{reflect.TypeFor[bool](), schema.PrimitiveBool},
		{reflect.TypeFor[int8](), schema.PrimitiveInt8},
		{reflect.TypeFor[uint8](), schema.PrimitiveUInt8},
		{reflect.TypeFor[int16](), schema.PrimitiveInt16},
		{reflect.TypeFor[uint16](), schema.PrimitiveUInt16},
		{reflect.TypeFor[int32](), schema.PrimitiveInt32},
		{reflect.TypeFor[uint32](), schema.PrimitiveUInt32},
		{reflect.TypeFor[int64](), schema.PrimitiveInt64},
		{reflect.TypeFor[int](), schema.PrimitiveInt64},
		{reflect.TypeFor[uint64](), schema.PrimitiveUInt64},
		{reflect.TypeFor[uint](), schema.PrimitiveUInt64},
		{reflect.TypeFor[float32](), schema.PrimitiveFloat32},
		{reflect.TypeFor[float64](), schema.PrimitiveFloat64},
		{reflect.TypeFor[time.Time](), schema.PrimitiveInt64},
		{reflect.TypeFor[time.Duration](), schema.PrimitiveInt64},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, schema.Primitive(tt.want), a.MapType(tt.typ))
			assert.Equal(t, schema.List(schema.Primitive(tt.want)), a.MapType(reflect.SliceOf(reflect.PointerTo(tt.typ))))
		})
	}

	assert.Equal(t, schema.Text(), a.MapType(reflect.TypeFor[string]()))
}
