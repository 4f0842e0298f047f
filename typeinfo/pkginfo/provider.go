// Package pkginfo implements typeinfo.Provider over go/types, loading source
// packages with golang.org/x/tools/go/packages.
//
// Source carries what runtime reflection cannot: enum constants, declaration
// order and doc comment directives. A type opts into schema generation with a
// directive in its doc comment:
//
//	//capnp:record
//	//capnp:id 0xE1C2A3B4D5F60718
//	type Person struct { ... }
//
// or by declaring a CapnpRecord method, which also works for imported packages.
package pkginfo

import (
	"context"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/tools/go/packages"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
	"github.com/teranos/schemagen/typeinfo"
)

// LoadMode is what the provider needs from packages.Load.
const LoadMode = packages.NeedName | packages.NeedFiles | packages.NeedTypes |
	packages.NeedSyntax | packages.NeedTypesInfo

const (
	directivePrefix = "//capnp:"
	recordDirective = "record"
	idDirective     = "id"
)

// Package is a loaded package and its exported named types in declaration order.
type Package struct {
	Name  string
	Path  string
	Dir   string
	Types []types.Type
}

// directives parsed from one type's doc comment
type directives struct {
	record bool
	id     uint64
	hasID  bool
}

// Provider answers metadata questions about go/types handles.
type Provider struct {
	packages   []Package
	directives map[*types.TypeName]directives
	scopes     map[*types.Package]*types.Scope

	mu    sync.Mutex
	enums map[*types.Named][]typeinfo.EnumMember
}

var _ typeinfo.Provider[types.Type] = (*Provider)(nil)

// Load type-checks the packages matching patterns, resolved relative to dir
// (the working directory when empty). Any package error fails the load.
func Load(ctx context.Context, dir string, patterns ...string) (*Provider, error) {
	if len(patterns) == 0 {
		return nil, errors.New("no package patterns given")
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode:    LoadMode,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load packages %s", strings.Join(patterns, " "))
	}
	if len(pkgs) == 0 {
		return nil, errors.Newf("no packages found for %s", strings.Join(patterns, " "))
	}

	var loadErrs []string
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			loadErrs = append(loadErrs, e.Error())
		}
	})
	if len(loadErrs) > 0 {
		err := errors.Newf("package errors in %s", strings.Join(patterns, " "))
		return nil, errors.WithDetail(err, strings.Join(loadErrs, "\n"))
	}

	return newProvider(pkgs), nil
}

func newProvider(pkgs []*packages.Package) *Provider {
	p := &Provider{
		directives: make(map[*types.TypeName]directives),
		scopes:     make(map[*types.Package]*types.Scope),
		enums:      make(map[*types.Named][]typeinfo.EnumMember),
	}

	for _, pkg := range pkgs {
		if pkg.Types == nil {
			continue
		}
		p.scopes[pkg.Types] = pkg.Types.Scope()
		for _, file := range pkg.Syntax {
			p.collectDirectives(file, pkg.TypesInfo)
		}
		p.packages = append(p.packages, Package{
			Name:  pkg.Name,
			Path:  pkg.PkgPath,
			Dir:   packageDir(pkg),
			Types: exportedTypes(pkg.Types),
		})
		logger.Debugw("loaded package",
			logger.FieldPackage, pkg.PkgPath,
			logger.FieldCount, len(p.packages[len(p.packages)-1].Types))
	}
	return p
}

// Packages lists the loaded packages in load order.
func (p *Provider) Packages() []Package {
	return p.packages
}

// Dirs lists the distinct source directories of the loaded packages.
func (p *Provider) Dirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, pkg := range p.packages {
		if pkg.Dir == "" || seen[pkg.Dir] {
			continue
		}
		seen[pkg.Dir] = true
		dirs = append(dirs, pkg.Dir)
	}
	return dirs
}

// NameOf returns the object name and package path of named types. Other types
// report their type string and no namespace.
func (p *Provider) NameOf(t types.Type) (string, string) {
	if t == nil {
		return "", ""
	}
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return types.TypeString(t, nil), ""
	}
	obj := named.Obj()
	if obj.Pkg() == nil {
		return obj.Name(), ""
	}
	return obj.Name(), obj.Pkg().Path()
}

// KindOf classifies t. Platform-sized int and uint are always 64-bit.
func (p *Provider) KindOf(t types.Type) typeinfo.Kind {
	if t == nil {
		return typeinfo.KindUnknown
	}
	t = types.Unalias(t)

	if named, ok := t.(*types.Named); ok {
		switch qualified(named) {
		case "time.Time":
			return typeinfo.KindTimestamp
		case "time.Duration":
			return typeinfo.KindDuration
		case "encoding/json.RawMessage":
			return typeinfo.KindBytes
		}
		if isSQLNull(named) {
			return typeinfo.KindNullable
		}
		if p.isEnum(named) {
			return typeinfo.KindEnum
		}
	}

	switch u := t.Underlying().(type) {
	case *types.Pointer:
		return typeinfo.KindNullable
	case *types.Basic:
		return basicKind(u)
	case *types.Slice:
		if p.isByte(u.Elem()) {
			return typeinfo.KindBytes
		}
		return typeinfo.KindList
	case *types.Array:
		if p.isByte(u.Elem()) {
			return typeinfo.KindBytes
		}
		return typeinfo.KindList
	case *types.Interface:
		return typeinfo.KindInterface
	case *types.Struct:
		return typeinfo.KindStruct
	default:
		return typeinfo.KindUnknown
	}
}

// ElemOf unwraps pointers, sql.Null wrappers, slices and arrays.
func (p *Provider) ElemOf(t types.Type) types.Type {
	if t == nil {
		return nil
	}
	t = types.Unalias(t)
	if named, ok := t.(*types.Named); ok && isSQLNull(named) {
		return named.Underlying().(*types.Struct).Field(0).Type()
	}
	switch u := t.Underlying().(type) {
	case *types.Pointer:
		return u.Elem()
	case *types.Slice:
		return u.Elem()
	case *types.Array:
		return u.Elem()
	}
	return nil
}

// EnumMembersOf lists the constants of t declared in its package, ordered by
// source position. A member name drops the type name prefix when one is present,
// so StatusActive becomes Active.
func (p *Provider) EnumMembersOf(t types.Type) []typeinfo.EnumMember {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return nil
	}
	return append([]typeinfo.EnumMember(nil), p.enumMembers(named)...)
}

// MethodsOf lists the exported methods an interface declares itself, in source
// order. Methods of embedded interfaces are not included.
func (p *Provider) MethodsOf(t types.Type) []string {
	if t == nil {
		return nil
	}
	iface, ok := t.Underlying().(*types.Interface)
	if !ok {
		return nil
	}

	methods := make([]*types.Func, 0, iface.NumExplicitMethods())
	for i := 0; i < iface.NumExplicitMethods(); i++ {
		if m := iface.ExplicitMethod(i); m.Exported() {
			methods = append(methods, m)
		}
	}
	sort.SliceStable(methods, func(i, j int) bool { return methods[i].Pos() < methods[j].Pos() })

	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.Name()
	}
	return names
}

// PropertiesOf finds accessor pairs among the methods declared on the named
// type. A getter is X() T; a setter is SetX(T). Properties come back in the
// order their first accessor is declared.
func (p *Provider) PropertiesOf(t types.Type) []typeinfo.Property[types.Type] {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return nil
	}
	if _, ok := named.Underlying().(*types.Struct); !ok {
		return nil
	}

	methods := make([]*types.Func, 0, named.NumMethods())
	for i := 0; i < named.NumMethods(); i++ {
		if m := named.Method(i); m.Exported() {
			methods = append(methods, m)
		}
	}
	sort.SliceStable(methods, func(i, j int) bool { return methods[i].Pos() < methods[j].Pos() })

	getters := make(map[string]types.Type)
	setters := make(map[string]types.Type)
	var order []string
	seen := make(map[string]bool)

	for _, m := range methods {
		sig := m.Type().(*types.Signature)
		switch {
		case sig.Params().Len() == 0 && sig.Results().Len() == 1:
			getters[m.Name()] = sig.Results().At(0).Type()
			if !seen[m.Name()] {
				seen[m.Name()] = true
				order = append(order, m.Name())
			}
		case strings.HasPrefix(m.Name(), "Set") && len(m.Name()) > 3 &&
			sig.Params().Len() == 1 && sig.Results().Len() == 0 && !sig.Variadic():
			name := strings.TrimPrefix(m.Name(), "Set")
			setters[name] = sig.Params().At(0).Type()
			if !seen[name] {
				seen[name] = true
				order = append(order, name)
			}
		}
	}

	props := make([]typeinfo.Property[types.Type], 0, len(order))
	for _, name := range order {
		getter, canRead := getters[name]
		setter, canWrite := setters[name]
		if canRead && canWrite && !types.Identical(getter, setter) {
			// Mismatched accessor types do not form a property
			canWrite = false
		}
		typ := getter
		if !canRead {
			typ = setter
		}
		props = append(props, typeinfo.Property[types.Type]{
			Member:   typeinfo.Member[types.Type]{Name: name, Type: typ, Nullable: p.isNullable(typ)},
			CanRead:  canRead,
			CanWrite: canWrite,
		})
	}
	return props
}

// FieldsOf lists exported, non-embedded fields. A capnp:"-" tag skips a field.
func (p *Provider) FieldsOf(t types.Type) []typeinfo.Member[types.Type] {
	if t == nil {
		return nil
	}
	st, ok := t.Underlying().(*types.Struct)
	if !ok {
		return nil
	}
	fields := make([]typeinfo.Member[types.Type], 0, st.NumFields())
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if !f.Exported() || f.Embedded() || reflect.StructTag(st.Tag(i)).Get("capnp") == "-" {
			continue
		}
		fields = append(fields, typeinfo.Member[types.Type]{
			Name:     f.Name(),
			Type:     f.Type(),
			Nullable: p.isNullable(f.Type()),
		})
	}
	return fields
}

// ExplicitIdentityOf returns the value of a //capnp:id directive.
func (p *Provider) ExplicitIdentityOf(t types.Type) (uint64, bool) {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return 0, false
	}
	d := p.directives[named.Origin().Obj()]
	return d.id, d.hasID
}

// IsSerializableRecord reports structs carrying a //capnp:record directive or
// declaring a CapnpRecord method on the value or pointer receiver.
func (p *Provider) IsSerializableRecord(t types.Type) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return false
	}
	if _, ok := named.Underlying().(*types.Struct); !ok {
		return false
	}
	if p.directives[named.Origin().Obj()].record {
		return true
	}
	mset := types.NewMethodSet(types.NewPointer(named))
	sel := mset.Lookup(nil, typeinfo.RecordMethod)
	if sel == nil {
		return false
	}
	sig := sel.Type().(*types.Signature)
	return sig.Params().Len() == 0 && sig.Results().Len() == 0
}

// isEnum reports named integer types with at least one constant of the type in
// their own package.
func (p *Provider) isEnum(named *types.Named) bool {
	basic, ok := named.Underlying().(*types.Basic)
	if !ok || basic.Info()&types.IsInteger == 0 {
		return false
	}
	return len(p.enumMembers(named)) > 0
}

func (p *Provider) enumMembers(named *types.Named) []typeinfo.EnumMember {
	p.mu.Lock()
	defer p.mu.Unlock()

	if members, ok := p.enums[named]; ok {
		return members
	}

	var members []typeinfo.EnumMember
	obj := named.Obj()
	if obj.Pkg() != nil {
		scope, ok := p.scopes[obj.Pkg()]
		if !ok {
			scope = obj.Pkg().Scope()
		}
		var consts []*types.Const
		for _, name := range scope.Names() {
			c, ok := scope.Lookup(name).(*types.Const)
			if !ok || !c.Exported() || !types.Identical(c.Type(), named) {
				continue
			}
			consts = append(consts, c)
		}
		sort.SliceStable(consts, func(i, j int) bool { return consts[i].Pos() < consts[j].Pos() })

		for _, c := range consts {
			value, exact := constant.Int64Val(constant.ToInt(c.Val()))
			if !exact {
				logger.Warnw("enum constant out of range",
					logger.FieldType, obj.Name(),
					"constant", c.Name())
				continue
			}
			members = append(members, typeinfo.EnumMember{
				Name:  memberName(obj.Name(), c.Name()),
				Value: value,
			})
		}
	}

	p.enums[named] = members
	return members
}

func (p *Provider) isNullable(t types.Type) bool {
	return p.KindOf(t) == typeinfo.KindNullable
}

func (p *Provider) collectDirectives(file *ast.File, info *types.Info) {
	if info == nil {
		return
	}
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			doc := ts.Doc
			if doc == nil && !gen.Lparen.IsValid() {
				doc = gen.Doc
			}
			d, found := parseDirectives(doc, ts.Name.Name)
			if !found {
				continue
			}
			if obj, ok := info.Defs[ts.Name].(*types.TypeName); ok {
				p.directives[obj] = d
			}
		}
	}
}

func parseDirectives(doc *ast.CommentGroup, typeName string) (directives, bool) {
	var d directives
	if doc == nil {
		return d, false
	}
	found := false
	for _, c := range doc.List {
		rest, ok := strings.CutPrefix(c.Text, directivePrefix)
		if !ok {
			continue
		}
		verb, arg, _ := strings.Cut(strings.TrimSpace(rest), " ")
		switch verb {
		case recordDirective:
			d.record = true
			found = true
		case idDirective:
			id, err := strconv.ParseUint(strings.TrimSpace(arg), 0, 64)
			if err != nil {
				logger.Warnw("ignoring malformed id directive",
					logger.FieldType, typeName,
					logger.FieldError, err.Error())
				continue
			}
			d.id, d.hasID = id, true
			found = true
		}
	}
	return d, found
}

func exportedTypes(pkg *types.Package) []types.Type {
	scope := pkg.Scope()
	var objs []*types.TypeName
	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !obj.Exported() || obj.IsAlias() {
			continue
		}
		objs = append(objs, obj)
	}
	// Positions grow with file order, so this is declaration order across files
	sort.SliceStable(objs, func(i, j int) bool { return objs[i].Pos() < objs[j].Pos() })

	out := make([]types.Type, len(objs))
	for i, obj := range objs {
		out[i] = obj.Type()
	}
	return out
}

func packageDir(pkg *packages.Package) string {
	if len(pkg.GoFiles) == 0 {
		return ""
	}
	return filepath.Dir(pkg.GoFiles[0])
}

func qualified(named *types.Named) string {
	obj := named.Obj()
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

// isSQLNull matches database/sql wrappers such as sql.NullString and sql.Null[T],
// whose first field holds the value.
func isSQLNull(named *types.Named) bool {
	obj := named.Obj()
	if obj.Pkg() == nil || obj.Pkg().Path() != "database/sql" || !strings.HasPrefix(obj.Name(), "Null") {
		return false
	}
	st, ok := named.Underlying().(*types.Struct)
	return ok && st.NumFields() > 0
}

// isByte reports raw byte elements. Enums backed by uint8 are not bytes.
func (p *Provider) isByte(t types.Type) bool {
	return p.KindOf(t) == typeinfo.KindUint8
}

func basicKind(b *types.Basic) typeinfo.Kind {
	switch b.Kind() {
	case types.Bool:
		return typeinfo.KindBool
	case types.Int8:
		return typeinfo.KindInt8
	case types.Uint8:
		return typeinfo.KindUint8
	case types.Int16:
		return typeinfo.KindInt16
	case types.Uint16:
		return typeinfo.KindUint16
	case types.Int32:
		return typeinfo.KindInt32
	case types.Uint32:
		return typeinfo.KindUint32
	case types.Int, types.Int64:
		return typeinfo.KindInt64
	case types.Uint, types.Uint64:
		return typeinfo.KindUint64
	case types.Float32:
		return typeinfo.KindFloat32
	case types.Float64:
		return typeinfo.KindFloat64
	case types.String:
		return typeinfo.KindString
	default:
		return typeinfo.KindUnknown
	}
}

func memberName(typeName, constName string) string {
	if rest, ok := strings.CutPrefix(constName, typeName); ok && rest != "" {
		return rest
	}
	return constName
}
