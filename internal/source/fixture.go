package source

import (
	"fmt"

	"wasmcore/internal/ast"
	"wasmcore/internal/types"
)

// FixtureProgram is the minimal in-memory Program builder SPEC_FULL.md's
// "Concrete Program/resolver fixture" section describes: since the upstream
// parser/resolver is out of scope, tests (and cmd/wasmcore's demo path)
// construct one of these directly instead of parsing surface syntax.
//
// Name resolution here is deliberately simple — a single flat table from the
// identifier text an expression carries to the Element it denotes — because
// a fixture's job is to drive the compiler, not to reimplement scoping.
type FixtureProgram struct {
	sources      []*ast.Source
	sourcesByPth map[string]*ast.Source
	symbols      map[string]*Element
	exports      map[string]map[string]*Element
	bindings     map[string]*Element
	typeNames    map[string]*types.Type
}

func NewFixtureProgram() *FixtureProgram {
	return &FixtureProgram{
		sourcesByPth: map[string]*ast.Source{},
		symbols:      map[string]*Element{},
		exports:      map[string]map[string]*Element{},
		bindings:     map[string]*Element{},
		typeNames:    defaultTypeNames(),
	}
}

func defaultTypeNames() map[string]*types.Type {
	return map[string]*types.Type{
		"void":   types.Void_(),
		"bool":   types.BoolT(),
		"i8":     types.I8T(),
		"i16":    types.I16T(),
		"i32":    types.I32T(),
		"i64":    types.I64T(),
		"u8":     types.U8T(),
		"u16":    types.U16T(),
		"u32":    types.U32T(),
		"u64":    types.U64T(),
		"f32":    types.F32T(),
		"f64":    types.F64T(),
		"usize":  types.UsizeT(),
	}
}

func (p *FixtureProgram) AddSource(src *ast.Source) {
	p.sources = append(p.sources, src)
	p.sourcesByPth[src.NormalizedPath] = src
}

// Bind registers an identifier-name-to-Element binding used by
// ResolveElement, and, for named top-level elements, the symbol table.
func (p *FixtureProgram) Bind(name string, el *Element) {
	p.bindings[name] = el
	p.symbols[el.InternalName] = el
}

// Export marks name (as already Bound) as an export of sourcePath.
func (p *FixtureProgram) Export(sourcePath, name string) {
	el, ok := p.bindings[name]
	if !ok {
		panic(fmt.Sprintf("source: Export of unbound name %q", name))
	}
	m, ok := p.exports[sourcePath]
	if !ok {
		m = map[string]*Element{}
		p.exports[sourcePath] = m
	}
	m[name] = el
}

func (p *FixtureProgram) BindClassName(name string, t *types.Type) {
	p.typeNames[name] = t
}

func (p *FixtureProgram) Initialize(target types.Target) error { return nil }

func (p *FixtureProgram) Sources() []*ast.Source { return p.sources }

func (p *FixtureProgram) SourceByPath(normalizedPath string) (*ast.Source, bool) {
	s, ok := p.sourcesByPth[normalizedPath]
	return s, ok
}

func (p *FixtureProgram) Symbols() map[string]*Element { return p.symbols }

func (p *FixtureProgram) Exports(sourcePath string) map[string]*Element {
	return p.exports[sourcePath]
}

func (p *FixtureProgram) ResolveType(node ast.TypeExpr, contextualArgs []*types.Type, reportErrors bool) (*types.Type, error) {
	named, ok := node.(*ast.NamedType)
	if !ok {
		if reportErrors {
			return nil, fmt.Errorf("unsupported type expression %T", node)
		}
		return nil, nil
	}
	if t, ok := p.typeNames[named.Name]; ok {
		return t, nil
	}
	if reportErrors {
		return nil, fmt.Errorf("unknown type %q", named.Name)
	}
	return nil, nil
}

func (p *FixtureProgram) ResolveElement(expr ast.Expr, currentFunction *Function) (*Element, error) {
	var name string
	switch e := expr.(type) {
	case *ast.IdentExpr:
		name = e.Name
	case *ast.MemberExpr:
		// Property/member resolution is a design seam (spec.md §4.3); the
		// fixture only resolves bare identifiers.
		return nil, nil
	default:
		return nil, nil
	}
	el, ok := p.bindings[name]
	if !ok {
		return nil, nil
	}
	return el, nil
}

// ---- Element constructors used by tests ----

func NewGlobal(internalName string, t *types.Type, export bool, constVal *ConstValue, init ast.Expr) *Element {
	return &Element{
		Kind:         KindGlobal,
		InternalName: internalName,
		GlobalInfo: &Global{
			InternalName: internalName,
			Type:         t,
			Export:       export,
			Const:        constVal,
			Init:         init,
		},
	}
}

func NewEnum(internalName string, export bool, members []*EnumMember) *Element {
	return &Element{
		Kind:         KindEnum,
		InternalName: internalName,
		EnumInfo:     &Enum{InternalName: internalName, Export: export, Members: members},
	}
}

// NewFunctionPrototype builds a (possibly generic) prototype. resolve is
// called for each distinct type-argument list a caller requests; non-generic
// prototypes should ignore typeArgs and always return the same *Function.
func NewFunctionPrototype(internalName string, generic bool, typeParams []string, resolve func(typeArgs []*types.Type) (*Function, error)) *Element {
	return &Element{
		Kind:         KindFunctionPrototype,
		InternalName: internalName,
		FuncProtoInfo: &FunctionPrototype{
			InternalName: internalName,
			Generic:      generic,
			TypeParams:   typeParams,
			resolve:      resolve,
		},
	}
}

// NewSimpleFunctionPrototype is the common case: a non-generic function with
// one fixed instance.
func NewSimpleFunctionPrototype(fn *Function) *Element {
	return NewFunctionPrototype(fn.InternalName, false, nil, func([]*types.Type) (*Function, error) {
		return fn, nil
	})
}

func NewBuiltinPrototype(internalName, builtinKey string) *Element {
	fn := &Function{InternalName: internalName, IsBuiltin: true, BuiltinKey: builtinKey}
	el := NewSimpleFunctionPrototype(fn)
	el.FuncProtoInfo.IsBuiltin = true
	el.FuncProtoInfo.BuiltinKey = builtinKey
	return el
}
