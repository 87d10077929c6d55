package main

import (
	"fmt"

	"wasmcore/internal/ast"
	"wasmcore/internal/source"
	"wasmcore/internal/types"
)

// Demos are small hand-assembled fixtures exercising the pipeline end to
// end, standing in for the (out-of-scope) parser: each builds an
// ast.Source plus a source.FixtureProgram binding its names directly,
// rather than parsing surface syntax (SPEC_FULL.md "build from a
// hand-assembled fixture" demo path).
var demos = map[string]func() *source.FixtureProgram{
	"add":    buildAddDemo,
	"sum-to": buildSumToDemo,
	"seed":   buildSeedDemo,
}

func demoNames() []string {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}
	return names
}

// buildAddDemo: `export function add(a: i32, b: i32): i32 { return a + b; }`
func buildAddDemo() *source.FixtureProgram {
	p := source.NewFixtureProgram()

	a := &source.Local{Index: 0, Type: types.I32T(), Name: "a"}
	b := &source.Local{Index: 1, Type: types.I32T(), Name: "b"}

	body := &ast.BlockStmt{Stmts: []ast.Stmt{
		&ast.ReturnStmt{Value: &ast.BinaryExpr{
			Op:    ast.OpAdd,
			Left:  &ast.IdentExpr{Name: "a"},
			Right: &ast.IdentExpr{Name: "b"},
		}},
	}}

	fn := &source.Function{
		InternalName:     "add",
		Params:           []*source.Local{a, b},
		ReturnType:       types.I32T(),
		Body:             body,
		GlobalExportName: "add",
		Locals:           []*source.Local{a, b},
	}

	p.Bind("a", &source.Element{Kind: source.KindParameter, InternalName: "a", ParamInfo: a})
	p.Bind("b", &source.Element{Kind: source.KindParameter, InternalName: "b", ParamInfo: b})
	p.Bind("add", source.NewSimpleFunctionPrototype(fn))

	src := &ast.Source{
		NormalizedPath: "add.demo",
		IsEntry:        true,
		Statements:     []ast.Stmt{&ast.FuncDeclStmt{Name: "add", Export: true, Params: []ast.Param{{Name: "a"}, {Name: "b"}}, Body: body}},
	}
	p.AddSource(src)
	p.Export(src.NormalizedPath, "add")
	return p
}

// buildSumToDemo: `export function sumTo(n: i32): i32 { i = 0; total = 0;
// while (i < n) { total = total + i; ++i; } return total; }` — `i`
// and `total` are pre-declared locals (like params) initialized by plain
// assignment rather than `var`, so the fixture's static name table can bind
// them to their eventual *Local before any statement lowering runs; see
// findLocal's duplicate-declaration check in statement.go, which a `var`
// redeclaration of an already-bound name would trip. Exercises while-loop
// lowering, assignment, and prefix increment.
func buildSumToDemo() *source.FixtureProgram {
	p := source.NewFixtureProgram()

	n := &source.Local{Index: 0, Type: types.I32T(), Name: "n"}

	body := &ast.BlockStmt{Stmts: []ast.Stmt{
		&ast.ExprStmt{Expr: &ast.AssignExpr{Target: &ast.IdentExpr{Name: "i"}, Value: &ast.IntLit{Value: 0}}},
		&ast.ExprStmt{Expr: &ast.AssignExpr{Target: &ast.IdentExpr{Name: "total"}, Value: &ast.IntLit{Value: 0}}},
		&ast.WhileStmt{
			Cond: &ast.BinaryExpr{Op: ast.OpLt, Left: &ast.IdentExpr{Name: "i"}, Right: &ast.IdentExpr{Name: "n"}},
			Body: &ast.BlockStmt{Stmts: []ast.Stmt{
				&ast.ExprStmt{Expr: &ast.AssignExpr{
					Target: &ast.IdentExpr{Name: "total"},
					Value:  &ast.BinaryExpr{Op: ast.OpAdd, Left: &ast.IdentExpr{Name: "total"}, Right: &ast.IdentExpr{Name: "i"}},
				}},
				&ast.ExprStmt{Expr: &ast.UnaryExpr{Op: ast.UnaryPreIncr, Expr: &ast.IdentExpr{Name: "i"}}},
			}},
		},
		&ast.ReturnStmt{Value: &ast.IdentExpr{Name: "total"}},
	}}

	fn := &source.Function{
		InternalName:     "sumTo",
		Params:           []*source.Local{n},
		ReturnType:       types.I32T(),
		Body:             body,
		GlobalExportName: "sumTo",
		Locals:           []*source.Local{n},
	}

	p.Bind("n", &source.Element{Kind: source.KindParameter, InternalName: "n", ParamInfo: n})
	// Pre-declared like a parameter: appended to fn.Locals and bound here
	// directly, never routed through AddLocal, so there's no declarator for
	// findLocal to collide with.
	iLocal := &source.Local{Index: 1, Type: types.I32T(), Name: "i"}
	totalLocal := &source.Local{Index: 2, Type: types.I32T(), Name: "total"}
	fn.Locals = append(fn.Locals, iLocal, totalLocal)
	p.Bind("i", &source.Element{Kind: source.KindLocal, InternalName: "i", LocalInfo: iLocal})
	p.Bind("total", &source.Element{Kind: source.KindLocal, InternalName: "total", LocalInfo: totalLocal})
	p.Bind("sumTo", source.NewSimpleFunctionPrototype(fn))

	src := &ast.Source{
		NormalizedPath: "sum-to.demo",
		IsEntry:        true,
		Statements:     []ast.Stmt{&ast.FuncDeclStmt{Name: "sumTo", Export: true, Params: []ast.Param{{Name: "n"}}, Body: body}},
	}
	p.AddSource(src)
	p.Export(src.NormalizedPath, "sumTo")
	return p
}

// buildSeedDemo: `export let seed: i32 = 40 + 2;` — a non-literal global
// initializer, deferred to the start function.
func buildSeedDemo() *source.FixtureProgram {
	p := source.NewFixtureProgram()

	init := &ast.BinaryExpr{Op: ast.OpAdd, Left: &ast.IntLit{Value: 40}, Right: &ast.IntLit{Value: 2}}
	el := source.NewGlobal("seed", types.I32T(), true, nil, init)
	p.Bind("seed", el)

	src := &ast.Source{
		NormalizedPath: "seed.demo",
		IsEntry:        true,
		Statements: []ast.Stmt{&ast.VarDeclStmt{
			Export:      true,
			Declarators: []ast.VarDeclarator{{Name: "seed", Type: &ast.NamedType{Name: "i32"}, Init: init}},
		}},
	}
	p.AddSource(src)
	p.Export(src.NormalizedPath, "seed")
	return p
}

func loadDemo(name string) (*source.FixtureProgram, error) {
	build, ok := demos[name]
	if !ok {
		return nil, fmt.Errorf("unknown demo %q (available: %v)", name, demoNames())
	}
	return build(), nil
}
