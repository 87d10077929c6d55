package compiler_test

import (
	"strings"
	"testing"

	"wasmcore/internal/ast"
	"wasmcore/internal/compiler"
	"wasmcore/internal/source"
	"wasmcore/internal/types"
)

// retProgram wraps `export function f(): <ret> { return <expr>; }`.
func retProgram(name string, retType *types.Type, expr ast.Expr) *source.FixtureProgram {
	p := source.NewFixtureProgram()
	body := &ast.BlockStmt{Stmts: []ast.Stmt{&ast.ReturnStmt{Value: expr}}}
	fn := &source.Function{InternalName: name, ReturnType: retType, Body: body, GlobalExportName: name}
	p.Bind(name, source.NewSimpleFunctionPrototype(fn))
	src := &ast.Source{
		NormalizedPath: "main.demo",
		IsEntry:        true,
		Statements:     []ast.Stmt{&ast.FuncDeclStmt{Name: name, Export: true, Body: body}},
	}
	p.AddSource(src)
	p.Export(src.NormalizedPath, name)
	return p
}

func TestIntLiteralWidensToI64BeyondInt32Range(t *testing.T) {
	p := retProgram("big", types.I64T(), &ast.IntLit{Value: int64(1) << 40})
	res := mustCompile(t, p, compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if !strings.Contains(res.Wat, "(i64.const") {
		t.Errorf("expected an i64.const for an out-of-int32-range literal:\n%s", res.Wat)
	}
}

func TestIntLiteralFitsI32WithinRange(t *testing.T) {
	p := retProgram("small", types.I32T(), &ast.IntLit{Value: 42})
	res := mustCompile(t, p, compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if !strings.Contains(res.Wat, "(i32.const 42)") {
		t.Errorf("expected i32.const 42:\n%s", res.Wat)
	}
}

func TestIntLiteralInLongContextEmitsI64Directly(t *testing.T) {
	p := retProgram("longy", types.I64T(), &ast.IntLit{Value: 7})
	res := mustCompile(t, p, compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if !strings.Contains(res.Wat, "(i64.const 7)") {
		t.Errorf("expected i64.const 7 directly, no conversion opcode:\n%s", res.Wat)
	}
	if strings.Contains(res.Wat, "extend_i32") {
		t.Errorf("an i64-context literal should not need an extend conversion:\n%s", res.Wat)
	}
}

func TestLogicalAndLowersToIf(t *testing.T) {
	p := retProgram("land", types.BoolT(), &ast.BinaryExpr{
		Op: ast.OpAnd, Left: &ast.BoolLit{Value: true}, Right: &ast.BoolLit{Value: false},
	})
	res := mustCompile(t, p, compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if !strings.Contains(res.Wat, "(if (result i32)") {
		t.Errorf("expected && to lower through an (if (result i32):\n%s", res.Wat)
	}
}

func TestTernarySelectLowersToSelect(t *testing.T) {
	p := retProgram("sel", types.I32T(), &ast.SelectExpr{
		Cond: &ast.BoolLit{Value: true},
		Then: &ast.IntLit{Value: 1},
		Else: &ast.IntLit{Value: 2},
	})
	res := mustCompile(t, p, compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if !strings.Contains(res.Wat, "(select") {
		t.Errorf("expected a ternary to lower to select:\n%s", res.Wat)
	}
}

func TestComparisonOpcodeNamesOperandTypeButResultIsI32Boolean(t *testing.T) {
	p := retProgram("cmp", types.BoolT(), &ast.BinaryExpr{
		Op: ast.OpLt, Left: &ast.IntLit{Value: 1}, Right: &ast.IntLit{Value: 2},
	})
	res := mustCompile(t, p, compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if !strings.Contains(res.Wat, "i32.lt_s") {
		t.Errorf("expected a signed i32 comparison opcode:\n%s", res.Wat)
	}
}

func TestPostfixIncrementReturnsPreIncrementValue(t *testing.T) {
	n := &source.Local{Index: 0, Type: types.I32T(), Name: "n"}
	body := &ast.BlockStmt{Stmts: []ast.Stmt{
		&ast.ReturnStmt{Value: &ast.PostfixExpr{Op: ast.PostfixIncr, Target: &ast.IdentExpr{Name: "n"}}},
	}}
	p := fnProgram("postfix", []*source.Local{n}, nil, types.I32T(), body)
	res := mustCompile(t, p, compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if !strings.Contains(res.Wat, "local.tee") {
		t.Errorf("expected postfix increment to stash the pre-increment value in a temp local:\n%s", res.Wat)
	}
	if !strings.Contains(res.Wat, "i32.add") {
		t.Errorf("expected the increment itself to be an i32.add:\n%s", res.Wat)
	}
}

func TestCompoundAssignLowersAsBinaryThenTeeWhenValueUsed(t *testing.T) {
	n := &source.Local{Index: 0, Type: types.I32T(), Name: "n"}
	body := &ast.BlockStmt{Stmts: []ast.Stmt{
		&ast.ReturnStmt{Value: &ast.CompoundAssignExpr{
			Op: ast.OpAdd, Target: &ast.IdentExpr{Name: "n"}, Value: &ast.IntLit{Value: 5},
		}},
	}}
	p := fnProgram("cadd", []*source.Local{n}, nil, types.I32T(), body)
	res := mustCompile(t, p, compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if !strings.Contains(res.Wat, "local.tee") {
		t.Errorf("expected n += 5 used as a value to tee:\n%s", res.Wat)
	}
}

func TestCompoundAssignAsStatementUsesSetNotTee(t *testing.T) {
	n := &source.Local{Index: 0, Type: types.I32T(), Name: "n"}
	body := &ast.BlockStmt{Stmts: []ast.Stmt{
		&ast.ExprStmt{Expr: &ast.CompoundAssignExpr{
			Op: ast.OpAdd, Target: &ast.IdentExpr{Name: "n"}, Value: &ast.IntLit{Value: 5},
		}},
	}}
	p := fnProgram("cadd2", []*source.Local{n}, nil, types.Void_(), body)
	res := mustCompile(t, p, compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if strings.Contains(res.Wat, "local.tee") {
		t.Errorf("expected a statement-context compound assign to use local.set, not tee:\n%s", res.Wat)
	}
	if !strings.Contains(res.Wat, "local.set") {
		t.Errorf("expected local.set somewhere in the body:\n%s", res.Wat)
	}
}

func TestUnresolvedIdentifierReportsLookupDiagnostic(t *testing.T) {
	p := retProgram("bad", types.I32T(), &ast.IdentExpr{Name: "doesNotExist"})
	res := mustCompile(t, p, compiler.Options{})
	if !res.Diags.HasErrors() {
		t.Fatalf("expected an unresolved identifier to report a diagnostic")
	}
}
