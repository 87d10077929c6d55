package compiler_test

import (
	"strings"
	"testing"

	"wasmcore/internal/ast"
	"wasmcore/internal/compiler"
	"wasmcore/internal/diag"
	"wasmcore/internal/source"
	"wasmcore/internal/types"
)

// builtinCallProgram binds one builtin under its own name and returns a
// function calling it with the given arguments under retType.
func builtinCallProgram(name, key string, retType *types.Type, args ...ast.Expr) *source.FixtureProgram {
	p := source.NewFixtureProgram()
	p.Bind(name, source.NewBuiltinPrototype(name, key))
	body := &ast.BlockStmt{Stmts: []ast.Stmt{
		&ast.ReturnStmt{Value: &ast.CallExpr{Callee: &ast.IdentExpr{Name: name}, Args: args}},
	}}
	fn := &source.Function{InternalName: "f", ReturnType: retType, Body: body, GlobalExportName: "f"}
	p.Bind("f", source.NewSimpleFunctionPrototype(fn))
	src := &ast.Source{
		NormalizedPath: "main.demo",
		IsEntry:        true,
		Statements:     []ast.Stmt{&ast.FuncDeclStmt{Name: "f", Export: true, Body: body}},
	}
	p.AddSource(src)
	p.Export(src.NormalizedPath, "f")
	return p
}

func TestBuiltinClzSelectsOperandType(t *testing.T) {
	p := builtinCallProgram("clz", "clz", types.I32T(), &ast.IntLit{Value: 1})
	res := mustCompile(t, p, compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if !strings.Contains(res.Wat, "i32.clz") {
		t.Errorf("expected i32.clz:\n%s", res.Wat)
	}
}

func TestBuiltinSqrtOnF64(t *testing.T) {
	p := builtinCallProgram("sqrt", "sqrt", types.F64T(), &ast.FloatLit{Value: 4})
	res := mustCompile(t, p, compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if !strings.Contains(res.Wat, "f64.sqrt") {
		t.Errorf("expected f64.sqrt:\n%s", res.Wat)
	}
}

func TestBuiltinMinTwoOperandTakesTypeFromFirstArg(t *testing.T) {
	p := builtinCallProgram("min", "min", types.F64T(), &ast.FloatLit{Value: 1}, &ast.FloatLit{Value: 2})
	res := mustCompile(t, p, compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if !strings.Contains(res.Wat, "f64.min") {
		t.Errorf("expected f64.min:\n%s", res.Wat)
	}
}

func TestBuiltinGrowMemoryReportsWarningNotError(t *testing.T) {
	p := builtinCallProgram("grow_memory", "grow_memory", types.I32T(), &ast.IntLit{Value: 1})
	res := mustCompile(t, p, compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("grow_memory should not itself be an error: %v", res.Diags.All())
	}
	found := false
	for _, d := range res.Diags.All() {
		if d.Severity == diag.SeverityWarning {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a warning diagnostic for grow_memory")
	}
	if !strings.Contains(res.Wat, "memory.grow") {
		t.Errorf("expected memory.grow host call:\n%s", res.Wat)
	}
}

func TestBuiltinCurrentMemoryEmitsMemorySize(t *testing.T) {
	p := builtinCallProgram("current_memory", "current_memory", types.I32T())
	res := mustCompile(t, p, compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if !strings.Contains(res.Wat, "memory.size") {
		t.Errorf("expected memory.size host call:\n%s", res.Wat)
	}
}

func TestBuiltinArityMismatchReportsDiagnostic(t *testing.T) {
	p := builtinCallProgram("clz", "clz", types.I32T(), &ast.IntLit{Value: 1}, &ast.IntLit{Value: 2})
	res := mustCompile(t, p, compiler.Options{})
	if !res.Diags.HasErrors() {
		t.Fatalf("expected a diagnostic for clz called with two arguments")
	}
}

func TestBuiltinIsNaNComparesValueAgainstItself(t *testing.T) {
	p := builtinCallProgram("isNaN", "isNaN", types.BoolT(), &ast.FloatLit{Value: 1})
	res := mustCompile(t, p, compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if !strings.Contains(res.Wat, "f64.ne") {
		t.Errorf("expected isNaN to lower to a self-inequality compare:\n%s", res.Wat)
	}
}

func TestBuiltinIsFiniteUsesArgumentsOwnNativeTypeForF32(t *testing.T) {
	p := builtinCallProgram("isFinite", "isFinite", types.BoolT(), &ast.IdentExpr{Name: "x"})
	// Wire a real f32 param named x so the argument's own type is f32; the
	// bool context alone would fall back to f64.
	fx := &source.Local{Index: 0, Type: types.F32T(), Name: "x"}
	p.Bind("x", &source.Element{Kind: source.KindParameter, InternalName: "x", ParamInfo: fx})

	res := mustCompile(t, p, compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if !strings.Contains(res.Wat, "f32.abs") || !strings.Contains(res.Wat, "f32.ne") {
		t.Errorf("expected isFinite<f32> to use f32 consistently for both checks (source bug fixed):\n%s", res.Wat)
	}
	if strings.Contains(res.Wat, "f64.abs") {
		t.Errorf("expected no f64 ops leaking into an f32 isFinite call:\n%s", res.Wat)
	}
}

func TestBuiltinSizeofIsCompileTimeConstant(t *testing.T) {
	p := builtinCallProgram("sizeof", "sizeof", types.I32T())
	// sizeof<i64>() — attach a type argument.
	for _, src := range p.Sources() {
		for _, st := range src.Statements {
			fd, ok := st.(*ast.FuncDeclStmt)
			if !ok {
				continue
			}
			ret := fd.Body.Stmts[0].(*ast.ReturnStmt)
			call := ret.Value.(*ast.CallExpr)
			call.TypeArgs = []ast.TypeExpr{&ast.NamedType{Name: "i64"}}
		}
	}

	res := mustCompile(t, p, compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if !strings.Contains(res.Wat, "(i32.const 8)") {
		t.Errorf("expected sizeof<i64>() to fold to the constant 8:\n%s", res.Wat)
	}
}
