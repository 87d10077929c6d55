package compiler_test

import (
	"strings"
	"testing"

	"wasmcore/internal/ast"
	"wasmcore/internal/compiler"
	"wasmcore/internal/source"
	"wasmcore/internal/types"
)

// convProgram returns `export function f(x: <paramType>): <retType> { return
// x; }` so that returning a param under a differently-typed contextual
// return type forces convertExpression to run.
func convProgram(paramType, retType *types.Type) *source.FixtureProgram {
	x := &source.Local{Index: 0, Type: paramType, Name: "x"}
	body := &ast.BlockStmt{Stmts: []ast.Stmt{&ast.ReturnStmt{Value: &ast.IdentExpr{Name: "x"}}}}
	return fnProgram("conv", []*source.Local{x}, nil, retType, body)
}

func TestConvertFloatToInt(t *testing.T) {
	res := mustCompile(t, convProgram(types.F64T(), types.I32T()), compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if !strings.Contains(res.Wat, "i32.trunc_f64_s") {
		t.Errorf("expected i32.trunc_f64_s:\n%s", res.Wat)
	}
}

func TestConvertIntToFloat(t *testing.T) {
	res := mustCompile(t, convProgram(types.I32T(), types.F64T()), compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if !strings.Contains(res.Wat, "f64.convert_i32_s") {
		t.Errorf("expected f64.convert_i32_s:\n%s", res.Wat)
	}
}

func TestConvertLongToIntWraps(t *testing.T) {
	res := mustCompile(t, convProgram(types.I64T(), types.I32T()), compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if !strings.Contains(res.Wat, "i32.wrap_i64") {
		t.Errorf("expected i32.wrap_i64:\n%s", res.Wat)
	}
}

func TestConvertIntToLongExtends(t *testing.T) {
	res := mustCompile(t, convProgram(types.I32T(), types.I64T()), compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if !strings.Contains(res.Wat, "i64.extend_i32_s") {
		t.Errorf("expected i64.extend_i32_s:\n%s", res.Wat)
	}
}

func TestConvertUnsignedIntToLongExtendsUnsigned(t *testing.T) {
	res := mustCompile(t, convProgram(types.U32T(), types.U64T()), compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if !strings.Contains(res.Wat, "i64.extend_i32_u") {
		t.Errorf("expected i64.extend_i32_u:\n%s", res.Wat)
	}
}

func TestConvertF32ToF64Promotes(t *testing.T) {
	res := mustCompile(t, convProgram(types.F32T(), types.F64T()), compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if !strings.Contains(res.Wat, "f64.promote_f32") {
		t.Errorf("expected f64.promote_f32:\n%s", res.Wat)
	}
}

func TestConvertF64ToF32Demotes(t *testing.T) {
	res := mustCompile(t, convProgram(types.F64T(), types.F32T()), compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if !strings.Contains(res.Wat, "f32.demote_f64") {
		t.Errorf("expected f32.demote_f64:\n%s", res.Wat)
	}
}

func TestNarrowToSignedSmallIntUsesShiftPair(t *testing.T) {
	res := mustCompile(t, convProgram(types.I32T(), types.I8T()), compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if !strings.Contains(res.Wat, "i32.shl") || !strings.Contains(res.Wat, "i32.shr_s") {
		t.Errorf("expected a shl/shr_s sign-extension pair narrowing to i8:\n%s", res.Wat)
	}
}

func TestNarrowToUnsignedSmallIntUsesMask(t *testing.T) {
	res := mustCompile(t, convProgram(types.I32T(), types.U8T()), compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if !strings.Contains(res.Wat, "i32.and") {
		t.Errorf("expected an and-mask narrowing to u8:\n%s", res.Wat)
	}
}

func TestSameWidthIntReinterpretEmitsNoConversionOpcode(t *testing.T) {
	res := mustCompile(t, convProgram(types.I32T(), types.U32T()), compiler.Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diags.All())
	}
	if strings.Contains(res.Wat, "extend") || strings.Contains(res.Wat, "wrap") || strings.Contains(res.Wat, "trunc") || strings.Contains(res.Wat, "convert") {
		t.Errorf("expected i32<->u32 to share representation with no conversion instruction:\n%s", res.Wat)
	}
}
