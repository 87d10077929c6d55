package ir_test

import (
	"strings"
	"testing"

	"wasmcore/internal/ir"
	"wasmcore/internal/types"
)

func TestPrintFunctionWithParamsAndLocalsSharesNamespace(t *testing.T) {
	m := ir.NewModule()
	sig := ir.FuncSig{Params: []types.Native{types.NativeI32, types.NativeI32}, Result: types.NativeI32}
	body := m.CreateReturn(m.CreateBinary("add", types.NativeI32,
		m.CreateGetLocal(0, types.NativeI32), m.CreateGetLocal(1, types.NativeI32)))
	m.AddFunction(&ir.Function{Name: "add", Sig: sig, Locals: []types.Native{types.NativeI32}, Body: body, ExportName: "add"})

	out := m.Print()
	if !strings.Contains(out, "(param $l0 i32)") || !strings.Contains(out, "(param $l1 i32)") {
		t.Errorf("expected params named $l0/$l1:\n%s", out)
	}
	if !strings.Contains(out, "(local $l2 i32)") {
		t.Errorf("expected the additional local to continue the $l index after the params:\n%s", out)
	}
	if !strings.Contains(out, "(local.get $l0)") || !strings.Contains(out, "(local.get $l1)") {
		t.Errorf("expected local.get to reference the same $l-prefixed names as the param declarations:\n%s", out)
	}
	if !strings.Contains(out, `(export "add" (func $add))`) {
		t.Errorf("expected an export clause:\n%s", out)
	}
}

func TestPrintGetLocalReferencesSameNameAsItsParamDeclaration(t *testing.T) {
	// Regression: printFunction once declared params under a $p prefix while
	// local.get/set/tee always referenced $l, producing undefined-symbol WAT
	// for any function that read or wrote its own parameters.
	m := ir.NewModule()
	sig := ir.FuncSig{Params: []types.Native{types.NativeI32}, Result: types.NativeI32}
	body := m.CreateReturn(m.CreateGetLocal(0, types.NativeI32))
	m.AddFunction(&ir.Function{Name: "id", Sig: sig, Body: body, ExportName: "id"})

	out := m.Print()
	declLine := "(param $l0 i32)"
	refLine := "(local.get $l0)"
	if !strings.Contains(out, declLine) {
		t.Fatalf("expected %q in output:\n%s", declLine, out)
	}
	if !strings.Contains(out, refLine) {
		t.Fatalf("expected %q in output:\n%s", refLine, out)
	}
}

func TestPrintBlockLoopIfSkeleton(t *testing.T) {
	m := ir.NewModule()
	cond := m.CreateI32(1)
	inner := m.CreateBlock("", []*ir.Node{m.CreateBreak("continue$0", nil)}, types.NativeNone)
	ifNode := m.CreateIf(cond, inner, nil, types.NativeNone)
	loop := m.CreateLoop("continue$0", ifNode)
	block := m.CreateBlock("break$0", []*ir.Node{loop}, types.NativeNone)

	sig := ir.FuncSig{Result: types.NativeNone}
	m.AddFunction(&ir.Function{Name: "loopy", Sig: sig, Body: block})

	out := m.Print()
	for _, want := range []string{"(block $break$0", "(loop $continue$0", "(if", "(br $continue$0)"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}
}

func TestPrintGlobalMutableDecl(t *testing.T) {
	m := ir.NewModule()
	m.AddGlobal(&ir.Global{Name: "seed", Type: types.NativeI32, Mutable: true, Init: m.CreateI32(-1), ExportName: "seed"})

	out := m.Print()
	if !strings.Contains(out, "(global $seed (mut i32)") {
		t.Errorf("expected a mutable global declaration:\n%s", out)
	}
	if !strings.Contains(out, `(export "seed" (global $seed))`) {
		t.Errorf("expected a global export clause:\n%s", out)
	}
}

func TestPrintCallAndStartFunction(t *testing.T) {
	m := ir.NewModule()
	calleeBody := m.CreateReturn(m.CreateI32(7))
	m.AddFunction(&ir.Function{Name: "helper", Sig: ir.FuncSig{Result: types.NativeI32}, Body: calleeBody})

	callNode := m.CreateCall("helper", nil, types.NativeI32)
	m.AddFunction(&ir.Function{Name: "start", Sig: ir.FuncSig{}, Body: m.CreateDrop(callNode)})
	m.SetStart("start")

	out := m.Print()
	if !strings.Contains(out, "(call $helper") {
		t.Errorf("expected a call to helper:\n%s", out)
	}
	if !strings.Contains(out, "(start $start)") {
		t.Errorf("expected a start clause:\n%s", out)
	}
}

func TestPrintFuncTypeDedupesIdenticalSignatures(t *testing.T) {
	m := ir.NewModule()
	sig := ir.FuncSig{Params: []types.Native{types.NativeI32}, Result: types.NativeI32}
	idx1 := m.AddFunctionType(sig)
	idx2 := m.AddFunctionType(sig)
	if idx1 != idx2 {
		t.Errorf("AddFunctionType should dedupe identical signatures: got %d and %d", idx1, idx2)
	}
	if len(m.FuncTypes()) != 1 {
		t.Errorf("expected exactly one registered func type, got %d", len(m.FuncTypes()))
	}
}

func TestPrintMemoryAndDataSegment(t *testing.T) {
	m := ir.NewModule()
	m.SetMemory(ir.Memory{InitialPages: 1, MaxPages: 2})
	m.AddDataSegment(8, []byte("hi"))

	out := m.Print()
	if !strings.Contains(out, "(memory 1 2)") {
		t.Errorf("expected a memory declaration with initial/max pages:\n%s", out)
	}
	if !strings.Contains(out, `(data (i32.const 8) "hi")`) {
		t.Errorf("expected a data segment at offset 8:\n%s", out)
	}
}
