// Package ir is the concrete implementation of the "backend IR Module"
// spec.md §6 specifies as an external collaborator ("the backend IR library
// that materializes WebAssembly nodes" — out of scope per spec.md §1). The
// statement and expression lowering components have no collaborator to call
// without one, so this core ships a minimal concrete version: node structs
// plus a WAT-text printer (print.go) and an optional wasmtime-go validator
// (validate_cgo.go / validate_nocgo.go). It deliberately performs no
// optimization — constant folding, dead-branch elimination, instruction
// selection beyond the single opcode each create call asks for — matching
// spec.md's non-goal that the backend (not this core) optimizes.
package ir

import (
	"fmt"

	"wasmcore/internal/types"
)

type FuncSig struct {
	Params []types.Native
	Result types.Native
}

func (a FuncSig) Equals(b FuncSig) bool {
	if a.Result != b.Result || len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			return false
		}
	}
	return true
}

type Function struct {
	Name       string
	Sig        FuncSig
	TypeIndex  int
	Locals     []types.Native // additional locals beyond the parameters
	Body       *Node
	ExportName string // "" if not exported
	IsImport   bool
	ImportFrom string
}

type Global struct {
	Name       string
	Type       types.Native
	Mutable    bool
	Init       *Node
	ExportName string
}

type DataSegment struct {
	Offset uint64
	Bytes  []byte
}

type Memory struct {
	InitialPages uint32
	MaxPages     uint32
	ExportName   string
}

// Module is the in-memory WebAssembly IR the driver and lowering components
// build up and the backend (here: print.go) serializes. The type-table
// cache (signature → function-type index) is shared across the whole
// compilation and is monotonic, as spec.md §5 requires.
type Module struct {
	noEmit bool

	funcTypes    []FuncSig
	funcTypeIdx  map[string]int
	functions    []*Function
	functionIdx  map[string]int
	globals      []*Global
	globalIdx    map[string]int
	dataSegments []DataSegment
	memory       Memory
	startFunc    string
}

func NewModule() *Module {
	return &Module{
		funcTypeIdx: map[string]int{},
		functionIdx: map[string]int{},
		globalIdx:   map[string]int{},
	}
}

// SetNoEmit toggles the dry-run mode spec.md §6 calls "noEmit": every
// creator still returns a Node so callers can read its Result type, but
// module-level registration (globals, functions, exports, start, memory,
// type-table entries) is suppressed.
func (m *Module) SetNoEmit(v bool) { m.noEmit = v }

func (m *Module) NoEmit() bool { return m.noEmit }

// ---- Constants ----

func (m *Module) CreateI32(v int32) *Node { return &Node{Kind: KindConstI32, Result: types.NativeI32, I32: v} }
func (m *Module) CreateI64(v int64) *Node { return &Node{Kind: KindConstI64, Result: types.NativeI64, I64: v} }
func (m *Module) CreateF32(v float32) *Node {
	return &Node{Kind: KindConstF32, Result: types.NativeF32, F32: v}
}
func (m *Module) CreateF64(v float64) *Node {
	return &Node{Kind: KindConstF64, Result: types.NativeF64, F64: v}
}

// ---- Unary / Binary / Host ----

func (m *Module) CreateUnary(op string, result types.Native, x *Node) *Node {
	return &Node{Kind: KindUnary, Result: result, InstrType: result, Op: op, Operands: []*Node{x}}
}

func (m *Module) CreateBinary(op string, result types.Native, a, b *Node) *Node {
	return &Node{Kind: KindBinary, Result: result, InstrType: result, Op: op, Operands: []*Node{a, b}}
}

// CreateUnaryTyped is CreateUnary with an independent InstrType, for the rare
// unary op whose prefix names the operand type while its Result is fixed
// (e.g. "i64.eqz" always produces i32).
func (m *Module) CreateUnaryTyped(op string, instrType, result types.Native, x *Node) *Node {
	return &Node{Kind: KindUnary, Result: result, InstrType: instrType, Op: op, Operands: []*Node{x}}
}

// CreateCompare builds a comparison: its Result is always i32 (WebAssembly
// represents booleans as i32), but the opcode prefix names operandType, the
// type being compared (e.g. "i64.eq" still produces an i32).
func (m *Module) CreateCompare(op string, operandType types.Native, a, b *Node) *Node {
	return &Node{Kind: KindBinary, Result: types.NativeI32, InstrType: operandType, Op: op, Operands: []*Node{a, b}}
}

func (m *Module) CreateHost(op string, result types.Native, name string, operands ...*Node) *Node {
	return &Node{Kind: KindHost, Result: result, Op: name, Operands: operands, GlobalName: op}
}

// ---- Control ----

func (m *Module) CreateBlock(label string, exprs []*Node, resultType types.Native) *Node {
	return &Node{Kind: KindBlock, Result: resultType, Label: label, Operands: exprs}
}

func (m *Module) CreateLoop(label string, body *Node) *Node {
	return &Node{Kind: KindLoop, Result: types.NativeNone, Label: label, Then: body}
}

func (m *Module) CreateIf(cond, then, els *Node, result types.Native) *Node {
	return &Node{Kind: KindIf, Result: result, Cond: cond, Then: then, Else: els}
}

func (m *Module) CreateBreak(label string, cond *Node) *Node {
	return &Node{Kind: KindBreak, Result: types.NativeNone, Label: label, Cond: cond}
}

func (m *Module) CreateReturn(x *Node) *Node {
	if x == nil {
		return &Node{Kind: KindReturn, Result: types.NativeNone}
	}
	return &Node{Kind: KindReturn, Result: types.NativeNone, Operands: []*Node{x}}
}

func (m *Module) CreateNop() *Node { return &Node{Kind: KindNop, Result: types.NativeNone} }

func (m *Module) CreateUnreachable() *Node { return &Node{Kind: KindUnreachable, Result: types.NativeNone} }

func (m *Module) CreateDrop(x *Node) *Node {
	return &Node{Kind: KindDrop, Result: types.NativeNone, Operands: []*Node{x}}
}

func (m *Module) CreateSelect(cond, then, els *Node, result types.Native) *Node {
	return &Node{Kind: KindSelect, Result: result, Cond: cond, Then: then, Else: els}
}

// ---- Variables ----

func (m *Module) CreateGetLocal(index int, t types.Native) *Node {
	return &Node{Kind: KindGetLocal, Result: t, LocalIndex: index}
}

func (m *Module) CreateSetLocal(index int, x *Node) *Node {
	return &Node{Kind: KindSetLocal, Result: types.NativeNone, LocalIndex: index, Operands: []*Node{x}}
}

func (m *Module) CreateTeeLocal(index int, x *Node, t types.Native) *Node {
	return &Node{Kind: KindTeeLocal, Result: t, LocalIndex: index, Operands: []*Node{x}}
}

func (m *Module) CreateGetGlobal(name string, t types.Native) *Node {
	return &Node{Kind: KindGetGlobal, Result: t, GlobalName: name}
}

func (m *Module) CreateSetGlobal(name string, x *Node) *Node {
	return &Node{Kind: KindSetGlobal, Result: types.NativeNone, GlobalName: name, Operands: []*Node{x}}
}

// ---- Calls ----

func (m *Module) CreateCall(name string, args []*Node, result types.Native) *Node {
	return &Node{Kind: KindCall, Result: result, CalleeName: name, Operands: args}
}

func (m *Module) CreateCallImport(name string, args []*Node, result types.Native) *Node {
	return &Node{Kind: KindCallImport, Result: result, CalleeName: name, Operands: args}
}

// ---- Module-level registration ----

// AddFunctionType registers a signature in the shared, monotonic type table,
// returning its index. Equal signatures are reused (spec.md §5: "shared
// across all functions... monotonic; entries are never removed").
func (m *Module) AddFunctionType(sig FuncSig) int {
	key := funcSigKey(sig)
	if idx, ok := m.funcTypeIdx[key]; ok {
		return idx
	}
	if m.noEmit {
		return -1
	}
	idx := len(m.funcTypes)
	m.funcTypes = append(m.funcTypes, sig)
	m.funcTypeIdx[key] = idx
	return idx
}

func (m *Module) GetFunctionTypeBySignature(sig FuncSig) (int, bool) {
	idx, ok := m.funcTypeIdx[funcSigKey(sig)]
	return idx, ok
}

// funcSigKey derives a comparable map key for a FuncSig, whose Params slice
// makes the struct itself ineligible as a Go map key.
func funcSigKey(sig FuncSig) string {
	return fmt.Sprintf("%d:%v", sig.Result, sig.Params)
}

func (m *Module) AddGlobal(g *Global) {
	if m.noEmit {
		return
	}
	if _, exists := m.globalIdx[g.Name]; exists {
		return
	}
	m.globalIdx[g.Name] = len(m.globals)
	m.globals = append(m.globals, g)
}

func (m *Module) AddFunction(fn *Function) {
	if m.noEmit {
		return
	}
	if _, exists := m.functionIdx[fn.Name]; exists {
		return
	}
	fn.TypeIndex = m.AddFunctionType(fn.Sig)
	m.functionIdx[fn.Name] = len(m.functions)
	m.functions = append(m.functions, fn)
}

func (m *Module) AddExport(funcOrGlobalName string) {
	// Export names are carried on the Function/Global themselves
	// (ExportName); this method exists to match spec.md §6's listed API and
	// does nothing (it does not check that the name is registered), since
	// every emission path here sets ExportName directly at construction time.
	_ = funcOrGlobalName
}

func (m *Module) AddDataSegment(offset uint64, bytes []byte) {
	if m.noEmit {
		return
	}
	m.dataSegments = append(m.dataSegments, DataSegment{Offset: offset, Bytes: bytes})
}

func (m *Module) SetMemory(mem Memory) {
	if m.noEmit {
		return
	}
	m.memory = mem
}

func (m *Module) SetStart(name string) {
	if m.noEmit {
		return
	}
	m.startFunc = name
}

func (m *Module) Functions() []*Function      { return m.functions }
func (m *Module) Globals() []*Global          { return m.globals }
func (m *Module) DataSegments() []DataSegment { return m.dataSegments }
func (m *Module) MemoryDecl() Memory          { return m.memory }
func (m *Module) StartFunc() string           { return m.startFunc }
func (m *Module) FuncTypes() []FuncSig        { return m.funcTypes }
