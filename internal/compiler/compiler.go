package compiler

import (
	"fmt"

	"github.com/google/uuid"

	"wasmcore/internal/ast"
	"wasmcore/internal/diag"
	"wasmcore/internal/ir"
	"wasmcore/internal/memlayout"
	"wasmcore/internal/source"
	"wasmcore/internal/types"
)

// Compiler is the declaration-driven compilation driver: the single mutable
// instance spec.md §3 describes as "Compiler state". One Compiler serves
// exactly one Compile call; nothing here is reused across compilations,
// mirroring the teacher's one-shot compiler.Compiler/Generator pairing.
type Compiler struct {
	opts    Options
	program source.Program
	sink    *diag.Sink
	module  *ir.Module
	mem     *memlayout.Manager

	currentFunction  *source.Function
	startFunction    *source.Function
	startBody        []*ir.Node // appendable list of top-level expressions (spec.md §3)
	currentType      *types.Type
	disallowContinue bool

	files map[string]bool // compiled source paths, for compileSource idempotence
}

// New constructs a Compiler for one compilation. The caller owns the
// returned diagnostic sink (spec.md §5 "Shared resources" / §7).
func New(program source.Program, opts Options) *Compiler {
	runID := uuid.NewString()
	return &Compiler{
		opts:    opts,
		program: program,
		sink:    diag.NewSink(runID),
		module:  newIRModule(opts),
		mem:     memlayout.New(opts.Target),
		startFunction: &source.Function{
			InternalName: "$start",
			ReturnType:   types.Void_(),
		},
		files: map[string]bool{},
	}
}

func newIRModule(opts Options) *ir.Module {
	m := ir.NewModule()
	m.SetNoEmit(opts.NoEmit)
	return m
}

// Compile runs the declaration driver entry point (spec.md §4.1 `compile`):
// initialize the resolver, compile every entry source, weave the start
// function, then finalize linear memory. Internal-invariant violations panic
// (spec.md §5 "Failure model"); Compile recovers them into a single fatal
// diagnostic so a caller always gets a Result back, per spec.md §7.
func Compile(program source.Program, opts Options) (res *Result, err error) {
	c := New(program, opts)
	defer func() {
		if r := recover(); r != nil {
			c.sink.Error(diag.KindStructural, "", "internal invariant violation: %v", r)
			res = &Result{Module: c.module, Wat: c.module.Print(), Diags: c.sink, MemSummary: c.mem.Summary()}
			err = fmt.Errorf("wasmcore: internal invariant violation: %v", r)
		}
	}()

	if ierr := program.Initialize(opts.Target); ierr != nil {
		return nil, fmt.Errorf("wasmcore: resolver initialize: %w", ierr)
	}

	for _, src := range program.Sources() {
		if src.IsEntry {
			c.compileSource(src)
		}
	}

	c.weaveStartFunction()
	if ferr := c.finalizeMemory(); ferr != nil {
		return nil, ferr
	}

	return &Result{Module: c.module, Wat: c.module.Print(), Diags: c.sink, MemSummary: c.mem.Summary()}, nil
}

// Sink exposes the compilation's diagnostic sink (the same sink that
// Compile returns as Result.Diags).
func (c *Compiler) Sink() *diag.Sink { return c.sink }

// weaveStartFunction is the Start-function weaver component (spec.md §4.1
// step 3 / §4.4): synthesize and register the start function iff its body
// is non-empty — "the start function exists in the output iff at least one
// top-level statement, deferred global initializer, or deferred enum
// initializer was appended" (spec.md §8).
func (c *Compiler) weaveStartFunction() {
	if len(c.startBody) == 0 {
		return
	}
	sig := ir.FuncSig{Result: types.NativeNone}
	typeIdx := c.module.AddFunctionType(sig)
	body := c.module.CreateBlock("", c.startBody, types.NativeNone)
	c.module.AddFunction(&ir.Function{
		Name:      c.startFunction.InternalName,
		Sig:       sig,
		TypeIndex: typeIdx,
		Locals:    c.nativesOf(c.startFunction.Locals),
		Body:      body,
	})
	c.module.SetStart(c.startFunction.InternalName)
}

// native is shorthand for types.NativeOf bound to this compilation's target.
func (c *Compiler) native(t *types.Type) types.Native { return types.NativeOf(t, c.opts.Target) }

func (c *Compiler) nativesOf(locals []*source.Local) []types.Native {
	out := make([]types.Native, len(locals))
	for i, l := range locals {
		out[i] = types.NativeOf(l.Type, c.opts.Target)
	}
	return out
}

// finalizeMemory implements spec.md §4.1 steps 4-5: emit the heap-start
// pointer segment first (spec.md: "the first data segment"), then round
// memoryOffset up to a page boundary and publish the memory declaration.
func (c *Compiler) finalizeMemory() error {
	heap, err := c.mem.HeapStartSegment()
	if err != nil {
		return fmt.Errorf("wasmcore: %w", err)
	}
	c.module.AddDataSegment(heap.Offset, heap.Bytes)
	for _, seg := range c.mem.Segments() {
		c.module.AddDataSegment(seg.Offset, seg.Bytes)
	}
	c.module.SetMemory(ir.Memory{
		InitialPages: c.mem.PagesNeeded(),
		MaxPages:     memlayout.MaxPages,
		ExportName:   "memory",
	})
	return nil
}

// ---- context save/restore (spec.md §5: "they must be saved and restored
// across any recursion that enters a different function") ----

type savedContext struct {
	fn               *source.Function
	currentType      *types.Type
	disallowContinue bool
}

func (c *Compiler) save() savedContext {
	return savedContext{c.currentFunction, c.currentType, c.disallowContinue}
}

func (c *Compiler) restore(s savedContext) {
	c.currentFunction = s.fn
	c.currentType = s.currentType
	c.disallowContinue = s.disallowContinue
}

// appendStart appends an expression to the start function's body, preserving
// encounter order across all sources (spec.md §5).
func (c *Compiler) appendStart(n *ir.Node) {
	c.startBody = append(c.startBody, n)
}

// resolveDeclElement looks up the Element a top-level declaration statement
// names, by resolving a synthetic identifier through the resolver — the same
// path compileExpression's Identifiers case uses for ordinary name lookup
// (spec.md §6 resolveElement).
func (c *Compiler) resolveDeclElement(name string, span ast.Span) *source.Element {
	el, err := c.program.ResolveElement(&ast.IdentExpr{Name: name, Span: span}, nil)
	if err != nil {
		c.sink.Error(diag.KindLookup, "", "resolving declaration %q: %v", name, err)
		return nil
	}
	if el == nil {
		c.sink.Error(diag.KindLookup, "", "declaration %q did not resolve to an element", name)
	}
	return el
}
