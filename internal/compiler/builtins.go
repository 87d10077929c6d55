package compiler

import (
	"math"

	"wasmcore/internal/ast"
	"wasmcore/internal/diag"
	"wasmcore/internal/ir"
	"wasmcore/internal/types"
)

// lowerBuiltinCall is spec.md §4.4's builtin intrinsic table: dispatch by
// internal name to a WebAssembly numeric instruction, a host op, or one of
// the three compile-time/synthesized forms (sizeof, isNaN, isFinite).
func (c *Compiler) lowerBuiltinCall(key string, call *ast.CallExpr, ctx *types.Type) *ir.Node {
	switch key {
	case "clz", "ctz", "popcnt":
		return c.builtinUnary(key, call, ctx)
	case "abs", "ceil", "floor", "nearest", "sqrt", "trunc":
		return c.builtinUnary(key, call, ctx)
	case "rotl", "rotr", "copysign", "min", "max":
		return c.builtinBinary(key, call, ctx)
	case "current_memory":
		return c.builtinCurrentMemory()
	case "grow_memory":
		return c.builtinGrowMemory(call)
	case "unreachable":
		c.currentType = ctx
		return c.module.CreateUnreachable()
	case "sizeof":
		return c.builtinSizeof(call)
	case "isNaN":
		return c.builtinIsNaN(call, ctx)
	case "isFinite":
		return c.builtinIsFinite(call, ctx)
	default:
		c.sink.Error(diag.KindUnsupported, "", "unknown builtin %q", key)
		c.currentType = ctx
		return c.module.CreateUnreachable()
	}
}

// builtinUnary covers the single-operand intrinsics whose instruction is
// selected by the operand's own type (i32.clz vs i64.clz, f32.sqrt vs
// f64.sqrt, ...).
func (c *Compiler) builtinUnary(name string, call *ast.CallExpr, ctx *types.Type) *ir.Node {
	if len(call.Args) != 1 {
		c.sink.Error(diag.KindType, "", "%s takes exactly one argument", name)
		c.currentType = ctx
		return c.module.CreateUnreachable()
	}
	arg := c.compileExpression(call.Args[0], ctx, false)
	t := c.currentType
	node := c.module.CreateUnary(name, c.native(t), arg)
	c.currentType = t
	return node
}

// builtinBinary covers the two-operand intrinsics: the first argument
// selects the operand type, the second is converted to match it.
func (c *Compiler) builtinBinary(name string, call *ast.CallExpr, ctx *types.Type) *ir.Node {
	if len(call.Args) != 2 {
		c.sink.Error(diag.KindType, "", "%s takes exactly two arguments", name)
		c.currentType = ctx
		return c.module.CreateUnreachable()
	}
	a := c.compileExpression(call.Args[0], ctx, false)
	t := c.currentType
	native := c.native(t)
	b := c.compileExpression(call.Args[1], t, true)
	node := c.module.CreateBinary(name, native, a, b)
	c.currentType = t
	return node
}

func (c *Compiler) builtinCurrentMemory() *ir.Node {
	c.currentType = types.I32T()
	return c.module.CreateHost("current_memory", types.NativeI32, "memory.size")
}

// builtinGrowMemory reports a Warning (spec.md §7 taxonomy: "unsafe
// operation") since growing memory can invalidate previously computed
// pointers into the heap region.
func (c *Compiler) builtinGrowMemory(call *ast.CallExpr) *ir.Node {
	if len(call.Args) != 1 {
		c.sink.Error(diag.KindType, "", "grow_memory takes exactly one argument")
		c.currentType = types.I32T()
		return c.module.CreateUnreachable()
	}
	c.sink.Warning(diag.KindWarning, "", "grow_memory is an unsafe operation: previously computed pointers may be invalidated")
	arg := c.compileExpression(call.Args[0], types.I32T(), true)
	c.currentType = types.I32T()
	return c.module.CreateHost("grow_memory", types.NativeI32, "memory.grow", arg)
}

// builtinSizeof is a compile-time constant: the type argument's byte size,
// rounded up, emitted as i32 (or i64 on a 64-bit target, matching usize's
// width).
func (c *Compiler) builtinSizeof(call *ast.CallExpr) *ir.Node {
	if len(call.TypeArgs) != 1 {
		c.sink.Error(diag.KindType, "", "sizeof requires exactly one type argument")
		c.currentType = types.I32T()
		return c.module.CreateUnreachable()
	}
	t, err := c.program.ResolveType(call.TypeArgs[0], nil, true)
	if err != nil || t == nil {
		c.sink.Error(diag.KindType, "", "resolving sizeof type argument: %v", err)
		c.currentType = types.I32T()
		return c.module.CreateUnreachable()
	}
	size := (t.Size(c.opts.Target) + 7) / 8
	if c.opts.Target == types.WASM64 {
		c.currentType = types.U64T()
		return c.module.CreateI64(int64(size))
	}
	c.currentType = types.U32T()
	return c.module.CreateI32(int32(size))
}

// builtinIsNaN materializes the argument into a fresh local and tests x != x,
// true only for NaN under IEEE 754 comparison semantics.
func (c *Compiler) builtinIsNaN(call *ast.CallExpr, ctx *types.Type) *ir.Node {
	if len(call.Args) != 1 {
		c.sink.Error(diag.KindType, "", "isNaN takes exactly one argument")
		c.currentType = types.BoolT()
		return c.module.CreateUnreachable()
	}
	argType := floatArgType(ctx)
	native := c.native(argType)

	value := c.compileExpression(call.Args[0], argType, true)
	tmp := c.currentFunction.AddLocal("", argType)
	setTmp := c.module.CreateSetLocal(tmp.Index, value)
	ne := c.module.CreateCompare("ne", native, c.module.CreateGetLocal(tmp.Index, native), c.module.CreateGetLocal(tmp.Index, native))

	c.currentType = types.BoolT()
	return c.module.CreateBlock("", []*ir.Node{setTmp, ne}, types.NativeI32)
}

// builtinIsFinite implements spec.md §9's deviation from its own source: the
// source's isFinite<f32> branch reads the temp local back as f64 rather than
// f32 (a bug); this always uses the argument's own native type for both the
// NaN check and the infinity comparand.
func (c *Compiler) builtinIsFinite(call *ast.CallExpr, ctx *types.Type) *ir.Node {
	if len(call.Args) != 1 {
		c.sink.Error(diag.KindType, "", "isFinite takes exactly one argument")
		c.currentType = types.BoolT()
		return c.module.CreateUnreachable()
	}
	value := c.compileExpression(call.Args[0], floatArgType(ctx), false)
	argType := c.currentType
	if !argType.IsAnyFloat() {
		value = c.convertExpression(value, argType, types.F64T())
		argType = types.F64T()
	}
	native := c.native(argType)

	tmp := c.currentFunction.AddLocal("", argType)
	setTmp := c.module.CreateSetLocal(tmp.Index, value)

	isNaNCond := c.module.CreateCompare("ne", native,
		c.module.CreateGetLocal(tmp.Index, native), c.module.CreateGetLocal(tmp.Index, native))
	absVal := c.module.CreateUnary("abs", native, c.module.CreateGetLocal(tmp.Index, native))
	notInf := c.module.CreateCompare("ne", native, absVal, c.infinityOf(argType))

	ifNode := c.module.CreateIf(isNaNCond, c.module.CreateI32(0), notInf, types.NativeI32)
	c.currentType = types.BoolT()
	return c.module.CreateBlock("", []*ir.Node{setTmp, ifNode}, types.NativeI32)
}

func (c *Compiler) infinityOf(t *types.Type) *ir.Node {
	if t.Kind == types.F32 {
		return c.module.CreateF32(float32(math.Inf(1)))
	}
	return c.module.CreateF64(math.Inf(1))
}

// floatArgType picks the contextual type if it's already a float, else
// defaults to f64, matching the builtins' "any numeric-ish context" calling
// convention.
func floatArgType(ctx *types.Type) *types.Type {
	if ctx != nil && ctx.IsAnyFloat() {
		return ctx
	}
	return types.F64T()
}
