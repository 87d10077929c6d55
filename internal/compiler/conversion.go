package compiler

import (
	"fmt"

	"wasmcore/internal/ir"
	"wasmcore/internal/types"
)

// convertExpression implements spec.md §4.3's sign/extension truth table.
// from and to are source-language Types (not natives): the table is indexed
// by logical category (f32, f64, long-int, int, small-int), since several
// logical types share a native representation.
func (c *Compiler) convertExpression(node *ir.Node, from, to *types.Type) *ir.Node {
	if to.Kind == types.Void {
		if node.Result == types.NativeNone {
			return node
		}
		return c.module.CreateDrop(node)
	}
	switch {
	case from.IsAnyFloat():
		return c.convertFromFloat(node, from, to)
	case c.isLongCategory(from):
		return c.convertFromLong(node, from, to)
	default:
		return c.convertFromInt(node, from, to)
	}
}

// isLongCategory treats usize on a 64-bit target as the long-int category,
// since its native representation is i64 there (types.NativeOf).
func (c *Compiler) isLongCategory(t *types.Type) bool {
	if t.IsLongInteger() {
		return true
	}
	return t.Kind == types.Usize && c.opts.Target == types.WASM64
}

func (c *Compiler) convertFromFloat(node *ir.Node, from, to *types.Type) *ir.Node {
	fromNative := c.native(from)
	switch {
	case to.Kind == types.F32:
		if from.Kind == types.F32 {
			return node
		}
		return c.module.CreateUnary("demote_f64", types.NativeF32, node) // lossy
	case to.Kind == types.F64:
		if from.Kind == types.F64 {
			return node
		}
		return c.module.CreateUnary("promote_f32", types.NativeF64, node)
	case c.isLongCategory(to):
		op := fmt.Sprintf("trunc_%s_%s", fromNative, signSuffix(to))
		return c.module.CreateUnary(op, types.NativeI64, node)
	case to.IsSmallInteger():
		op := fmt.Sprintf("trunc_%s_%s", fromNative, signSuffix(to))
		asInt := c.module.CreateUnary(op, types.NativeI32, node)
		return c.narrowSmall(asInt, to)
	default:
		op := fmt.Sprintf("trunc_%s_%s", fromNative, signSuffix(to))
		return c.module.CreateUnary(op, types.NativeI32, node)
	}
}

func (c *Compiler) convertFromLong(node *ir.Node, from, to *types.Type) *ir.Node {
	switch {
	case to.Kind == types.F32:
		op := "convert_i64_" + signSuffix(from)
		return c.module.CreateUnary(op, types.NativeF32, node) // lossy
	case to.Kind == types.F64:
		op := "convert_i64_" + signSuffix(from)
		return c.module.CreateUnary(op, types.NativeF64, node) // lossy
	case c.isLongCategory(to):
		// Same native representation (i64); only the logical signedness
		// interpretation differs.
		return node
	case to.IsSmallInteger():
		wrapped := c.module.CreateUnary("wrap_i64", types.NativeI32, node)
		return c.narrowSmall(wrapped, to)
	default:
		return c.module.CreateUnary("wrap_i64", types.NativeI32, node)
	}
}

func (c *Compiler) convertFromInt(node *ir.Node, from, to *types.Type) *ir.Node {
	switch {
	case to.Kind == types.F32:
		op := "convert_i32_" + signSuffix(from)
		return c.module.CreateUnary(op, types.NativeF32, node)
	case to.Kind == types.F64:
		op := "convert_i32_" + signSuffix(from)
		return c.module.CreateUnary(op, types.NativeF64, node)
	case c.isLongCategory(to):
		op := "extend_i32_" + signSuffix(from)
		return c.module.CreateUnary(op, types.NativeI64, node)
	case to.IsSmallInteger():
		return c.narrowSmall(node, to)
	default:
		// Same width int-to-int (e.g. i32 <-> u32, or a differently-signed
		// 32-bit kind): identical native representation, no instruction.
		return node
	}
}

// narrowSmall implements "sign-extension of a small signed integer of width
// w bits is (x << (32-w)) >> (32-w) using signed shift; unsigned is
// x & ((1<<w)-1)" (spec.md §4.3).
func (c *Compiler) narrowSmall(node *ir.Node, to *types.Type) *ir.Node {
	shift := to.SmallIntegerShift(c.opts.Target)
	if to.IsSignedInteger() {
		shl := c.module.CreateBinary("shl", types.NativeI32, node, c.module.CreateI32(int32(shift)))
		return c.module.CreateBinary("shr_s", types.NativeI32, shl, c.module.CreateI32(int32(shift)))
	}
	mask := to.SmallIntegerMask(c.opts.Target)
	return c.module.CreateBinary("and", types.NativeI32, node, c.module.CreateI32(int32(mask)))
}

func signSuffix(t *types.Type) string {
	if t.IsSignedInteger() {
		return "s"
	}
	return "u"
}
