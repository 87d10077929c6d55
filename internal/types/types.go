// Package types implements the Type→Native mapping component: the source
// language's type taxonomy, projected onto the four WebAssembly value kinds
// the backend understands (i32, i64, f32, f64) plus "none" for void.
package types

import "fmt"

// Kind tags the variant a Type carries. usize's width depends on the
// compilation Target, everything else is fixed.
type Kind int

const (
	Invalid Kind = iota
	Void
	Bool
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64
	Usize
	Class
)

func (k Kind) String() string {
	switch k {
	case Void:
		return "void"
	case Bool:
		return "bool"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case Usize:
		return "usize"
	case Class:
		return "class"
	default:
		return "invalid"
	}
}

// Target selects the pointer width usize resolves to, and therefore the
// width of the heap-start pointer and every usize-typed value.
type Target int

const (
	WASM32 Target = iota
	WASM64
)

// PointerSize is sizeof(usize) in bytes for the target.
func (t Target) PointerSize() int {
	if t == WASM64 {
		return 8
	}
	return 4
}

// ClassRef names a resolved class; class layout itself is an unimplemented
// seam (spec.md §4.1 compileClass), so this only carries identity.
type ClassRef struct {
	InternalName string
}

// Type is the tagged variant over the source language's type system.
type Type struct {
	Kind  Kind
	Class *ClassRef // set iff Kind == Class
}

func New(k Kind) *Type { return &Type{Kind: k} }

func NewClass(ref *ClassRef) *Type { return &Type{Kind: Class, Class: ref} }

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	if t.Kind == Class && t.Class != nil {
		return fmt.Sprintf("class(%s)", t.Class.InternalName)
	}
	return t.Kind.String()
}

func (t *Type) Equals(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind {
		return false
	}
	if t.Kind == Class {
		return t.Class == o.Class
	}
	return true
}

// IsAnyFloat reports whether the type is f32 or f64.
func (t *Type) IsAnyFloat() bool {
	return t.Kind == F32 || t.Kind == F64
}

// IsAnyInteger reports whether the type is any of the fixed-width or usize
// integer kinds.
func (t *Type) IsAnyInteger() bool {
	switch t.Kind {
	case I8, I16, I32, I64, U8, U16, U32, U64, Usize:
		return true
	default:
		return false
	}
}

// IsLongInteger reports a 64-bit integer kind.
func (t *Type) IsLongInteger() bool {
	return t.Kind == I64 || t.Kind == U64
}

// IsSignedInteger reports whether the integer kind is signed. usize is
// treated as unsigned, matching a linear-memory address.
func (t *Type) IsSignedInteger() bool {
	switch t.Kind {
	case I8, I16, I32, I64:
		return true
	default:
		return false
	}
}

// IsSmallInteger reports an integer narrower than 32 bits.
func (t *Type) IsSmallInteger() bool {
	switch t.Kind {
	case I8, I16, U8, U16:
		return true
	default:
		return false
	}
}

// Size returns the bit width of the type, using the target's pointer width
// for usize. Non-integer/non-float kinds (bool, class, void) return 32.
func (t *Type) Size(target Target) int {
	switch t.Kind {
	case I8, U8:
		return 8
	case I16, U16:
		return 16
	case I32, U32, F32:
		return 32
	case I64, U64, F64:
		return 64
	case Usize:
		return target.PointerSize() * 8
	default:
		return 32
	}
}

// SmallIntegerShift is 32 minus the type's width, the shift amount used by
// the shl/shr sign-extension pair. Only meaningful for small integers.
func (t *Type) SmallIntegerShift(target Target) int {
	return 32 - t.Size(target)
}

// SmallIntegerMask is the low-N-bits mask (1<<width)-1 used to zero-extend
// an unsigned small integer. Only meaningful for small integers.
func (t *Type) SmallIntegerMask(target Target) uint32 {
	width := uint(t.Size(target))
	if width >= 32 {
		return 0xffffffff
	}
	return (uint32(1) << width) - 1
}

// Native is the WebAssembly value kind a Type is represented as.
type Native int

const (
	NativeNone Native = iota
	NativeI32
	NativeI64
	NativeF32
	NativeF64
)

func (n Native) String() string {
	switch n {
	case NativeI32:
		return "i32"
	case NativeI64:
		return "i64"
	case NativeF32:
		return "f32"
	case NativeF64:
		return "f64"
	default:
		return "none"
	}
}

// NativeOf projects a source Type onto its WebAssembly native representation
// for the given target. Small integers, bool, and class references are all
// represented as i32; usize follows the target's pointer width.
func NativeOf(t *Type, target Target) Native {
	if t == nil {
		return NativeNone
	}
	switch t.Kind {
	case Void:
		return NativeNone
	case F32:
		return NativeF32
	case F64:
		return NativeF64
	case I64, U64:
		return NativeI64
	case Usize:
		if target == WASM64 {
			return NativeI64
		}
		return NativeI32
	default:
		return NativeI32
	}
}

var (
	voidType  = &Type{Kind: Void}
	boolType  = &Type{Kind: Bool}
	i8Type    = &Type{Kind: I8}
	i16Type   = &Type{Kind: I16}
	i32Type   = &Type{Kind: I32}
	i64Type   = &Type{Kind: I64}
	u8Type    = &Type{Kind: U8}
	u16Type   = &Type{Kind: U16}
	u32Type   = &Type{Kind: U32}
	u64Type   = &Type{Kind: U64}
	f32Type   = &Type{Kind: F32}
	f64Type   = &Type{Kind: F64}
	usizeType = &Type{Kind: Usize}
)

func Void_() *Type  { return voidType }
func BoolT() *Type  { return boolType }
func I8T() *Type    { return i8Type }
func I16T() *Type   { return i16Type }
func I32T() *Type   { return i32Type }
func I64T() *Type   { return i64Type }
func U8T() *Type    { return u8Type }
func U16T() *Type   { return u16Type }
func U32T() *Type   { return u32Type }
func U64T() *Type   { return u64Type }
func F32T() *Type   { return f32Type }
func F64T() *Type   { return f64Type }
func UsizeT() *Type { return usizeType }
