package types

import "golang.org/x/exp/constraints"

// SignExtend performs the shl/shr sign-extension pair spec.md's conversion
// truth table calls for when narrowing to a signed small integer of width
// bits: (x << (32-width)) >> (32-width), using an arithmetic (signed) shift.
func SignExtend[T constraints.Signed](x T, width int) T {
	shift := T(32 - width)
	return (x << shift) >> shift
}

// ZeroMask applies the low-N-bits mask used when narrowing to an unsigned
// small integer: x & ((1<<width)-1).
func ZeroMask[T constraints.Unsigned](x T, width int) T {
	return x & ((T(1) << T(width)) - 1)
}
