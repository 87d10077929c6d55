// Package memlayout implements the Memory layout manager component
// (spec.md §4.5): allocating linear-memory offsets for data segments and
// emitting the heap-start pointer segment. It has no backend dependency of
// its own — it hands the driver plain offsets and byte slices, which the
// driver feeds to ir.Module.AddDataSegment.
package memlayout

import (
	"encoding/binary"
	"fmt"

	"github.com/dustin/go-humanize"

	"wasmcore/internal/types"
)

// WasmPageSize is the fixed 64 KiB WebAssembly linear-memory page size.
const WasmPageSize = 64 * 1024

// MaxPages is a fixed platform constant published as the memory's maximum
// page count (spec.md §4.1 step 5: "a maximum (a fixed platform constant)").
const MaxPages = 65536

// Segment is one allocated data segment, matching spec.md §3's MemorySegment.
type Segment struct {
	Offset uint64
	Bytes  []byte
}

// Manager tracks the next free linear-memory byte and the ordered list of
// allocated segments (spec.md §3 Compiler state: memoryOffset, memorySegments).
type Manager struct {
	target   types.Target
	offset   uint64
	segments []Segment
}

// New starts memoryOffset at 2×sizeof(usize): one slot for the null
// sentinel, one for the heap-start pointer (spec.md §3).
func New(target types.Target) *Manager {
	ptr := uint64(target.PointerSize())
	return &Manager{target: target, offset: 2 * ptr}
}

// AddSegment aligns memoryOffset up to 8 bytes, appends a new segment at
// that offset, and advances memoryOffset by len(bytes). The manager does not
// know per-type alignment, so it conservatively picks the strictest uniform
// policy (spec.md §4.5).
func (m *Manager) AddSegment(bytes []byte) Segment {
	m.offset = alignUp(m.offset, 8)
	seg := Segment{Offset: m.offset, Bytes: bytes}
	m.segments = append(m.segments, seg)
	m.offset += uint64(len(bytes))
	return seg
}

func alignUp(v, align uint64) uint64 {
	rem := v % align
	if rem == 0 {
		return v
	}
	return v + (align - rem)
}

// Offset returns the current (monotonically non-decreasing) memoryOffset.
func (m *Manager) Offset() uint64 { return m.offset }

// Segments returns every allocated segment (excluding the heap-start
// segment, which the driver writes separately via HeapStartSegment).
func (m *Manager) Segments() []Segment { return m.segments }

// HeapStartSegment builds the well-known heap-start pointer segment:
// `[sizeof(usize), 2·sizeof(usize))`, little-endian encoding memoryOffset at
// the moment of finalization, width 4 or 8 by target (spec.md §4.1 step 4).
// On a 32-bit target, an offset that overflows 32 bits is a fatal error —
// spec.md §8 boundary: "32-bit target: finalization with memoryOffset >
// 2^32-1 fails fatally."
func (m *Manager) HeapStartSegment() (Segment, error) {
	ptr := m.target.PointerSize()
	buf := make([]byte, ptr)
	if ptr == 4 {
		if m.offset > 0xffffffff {
			return Segment{}, fmt.Errorf("memlayout: heap start offset %d does not fit in 32 bits", m.offset)
		}
		binary.LittleEndian.PutUint32(buf, uint32(m.offset))
	} else {
		binary.LittleEndian.PutUint64(buf, m.offset)
	}
	return Segment{Offset: uint64(ptr), Bytes: buf}, nil
}

// PagesNeeded rounds memoryOffset up to a 64 KiB page boundary and returns
// the page count (spec.md §4.1 step 5).
func (m *Manager) PagesNeeded() uint32 {
	rounded := alignUp(m.offset, WasmPageSize)
	return uint32(rounded / WasmPageSize)
}

// Summary formats total allocated linear-memory bytes for CLI/debug output,
// via go-humanize, matching SPEC_FULL.md's AMBIENT STACK note.
func (m *Manager) Summary() string {
	return fmt.Sprintf("%s linear memory (%d segment(s), %s)",
		humanize.Bytes(m.offset), len(m.segments), humanize.Comma(int64(m.PagesNeeded())+0)+" page(s)")
}
