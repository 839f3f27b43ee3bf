package wasm

import (
	"encoding/binary"
	"math"
)

// PageSize is the granularity at which linear memory grows: 64 KiB, fixed
// by the WebAssembly specification.
const PageSize = 65536

// MaxPages is the hard ceiling on memory size: 4 GiB of address space.
const MaxPages = 65536

// MemoryType describes a memory's size bounds in pages, as declared in a
// module's memory section or memory import.
type MemoryType struct {
	Min uint32
	Max *uint32 // nil means unbounded (up to MaxPages).
}

// MemoryInstance is a module's linear memory: a growable, zero-initialized
// byte buffer addressed byte-wise but resized page-wise.
type MemoryInstance struct {
	Type   MemoryType
	Buffer []byte
}

// NewMemoryInstance allocates a MemoryInstance with Type.Min pages,
// zero-filled.
func NewMemoryInstance(t MemoryType) *MemoryInstance {
	return &MemoryInstance{Type: t, Buffer: make([]byte, uint64(t.Min)*PageSize)}
}

// SizePages returns the current size of the memory in pages.
func (m *MemoryInstance) SizePages() uint32 {
	return uint32(len(m.Buffer) / PageSize)
}

// SizeBytes returns the current size of the memory in bytes.
func (m *MemoryInstance) SizeBytes() uint64 {
	return uint64(len(m.Buffer))
}

// Grow increases the memory by delta pages, returning the previous size in
// pages. It fails (returning ok=false) if doing so would exceed Type.Max or
// MaxPages, matching Option<u32>'s "no-op on failure" semantics in the
// original implementation.
func (m *MemoryInstance) Grow(delta uint32) (old uint32, ok bool) {
	old = m.SizePages()
	newPages := uint64(old) + uint64(delta)
	if newPages > MaxPages {
		return old, false
	}
	if m.Type.Max != nil && newPages > uint64(*m.Type.Max) {
		return old, false
	}
	grown := make([]byte, newPages*PageSize)
	copy(grown, m.Buffer)
	m.Buffer = grown
	return old, true
}

func (m *MemoryInstance) boundsError(offset, size uint64) *Trap {
	return &Trap{Code: TrapMemoryOutOfBounds, Offset: offset, Size: size, MemorySize: m.SizeBytes()}
}

// ValidateAddrRange reports whether the half-open byte range
// [addr, addr+rangeSize) lies entirely within the memory.
func (m *MemoryInstance) ValidateAddrRange(addr uint32, rangeSize uint64) bool {
	end := uint64(addr) + rangeSize
	return end <= m.SizeBytes() && end >= uint64(addr)
}

// Read returns a view of the [offset, offset+size) byte range, or a trap
// if the range is out of bounds.
func (m *MemoryInstance) Read(offset uint32, size uint32) ([]byte, *Trap) {
	if !m.ValidateAddrRange(offset, uint64(size)) {
		return nil, m.boundsError(uint64(offset), uint64(size))
	}
	return m.Buffer[offset : uint64(offset)+uint64(size)], nil
}

// Write copies data into memory starting at offset, or returns a trap if
// the range is out of bounds.
func (m *MemoryInstance) Write(offset uint32, data []byte) *Trap {
	if !m.ValidateAddrRange(offset, uint64(len(data))) {
		return m.boundsError(uint64(offset), uint64(len(data)))
	}
	copy(m.Buffer[offset:], data)
	return nil
}

// ReadByte reads a single byte at addr.
func (m *MemoryInstance) ReadByte(addr uint32) (byte, bool) {
	if !m.ValidateAddrRange(addr, 1) {
		return 0, false
	}
	return m.Buffer[addr], true
}

// PutByte writes a single byte at addr, returning false if out of bounds.
func (m *MemoryInstance) PutByte(addr uint32, val byte) bool {
	if !m.ValidateAddrRange(addr, 1) {
		return false
	}
	m.Buffer[addr] = val
	return true
}

// PutUint32 writes val as little-endian at addr, returning false if out of
// bounds rather than panicking. This mirrors how a trapping write is
// surfaced to callers that prefer a boolean over an error value.
func (m *MemoryInstance) PutUint32(addr uint32, val uint32) bool {
	if !m.ValidateAddrRange(addr, 4) {
		return false
	}
	binary.LittleEndian.PutUint32(m.Buffer[addr:], val)
	return true
}

// ReadUint32 reads a little-endian u32 at addr.
func (m *MemoryInstance) ReadUint32(addr uint32) (uint32, bool) {
	if !m.ValidateAddrRange(addr, 4) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(m.Buffer[addr:]), true
}

// PutUint64 writes val as little-endian at addr.
func (m *MemoryInstance) PutUint64(addr uint32, val uint64) bool {
	if !m.ValidateAddrRange(addr, 8) {
		return false
	}
	binary.LittleEndian.PutUint64(m.Buffer[addr:], val)
	return true
}

// ReadUint64 reads a little-endian u64 at addr.
func (m *MemoryInstance) ReadUint64(addr uint32) (uint64, bool) {
	if !m.ValidateAddrRange(addr, 8) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(m.Buffer[addr:]), true
}

// ReadFloat32 reads a little-endian f32 at addr.
func (m *MemoryInstance) ReadFloat32(addr uint32) (float32, bool) {
	bits, ok := m.ReadUint32(addr)
	if !ok {
		return 0, false
	}
	return math.Float32frombits(bits), true
}

// PutFloat32 writes val as little-endian at addr, returning false if out of
// bounds.
func (m *MemoryInstance) PutFloat32(addr uint32, val float32) bool {
	return m.PutUint32(addr, math.Float32bits(val))
}

// ReadFloat64 reads a little-endian f64 at addr.
func (m *MemoryInstance) ReadFloat64(addr uint32) (float64, bool) {
	bits, ok := m.ReadUint64(addr)
	if !ok {
		return 0, false
	}
	return math.Float64frombits(bits), true
}

// PutFloat64 writes val as little-endian at addr, returning false if out of
// bounds.
func (m *MemoryInstance) PutFloat64(addr uint32, val float64) bool {
	return m.PutUint64(addr, math.Float64bits(val))
}

// Fill sets count bytes starting at offset to value.
func (m *MemoryInstance) Fill(offset uint32, value byte, count uint32) *Trap {
	if !m.ValidateAddrRange(offset, uint64(count)) {
		return m.boundsError(uint64(offset), uint64(count))
	}
	region := m.Buffer[offset : uint64(offset)+uint64(count)]
	for i := range region {
		region[i] = value
	}
	return nil
}

// CopyWithin copies count bytes from src to dst, correctly handling
// overlapping ranges (Go's copy is memmove-safe, unlike a naive byte loop).
func (m *MemoryInstance) CopyWithin(dst, src, count uint32) *Trap {
	if !m.ValidateAddrRange(src, uint64(count)) {
		return m.boundsError(uint64(src), uint64(count))
	}
	if !m.ValidateAddrRange(dst, uint64(count)) {
		return m.boundsError(uint64(dst), uint64(count))
	}
	copy(m.Buffer[dst:uint64(dst)+uint64(count)], m.Buffer[src:uint64(src)+uint64(count)])
	return nil
}
