package wasm

// ElemType is the type of values a table holds. Only funcref tables are
// exercised by this runtime; ElemTypeExternRef is a placeholder that no
// operation populates.
type ElemType byte

const (
	ElemTypeFuncRef ElemType = iota
	ElemTypeExternRef
)

// TableType describes a table's element type and size bounds.
type TableType struct {
	Min, Max *uint32
	ElemType ElemType
}

// FuncRefTableType builds a funcref TableType with the given bounds. Min is
// always present; Max is nil for an unbounded table.
func FuncRefTableType(min uint32, max *uint32) TableType {
	return TableType{Min: &min, Max: max, ElemType: ElemTypeFuncRef}
}

// TableInstance is a module's table: a resizable array of optional function
// addresses, indirectly callable by index.
type TableInstance struct {
	Type TableType
	Elem []*FuncAddr // nil entry means a null funcref slot.
}

// NewTableInstance allocates a TableInstance with Type.Min null slots.
func NewTableInstance(t TableType) *TableInstance {
	min := uint32(0)
	if t.Min != nil {
		min = *t.Min
	}
	return &TableInstance{Type: t, Elem: make([]*FuncAddr, min)}
}

// Size returns the current number of slots in the table.
func (tb *TableInstance) Size() uint32 {
	return uint32(len(tb.Elem))
}

func (tb *TableInstance) outOfBounds(index uint32) *Trap {
	return &Trap{Code: TrapTableOutOfBounds, Index: index, TableSize: tb.Size()}
}

// Get returns the funcref at index, or a trap if index is out of bounds. A
// nil result with no trap means a null (unset) slot.
func (tb *TableInstance) Get(index uint32) (*FuncAddr, *Trap) {
	if index >= tb.Size() {
		return nil, tb.outOfBounds(index)
	}
	return tb.Elem[index], nil
}

// Set stores value at index, or traps if index is out of bounds.
func (tb *TableInstance) Set(index uint32, value *FuncAddr) *Trap {
	if index >= tb.Size() {
		return tb.outOfBounds(index)
	}
	tb.Elem[index] = value
	return nil
}

// Grow appends delta slots initialized to init, returning the previous
// size. Unlike memory, tables have no absolute ceiling beyond Type.Max.
func (tb *TableInstance) Grow(delta uint32, init *FuncAddr) (old uint32, ok bool) {
	old = tb.Size()
	newSize := uint64(old) + uint64(delta)
	if tb.Type.Max != nil && newSize > uint64(*tb.Type.Max) {
		return old, false
	}
	grown := make([]*FuncAddr, newSize)
	copy(grown, tb.Elem)
	for i := uint64(old); i < newSize; i++ {
		grown[i] = init
	}
	tb.Elem = grown
	return old, true
}

// Fill sets count slots starting at offset to value. The out-of-bounds
// trap reports the last index the fill would have touched
// (offset+count-1), not offset itself, matching the boundary check used by
// the original implementation.
func (tb *TableInstance) Fill(offset uint32, value *FuncAddr, count uint32) *Trap {
	if count == 0 {
		if offset > tb.Size() {
			return tb.outOfBounds(offset)
		}
		return nil
	}
	end := uint64(offset) + uint64(count)
	if end > uint64(tb.Size()) {
		return tb.outOfBounds(offset + count - 1)
	}
	for i := offset; i < offset+count; i++ {
		tb.Elem[i] = value
	}
	return nil
}

// CopyWithin copies count slots from src to dst, handling overlap safely.
func (tb *TableInstance) CopyWithin(dst, src, count uint32) *Trap {
	if uint64(src)+uint64(count) > uint64(tb.Size()) {
		return tb.outOfBounds(src)
	}
	if uint64(dst)+uint64(count) > uint64(tb.Size()) {
		return tb.outOfBounds(dst)
	}
	srcRange := rangeOverlaps(src, count, dst)
	dstRange := rangeOverlaps(dst, count, src)
	if srcRange || dstRange {
		scratch := make([]*FuncAddr, count)
		copy(scratch, tb.Elem[src:uint64(src)+uint64(count)])
		copy(tb.Elem[dst:uint64(dst)+uint64(count)], scratch)
		return nil
	}
	copy(tb.Elem[dst:uint64(dst)+uint64(count)], tb.Elem[src:uint64(src)+uint64(count)])
	return nil
}

func rangeOverlaps(start, count, point uint32) bool {
	return point >= start && point < start+count
}
