package wasm

// ElementInstance is an allocated element segment: a list of optional
// function addresses that can be copied into a table via table.init, then
// discarded via elem.drop. Passive segments are allocated but never
// auto-applied; active segments are applied once during instantiation and
// then also become droppable.
type ElementInstance struct {
	Type    ElemType
	Elem    []*FuncAddr
	dropped bool
}

// NewElementInstance allocates an ElementInstance from the given funcrefs.
func NewElementInstance(t ElemType, elem []*FuncAddr) *ElementInstance {
	return &ElementInstance{Type: t, Elem: elem}
}

// Drop empties the segment and marks it dropped; subsequent table.init
// instructions referencing it must trap.
func (e *ElementInstance) Drop() {
	e.Elem = nil
	e.dropped = true
}

// IsDropped reports whether Drop has been called.
func (e *ElementInstance) IsDropped() bool { return e.dropped }

// DataInstance is an allocated data segment. It holds the segment's bytes
// without copying them (the slice is shared with the decoded Module), and
// Go's GC keeps them alive while referenced, so Drop need only flip the
// dropped flag and release the reference for collection.
type DataInstance struct {
	data    []byte
	dropped bool
}

// NewDataInstance allocates a DataInstance wrapping data.
func NewDataInstance(data []byte) *DataInstance {
	return &DataInstance{data: data}
}

// Drop releases the segment's bytes and marks it dropped.
func (d *DataInstance) Drop() {
	d.data = nil
	d.dropped = true
}

// IsDropped reports whether Drop has been called.
func (d *DataInstance) IsDropped() bool { return d.dropped }

// Bytes returns the segment's bytes, or nil and false if it has been
// dropped.
func (d *DataInstance) Bytes() ([]byte, bool) {
	if d.dropped {
		return nil, false
	}
	return d.data, true
}
