package wasm

// Addresses are indices into one of the Store's arenas. Every allocation
// appends to its arena and never reuses or invalidates a prior index, so an
// address stays valid for the lifetime of the Store that issued it.
//
// Each kind gets its own type so a TableAddr can never be passed where a
// MemAddr is expected, mirroring the distinct address spaces the WebAssembly
// specification defines for funcs, tables, mems, globals, elems and datas.
type (
	FuncAddr   uint32
	TableAddr  uint32
	MemAddr    uint32
	GlobalAddr uint32
	ElemAddr   uint32
	DataAddr   uint32
	ModuleAddr uint32
)

// ExternAddr is the tagged union of the four address kinds that can be
// imported, exported, or targeted by a module's start function: func,
// table, memory and global. Exactly one of the Func/Table/Mem/Global
// fields is meaningful, as indicated by Type.
type ExternAddr struct {
	Type   byte // one of api.ExternType*
	Func   FuncAddr
	Table  TableAddr
	Mem    MemAddr
	Global GlobalAddr
}
