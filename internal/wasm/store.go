package wasm

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Store is the central runtime arena: every function, table, memory,
// global, element segment, data segment and module instance allocated by
// any Instantiate call on this Store lives in one of its seven slices,
// addressed by the position it was appended at. Addresses are never
// invalidated or reused, so a FuncAddr returned from one instantiation
// stays valid for the lifetime of the Store even after later modules are
// added.
type Store struct {
	// ID distinguishes one Store from another in logs; it has no bearing
	// on runtime semantics.
	ID uuid.UUID

	mu      sync.RWMutex
	funcs   []*FunctionInstance
	tables  []*TableInstance
	mems    []*MemoryInstance
	globals []*GlobalInstance
	elems   []*ElementInstance
	datas   []*DataInstance
	modules []*ModuleInstance

	log logrus.FieldLogger
}

// StoreOption configures a Store at construction time.
type StoreOption func(*Store)

// WithLogger attaches a structured logger that Instantiate uses to trace
// its allocation steps. If unset, tracing is a no-op.
func WithLogger(l logrus.FieldLogger) StoreOption {
	return func(s *Store) { s.log = l }
}

// NewStore constructs an empty Store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{ID: uuid.New()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AllocFunc appends f to the function arena and returns its address.
func (s *Store) AllocFunc(f *FunctionInstance) FuncAddr {
	s.mu.Lock()
	defer s.mu.Unlock()
	addr := FuncAddr(len(s.funcs))
	s.funcs = append(s.funcs, f)
	return addr
}

// AllocTable appends t to the table arena and returns its address.
func (s *Store) AllocTable(t *TableInstance) TableAddr {
	s.mu.Lock()
	defer s.mu.Unlock()
	addr := TableAddr(len(s.tables))
	s.tables = append(s.tables, t)
	return addr
}

// AllocMem appends m to the memory arena and returns its address.
func (s *Store) AllocMem(m *MemoryInstance) MemAddr {
	s.mu.Lock()
	defer s.mu.Unlock()
	addr := MemAddr(len(s.mems))
	s.mems = append(s.mems, m)
	return addr
}

// AllocGlobal appends g to the global arena and returns its address.
func (s *Store) AllocGlobal(g *GlobalInstance) GlobalAddr {
	s.mu.Lock()
	defer s.mu.Unlock()
	addr := GlobalAddr(len(s.globals))
	s.globals = append(s.globals, g)
	return addr
}

// AllocElem appends e to the element-segment arena and returns its
// address.
func (s *Store) AllocElem(e *ElementInstance) ElemAddr {
	s.mu.Lock()
	defer s.mu.Unlock()
	addr := ElemAddr(len(s.elems))
	s.elems = append(s.elems, e)
	return addr
}

// AllocData appends d to the data-segment arena and returns its address.
func (s *Store) AllocData(d *DataInstance) DataAddr {
	s.mu.Lock()
	defer s.mu.Unlock()
	addr := DataAddr(len(s.datas))
	s.datas = append(s.datas, d)
	return addr
}

// RegisterModule appends m to the module arena and returns its address.
func (s *Store) RegisterModule(m *ModuleInstance) ModuleAddr {
	s.mu.Lock()
	defer s.mu.Unlock()
	addr := ModuleAddr(len(s.modules))
	s.modules = append(s.modules, m)
	return addr
}

// Func resolves addr, returning a RuntimeError if it was never allocated.
func (s *Store) Func(addr FuncAddr) (*FunctionInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(addr) >= len(s.funcs) {
		return nil, &RuntimeError{Kind: ErrInvalidFuncAddr, Addr: uint32(addr)}
	}
	return s.funcs[addr], nil
}

// Table resolves addr, returning a RuntimeError if it was never allocated.
func (s *Store) Table(addr TableAddr) (*TableInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(addr) >= len(s.tables) {
		return nil, &RuntimeError{Kind: ErrInvalidTableAddr, Addr: uint32(addr)}
	}
	return s.tables[addr], nil
}

// Mem resolves addr, returning a RuntimeError if it was never allocated.
func (s *Store) Mem(addr MemAddr) (*MemoryInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(addr) >= len(s.mems) {
		return nil, &RuntimeError{Kind: ErrInvalidMemAddr, Addr: uint32(addr)}
	}
	return s.mems[addr], nil
}

// Global resolves addr, returning a RuntimeError if it was never
// allocated.
func (s *Store) Global(addr GlobalAddr) (*GlobalInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(addr) >= len(s.globals) {
		return nil, &RuntimeError{Kind: ErrInvalidGlobalAddr, Addr: uint32(addr)}
	}
	return s.globals[addr], nil
}

// Elem resolves addr, returning ok=false if it was never allocated. Unlike
// Func/Table/Mem/Global, an invalid element address is never produced by a
// well-formed module, so it is reported as a plain miss rather than a
// typed error.
func (s *Store) Elem(addr ElemAddr) (*ElementInstance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(addr) >= len(s.elems) {
		return nil, false
	}
	return s.elems[addr], true
}

// Data resolves addr, returning ok=false if it was never allocated.
func (s *Store) Data(addr DataAddr) (*DataInstance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(addr) >= len(s.datas) {
		return nil, false
	}
	return s.datas[addr], true
}

// Module resolves addr, returning ok=false if it was never allocated or its
// instantiation never completed (see PrecommitModule).
func (s *Store) Module(addr ModuleAddr) (*ModuleInstance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(addr) >= len(s.modules) || s.modules[addr] == nil {
		return nil, false
	}
	return s.modules[addr], true
}

// PrecommitModule reserves the next module address immediately, before
// instantiation has resolved imports or allocated anything, and returns a
// finalize function that fills in the reserved slot once instantiation
// succeeds. Code belonging to the module being instantiated can therefore
// be stamped with its own future ModuleAddr during allocation, without
// waiting for RegisterModule to run last.
//
// If finalize is never called (because instantiation failed), the
// reserved slot stays nil forever: it counts toward ModuleCount but Module
// never resolves it, so a failed instantiation is invisible to callers
// while still preserving the invariant that addresses are never reused.
func (s *Store) PrecommitModule() (addr ModuleAddr, finalize func(*ModuleInstance)) {
	s.mu.Lock()
	addr = ModuleAddr(len(s.modules))
	s.modules = append(s.modules, nil)
	s.mu.Unlock()
	return addr, func(m *ModuleInstance) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.modules[addr] = m
	}
}

// FuncCount returns the number of functions ever allocated by this Store.
func (s *Store) FuncCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.funcs)
}

// TableCount returns the number of tables ever allocated by this Store.
func (s *Store) TableCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables)
}

// MemCount returns the number of memories ever allocated by this Store.
func (s *Store) MemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.mems)
}

// GlobalCount returns the number of globals ever allocated by this Store.
func (s *Store) GlobalCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.globals)
}

// ModuleCount returns the number of modules ever registered with this
// Store.
func (s *Store) ModuleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.modules)
}
