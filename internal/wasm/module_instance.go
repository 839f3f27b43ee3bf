package wasm

import (
	"unicode/utf8"

	"github.com/deepkn/awwasm/api"
)

// ExportInstance names a single address reachable from outside the module,
// one entry per export section declaration.
type ExportInstance struct {
	Name string
	Addr ExternAddr
}

// NameString returns e.Name along with whether it is valid UTF-8. Export
// names are decoded as raw bytes by the parser; this accessor lets callers
// that need a guaranteed-valid string check before using it as one.
func (e *ExportInstance) NameString() (string, bool) {
	return e.Name, utf8.ValidString(e.Name)
}

// ModuleInstance is the symbolic-to-address mapping produced by
// instantiating a Module: every index space the module declares or
// imports, flattened into Store addresses, plus its export directory and
// optional start function.
//
// The four reference-bearing index spaces (func, table, mem, global) place
// imports first, in declaration order, followed by the module's own
// definitions, matching the WebAssembly specification's index space
// construction rule.
type ModuleInstance struct {
	FuncAddrs   []FuncAddr
	TableAddrs  []TableAddr
	MemAddrs    []MemAddr
	GlobalAddrs []GlobalAddr
	ElemAddrs   []ElemAddr
	DataAddrs   []DataAddr

	Exports []*ExportInstance
	Start   *FuncAddr
}

// NewModuleInstance returns an empty ModuleInstance; instantiation
// populates every field in place as it resolves imports and allocates
// module-defined instances.
func NewModuleInstance() *ModuleInstance {
	return &ModuleInstance{}
}

// Func returns the function address at idx in the function index space, or
// false if idx is out of range for this module.
func (m *ModuleInstance) Func(idx uint32) (FuncAddr, bool) {
	if int(idx) >= len(m.FuncAddrs) {
		return 0, false
	}
	return m.FuncAddrs[idx], true
}

// Table returns the table address at idx.
func (m *ModuleInstance) Table(idx uint32) (TableAddr, bool) {
	if int(idx) >= len(m.TableAddrs) {
		return 0, false
	}
	return m.TableAddrs[idx], true
}

// Mem returns the memory address at idx.
func (m *ModuleInstance) Mem(idx uint32) (MemAddr, bool) {
	if int(idx) >= len(m.MemAddrs) {
		return 0, false
	}
	return m.MemAddrs[idx], true
}

// Global returns the global address at idx.
func (m *ModuleInstance) Global(idx uint32) (GlobalAddr, bool) {
	if int(idx) >= len(m.GlobalAddrs) {
		return 0, false
	}
	return m.GlobalAddrs[idx], true
}

// Elem returns the element-segment address at idx.
func (m *ModuleInstance) Elem(idx uint32) (ElemAddr, bool) {
	if int(idx) >= len(m.ElemAddrs) {
		return 0, false
	}
	return m.ElemAddrs[idx], true
}

// Data returns the data-segment address at idx.
func (m *ModuleInstance) Data(idx uint32) (DataAddr, bool) {
	if int(idx) >= len(m.DataAddrs) {
		return 0, false
	}
	return m.DataAddrs[idx], true
}

// Export returns the first export matching name, in declaration order, or
// false if none matches. Export names need not be unique in the binary
// format; the first declared wins, matching the original implementation.
func (m *ModuleInstance) Export(name string) (*ExportInstance, bool) {
	for _, e := range m.Exports {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// FuncExports returns every export of function type, in declaration order.
func (m *ModuleInstance) FuncExports() []*ExportInstance {
	return m.exportsOfType(api.ExternTypeFunc)
}

// MemExports returns every export of memory type, in declaration order.
func (m *ModuleInstance) MemExports() []*ExportInstance {
	return m.exportsOfType(api.ExternTypeMemory)
}

func (m *ModuleInstance) exportsOfType(t api.ExternType) []*ExportInstance {
	var out []*ExportInstance
	for _, e := range m.Exports {
		if e.Addr.Type == t {
			out = append(out, e)
		}
	}
	return out
}
