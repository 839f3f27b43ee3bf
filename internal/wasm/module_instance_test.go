package wasm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepkn/awwasm/api"
)

func TestModuleInstance_indexSpaceAccessors(t *testing.T) {
	m := NewModuleInstance()
	m.FuncAddrs = []FuncAddr{10, 11}
	m.MemAddrs = []MemAddr{5}

	f, ok := m.Func(1)
	require.True(t, ok)
	require.Equal(t, FuncAddr(11), f)

	_, ok = m.Func(2)
	require.False(t, ok)

	mem, ok := m.Mem(0)
	require.True(t, ok)
	require.Equal(t, MemAddr(5), mem)
}

func TestModuleInstance_Export(t *testing.T) {
	m := NewModuleInstance()
	m.Exports = []*ExportInstance{
		{Name: "mem", Addr: ExternAddr{Type: api.ExternTypeMemory, Mem: 0}},
		{Name: "run", Addr: ExternAddr{Type: api.ExternTypeFunc, Func: 3}},
	}

	e, ok := m.Export("run")
	require.True(t, ok)
	require.Equal(t, FuncAddr(3), e.Addr.Func)

	_, ok = m.Export("missing")
	require.False(t, ok)

	require.Len(t, m.FuncExports(), 1)
	require.Len(t, m.MemExports(), 1)
}

func TestExportInstance_NameString(t *testing.T) {
	valid := &ExportInstance{Name: "run"}
	name, ok := valid.NameString()
	require.True(t, ok)
	require.Equal(t, "run", name)

	invalid := &ExportInstance{Name: string([]byte{0xff, 0xfe})}
	_, ok = invalid.NameString()
	require.False(t, ok)
}
