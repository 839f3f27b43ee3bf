package wasm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepkn/awwasm/api"
)

func TestFunctionInstance_Wasm(t *testing.T) {
	ft := &FunctionType{Results: []api.ValueType{api.ValueTypeI32}}
	f := NewWasmFunctionInstance(0, ft, ModuleAddr(0), NewCode(nil, []byte{0x41, 0x2a, 0x0b}))
	require.True(t, f.IsWasm())
	require.False(t, f.IsHost())
	require.Equal(t, ModuleAddr(0), *f.Module)
	require.True(t, f.Code.IsUnparsed())
	require.False(t, f.Code.IsResolved())

	f.Code.Resolve()
	require.True(t, f.Code.IsResolved())
}

func TestFunctionInstance_Host(t *testing.T) {
	ft := &FunctionType{}
	f := NewHostFunctionInstance(1, ft, 42)
	require.True(t, f.IsHost())
	require.Equal(t, uint32(42), f.HostFuncID)
}
