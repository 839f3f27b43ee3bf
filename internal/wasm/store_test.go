package wasm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore_AllocFunc_assignsSequentialAddresses(t *testing.T) {
	s := NewStore()
	a0 := s.AllocFunc(&FunctionInstance{Kind: FunctionKindHost})
	a1 := s.AllocFunc(&FunctionInstance{Kind: FunctionKindHost})
	require.Equal(t, FuncAddr(0), a0)
	require.Equal(t, FuncAddr(1), a1)
	require.Equal(t, 2, s.FuncCount())
}

func TestStore_Func_invalidAddr(t *testing.T) {
	s := NewStore()
	_, err := s.Func(FuncAddr(0))
	require.Error(t, err)
	var rerr *RuntimeError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, ErrInvalidFuncAddr, rerr.Kind)
}

func TestStore_Elem_missingIsNotAnError(t *testing.T) {
	s := NewStore()
	_, ok := s.Elem(ElemAddr(0))
	require.False(t, ok)
}

func TestStore_RegisterModule(t *testing.T) {
	s := NewStore()
	addr := s.RegisterModule(NewModuleInstance())
	require.Equal(t, ModuleAddr(0), addr)
	require.Equal(t, 1, s.ModuleCount())

	got, ok := s.Module(addr)
	require.True(t, ok)
	require.NotNil(t, got)
}

func TestNewStore_hasID(t *testing.T) {
	s := NewStore()
	require.NotEqual(t, s.ID.String(), NewStore().ID.String())
}
