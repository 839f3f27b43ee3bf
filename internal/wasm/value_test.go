package wasm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepkn/awwasm/api"
)

func TestValue_I32(t *testing.T) {
	v := ValueI32(-1)
	require.Equal(t, api.ValueTypeI32, v.Type)
	i, ok := v.I32()
	require.True(t, ok)
	require.Equal(t, int32(-1), i)

	_, ok = v.I64()
	require.False(t, ok)
}

func TestValue_I64(t *testing.T) {
	v := ValueI64(math.MinInt64)
	i, ok := v.I64()
	require.True(t, ok)
	require.Equal(t, int64(math.MinInt64), i)
}

func TestValue_F32(t *testing.T) {
	v := ValueF32(3.14)
	f, ok := v.F32()
	require.True(t, ok)
	require.Equal(t, float32(3.14), f)
}

func TestValue_F64(t *testing.T) {
	v := ValueF64(3.1231231231)
	f, ok := v.F64()
	require.True(t, ok)
	require.Equal(t, 3.1231231231, f)
}

func TestDefaultValue(t *testing.T) {
	for _, vt := range []api.ValueType{api.ValueTypeI32, api.ValueTypeI64, api.ValueTypeF32, api.ValueTypeF64} {
		v := DefaultValue(vt)
		require.Equal(t, vt, v.Type)
		require.Equal(t, uint64(0), v.Bits())
	}
}
