package wasm

import (
	"math"

	"github.com/deepkn/awwasm/api"
)

// Value is a WebAssembly numeric value of one of the four MVP value types.
// Go has no tagged-union primitive, so Value carries its type tag alongside
// a 64-bit bit pattern wide enough to hold any of i32, i64, f32 or f64:
// i32 and f32 occupy the low 32 bits, sign- or zero-extension is irrelevant
// since the bits are reinterpreted rather than arithmetically extended.
type Value struct {
	Type api.ValueType
	bits uint64
}

// ValueI32 constructs an i32 Value, storing v as its raw two's-complement
// bit pattern.
func ValueI32(v int32) Value {
	return Value{Type: api.ValueTypeI32, bits: uint64(uint32(v))}
}

// ValueU32 constructs an i32 Value from an already-unsigned bit pattern.
func ValueU32(v uint32) Value {
	return Value{Type: api.ValueTypeI32, bits: uint64(v)}
}

// ValueI64 constructs an i64 Value.
func ValueI64(v int64) Value {
	return Value{Type: api.ValueTypeI64, bits: uint64(v)}
}

// ValueU64 constructs an i64 Value from an already-unsigned bit pattern.
func ValueU64(v uint64) Value {
	return Value{Type: api.ValueTypeI64, bits: v}
}

// ValueF32 constructs an f32 Value.
func ValueF32(v float32) Value {
	return Value{Type: api.ValueTypeF32, bits: uint64(math.Float32bits(v))}
}

// ValueF64 constructs an f64 Value.
func ValueF64(v float64) Value {
	return Value{Type: api.ValueTypeF64, bits: math.Float64bits(v)}
}

// DefaultValue returns the zero value for vt.
func DefaultValue(vt api.ValueType) Value {
	return Value{Type: vt, bits: 0}
}

// I32 returns v reinterpreted as a signed 32-bit integer, and whether v is
// actually typed i32.
func (v Value) I32() (int32, bool) {
	if v.Type != api.ValueTypeI32 {
		return 0, false
	}
	return int32(uint32(v.bits)), true
}

// I64 returns v reinterpreted as a signed 64-bit integer, and whether v is
// actually typed i64.
func (v Value) I64() (int64, bool) {
	if v.Type != api.ValueTypeI64 {
		return 0, false
	}
	return int64(v.bits), true
}

// F32 returns v reinterpreted as a 32-bit float, and whether v is actually
// typed f32.
func (v Value) F32() (float32, bool) {
	if v.Type != api.ValueTypeF32 {
		return 0, false
	}
	return math.Float32frombits(uint32(v.bits)), true
}

// F64 returns v reinterpreted as a 64-bit float, and whether v is actually
// typed f64.
func (v Value) F64() (float64, bool) {
	if v.Type != api.ValueTypeF64 {
		return 0, false
	}
	return math.Float64frombits(v.bits), true
}

// Bits returns the raw 64-bit pattern backing v, regardless of type.
func (v Value) Bits() uint64 {
	return v.bits
}
