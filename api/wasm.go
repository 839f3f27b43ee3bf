// Package api includes constants shared by the runtime's internal packages
// and any future host-facing surface built on top of them.
package api

import "fmt"

// ExternType classifies an import or export by the kind of address space it
// occupies in a module instance: function, table, memory or global.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#external-types%E2%91%A0
type ExternType = byte

const (
	ExternTypeFunc   ExternType = 0x00
	ExternTypeTable  ExternType = 0x01
	ExternTypeMemory ExternType = 0x02
	ExternTypeGlobal ExternType = 0x03
)

const (
	ExternTypeFuncName   = "func"
	ExternTypeTableName  = "table"
	ExternTypeMemoryName = "memory"
	ExternTypeGlobalName = "global"
)

// ExternTypeName returns the WebAssembly text format field name for et.
func ExternTypeName(et ExternType) string {
	switch et {
	case ExternTypeFunc:
		return ExternTypeFuncName
	case ExternTypeTable:
		return ExternTypeTableName
	case ExternTypeMemory:
		return ExternTypeMemoryName
	case ExternTypeGlobal:
		return ExternTypeGlobalName
	}
	return fmt.Sprintf("%#x", et)
}

// ValueType is a numeric type carried by globals, locals and function
// signatures. This runtime supports the four numeric types of the MVP;
// reference types are represented instead as ElemType (see
// internal/wasm/table.go) since FuncRef never appears as a value on the operand stack
// in this runtime's scope.
//
// Note: this is a type alias, matching the single-byte binary encoding.
type ValueType = byte

const (
	ValueTypeI32 ValueType = 0x7f
	ValueTypeI64 ValueType = 0x7e
	ValueTypeF32 ValueType = 0x7d
	ValueTypeF64 ValueType = 0x7c
)

const (
	ValueTypeI32Name = "i32"
	ValueTypeI64Name = "i64"
	ValueTypeF32Name = "f32"
	ValueTypeF64Name = "f64"
)

// ValueTypeName returns the WebAssembly text format name for vt.
func ValueTypeName(vt ValueType) string {
	switch vt {
	case ValueTypeI32:
		return ValueTypeI32Name
	case ValueTypeI64:
		return ValueTypeI64Name
	case ValueTypeF32:
		return ValueTypeF32Name
	case ValueTypeF64:
		return ValueTypeF64Name
	}
	return fmt.Sprintf("%#x", vt)
}
