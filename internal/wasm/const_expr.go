package wasm

import (
	"bytes"
	"fmt"

	"github.com/deepkn/awwasm/internal/wasm/leb128"
)

// Opcode identifies the single instruction a constant expression carries.
type Opcode byte

const (
	OpcodeI32Const  Opcode = 0x41
	OpcodeI64Const  Opcode = 0x42
	OpcodeF32Const  Opcode = 0x43
	OpcodeF64Const  Opcode = 0x44
	OpcodeGlobalGet Opcode = 0x23
	OpcodeEnd       Opcode = 0x0b
)

// ConstantExpression is a parsed constant expression: one instruction plus
// its immediate operand bytes, used for global initializers and active
// element/data segment offsets. Its own binary decoding (readConstant
// Expression in the byte-level parser) is out of this package's scope;
// ExecuteConstExpr only evaluates an already-decoded expression.
type ConstantExpression struct {
	Opcode Opcode
	Data   []byte
}

// ExecuteConstExpr evaluates expr, supporting only i32.const <leb128> end —
// bytecode 0x41 <sleb128> 0x0B, returning an i32 Value whose bit pattern is
// the operand's two's-complement u32. Any other opcode, including the other
// three numeric consts and global.get, is rejected with an error, which
// Instantiate reports as ErrInvalidConstExpr.
func ExecuteConstExpr(expr *ConstantExpression) (Value, error) {
	if expr.Opcode != OpcodeI32Const {
		return Value{}, fmt.Errorf("const_expr: unsupported opcode %#x", byte(expr.Opcode))
	}
	r := bytes.NewReader(expr.Data)
	v, err := leb128.DecodeInt32(r)
	if err != nil {
		return Value{}, fmt.Errorf("const_expr: decoding i32.const operand: %w", err)
	}
	return ValueI32(v), nil
}
