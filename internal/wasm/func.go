package wasm

import "github.com/deepkn/awwasm/api"

// FunctionType is a function signature: ordered parameter and result value
// types.
type FunctionType struct {
	Params, Results []api.ValueType
}

// FunctionKind distinguishes a Wasm-defined function body from one
// satisfied by a host-provided callback.
type FunctionKind byte

const (
	FunctionKindWasm FunctionKind = iota
	FunctionKindHost
)

// LocalDecl is a run of declared local variables sharing one value type, as
// they appear in a function body's local declarations.
type LocalDecl struct {
	Count uint32
	Type  api.ValueType
}

// CodeState discriminates a Wasm function's lazily-resolved code. A
// function allocated at instantiation time is always Unparsed: only its raw
// locals declarations and body bytes are known. An interpreter (outside
// this package's scope) transitions it to Resolved the first time the
// function is called, after parsing Body into executable form.
type CodeState byte

const (
	CodeUnparsed CodeState = iota
	CodeResolved
)

// Code is a function body's locals and instruction bytes, together with its
// lazy-resolution state.
type Code struct {
	State  CodeState
	Locals []LocalDecl
	Body   []byte
}

// NewCode wraps locals and body as a freshly decoded, Unparsed Code value.
func NewCode(locals []LocalDecl, body []byte) *Code {
	return &Code{State: CodeUnparsed, Locals: locals, Body: body}
}

// Resolve marks c Resolved, the transition an interpreter makes after
// parsing Body into executable form.
func (c *Code) Resolve() {
	c.State = CodeResolved
}

// IsUnparsed reports whether c is still in its initial Unparsed state.
func (c *Code) IsUnparsed() bool { return c.State == CodeUnparsed }

// IsResolved reports whether c has been parsed.
func (c *Code) IsResolved() bool { return c.State == CodeResolved }

// FunctionInstance is an allocated function: either a reference to a
// module's own code, not yet parsed, or a host callback identified by an
// opaque id the embedder resolves.
type FunctionInstance struct {
	Kind    FunctionKind
	TypeIdx uint32
	Type    *FunctionType

	// Wasm-only fields.
	Module *ModuleAddr
	Code   *Code

	// Host-only field: an embedder-assigned id used to look up the actual
	// Go callback; dispatching it is outside this package's scope.
	HostFuncID uint32
}

// NewWasmFunctionInstance allocates a FunctionInstance backed by a module's
// own code, unparsed.
func NewWasmFunctionInstance(typeIdx uint32, ft *FunctionType, module ModuleAddr, code *Code) *FunctionInstance {
	return &FunctionInstance{
		Kind:    FunctionKindWasm,
		TypeIdx: typeIdx,
		Type:    ft,
		Module:  &module,
		Code:    code,
	}
}

// NewHostFunctionInstance allocates a FunctionInstance backed by a host
// callback, identified by hostFuncID.
func NewHostFunctionInstance(typeIdx uint32, ft *FunctionType, hostFuncID uint32) *FunctionInstance {
	return &FunctionInstance{
		Kind:       FunctionKindHost,
		TypeIdx:    typeIdx,
		Type:       ft,
		HostFuncID: hostFuncID,
	}
}

// IsWasm reports whether f is backed by Wasm code.
func (f *FunctionInstance) IsWasm() bool { return f.Kind == FunctionKindWasm }

// IsHost reports whether f is backed by a host callback.
func (f *FunctionInstance) IsHost() bool { return f.Kind == FunctionKindHost }
