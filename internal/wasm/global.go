package wasm

import "github.com/deepkn/awwasm/api"

// GlobalType describes a global's value type and whether it can be
// modified after initialization.
type GlobalType struct {
	Mutable   bool
	ValueType api.ValueType
}

// ImmutableGlobalType constructs a const GlobalType.
func ImmutableGlobalType(vt api.ValueType) GlobalType {
	return GlobalType{Mutable: false, ValueType: vt}
}

// MutableGlobalType constructs a mutable GlobalType.
func MutableGlobalType(vt api.ValueType) GlobalType {
	return GlobalType{Mutable: true, ValueType: vt}
}

// GlobalInstance is a module's global variable: a single typed value whose
// mutability is fixed for the instance's lifetime.
type GlobalInstance struct {
	Type  GlobalType
	value Value
}

// NewGlobalInstance constructs a GlobalInstance holding the given initial
// value.
func NewGlobalInstance(t GlobalType, initial Value) *GlobalInstance {
	return &GlobalInstance{Type: t, value: initial}
}

// Get returns the global's current value.
func (g *GlobalInstance) Get() Value {
	return g.value
}

// Set updates the global's value, failing if the global is immutable. This
// mirrors the original's Result<(),()>: the only way Set can fail is the
// mutability check, so a bool return is sufficient.
func (g *GlobalInstance) Set(v Value) bool {
	if !g.Type.Mutable {
		return false
	}
	g.value = v
	return true
}

// IsMutable reports whether the global can be assigned to after init.
func (g *GlobalInstance) IsMutable() bool {
	return g.Type.Mutable
}
