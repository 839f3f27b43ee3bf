package wasm

// ImportValue is a single extern value the embedder supplies to satisfy one
// import entry. There is deliberately no table variant: this runtime's
// embedder surface never accepts a caller-supplied table, matching the
// permanent restriction carried over from the original implementation.
type ImportValue struct {
	Func   *FunctionInstance
	Memory *MemoryInstance
	Global *GlobalInstance
}

// ImportEntry pairs a two-level import name with the value supplied for
// it.
type ImportEntry struct {
	Module, Name string
	Value        ImportValue
}

// ImportSet is the embedder-constructed, ordered bag of values offered to
// satisfy a module's import section. Entries are matched by two-level name
// rather than position.
type ImportSet struct {
	entries []ImportEntry
}

// NewImportSet returns an empty ImportSet.
func NewImportSet() *ImportSet {
	return &ImportSet{}
}

// AddFunc registers a function value under module/name.
func (s *ImportSet) AddFunc(module, name string, f *FunctionInstance) {
	s.entries = append(s.entries, ImportEntry{Module: module, Name: name, Value: ImportValue{Func: f}})
}

// AddMemory registers a memory value under module/name.
func (s *ImportSet) AddMemory(module, name string, m *MemoryInstance) {
	s.entries = append(s.entries, ImportEntry{Module: module, Name: name, Value: ImportValue{Memory: m}})
}

// AddGlobal registers a global value under module/name.
func (s *ImportSet) AddGlobal(module, name string, g *GlobalInstance) {
	s.entries = append(s.entries, ImportEntry{Module: module, Name: name, Value: ImportValue{Global: g}})
}

// Take removes and returns the first entry registered under module/name.
// The set is consumed destructively: a value taken to satisfy one import
// is gone and cannot satisfy a second import with the same name, matching
// the embedder import set's take(module, name) contract.
func (s *ImportSet) Take(module, name string) (ImportEntry, bool) {
	for i, e := range s.entries {
		if e.Module == module && e.Name == name {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return e, true
		}
	}
	return ImportEntry{}, false
}
