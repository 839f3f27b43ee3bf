package wasm

import "github.com/deepkn/awwasm/api"

// Module is the decoded, not-yet-instantiated representation of a Wasm
// binary: the shape a byte-level parser (out of this package's scope)
// would hand to Instantiate. Index-space references (FunctionSection
// entries, Import descriptors, branch/call targets inside Code) are module-
// local indices, not Store addresses; resolving them into addresses is
// exactly what instantiation does.
type Module struct {
	TypeSection     []*FunctionType
	ImportSection   []*Import
	FunctionSection []uint32 // index into TypeSection, one per module-defined function
	TableSection    []TableType
	MemorySection   []MemoryType
	GlobalSection   []*GlobalDecl
	ExportSection   []*ExportDecl
	StartSection    *uint32 // index into the function index space
	ElementSection  []*ElementSegment
	CodeSection     []*Code
	DataSection     []*DataSegment
}

// Import describes a single entry of the import section: a two-level name
// and the kind/type of extern it must be satisfied by.
type Import struct {
	Module, Name string
	Type         api.ExternType

	DescFunc   *uint32 // index into TypeSection, set when Type == ExternTypeFunc
	DescTable  *TableType
	DescMemory *MemoryType
	DescGlobal *GlobalType
}

// GlobalDecl is a module-defined (non-imported) global: its type and
// constant initializer expression.
type GlobalDecl struct {
	Type GlobalType
	Init *ConstantExpression
}

// ExportDecl is a single entry of the export section, naming an index in
// one of the module's index spaces.
type ExportDecl struct {
	Name  string
	Type  api.ExternType
	Index uint32
}

// ElementSegment is either an active segment, which copies Init into
// TableIndex's table at Offset during instantiation, or a passive segment,
// which is only allocated (and later consumed by an explicit table.init,
// outside this package's scope).
type ElementSegment struct {
	Passive    bool
	TableIndex uint32
	Offset     *ConstantExpression // nil for passive segments
	Init       []uint32            // function index space entries
}

// DataSegment is either an active segment, which copies Init into
// MemoryIndex's memory at Offset during instantiation, or a passive
// segment, which is only allocated.
type DataSegment struct {
	Passive     bool
	MemoryIndex uint32
	Offset      *ConstantExpression // nil for passive segments
	Init        []byte
}
