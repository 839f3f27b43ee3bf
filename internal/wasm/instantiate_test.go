package wasm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepkn/awwasm/api"
)

func emptyModule() *Module {
	return &Module{}
}

func TestInstantiate_minimalModule(t *testing.T) {
	store := NewStore()
	addr, err := Instantiate(store, emptyModule(), NewImportSet())
	require.NoError(t, err)
	require.Equal(t, ModuleAddr(0), addr)
	require.Equal(t, 1, store.ModuleCount())

	mi, ok := store.Module(addr)
	require.True(t, ok)
	require.Len(t, mi.FuncAddrs, 0)
	require.Len(t, mi.MemAddrs, 0)
}

func TestInstantiate_withMemory(t *testing.T) {
	module := emptyModule()
	max := uint32(4)
	module.MemorySection = []MemoryType{{Min: 1, Max: &max}}

	store := NewStore()
	addr, err := Instantiate(store, module, NewImportSet())
	require.NoError(t, err)

	mi, _ := store.Module(addr)
	require.Len(t, mi.MemAddrs, 1)
	mem, err := store.Mem(mi.MemAddrs[0])
	require.NoError(t, err)
	require.Equal(t, PageSize, len(mem.Buffer))
}

func TestInstantiate_withFunction(t *testing.T) {
	module := emptyModule()
	module.TypeSection = []*FunctionType{{Results: []api.ValueType{api.ValueTypeI32}}}
	module.FunctionSection = []uint32{0}
	module.CodeSection = []*Code{{Body: []byte{0x41, 0x2a, 0x0b}}}

	store := NewStore()
	addr, err := Instantiate(store, module, NewImportSet())
	require.NoError(t, err)

	mi, _ := store.Module(addr)
	require.Len(t, mi.FuncAddrs, 1)
	fn, err := store.Func(mi.FuncAddrs[0])
	require.NoError(t, err)
	require.True(t, fn.IsWasm())
	require.True(t, fn.Code.IsUnparsed())
}

func TestInstantiate_withDataSegment(t *testing.T) {
	module := emptyModule()
	module.MemorySection = []MemoryType{{Min: 1}}
	module.DataSection = []*DataSegment{
		{
			MemoryIndex: 0,
			Offset:      &ConstantExpression{Opcode: OpcodeI32Const, Data: []byte{16}},
			Init:        []byte("hello"),
		},
	}

	store := NewStore()
	addr, err := Instantiate(store, module, NewImportSet())
	require.NoError(t, err)

	mi, _ := store.Module(addr)
	mem, _ := store.Mem(mi.MemAddrs[0])
	require.Equal(t, []byte("hello"), mem.Buffer[16:21])
	require.Equal(t, byte(0), mem.Buffer[15])
	require.Equal(t, byte(0), mem.Buffer[21])
}

func TestInstantiate_withExports(t *testing.T) {
	module := emptyModule()
	module.MemorySection = []MemoryType{{Min: 1}}
	module.TypeSection = []*FunctionType{{}}
	module.FunctionSection = []uint32{0}
	module.CodeSection = []*Code{{Body: []byte{0x0b}}}
	module.ExportSection = []*ExportDecl{
		{Name: "memory", Type: api.ExternTypeMemory, Index: 0},
		{Name: "run", Type: api.ExternTypeFunc, Index: 0},
	}

	store := NewStore()
	addr, err := Instantiate(store, module, NewImportSet())
	require.NoError(t, err)

	mi, _ := store.Module(addr)
	require.Len(t, mi.Exports, 2)

	memExport, ok := mi.Export("memory")
	require.True(t, ok)
	require.Equal(t, api.ExternTypeMemory, memExport.Addr.Type)

	funcExport, ok := mi.Export("run")
	require.True(t, ok)
	require.Equal(t, api.ExternTypeFunc, funcExport.Addr.Type)
}

func TestInstantiate_invalidExportIndexRejected(t *testing.T) {
	module := emptyModule()
	module.ExportSection = []*ExportDecl{
		{Name: "missing", Type: api.ExternTypeFunc, Index: 0},
	}

	store := NewStore()
	_, err := Instantiate(store, module, NewImportSet())
	require.Error(t, err)

	var ierr *InstantiationError
	require.ErrorAs(t, err, &ierr)
	require.Equal(t, ErrMissingImport, ierr.Kind)
	require.Equal(t, "self", ierr.Module)
	require.Equal(t, "missing", ierr.Name)
}

func TestInstantiate_withSatisfiedImport(t *testing.T) {
	module := emptyModule()
	min := uint32(1)
	module.ImportSection = []*Import{
		{Module: "env", Name: "memory", Type: api.ExternTypeMemory, DescMemory: &MemoryType{Min: min}},
	}

	imports := NewImportSet()
	imports.AddMemory("env", "memory", NewMemoryInstance(MemoryType{Min: 1}))

	store := NewStore()
	addr, err := Instantiate(store, module, imports)
	require.NoError(t, err)

	mi, _ := store.Module(addr)
	require.Len(t, mi.MemAddrs, 1)
}

func TestInstantiate_missingImportRejected(t *testing.T) {
	module := emptyModule()
	module.ImportSection = []*Import{
		{Module: "env", Name: "memory", Type: api.ExternTypeMemory, DescMemory: &MemoryType{Min: 1}},
	}

	store := NewStore()
	_, err := Instantiate(store, module, NewImportSet())
	require.Error(t, err)

	var ierr *InstantiationError
	require.ErrorAs(t, err, &ierr)
	require.Equal(t, ErrMissingImport, ierr.Kind)
	require.Equal(t, "env", ierr.Module)
	require.Equal(t, "memory", ierr.Name)

	// A failed instantiation never becomes visible.
	require.Equal(t, 0, func() int {
		n := 0
		for i := 0; i < store.ModuleCount(); i++ {
			if _, ok := store.Module(ModuleAddr(i)); ok {
				n++
			}
		}
		return n
	}())
}

func TestInstantiate_tableImportAlwaysRejected(t *testing.T) {
	module := emptyModule()
	module.ImportSection = []*Import{
		{Module: "env", Name: "table", Type: api.ExternTypeTable, DescTable: &TableType{}},
	}

	store := NewStore()
	_, err := Instantiate(store, module, NewImportSet())
	require.Error(t, err)
}

func TestInstantiate_elementSegmentOutOfBoundsRejected(t *testing.T) {
	module := emptyModule()
	max := uint32(1)
	module.TableSection = []TableType{{Min: &max, Max: &max, ElemType: ElemTypeFuncRef}}
	module.TypeSection = []*FunctionType{{}}
	module.FunctionSection = []uint32{0}
	module.CodeSection = []*Code{{Body: []byte{0x0b}}}
	module.ElementSection = []*ElementSegment{
		{
			TableIndex: 0,
			Offset:     &ConstantExpression{Opcode: OpcodeI32Const, Data: []byte{5}},
			Init:       []uint32{0},
		},
	}

	store := NewStore()
	_, err := Instantiate(store, module, NewImportSet())
	require.Error(t, err)
	var ierr *InstantiationError
	require.ErrorAs(t, err, &ierr)
	require.Equal(t, ErrElementSegmentOutOfBounds, ierr.Kind)
}

func TestInstantiate_withGlobal(t *testing.T) {
	module := emptyModule()
	module.GlobalSection = []*GlobalDecl{
		{Type: MutableGlobalType(api.ValueTypeI32), Init: &ConstantExpression{Opcode: OpcodeI32Const, Data: []byte{0x07}}},
	}

	store := NewStore()
	addr, err := Instantiate(store, module, NewImportSet())
	require.NoError(t, err)

	mi, _ := store.Module(addr)
	require.Len(t, mi.GlobalAddrs, 1)
	g, _ := store.Global(mi.GlobalAddrs[0])
	v, _ := g.Get().I32()
	require.Equal(t, int32(7), v)
}

func TestInstantiate_nonI32GlobalInitializerRejected(t *testing.T) {
	module := emptyModule()
	module.GlobalSection = []*GlobalDecl{
		{Type: ImmutableGlobalType(api.ValueTypeI64), Init: &ConstantExpression{Opcode: OpcodeI64Const, Data: []byte{0x07}}},
	}

	store := NewStore()
	_, err := Instantiate(store, module, NewImportSet())
	require.Error(t, err)
	var ierr *InstantiationError
	require.ErrorAs(t, err, &ierr)
	require.Equal(t, ErrInvalidConstExpr, ierr.Kind)
}
