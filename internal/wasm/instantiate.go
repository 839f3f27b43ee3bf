package wasm

import (
	"github.com/deepkn/awwasm/api"
	"github.com/deepkn/awwasm/internal/instrace"
)

// StartInvoker executes a module's start function once instantiation has
// otherwise completed. Actually running Wasm code is outside this
// package's scope, so the caller supplies the invoker (typically backed by
// an interpreter elsewhere in the embedder); a nil invoker skips execution
// of funcref-typed start functions but still wires up Start on the
// returned ModuleInstance.
type StartInvoker func(store *Store, fn FuncAddr) error

// InstantiateOption configures a single Instantiate call.
type InstantiateOption func(*instantiateConfig)

type instantiateConfig struct {
	name         string
	startInvoker StartInvoker
	tracer       *instrace.Tracer
}

// WithModuleName attaches a name to the module instance, used only for
// tracing; this runtime has no module-registry concept of its own.
func WithModuleName(name string) InstantiateOption {
	return func(c *instantiateConfig) { c.name = name }
}

// WithStartInvoker supplies the callback used to execute a start function.
func WithStartInvoker(inv StartInvoker) InstantiateOption {
	return func(c *instantiateConfig) { c.startInvoker = inv }
}

// WithTracer attaches an instantiation step tracer.
func WithTracer(t *instrace.Tracer) InstantiateOption {
	return func(c *instantiateConfig) { c.tracer = t }
}

// Instantiate runs the full instantiation pipeline for module against
// store, using imports to satisfy the import section, and returns the
// address of the newly registered ModuleInstance.
//
// The pipeline is atomic with respect to module visibility: on any error,
// the returned ModuleAddr is the zero value and no ModuleInstance ever
// becomes resolvable through Store.Module. It is not atomic with respect
// to the Store's other arenas — functions, tables, memories, globals,
// element and data segments allocated by earlier steps before a later step
// fails remain allocated, dangling and unreferenced by any visible module.
// This trades rollback complexity for the Store's core invariant that an
// address, once handed out, is never invalidated or reassigned.
func Instantiate(store *Store, module *Module, imports *ImportSet, opts ...InstantiateOption) (ModuleAddr, error) {
	cfg := &instantiateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	tracer := cfg.tracer
	if tracer == nil {
		tracer = instrace.New(store.log, cfg.name)
	}

	// Reserve this module's own address before allocating anything else,
	// so module-defined function instances can record it in their Module
	// field without a second pass.
	modAddr, finalize := store.PrecommitModule()
	mi := NewModuleInstance()

	// Step 1: resolve imports. Every ImportSection entry must find a
	// matching ImportSet entry of the same extern kind and a compatible
	// type; mismatches here are unconditional rejections. Imports resolved
	// before the failing one have already been moved into the Store.
	if err := resolveImports(store, mi, module, imports); err != nil {
		tracer.Reject("resolve_imports", err)
		return 0, err
	}
	tracer.Step("resolve_imports", nil)

	// Step 2: allocate module-defined functions, unparsed. The function
	// and code sections must agree on count; each function is stamped
	// with modAddr so it can later resolve its own module's types and
	// globals during lazy parsing.
	if err := allocateFunctions(store, mi, module, modAddr); err != nil {
		tracer.Reject("allocate_functions", err)
		return 0, err
	}
	tracer.Step("allocate_functions", map[string]interface{}{"count": len(module.FunctionSection)})

	// Step 3: allocate module-defined tables.
	allocateTables(store, mi, module)
	tracer.Step("allocate_tables", map[string]interface{}{"count": len(module.TableSection)})

	// Step 4: allocate module-defined memories.
	if err := allocateMemories(store, mi, module); err != nil {
		tracer.Reject("allocate_memories", err)
		return 0, err
	}
	tracer.Step("allocate_memories", map[string]interface{}{"count": len(module.MemorySection)})

	// Step 5: allocate module-defined globals, evaluating each
	// initializer with the const-expression evaluator (i32.const only).
	if err := allocateGlobals(store, mi, module); err != nil {
		tracer.Reject("allocate_globals", err)
		return 0, err
	}
	tracer.Step("allocate_globals", map[string]interface{}{"count": len(module.GlobalSection)})

	// Step 6: allocate element segments and copy active ones into their
	// target tables.
	if err := allocateElements(store, mi, module); err != nil {
		tracer.Reject("allocate_elements", err)
		return 0, err
	}
	tracer.Step("allocate_elements", map[string]interface{}{"count": len(module.ElementSection)})

	// Step 7: allocate data segments and copy active ones into their
	// target memories.
	if err := allocateData(store, mi, module); err != nil {
		tracer.Reject("allocate_data", err)
		return 0, err
	}
	tracer.Step("allocate_data", map[string]interface{}{"count": len(module.DataSection)})

	// Step 8: build the export directory, resolve and optionally invoke
	// the start function, then make the module visible.
	if err := buildExports(mi, module); err != nil {
		tracer.Reject("build_exports", err)
		return 0, err
	}
	if module.StartSection != nil {
		startAddr, ok := mi.Func(*module.StartSection)
		if !ok {
			err := &InstantiationError{Kind: ErrUnsupportedType, Description: "start function index out of range"}
			tracer.Reject("start", err)
			return 0, err
		}
		mi.Start = &startAddr
		if cfg.startInvoker != nil {
			if err := cfg.startInvoker(store, startAddr); err != nil {
				wrapped := &InstantiationError{Kind: ErrStartFunctionTrapped, Cause: err}
				tracer.Reject("start", wrapped)
				return 0, wrapped
			}
		}
	}
	tracer.Step("build_exports", map[string]interface{}{"count": len(mi.Exports)})

	finalize(mi)
	tracer.Step("register_module", map[string]interface{}{"addr": uint32(modAddr)})
	return modAddr, nil
}

func resolveImports(store *Store, mi *ModuleInstance, module *Module, imports *ImportSet) error {
	for _, imp := range module.ImportSection {
		entry, found := imports.Take(imp.Module, imp.Name)
		if !found {
			return &InstantiationError{Kind: ErrMissingImport, Module: imp.Module, Name: imp.Name}
		}
		switch imp.Type {
		case api.ExternTypeFunc:
			if entry.Value.Func == nil {
				return importMismatch(imp, "func")
			}
			expected := module.TypeSection[*imp.DescFunc]
			if !sameFunctionType(expected, entry.Value.Func.Type) {
				return importMismatch(imp, "func")
			}
			mi.FuncAddrs = append(mi.FuncAddrs, store.AllocFunc(entry.Value.Func))
		case api.ExternTypeMemory:
			if entry.Value.Memory == nil {
				return importMismatch(imp, "memory")
			}
			if entry.Value.Memory.Type.Min < imp.DescMemory.Min {
				return importMismatch(imp, "memory")
			}
			if imp.DescMemory.Max != nil {
				if entry.Value.Memory.Type.Max == nil || *entry.Value.Memory.Type.Max > *imp.DescMemory.Max {
					return importMismatch(imp, "memory")
				}
			}
			mi.MemAddrs = append(mi.MemAddrs, store.AllocMem(entry.Value.Memory))
		case api.ExternTypeGlobal:
			if entry.Value.Global == nil {
				return importMismatch(imp, "global")
			}
			if entry.Value.Global.Type.ValueType != imp.DescGlobal.ValueType || entry.Value.Global.IsMutable() != imp.DescGlobal.Mutable {
				return importMismatch(imp, "global")
			}
			mi.GlobalAddrs = append(mi.GlobalAddrs, store.AllocGlobal(entry.Value.Global))
		case api.ExternTypeTable:
			// No embedder surface ever offers a table import in this
			// runtime; a table import whose name is present in the set is
			// therefore rejected as unsupported.
			return &InstantiationError{Kind: ErrUnsupportedType, Description: "table imports not yet supported"}
		}
	}
	return nil
}

func importMismatch(imp *Import, kind string) *InstantiationError {
	return &InstantiationError{
		Kind:     ErrImportTypeMismatch,
		Module:   imp.Module,
		Name:     imp.Name,
		Expected: kind,
		Got:      "incompatible " + kind,
	}
}

func sameFunctionType(a *FunctionType, b *FunctionType) bool {
	if a == nil || b == nil || len(a.Params) != len(b.Params) || len(a.Results) != len(b.Results) {
		return false
	}
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			return false
		}
	}
	for i := range a.Results {
		if a.Results[i] != b.Results[i] {
			return false
		}
	}
	return true
}

func allocateFunctions(store *Store, mi *ModuleInstance, module *Module, modAddr ModuleAddr) error {
	if len(module.FunctionSection) != len(module.CodeSection) {
		return &InstantiationError{
			Kind:      ErrFuncCodeMismatch,
			FuncCount: len(module.FunctionSection),
			CodeCount: len(module.CodeSection),
		}
	}
	for i, typeIdx := range module.FunctionSection {
		ft := module.TypeSection[typeIdx]
		code := module.CodeSection[i]
		fi := NewWasmFunctionInstance(typeIdx, ft, modAddr, code)
		mi.FuncAddrs = append(mi.FuncAddrs, store.AllocFunc(fi))
	}
	return nil
}

func allocateTables(store *Store, mi *ModuleInstance, module *Module) {
	for _, tt := range module.TableSection {
		mi.TableAddrs = append(mi.TableAddrs, store.AllocTable(NewTableInstance(tt)))
	}
}

func allocateMemories(store *Store, mi *ModuleInstance, module *Module) error {
	for _, mt := range module.MemorySection {
		if mt.Min > MaxPages || (mt.Max != nil && *mt.Max > MaxPages) {
			return &InstantiationError{Kind: ErrMemoryAllocationFailed, RequestedPages: mt.Min}
		}
		mi.MemAddrs = append(mi.MemAddrs, store.AllocMem(NewMemoryInstance(mt)))
	}
	return nil
}

func allocateGlobals(store *Store, mi *ModuleInstance, module *Module) error {
	for _, decl := range module.GlobalSection {
		val, err := ExecuteConstExpr(decl.Init)
		if err != nil {
			return &InstantiationError{Kind: ErrInvalidConstExpr, Description: err.Error()}
		}
		gi := NewGlobalInstance(decl.Type, val)
		mi.GlobalAddrs = append(mi.GlobalAddrs, store.AllocGlobal(gi))
	}
	return nil
}

func allocateElements(store *Store, mi *ModuleInstance, module *Module) error {
	for i, seg := range module.ElementSection {
		funcrefs := make([]*FuncAddr, len(seg.Init))
		for j, idx := range seg.Init {
			addr, ok := mi.Func(idx)
			if !ok {
				return &InstantiationError{
					Kind:         ErrElementSegmentOutOfBounds,
					SegmentIndex: uint32(i),
					Offset:       uint64(idx),
					Size:         uint64(len(seg.Init)),
				}
			}
			a := addr
			funcrefs[j] = &a
		}
		elemAddr := store.AllocElem(NewElementInstance(ElemTypeFuncRef, funcrefs))
		mi.ElemAddrs = append(mi.ElemAddrs, elemAddr)

		if seg.Passive {
			continue
		}
		tableAddr, ok := mi.Table(seg.TableIndex)
		if !ok {
			return &InstantiationError{Kind: ErrElementSegmentOutOfBounds, SegmentIndex: uint32(i)}
		}
		table, err := store.Table(tableAddr)
		if err != nil {
			return &InstantiationError{Kind: ErrElementSegmentOutOfBounds, SegmentIndex: uint32(i)}
		}
		offsetVal, err := ExecuteConstExpr(seg.Offset)
		if err != nil {
			return &InstantiationError{Kind: ErrInvalidConstExpr, Description: err.Error()}
		}
		offset, _ := offsetVal.I32()
		if uint64(uint32(offset))+uint64(len(funcrefs)) > uint64(table.Size()) {
			return &InstantiationError{
				Kind:         ErrElementSegmentOutOfBounds,
				SegmentIndex: uint32(i),
				Offset:       uint64(uint32(offset)),
				Size:         uint64(len(funcrefs)),
				TableSize:    table.Size(),
			}
		}
		for j, fa := range funcrefs {
			_ = table.Set(uint32(offset)+uint32(j), fa)
		}
		elem, _ := store.Elem(elemAddr)
		elem.Drop()
	}
	return nil
}

func allocateData(store *Store, mi *ModuleInstance, module *Module) error {
	for i, seg := range module.DataSection {
		dataAddr := store.AllocData(NewDataInstance(seg.Init))
		mi.DataAddrs = append(mi.DataAddrs, dataAddr)

		if seg.Passive {
			continue
		}
		memAddr, ok := mi.Mem(seg.MemoryIndex)
		if !ok {
			return &InstantiationError{Kind: ErrDataSegmentOutOfBounds, SegmentIndex: uint32(i)}
		}
		mem, err := store.Mem(memAddr)
		if err != nil {
			return &InstantiationError{Kind: ErrDataSegmentOutOfBounds, SegmentIndex: uint32(i)}
		}
		offsetVal, err := ExecuteConstExpr(seg.Offset)
		if err != nil {
			return &InstantiationError{Kind: ErrInvalidConstExpr, Description: err.Error()}
		}
		offset, _ := offsetVal.I32()
		if !mem.ValidateAddrRange(uint32(offset), uint64(len(seg.Init))) {
			return &InstantiationError{
				Kind:         ErrDataSegmentOutOfBounds,
				SegmentIndex: uint32(i),
				Offset:       uint64(uint32(offset)),
				Size:         uint64(len(seg.Init)),
				MemorySize:   mem.SizeBytes(),
			}
		}
		_ = mem.Write(uint32(offset), seg.Init)
		data, _ := store.Data(dataAddr)
		data.Drop()
	}
	return nil
}

// invalidExportIndex reports an export whose index has no corresponding
// entry in mi's index space for its kind. MissingImport{module:"self", ...}
// is reused here rather than introducing a dedicated error kind, matching
// the specification's stated default.
func invalidExportIndex(name string) *InstantiationError {
	return &InstantiationError{Kind: ErrMissingImport, Module: "self", Name: name}
}

func buildExports(mi *ModuleInstance, module *Module) error {
	for _, exp := range module.ExportSection {
		var addr ExternAddr
		addr.Type = exp.Type
		switch exp.Type {
		case api.ExternTypeFunc:
			fa, ok := mi.Func(exp.Index)
			if !ok {
				return invalidExportIndex(exp.Name)
			}
			addr.Func = fa
		case api.ExternTypeTable:
			ta, ok := mi.Table(exp.Index)
			if !ok {
				return invalidExportIndex(exp.Name)
			}
			addr.Table = ta
		case api.ExternTypeMemory:
			ma, ok := mi.Mem(exp.Index)
			if !ok {
				return invalidExportIndex(exp.Name)
			}
			addr.Mem = ma
		case api.ExternTypeGlobal:
			ga, ok := mi.Global(exp.Index)
			if !ok {
				return invalidExportIndex(exp.Name)
			}
			addr.Global = ga
		}
		mi.Exports = append(mi.Exports, &ExportInstance{Name: exp.Name, Addr: addr})
	}
	return nil
}
