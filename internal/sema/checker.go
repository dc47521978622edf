// Package sema is the ownership-aware semantic core: it assigns types to a
// parsed module, verifies move/borrow legality of every value use, and
// records how each binding is physically allocated.
//
// Analysis is one recursive descent per function body. Each statement
// updates the symbol table and drives the region tracker and the escape
// analyzer in lock-step with the lexical block structure. The first error
// inside a function aborts that function's analysis; AnalyzeModule stops at
// the first failing function.
package sema

import (
	"sort"

	"loom/internal/ast"
	"loom/internal/diag"
	"loom/internal/memory"
	"loom/internal/source"
	"loom/internal/symbols"
	"loom/internal/types"
)

// maxNestingDepth bounds statement/expression recursion so hostile inputs
// fail with a diagnostic instead of exhausting the Go stack.
const maxNestingDepth = 256

// Options configure a semantic pass over one module.
type Options struct {
	// Types is the shared type interner; a fresh one is created when nil.
	Types *types.Interner
	// Defs is the shared named-type registry; fresh when nil.
	Defs *types.Defs
	// Imports holds the export surfaces of every dependency analyzed
	// earlier; their symbols resolve in this module.
	Imports []*ModuleExports
}

// Result stores the semantic artifacts produced for one module.
type Result struct {
	Module string
	// Functions carries the per-function memory artifact handed to codegen.
	Functions []memory.FunctionMemoryInfo
	// ExprTypes records the finalized type of every checked expression.
	ExprTypes map[ast.Expr]types.ID
	// Exports is the surface importing modules see.
	Exports []Export
}

// Checker owns all mutable analysis state for one module pass. It is used
// by exactly one goroutine; independent modules get independent checkers.
type Checker struct {
	in   *types.Interner
	defs *types.Defs
	tbl  *symbols.Table
	mem  *memory.Tracker

	module *ast.Module
	result *Result

	depth int

	// fnVariadic tracks the declared variadic parameter per function name.
	fnVariadic map[string]*ast.Parameter
	// typeParams maps in-scope generic parameter names during signature
	// resolution.
	typeParams map[string]types.ID

	// scopeBorrows lists borrowed symbols to release when a scope exits.
	scopeBorrows map[symbols.ScopeID][]symbols.SymbolID

	// Per-function working state.
	current       *memory.FunctionMemoryInfo
	currentReturn types.ID
	escaping      map[string]bool

	// callHeld collects borrows taken inside the argument list of the
	// innermost call, so they can be released when the call returns
	// instead of living until scope exit.
	callHeld *[]callBorrow
}

// NewChecker builds a checker around shared (or fresh) type state.
func NewChecker(opts Options) *Checker {
	in := opts.Types
	if in == nil {
		in = types.NewInterner()
	}
	defs := opts.Defs
	if defs == nil {
		defs = types.NewDefs()
	}
	c := &Checker{
		in:           in,
		defs:         defs,
		tbl:          symbols.NewTable(symbols.Hints{}),
		mem:          memory.NewTracker(),
		fnVariadic:   make(map[string]*ast.Parameter),
		scopeBorrows: make(map[symbols.ScopeID][]symbols.SymbolID),
	}
	for _, dep := range opts.Imports {
		c.importModule(dep)
	}
	return c
}

// Types exposes the interner for collaborators (contract validator, FFI).
func (c *Checker) Types() *types.Interner { return c.in }

// Defs exposes the named-type registry for collaborators.
func (c *Checker) Defs() *types.Defs { return c.defs }

// Table exposes the symbol table; tests drive it directly.
func (c *Checker) Table() *symbols.Table { return c.tbl }

// Memory exposes the region tracker.
func (c *Checker) Memory() *memory.Tracker { return c.mem }

// AnalyzeModule checks one module. The returned result is valid only when
// the error is nil; analysis stops at the first semantic error.
func (c *Checker) AnalyzeModule(mod *ast.Module) (*Result, *diag.Error) {
	c.module = mod
	c.result = &Result{
		Module:    mod.Name,
		ExprTypes: make(map[ast.Expr]types.ID),
	}

	c.tbl.EnterScope(symbols.ScopeModule, mod.Loc)
	err := c.analyzeModuleBody(mod)
	if exitErr := c.tbl.ExitScope(); exitErr != nil && err == nil {
		err = exitErr
	}
	if err != nil {
		return nil, err
	}
	return c.result, nil
}

func (c *Checker) analyzeModuleBody(mod *ast.Module) *diag.Error {
	if err := c.declareModuleScope(mod); err != nil {
		return err
	}
	for _, global := range mod.Globals {
		if err := c.checkStmt(global); err != nil {
			return err
		}
	}
	for _, fn := range mod.Functions {
		if err := c.analyzeFunction(fn); err != nil {
			return err
		}
	}
	return nil
}

// declareModuleScope runs the declaration passes and records the export
// surface; no function body is entered.
func (c *Checker) declareModuleScope(mod *ast.Module) *diag.Error {
	// Named types first: function signatures may reference them.
	for _, decl := range mod.Types {
		if err := c.declareTypeDecl(decl); err != nil {
			return err
		}
	}
	// Signatures next, so calls resolve regardless of declaration order.
	for _, ext := range mod.Externs {
		if err := c.declareExtern(ext); err != nil {
			return err
		}
	}
	for _, fn := range mod.Functions {
		if err := c.declareFunction(fn); err != nil {
			return err
		}
	}
	c.collectExports(mod)
	return nil
}

// DeclareModule registers the module's declarations and produces its export
// surface without checking any function body. The driver uses it to rebuild
// exports for modules replayed from the disk cache.
func (c *Checker) DeclareModule(mod *ast.Module) (*Result, *diag.Error) {
	c.module = mod
	c.result = &Result{
		Module:    mod.Name,
		ExprTypes: make(map[ast.Expr]types.ID),
	}

	c.tbl.EnterScope(symbols.ScopeModule, mod.Loc)
	err := c.declareModuleScope(mod)
	if exitErr := c.tbl.ExitScope(); exitErr != nil && err == nil {
		err = exitErr
	}
	if err != nil {
		return nil, err
	}
	return c.result, nil
}

func (c *Checker) declareTypeDecl(decl *ast.TypeDecl) *diag.Error {
	def := &types.TypeDef{
		Name:   decl.Name,
		Module: c.module.Name,
		Decl:   decl.Loc,
	}
	switch decl.Kind {
	case ast.TypeDeclEnum:
		def.Kind = types.DefEnum
		def.Variants = decl.Variants
	default:
		def.Kind = types.DefStruct
	}

	// Generic parameters are visible while resolving field types. Their
	// bounds are resolved here and enforced at every instantiation site.
	c.typeParams = make(map[string]types.ID, len(decl.TypeParams))
	for _, p := range decl.TypeParams {
		bounds := c.resolveBounds(p)
		def.TypeParams = append(def.TypeParams, types.TypeParamDef{Name: p.Name, Bounds: bounds})
		c.typeParams[p.Name] = c.in.Generic(p.Name, bounds)
	}
	for _, field := range decl.Fields {
		ft, err := c.ASTTypeToType(field.Type)
		if err != nil {
			c.typeParams = nil
			return err
		}
		def.Fields = append(def.Fields, types.FieldDef{Name: field.Name, Type: ft})
	}
	c.typeParams = nil

	if !c.defs.Register(def) {
		prev, _ := c.defs.Lookup(decl.Name)
		return diag.Errorf(diag.SemaDuplicateDefinition, decl.Loc,
			"type '%s' is already defined", decl.Name).
			WithNote(prev.Decl, "previous definition is here")
	}
	_, err := c.tbl.AddSymbol(symbols.Symbol{
		Name:        decl.Name,
		Kind:        symbols.SymbolType,
		Type:        c.in.Named(decl.Name, c.module.Name),
		Initialized: true,
		Decl:        decl.Loc,
	})
	return err
}

func (c *Checker) declareExtern(ext *ast.ExternalFunction) *diag.Error {
	sig, err := c.resolveSignature(ext.Params, ext.Return)
	if err != nil {
		return err
	}
	_, addErr := c.tbl.AddSymbol(symbols.Symbol{
		Name:        ext.Name,
		Kind:        symbols.SymbolFunction,
		Type:        sig,
		Initialized: true,
		Decl:        ext.Loc,
	})
	return addErr
}

func (c *Checker) declareFunction(fn *ast.Function) *diag.Error {
	params := fn.Params
	if fn.Variadic != nil {
		params = append(append([]*ast.Parameter{}, params...), fn.Variadic)
		c.fnVariadic[fn.Name] = fn.Variadic
	}
	sig, err := c.resolveSignature(params, fn.Return)
	if err != nil {
		return err
	}
	_, addErr := c.tbl.AddSymbol(symbols.Symbol{
		Name:        fn.Name,
		Kind:        symbols.SymbolFunction,
		Type:        sig,
		Initialized: true,
		Decl:        fn.Loc,
	})
	return addErr
}

func (c *Checker) resolveSignature(params []*ast.Parameter, ret *ast.TypeSpec) (types.ID, *diag.Error) {
	paramTypes := make([]types.ID, len(params))
	for i, p := range params {
		pt, err := c.ASTTypeToType(p.Type)
		if err != nil {
			return types.None, err
		}
		paramTypes[i] = pt
	}
	result := c.in.Builtins().Void
	if ret != nil {
		rt, err := c.ASTTypeToType(ret)
		if err != nil {
			return types.None, err
		}
		result = rt
	}
	return c.in.Function(paramTypes, result), nil
}

// analyzeFunction checks one body: function scope and function region open
// together, parameters bind, statements run, and both unwind regardless of
// errors so the region/scope stacks stay balanced.
func (c *Checker) analyzeFunction(fn *ast.Function) *diag.Error {
	info := memory.FunctionMemoryInfo{Function: fn.Name}
	c.current = &info
	c.escaping = make(map[string]bool)

	scope := c.tbl.EnterScope(symbols.ScopeFunction, fn.Loc)
	region := c.mem.NewRegion(c.mem.Active())
	c.mem.Enter(region)
	info.Region = region

	err := c.bindParameters(fn)
	if err == nil {
		c.currentReturn = types.None
		if fn.Return != nil {
			c.currentReturn, err = c.ASTTypeToType(fn.Return)
		}
	}
	if err == nil {
		err = c.checkStmts(fn.Body.Stmts)
	}

	c.releaseScopeBorrows(scope)
	c.mem.Exit()
	if exitErr := c.tbl.ExitScope(); exitErr != nil && err == nil {
		err = exitErr
	}
	if err != nil {
		return err
	}

	info.Escaping = sortedNames(c.escaping)
	c.result.Functions = append(c.result.Functions, info)
	c.current = nil
	c.escaping = nil
	return nil
}

func (c *Checker) bindParameters(fn *ast.Function) *diag.Error {
	params := fn.Params
	if fn.Variadic != nil {
		params = append(append([]*ast.Parameter{}, params...), fn.Variadic)
	}
	for _, p := range params {
		pt, err := c.ASTTypeToType(p.Type)
		if err != nil {
			return err
		}
		if _, addErr := c.tbl.AddSymbol(symbols.Symbol{
			Name:        p.Name,
			Kind:        symbols.SymbolParameter,
			Type:        pt,
			Mutable:     p.Mutable,
			Initialized: true,
			Decl:        p.Loc,
		}); addErr != nil {
			return addErr
		}
		alloc := c.mem.DetermineStrategy(c.in, p.Name, pt, p.Loc, p.Mutable)
		c.current.Params = append(c.current.Params, alloc)
	}
	return nil
}

// releaseScopeBorrows drops every borrow whose holder died with the scope.
// The owning symbol may live in an outer scope, or its name may have been
// shadowed since; the recorded id reaches it either way.
func (c *Checker) releaseScopeBorrows(scope symbols.ScopeID) {
	ids := c.scopeBorrows[scope]
	for i := len(ids) - 1; i >= 0; i-- {
		_ = c.tbl.ReleaseBorrow(ids[i], c.tbl.Scopes.Get(scope).Span)
	}
	delete(c.scopeBorrows, scope)
}

// holdBorrow records a live borrow. Inside a call argument list it is
// released when the call returns; everywhere else it lives until the
// current scope exits.
func (c *Checker) holdBorrow(sym symbols.SymbolID, span source.Span) {
	if c.callHeld != nil {
		*c.callHeld = append(*c.callHeld, callBorrow{sym: sym, span: span})
		return
	}
	scope := c.tbl.CurrentScope()
	c.scopeBorrows[scope] = append(c.scopeBorrows[scope], sym)
}

func (c *Checker) enter(span source.Span) *diag.Error {
	c.depth++
	if c.depth > maxNestingDepth {
		return diag.Errorf(diag.SemaNestingTooDeep, span,
			"statement or expression nesting exceeds %d levels", maxNestingDepth)
	}
	return nil
}

func (c *Checker) leave() {
	c.depth--
}

func sortedNames(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
