package sema

import (
	"loom/internal/ast"
	"loom/internal/source"
	"loom/internal/symbols"
	"loom/internal/types"
)

// Export is one symbol a module makes visible to its importers.
type Export struct {
	Name string
	Kind symbols.SymbolKind
	// Type lives in the interner of the exporting checker; importers
	// re-intern it into their own.
	Type types.ID
	Decl source.Span
	// Variadic carries the trailing variadic parameter of a function
	// export, nil otherwise.
	Variadic *ast.Parameter
	// Def carries the resolved definition of a type export, nil otherwise.
	Def *types.TypeDef
}

// ModuleExports packages one analyzed module's public surface together with
// the interner its type IDs live in. The exporting checker is done by the
// time importers read it, so no synchronization is needed.
type ModuleExports struct {
	Module  string
	Types   *types.Interner
	Symbols []Export
}

// importModule makes every export of a dependency resolvable in this
// checker: signatures are re-interned, type definitions copied into the
// local registry, and names registered in the symbol table's import
// fallback.
func (c *Checker) importModule(dep *ModuleExports) {
	if dep == nil {
		return
	}
	for _, exp := range dep.Symbols {
		t := c.in.Import(dep.Types, exp.Type)
		if exp.Def != nil {
			c.defs.Register(c.importDef(dep.Types, exp.Def))
		}
		c.tbl.DeclareImport(exp.Name, symbols.Symbol{
			Name:        exp.Name,
			Kind:        exp.Kind,
			Type:        t,
			Initialized: true,
			Decl:        exp.Decl,
		})
		if exp.Variadic != nil {
			c.fnVariadic[exp.Name] = exp.Variadic
		}
	}
}

// importDef copies a dependency's type definition, re-interning every field
// type. Bounds are plain values and copy as-is.
func (c *Checker) importDef(from *types.Interner, def *types.TypeDef) *types.TypeDef {
	out := &types.TypeDef{
		Name:       def.Name,
		Module:     def.Module,
		Kind:       def.Kind,
		TypeParams: def.TypeParams,
		Variants:   def.Variants,
		Decl:       def.Decl,
	}
	for _, f := range def.Fields {
		out.Fields = append(out.Fields, types.FieldDef{Name: f.Name, Type: c.in.Import(from, f.Type)})
	}
	return out
}

// collectExports records the module's public surface: named types, extern
// declarations, and functions. Runs right after the declaration passes, so
// every name resolves in the module scope.
func (c *Checker) collectExports(mod *ast.Module) {
	for _, decl := range mod.Types {
		def, ok := c.defs.Lookup(decl.Name)
		if !ok {
			continue
		}
		c.result.Exports = append(c.result.Exports, Export{
			Name: decl.Name,
			Kind: symbols.SymbolType,
			Type: c.in.Named(decl.Name, mod.Name),
			Decl: decl.Loc,
			Def:  def,
		})
	}
	for _, ext := range mod.Externs {
		c.exportFunction(ext.Name, ext.Loc)
	}
	for _, fn := range mod.Functions {
		c.exportFunction(fn.Name, fn.Loc)
	}
}

func (c *Checker) exportFunction(name string, decl source.Span) {
	_, sym, ok := c.tbl.Lookup(name)
	if !ok {
		return
	}
	c.result.Exports = append(c.result.Exports, Export{
		Name:     name,
		Kind:     symbols.SymbolFunction,
		Type:     sym.Type,
		Decl:     decl,
		Variadic: c.fnVariadic[name],
	})
}
