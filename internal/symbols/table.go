package symbols

import (
	"loom/internal/diag"
	"loom/internal/source"
)

// Hints provide optional capacity suggestions for the table arenas.
type Hints struct{ Scopes, Symbols uint32 }

// Table aggregates the scope and symbol arenas and exposes the stack API
// the checker drives. A Table is owned by exactly one analysis pass; none
// of its methods are safe for concurrent use.
type Table struct {
	Scopes  *Scopes
	Syms    *Syms
	stack   []ScopeID
	imports map[string]SymbolID // flat table of imported-module exports
}

// NewTable builds a table whose stack holds the global scope.
func NewTable(h Hints) *Table {
	t := &Table{
		Scopes:  NewScopes(h.Scopes),
		Syms:    NewSyms(h.Symbols),
		imports: make(map[string]SymbolID),
	}
	global := t.Scopes.New(ScopeGlobal, NoScopeID, source.Span{})
	t.stack = append(t.stack, global)
	return t
}

// GlobalScope returns the root scope.
func (t *Table) GlobalScope() ScopeID {
	return t.stack[0]
}

// CurrentScope returns the innermost active scope.
func (t *Table) CurrentScope() ScopeID {
	return t.stack[len(t.stack)-1]
}

// Depth reports the size of the live scope stack; the global scope alone is
// depth 1.
func (t *Table) Depth() int {
	return len(t.stack)
}

// EnterScope opens a child of the current scope and makes it active.
func (t *Table) EnterScope(kind ScopeKind, span source.Span) ScopeID {
	id := t.Scopes.New(kind, t.CurrentScope(), span)
	t.stack = append(t.stack, id)
	return id
}

// ExitScope pops the current scope, restoring the one active before the
// matching EnterScope. Exiting the global scope is an error and leaves the
// stack untouched.
func (t *Table) ExitScope() *diag.Error {
	if len(t.stack) <= 1 {
		return diag.Errorf(diag.SemaScopeMismatch, source.Span{},
			"cannot exit the global scope")
	}
	t.stack = t.stack[:len(t.stack)-1]
	return nil
}

// AddSymbol declares sym in the current scope. Redeclaring a name already
// present in the current scope fails; shadowing an outer scope is legal.
func (t *Table) AddSymbol(sym Symbol) (SymbolID, *diag.Error) {
	scopeID := t.CurrentScope()
	scope := t.Scopes.Get(scopeID)
	if prev, exists := scope.Names[sym.Name]; exists {
		prevSym := t.Syms.Get(prev)
		return NoSymbolID, diag.Errorf(diag.SemaDuplicateDefinition, sym.Decl,
			"'%s' is already defined in this scope", sym.Name).
			WithNote(prevSym.Decl, "previous definition is here")
	}
	sym.Scope = scopeID
	id := t.Syms.New(sym)
	scope.Names[sym.Name] = id
	scope.Symbols = append(scope.Symbols, id)
	return id, nil
}

// DeclareImport registers an exported symbol of an imported module in the
// flat fallback table consulted after the scope chain.
func (t *Table) DeclareImport(name string, sym Symbol) SymbolID {
	id := t.Syms.New(sym)
	t.imports[name] = id
	return id
}

// Lookup walks from the current scope to the root and returns the nearest
// definition, falling back to imported-module exports.
func (t *Table) Lookup(name string) (SymbolID, *Symbol, bool) {
	for scopeID := t.CurrentScope(); scopeID.IsValid(); {
		scope := t.Scopes.Get(scopeID)
		if id, ok := scope.Names[name]; ok {
			return id, t.Syms.Get(id), true
		}
		scopeID = scope.Parent
	}
	if id, ok := t.imports[name]; ok {
		return id, t.Syms.Get(id), true
	}
	return NoSymbolID, nil, false
}

// FindNearestScope returns the innermost live scope of the given kind.
func (t *Table) FindNearestScope(kind ScopeKind) (ScopeID, bool) {
	for i := len(t.stack) - 1; i >= 0; i-- {
		if t.Scopes.Get(t.stack[i]).Kind == kind {
			return t.stack[i], true
		}
	}
	return NoScopeID, false
}

// InScopeKind reports whether any live scope has the given kind.
func (t *Table) InScopeKind(kind ScopeKind) bool {
	_, ok := t.FindNearestScope(kind)
	return ok
}

// MarkInitialized flags the symbol as carrying a value.
func (t *Table) MarkInitialized(id SymbolID) {
	if sym := t.Syms.Get(id); sym != nil {
		sym.Initialized = true
	}
}

// MarkMoved flags the symbol as moved out of; later reads are use-after-move.
func (t *Table) MarkMoved(id SymbolID) {
	if sym := t.Syms.Get(id); sym != nil {
		sym.Moved = true
	}
}

// ClearMoved restores the symbol after reassignment.
func (t *Table) ClearMoved(id SymbolID) {
	if sym := t.Syms.Get(id); sym != nil {
		sym.Moved = false
	}
}

// Borrow takes a shared borrow of name, searching up the scope chain for the
// owning symbol. The returned id pins that symbol for the matching release.
func (t *Table) Borrow(name string, span source.Span) (SymbolID, *diag.Error) {
	id, sym, ok := t.Lookup(name)
	if !ok {
		return NoSymbolID, diag.Errorf(diag.SemaUndefinedSymbol, span, "undefined symbol '%s'", name)
	}
	if sym.Borrow.Mut {
		return NoSymbolID, diag.Errorf(diag.SemaInvalidOperation, span,
			"cannot borrow '%s': already mutably borrowed", name)
	}
	sym.Borrow.Shared++
	return id, nil
}

// BorrowMut takes the exclusive mutable borrow of name.
func (t *Table) BorrowMut(name string, span source.Span) (SymbolID, *diag.Error) {
	id, sym, ok := t.Lookup(name)
	if !ok {
		return NoSymbolID, diag.Errorf(diag.SemaUndefinedSymbol, span, "undefined symbol '%s'", name)
	}
	if !sym.Mutable {
		return NoSymbolID, diag.Errorf(diag.SemaAssignToImmutable, span,
			"cannot mutably borrow immutable symbol '%s'", name)
	}
	if sym.Borrow.Mut {
		return NoSymbolID, diag.Errorf(diag.SemaInvalidOperation, span,
			"cannot mutably borrow '%s': already mutably borrowed", name)
	}
	if sym.Borrow.Shared > 0 {
		return NoSymbolID, diag.Errorf(diag.SemaInvalidOperation, span,
			"cannot mutably borrow '%s': already immutably borrowed", name)
	}
	sym.Borrow.Mut = true
	return id, nil
}

// ReleaseBorrow returns one outstanding borrow of the identified symbol.
// Releases address the symbol, not its name, so a shadow declared after the
// borrow cannot misdirect the release. Releasing with no borrow outstanding
// is an error.
func (t *Table) ReleaseBorrow(id SymbolID, span source.Span) *diag.Error {
	sym := t.Syms.Get(id)
	if sym == nil {
		return diag.Errorf(diag.SemaUndefinedSymbol, span, "cannot release unknown symbol")
	}
	switch {
	case sym.Borrow.Mut:
		sym.Borrow.Mut = false
	case sym.Borrow.Shared > 0:
		sym.Borrow.Shared--
	default:
		return diag.Errorf(diag.SemaInvalidOperation, span,
			"cannot release '%s': not borrowed", sym.Name)
	}
	return nil
}
