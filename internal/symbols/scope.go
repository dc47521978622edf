package symbols

import "loom/internal/source"

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeGlobal             // the root scope, never exited
	ScopeModule             // module-level declarations
	ScopeFunction           // function body
	ScopeBlock              // generic block
	ScopeLoop               // while/for body
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeLoop:
		return "loop"
	default:
		return "invalid"
	}
}

// Scope models a lexical scope. Scopes form a tree through Parent/Children
// but are navigated as a stack: only the path from the current scope to the
// root is ever walked.
type Scope struct {
	Kind     ScopeKind
	Parent   ScopeID
	Span     source.Span
	Names    map[string]SymbolID
	Symbols  []SymbolID
	Children []ScopeID
}
