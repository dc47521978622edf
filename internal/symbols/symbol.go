// Package symbols implements the hierarchical symbol table of the checker:
// arena-allocated scopes navigated as a stack, and per-symbol ownership
// state (initialization, moves, outstanding borrows).
package symbols

import (
	"loom/internal/source"
	"loom/internal/types"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolVariable
	SymbolConstant
	SymbolFunction
	SymbolType
	SymbolModule
	SymbolParameter
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVariable:
		return "variable"
	case SymbolConstant:
		return "constant"
	case SymbolFunction:
		return "function"
	case SymbolType:
		return "type"
	case SymbolModule:
		return "module"
	case SymbolParameter:
		return "parameter"
	default:
		return "invalid"
	}
}

// BorrowState tracks outstanding borrows of one symbol. The zero value means
// no borrows. Shared and Mut are mutually exclusive; Shared is never stored
// as a positive count together with Mut, and a released last shared borrow
// collapses back to the zero value.
type BorrowState struct {
	Shared uint32
	Mut    bool
}

// None reports whether no borrow is outstanding.
func (b BorrowState) None() bool { return b.Shared == 0 && !b.Mut }

// Symbol describes one named entity. Ownership flags are mutated in place as
// statements are analyzed.
type Symbol struct {
	Name        string
	Kind        SymbolKind
	Type        types.ID
	Scope       ScopeID
	Mutable     bool
	Initialized bool
	Moved       bool
	Borrow      BorrowState
	Decl        source.Span
}
