package sema

import (
	"loom/internal/ast"
	"loom/internal/symbols"
)

// Escape analysis is syntactic and conservative: a local escapes when it is
// returned, when its address is returned, or when it is stored into a
// container whose lifetime the function does not control. False positives
// only cost an allocation strategy upgrade, never correctness.

// markReturnEscapes records locals whose value leaves through a return.
func (c *Checker) markReturnEscapes(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Ident:
		c.markEscaping(e.Name)
	case *ast.UnaryExpr:
		switch e.Op {
		case ast.UnaryAddressOf, ast.UnaryBorrow, ast.UnaryMutBorrow, ast.UnaryShare:
			c.markReturnEscapes(e.Operand)
		}
	case *ast.FieldExpr:
		c.markReturnEscapes(e.Target)
	case *ast.IndexExpr:
		c.markReturnEscapes(e.Target)
	case *ast.ArrayLit:
		for _, elem := range e.Elems {
			c.markReturnEscapes(elem)
		}
	case *ast.MapLit:
		for _, v := range e.Values {
			c.markReturnEscapes(v)
		}
	case *ast.StructLit:
		for _, v := range e.Values {
			c.markReturnEscapes(v)
		}
	}
}

// markValueEscapes records the root of a value stored into a field, array
// element or map entry; the container may outlive the frame.
func (c *Checker) markValueEscapes(expr ast.Expr) {
	for {
		switch e := expr.(type) {
		case *ast.Ident:
			c.markEscaping(e.Name)
			return
		case *ast.UnaryExpr:
			switch e.Op {
			case ast.UnaryAddressOf, ast.UnaryBorrow, ast.UnaryMutBorrow, ast.UnaryShare, ast.UnaryMove:
				expr = e.Operand
				continue
			}
			return
		default:
			return
		}
	}
}

func (c *Checker) markEscaping(name string) {
	if c.escaping == nil {
		return
	}
	// Only locals of the current function are interesting.
	if _, sym, ok := c.tbl.Lookup(name); ok {
		switch sym.Kind {
		case symbols.SymbolVariable, symbols.SymbolParameter:
			c.escaping[name] = true
		}
	}
}
