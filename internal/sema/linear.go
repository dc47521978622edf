package sema

import (
	"loom/internal/ast"
	"loom/internal/diag"
	"loom/internal/memory"
	"loom/internal/symbols"
	"loom/internal/types"
)

// checkLinearAssign enforces single-use semantics for linear targets.
// Binding a linear value to a linear slot is a move; the source binding is
// dead afterwards. Copying a non-linear variable into a linear slot would
// alias the payload, so it is rejected. Fresh values (literals,
// constructors, call results) carry no prior owner and bind freely.
func (c *Checker) checkLinearAssign(target types.ID, value ast.Expr) *diag.Error {
	if !memory.IsLinear(c.in, target) {
		return nil
	}

	ident := linearSource(value)
	if ident == nil {
		return nil
	}
	id, sym, found := c.tbl.Lookup(ident.Name)
	if !found {
		return nil
	}
	switch sym.Kind {
	case symbols.SymbolVariable, symbols.SymbolParameter:
	default:
		return nil
	}

	if !memory.IsLinear(c.in, sym.Type) {
		return diag.Errorf(diag.SemaInvalidType, ident.Loc,
			"cannot copy non-linear value '%s' into a linear binding", ident.Name)
	}
	if !sym.Borrow.None() {
		return diag.Errorf(diag.SemaInvalidOperation, ident.Loc,
			"cannot move '%s' while it is borrowed", ident.Name)
	}
	c.tbl.MarkMoved(id)
	return nil
}

// linearSource unwraps an explicit move sigil so `own x` and `x` name the
// same source binding.
func linearSource(value ast.Expr) *ast.Ident {
	if unary, ok := value.(*ast.UnaryExpr); ok && unary.Op == ast.UnaryMove {
		value = unary.Operand
	}
	ident, _ := value.(*ast.Ident)
	return ident
}
