package sema

import (
	"loom/internal/ast"
	"loom/internal/diag"
	"loom/internal/source"
	"loom/internal/symbols"
	"loom/internal/types"
)

// callBorrow is a borrow taken for the duration of a single call.
type callBorrow struct {
	sym  symbols.SymbolID
	span source.Span
}

// checkCall resolves the callee, matches arguments against the signature
// and applies ownership transfer: owned parameters consume the argument,
// reference parameters borrow it until the call returns.
func (c *Checker) checkCall(e *ast.CallExpr) (types.ID, *diag.Error) {
	sig, fnName, err := c.resolveCallee(e.Callee)
	if err != nil {
		return types.None, err
	}

	params := sig.Params
	variadic := (*ast.Parameter)(nil)
	if fnName != "" {
		variadic = c.fnVariadic[fnName]
	}

	named := len(params)
	if variadic != nil {
		named--
	}
	if variadic == nil && len(e.Args) != named {
		return types.None, diag.Errorf(diag.SemaArgumentCountMismatch, e.Loc,
			"function expects %d arguments, found %d", named, len(e.Args))
	}
	if variadic != nil && len(e.Args) < named {
		return types.None, diag.Errorf(diag.SemaArgumentCountMismatch, e.Loc,
			"function expects at least %d arguments, found %d", named, len(e.Args))
	}

	// Borrows taken while evaluating argument expressions (explicit `&x`
	// or `&mut x` sigils) land here rather than in the scope ledger.
	var held []callBorrow
	prev := c.callHeld
	c.callHeld = &held
	release := func() {
		c.callHeld = prev
		for i := len(held) - 1; i >= 0; i-- {
			_ = c.tbl.ReleaseBorrow(held[i].sym, held[i].span)
		}
	}

	for i, arg := range e.Args {
		param := params[len(params)-1]
		if i < named {
			param = params[i]
		}
		argType, argErr := c.checkExpr(arg)
		if argErr != nil {
			release()
			return types.None, argErr
		}
		if !c.in.Compatible(param, argType) {
			release()
			return types.None, diag.Errorf(diag.SemaTypeMismatch, arg.Span(),
				"argument %d expects %s, found %s",
				i+1, c.in.String(param), c.in.String(argType))
		}
		if transferErr := c.transferArgument(param, argType, arg, &held); transferErr != nil {
			release()
			return types.None, transferErr
		}
	}

	// Reference parameters only hold their borrow for the call itself.
	release()

	if sig.Result == types.None {
		return c.in.Builtins().Void, nil
	}
	return sig.Result, nil
}

// transferArgument applies the ownership effect of passing a bare
// identifier. Sigil-carrying arguments already transferred inside
// checkExpr, temporaries transfer nothing, and freely copyable
// arguments never enter the bookkeeping at all.
func (c *Checker) transferArgument(param, argType types.ID, arg ast.Expr, held *[]callBorrow) *diag.Error {
	own, ok := c.in.OwnershipOf(param)
	if !ok || !c.in.RequiresOwnership(argType) {
		return nil
	}
	ident, bare := arg.(*ast.Ident)
	if !bare {
		return nil
	}
	id, sym, found := c.tbl.Lookup(ident.Name)
	if !found || sym.Kind == symbols.SymbolFunction {
		return nil
	}

	switch own {
	case types.OwnOwned:
		// A bare binding is consumed only when it holds ownership itself;
		// coercing an unqualified value into a ^ parameter copies it.
		if !c.in.IsOwned(argType) {
			return nil
		}
		if !sym.Borrow.None() {
			return diag.Errorf(diag.SemaInvalidOperation, ident.Loc,
				"cannot move '%s' into the call while it is borrowed", ident.Name)
		}
		c.tbl.MarkMoved(id)
	case types.OwnBorrowed:
		bid, err := c.tbl.Borrow(ident.Name, ident.Loc)
		if err != nil {
			return err
		}
		*held = append(*held, callBorrow{sym: bid, span: ident.Loc})
	case types.OwnMutBorrow:
		bid, err := c.tbl.BorrowMut(ident.Name, ident.Loc)
		if err != nil {
			return err
		}
		*held = append(*held, callBorrow{sym: bid, span: ident.Loc})
	}
	return nil
}

// resolveCallee produces the callee's signature. Named callees also return
// the function name so variadic metadata can be consulted.
func (c *Checker) resolveCallee(callee ast.Expr) (*types.FunctionInfo, string, *diag.Error) {
	if ident, ok := callee.(*ast.Ident); ok {
		_, sym, found := c.tbl.Lookup(ident.Name)
		if !found {
			return nil, "", diag.Errorf(diag.SemaUndefinedSymbol, ident.Loc,
				"undefined function '%s'", ident.Name)
		}
		if sym.Kind != symbols.SymbolFunction {
			return nil, "", diag.Errorf(diag.SemaInvalidOperation, ident.Loc,
				"'%s' is not callable", ident.Name)
		}
		info, ok := c.in.FunctionInfoOf(sym.Type)
		if !ok {
			return nil, "", diag.Errorf(diag.SemaInvalidType, ident.Loc,
				"'%s' has no callable type", ident.Name)
		}
		return info, ident.Name, nil
	}

	calleeType, err := c.checkExpr(callee)
	if err != nil {
		return nil, "", err
	}
	info, ok := c.in.FunctionInfoOf(c.in.BaseType(calleeType))
	if !ok {
		return nil, "", diag.Errorf(diag.SemaInvalidOperation, callee.Span(),
			"%s is not callable", c.in.String(calleeType))
	}
	return info, "", nil
}
