package sema

import (
	"loom/internal/ast"
	"loom/internal/diag"
	"loom/internal/symbols"
	"loom/internal/types"
)

func (c *Checker) checkStmts(stmts []ast.Stmt) *diag.Error {
	for _, stmt := range stmts {
		if err := c.checkStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkStmt(stmt ast.Stmt) *diag.Error {
	if err := c.enter(stmt.Span()); err != nil {
		return err
	}
	defer c.leave()

	switch s := stmt.(type) {
	case *ast.VarDeclStmt:
		return c.checkVarDecl(s)
	case *ast.AssignStmt:
		return c.checkAssign(s)
	case *ast.IfStmt:
		return c.checkIf(s)
	case *ast.WhileStmt:
		return c.checkWhile(s)
	case *ast.ForStmt:
		return c.checkFor(s)
	case *ast.ReturnStmt:
		return c.checkReturn(s)
	case *ast.TryCatchStmt:
		return c.checkTryCatch(s)
	case *ast.ThrowStmt:
		_, err := c.checkExpr(s.Value)
		return err
	case *ast.RegionStmt:
		return c.checkBlock(s.Body, symbols.ScopeBlock)
	case *ast.BlockStmt:
		return c.checkBlock(s.Body, symbols.ScopeBlock)
	case *ast.ExprStmt:
		_, err := c.checkExpr(s.E)
		return err
	default:
		return diag.Errorf(diag.SemaInvalidOperation, stmt.Span(),
			"unsupported statement")
	}
}

// checkBlock opens a scope and the matching region, walks the statements,
// and unwinds both in LIFO order even when a statement fails.
func (c *Checker) checkBlock(block *ast.Block, kind symbols.ScopeKind) *diag.Error {
	scope := c.tbl.EnterScope(kind, block.Loc)
	region := c.mem.NewRegion(c.mem.Active())
	c.mem.Enter(region)

	err := c.checkStmts(block.Stmts)

	c.releaseScopeBorrows(scope)
	c.mem.Exit()
	if exitErr := c.tbl.ExitScope(); exitErr != nil && err == nil {
		err = exitErr
	}
	return err
}

func (c *Checker) checkVarDecl(s *ast.VarDeclStmt) *diag.Error {
	var declared types.ID
	if s.Type != nil {
		id, err := c.ASTTypeToType(s.Type)
		if err != nil {
			return err
		}
		declared = id
	}

	var valueType types.ID
	if s.Value != nil {
		id, err := c.checkExpr(s.Value)
		if err != nil {
			return err
		}
		valueType = id
	}

	switch {
	case declared == types.None && s.Value == nil:
		return diag.Errorf(diag.SemaInvalidType, s.Loc,
			"'%s' needs a type annotation or an initializer", s.Name)
	case declared == types.None:
		declared = valueType
	case s.Value != nil:
		if !c.in.Compatible(declared, valueType) {
			return diag.Errorf(diag.SemaTypeMismatch, s.Value.Span(),
				"expected %s, found %s", c.in.String(declared), c.in.String(valueType))
		}
	}
	if s.Value != nil {
		if err := c.checkLinearAssign(declared, s.Value); err != nil {
			return err
		}
	}

	if _, err := c.tbl.AddSymbol(symbols.Symbol{
		Name:        s.Name,
		Kind:        symbols.SymbolVariable,
		Type:        declared,
		Mutable:     s.Mutable,
		Initialized: s.Value != nil,
		Decl:        s.Loc,
	}); err != nil {
		return err
	}

	alloc := c.mem.DetermineStrategy(c.in, s.Name, declared, s.Loc, s.Mutable)
	if c.current != nil {
		c.current.Locals = append(c.current.Locals, alloc)
	}
	return nil
}

func (c *Checker) checkAssign(s *ast.AssignStmt) *diag.Error {
	valueType, err := c.checkExpr(s.Value)
	if err != nil {
		return err
	}

	switch target := s.Target.(type) {
	case *ast.Ident:
		id, sym, ok := c.tbl.Lookup(target.Name)
		if !ok {
			return diag.Errorf(diag.SemaUndefinedSymbol, target.Loc,
				"undefined symbol '%s'", target.Name)
		}
		if !sym.Mutable && sym.Initialized {
			return diag.Errorf(diag.SemaAssignToImmutable, s.Loc,
				"cannot assign to immutable symbol '%s'", target.Name)
		}
		if sym.Borrow.Mut || sym.Borrow.Shared > 0 {
			return diag.Errorf(diag.SemaInvalidOperation, s.Loc,
				"cannot assign to '%s' while it is borrowed", target.Name)
		}
		if !c.in.Compatible(sym.Type, valueType) {
			return diag.Errorf(diag.SemaTypeMismatch, s.Value.Span(),
				"expected %s, found %s", c.in.String(sym.Type), c.in.String(valueType))
		}
		if err := c.checkLinearAssign(sym.Type, s.Value); err != nil {
			return err
		}
		// Reassignment revives a moved binding.
		c.tbl.ClearMoved(id)
		c.tbl.MarkInitialized(id)
		return nil

	case *ast.FieldExpr:
		targetType, err := c.checkExpr(target)
		if err != nil {
			return err
		}
		if !c.in.Compatible(targetType, valueType) {
			return diag.Errorf(diag.SemaTypeMismatch, s.Value.Span(),
				"expected %s, found %s", c.in.String(targetType), c.in.String(valueType))
		}
		c.markValueEscapes(s.Value)
		return nil

	case *ast.IndexExpr:
		targetType, err := c.checkExpr(target)
		if err != nil {
			return err
		}
		if !c.in.Compatible(targetType, valueType) {
			return diag.Errorf(diag.SemaTypeMismatch, s.Value.Span(),
				"expected %s, found %s", c.in.String(targetType), c.in.String(valueType))
		}
		// Stored into an array element or map value: the value outlives
		// the statement.
		c.markValueEscapes(s.Value)
		return nil

	case *ast.UnaryExpr:
		if target.Op == ast.UnaryDeref {
			targetType, err := c.checkExpr(target)
			if err != nil {
				return err
			}
			if !c.in.Compatible(targetType, valueType) {
				return diag.Errorf(diag.SemaTypeMismatch, s.Value.Span(),
					"expected %s, found %s", c.in.String(targetType), c.in.String(valueType))
			}
			return nil
		}
		return diag.Errorf(diag.SemaInvalidOperation, s.Loc,
			"expression is not assignable")

	default:
		return diag.Errorf(diag.SemaInvalidOperation, s.Loc,
			"expression is not assignable")
	}
}

func (c *Checker) checkCondition(cond ast.Expr) *diag.Error {
	condType, err := c.checkExpr(cond)
	if err != nil {
		return err
	}
	if !c.in.Compatible(c.in.Builtins().Boolean, condType) {
		return diag.Errorf(diag.SemaTypeMismatch, cond.Span(),
			"condition must be Boolean, found %s", c.in.String(condType))
	}
	return nil
}

func (c *Checker) checkIf(s *ast.IfStmt) *diag.Error {
	if err := c.checkCondition(s.Cond); err != nil {
		return err
	}
	if err := c.checkBlock(s.Then, symbols.ScopeBlock); err != nil {
		return err
	}
	if s.Else != nil {
		return c.checkStmt(s.Else)
	}
	return nil
}

func (c *Checker) checkWhile(s *ast.WhileStmt) *diag.Error {
	if err := c.checkCondition(s.Cond); err != nil {
		return err
	}
	return c.checkBlock(s.Body, symbols.ScopeLoop)
}

// checkFor runs the header clauses inside the loop scope so init bindings
// are visible to the condition, the post clause, and the body.
func (c *Checker) checkFor(s *ast.ForStmt) *diag.Error {
	scope := c.tbl.EnterScope(symbols.ScopeLoop, s.Loc)
	region := c.mem.NewRegion(c.mem.Active())
	c.mem.Enter(region)

	err := c.checkForParts(s)

	c.releaseScopeBorrows(scope)
	c.mem.Exit()
	if exitErr := c.tbl.ExitScope(); exitErr != nil && err == nil {
		err = exitErr
	}
	return err
}

func (c *Checker) checkForParts(s *ast.ForStmt) *diag.Error {
	if s.Init != nil {
		if err := c.checkStmt(s.Init); err != nil {
			return err
		}
	}
	if s.Cond != nil {
		if err := c.checkCondition(s.Cond); err != nil {
			return err
		}
	}
	if s.Post != nil {
		if err := c.checkStmt(s.Post); err != nil {
			return err
		}
	}
	return c.checkStmts(s.Body.Stmts)
}

func (c *Checker) checkReturn(s *ast.ReturnStmt) *diag.Error {
	if s.Value == nil {
		if c.currentReturn != types.None && !c.in.IsVoid(c.currentReturn) {
			return diag.Errorf(diag.SemaTypeMismatch, s.Loc,
				"expected %s, found no value", c.in.String(c.currentReturn))
		}
		return nil
	}
	valueType, err := c.checkExpr(s.Value)
	if err != nil {
		return err
	}
	if c.currentReturn == types.None || c.in.IsVoid(c.currentReturn) {
		return diag.Errorf(diag.SemaTypeMismatch, s.Value.Span(),
			"function returns no value, found %s", c.in.String(valueType))
	}
	if !c.in.Compatible(c.currentReturn, valueType) {
		return diag.Errorf(diag.SemaTypeMismatch, s.Value.Span(),
			"expected %s, found %s", c.in.String(c.currentReturn), c.in.String(valueType))
	}
	c.markReturnEscapes(s.Value)
	return nil
}

func (c *Checker) checkTryCatch(s *ast.TryCatchStmt) *diag.Error {
	if err := c.checkBlock(s.Body, symbols.ScopeBlock); err != nil {
		return err
	}

	scope := c.tbl.EnterScope(symbols.ScopeBlock, s.Catch.Loc)
	region := c.mem.NewRegion(c.mem.Active())
	c.mem.Enter(region)

	err := c.bindCatch(s)
	if err == nil {
		err = c.checkStmts(s.Catch.Stmts)
	}

	c.releaseScopeBorrows(scope)
	c.mem.Exit()
	if exitErr := c.tbl.ExitScope(); exitErr != nil && err == nil {
		err = exitErr
	}
	return err
}

func (c *Checker) bindCatch(s *ast.TryCatchStmt) *diag.Error {
	if s.CatchName == "" {
		return nil
	}
	caught := c.in.Builtins().String
	if s.CatchType != nil {
		id, err := c.ASTTypeToType(s.CatchType)
		if err != nil {
			return err
		}
		caught = id
	}
	_, err := c.tbl.AddSymbol(symbols.Symbol{
		Name:        s.CatchName,
		Kind:        symbols.SymbolVariable,
		Type:        caught,
		Initialized: true,
		Decl:        s.Catch.Loc,
	})
	return err
}
