package sema

import (
	"loom/internal/ast"
	"loom/internal/diag"
	"loom/internal/symbols"
	"loom/internal/types"
)

func (c *Checker) checkExpr(expr ast.Expr) (types.ID, *diag.Error) {
	if err := c.enter(expr.Span()); err != nil {
		return types.None, err
	}
	defer c.leave()

	id, err := c.checkExprInner(expr)
	if err != nil {
		return types.None, err
	}
	c.result.ExprTypes[expr] = id
	return id, nil
}

func (c *Checker) checkExprInner(expr ast.Expr) (types.ID, *diag.Error) {
	b := c.in.Builtins()
	switch e := expr.(type) {
	case *ast.IntLit:
		return b.Integer, nil
	case *ast.FloatLit:
		return b.Float, nil
	case *ast.StringLit:
		return b.String, nil
	case *ast.BoolLit:
		return b.Boolean, nil
	case *ast.Ident:
		return c.checkIdentUse(e)
	case *ast.UnaryExpr:
		return c.checkUnary(e)
	case *ast.BinaryExpr:
		return c.checkBinary(e)
	case *ast.CallExpr:
		return c.checkCall(e)
	case *ast.IndexExpr:
		return c.checkIndex(e)
	case *ast.FieldExpr:
		return c.checkField(e)
	case *ast.ArrayLit:
		return c.checkArrayLit(e)
	case *ast.MapLit:
		return c.checkMapLit(e)
	case *ast.StructLit:
		return c.checkStructLit(e)
	default:
		return types.None, diag.Errorf(diag.SemaInvalidOperation, expr.Span(),
			"unsupported expression")
	}
}

// checkIdentUse resolves a name and enforces the use rules: a binding must
// be initialized before it is read and may never be read after a move.
func (c *Checker) checkIdentUse(e *ast.Ident) (types.ID, *diag.Error) {
	_, sym, ok := c.tbl.Lookup(e.Name)
	if !ok {
		return types.None, diag.Errorf(diag.SemaUndefinedSymbol, e.Loc,
			"undefined symbol '%s'", e.Name)
	}
	switch sym.Kind {
	case symbols.SymbolVariable, symbols.SymbolParameter, symbols.SymbolConstant:
		if !sym.Initialized {
			return types.None, diag.Errorf(diag.SemaUseBeforeInitialization, e.Loc,
				"'%s' is used before initialization", e.Name)
		}
		if sym.Moved {
			return types.None, diag.Errorf(diag.SemaUseAfterMove, e.Loc,
				"use of moved value '%s'", e.Name)
		}
	}
	return sym.Type, nil
}

func (c *Checker) checkUnary(e *ast.UnaryExpr) (types.ID, *diag.Error) {
	b := c.in.Builtins()
	switch e.Op {
	case ast.UnaryNeg:
		operand, err := c.checkExpr(e.Operand)
		if err != nil {
			return types.None, err
		}
		if !c.in.IsNumeric(operand) && !c.in.IsError(operand) {
			return types.None, diag.Errorf(diag.SemaTypeMismatch, e.Loc,
				"operator '-' needs a numeric operand, found %s", c.in.String(operand))
		}
		return operand, nil

	case ast.UnaryNot:
		operand, err := c.checkExpr(e.Operand)
		if err != nil {
			return types.None, err
		}
		if !c.in.Compatible(b.Boolean, operand) {
			return types.None, diag.Errorf(diag.SemaTypeMismatch, e.Loc,
				"operator '!' needs a Boolean operand, found %s", c.in.String(operand))
		}
		return b.Boolean, nil

	case ast.UnaryBorrow:
		operand, err := c.checkExpr(e.Operand)
		if err != nil {
			return types.None, err
		}
		if ident, ok := e.Operand.(*ast.Ident); ok {
			bid, borrowErr := c.tbl.Borrow(ident.Name, e.Loc)
			if borrowErr != nil {
				return types.None, borrowErr
			}
			c.holdBorrow(bid, e.Loc)
		}
		return c.in.Borrowed(c.in.BaseType(operand)), nil

	case ast.UnaryMutBorrow:
		operand, err := c.checkExpr(e.Operand)
		if err != nil {
			return types.None, err
		}
		if ident, ok := e.Operand.(*ast.Ident); ok {
			bid, borrowErr := c.tbl.BorrowMut(ident.Name, e.Loc)
			if borrowErr != nil {
				return types.None, borrowErr
			}
			c.holdBorrow(bid, e.Loc)
		}
		return c.in.MutableBorrow(c.in.BaseType(operand)), nil

	case ast.UnaryMove:
		operand, err := c.checkExpr(e.Operand)
		if err != nil {
			return types.None, err
		}
		if ident, ok := e.Operand.(*ast.Ident); ok {
			if id, sym, found := c.tbl.Lookup(ident.Name); found {
				if !sym.Borrow.None() {
					return types.None, diag.Errorf(diag.SemaInvalidOperation, e.Loc,
						"cannot move '%s' while it is borrowed", ident.Name)
				}
				c.tbl.MarkMoved(id)
			}
		}
		return c.in.Owned(types.OwnOwned, c.in.BaseType(operand)), nil

	case ast.UnaryShare:
		operand, err := c.checkExpr(e.Operand)
		if err != nil {
			return types.None, err
		}
		return c.in.Shared(c.in.BaseType(operand)), nil

	case ast.UnaryAddressOf:
		operand, err := c.checkExpr(e.Operand)
		if err != nil {
			return types.None, err
		}
		return c.in.Pointer(c.in.BaseType(operand), false), nil

	case ast.UnaryDeref:
		operand, err := c.checkExpr(e.Operand)
		if err != nil {
			return types.None, err
		}
		tt, ok := c.in.Lookup(c.in.BaseType(operand))
		if !ok || tt.Kind != types.KindPointer {
			return types.None, diag.Errorf(diag.SemaTypeMismatch, e.Loc,
				"cannot dereference %s", c.in.String(operand))
		}
		return tt.Elem, nil

	default:
		return types.None, diag.Errorf(diag.SemaInvalidOperation, e.Loc,
			"unsupported unary operator")
	}
}

func (c *Checker) checkBinary(e *ast.BinaryExpr) (types.ID, *diag.Error) {
	b := c.in.Builtins()
	left, err := c.checkExpr(e.Left)
	if err != nil {
		return types.None, err
	}
	right, err := c.checkExpr(e.Right)
	if err != nil {
		return types.None, err
	}

	switch {
	case e.Op.IsLogical():
		if !c.in.Compatible(b.Boolean, left) || !c.in.Compatible(b.Boolean, right) {
			return types.None, diag.Errorf(diag.SemaTypeMismatch, e.Loc,
				"logical operator needs Boolean operands, found %s and %s",
				c.in.String(left), c.in.String(right))
		}
		return b.Boolean, nil

	case e.Op.IsComparison():
		if !c.in.Compatible(left, right) {
			return types.None, diag.Errorf(diag.SemaTypeMismatch, e.Loc,
				"cannot compare %s with %s", c.in.String(left), c.in.String(right))
		}
		return b.Boolean, nil

	default: // arithmetic
		lb, rb := c.in.BaseType(left), c.in.BaseType(right)
		// String concatenation rides on '+'.
		if e.Op == ast.BinAdd && lb == b.String && rb == b.String {
			return b.String, nil
		}
		if !c.in.IsNumeric(lb) || !c.in.IsNumeric(rb) {
			if c.in.IsError(lb) || c.in.IsError(rb) {
				return b.Error, nil
			}
			return types.None, diag.Errorf(diag.SemaTypeMismatch, e.Loc,
				"arithmetic needs numeric operands, found %s and %s",
				c.in.String(left), c.in.String(right))
		}
		if !c.in.Compatible(lb, rb) {
			return types.None, diag.Errorf(diag.SemaTypeMismatch, e.Loc,
				"mismatched operands %s and %s", c.in.String(left), c.in.String(right))
		}
		return c.widerNumeric(lb, rb), nil
	}
}

// widerNumeric picks the operand type that survives arithmetic: floats win
// over integers, wider widths win within a family.
func (c *Checker) widerNumeric(a, b types.ID) types.ID {
	rank := func(id types.ID) int {
		tt := c.in.MustLookup(id)
		switch tt.Prim {
		case types.PrimInteger32:
			return 1
		case types.PrimInteger:
			return 2
		case types.PrimInteger64:
			return 3
		case types.PrimFloat32:
			return 4
		case types.PrimFloat:
			return 5
		case types.PrimFloat64:
			return 6
		default:
			return 0
		}
	}
	if rank(b) > rank(a) {
		return b
	}
	return a
}

func (c *Checker) checkIndex(e *ast.IndexExpr) (types.ID, *diag.Error) {
	target, err := c.checkExpr(e.Target)
	if err != nil {
		return types.None, err
	}
	index, err := c.checkExpr(e.Index)
	if err != nil {
		return types.None, err
	}

	tt, ok := c.in.Lookup(c.in.BaseType(target))
	if !ok {
		return types.None, diag.Errorf(diag.SemaInvalidType, e.Loc, "cannot index this value")
	}
	switch tt.Kind {
	case types.KindArray:
		if !c.in.IsInteger(index) && !c.in.IsError(index) {
			return types.None, diag.Errorf(diag.SemaTypeMismatch, e.Index.Span(),
				"array index must be an integer, found %s", c.in.String(index))
		}
		return tt.Elem, nil
	case types.KindMap:
		if !c.in.Compatible(tt.Elem, index) {
			return types.None, diag.Errorf(diag.SemaTypeMismatch, e.Index.Span(),
				"map key must be %s, found %s", c.in.String(tt.Elem), c.in.String(index))
		}
		return tt.Aux, nil
	case types.KindError:
		return c.in.Builtins().Error, nil
	default:
		return types.None, diag.Errorf(diag.SemaInvalidType, e.Loc,
			"cannot index %s", c.in.String(target))
	}
}

func (c *Checker) checkField(e *ast.FieldExpr) (types.ID, *diag.Error) {
	// Enum variant access: EnumName.Variant produces the enum type.
	if ident, ok := e.Target.(*ast.Ident); ok {
		if def, found := c.defs.Lookup(ident.Name); found && def.Kind == types.DefEnum {
			for _, v := range def.Variants {
				if v == e.Field {
					return c.in.Named(def.Name, def.Module), nil
				}
			}
			return types.None, diag.Errorf(diag.SemaUndefinedSymbol, e.Loc,
				"enum '%s' has no variant '%s'", ident.Name, e.Field)
		}
	}

	target, err := c.checkExpr(e.Target)
	if err != nil {
		return types.None, err
	}
	base := c.in.BaseType(target)
	info, ok := c.in.NamedInfoOf(base)
	if !ok {
		if c.in.IsError(base) {
			return c.in.Builtins().Error, nil
		}
		return types.None, diag.Errorf(diag.SemaInvalidType, e.Loc,
			"%s has no fields", c.in.String(target))
	}
	def, found := c.defs.Lookup(info.Name)
	if !found {
		return types.None, diag.Errorf(diag.SemaUndefinedSymbol, e.Loc,
			"undefined type '%s'", info.Name)
	}
	for _, field := range def.Fields {
		if field.Name == e.Field {
			return field.Type, nil
		}
	}
	return types.None, diag.Errorf(diag.SemaUndefinedSymbol, e.Loc,
		"'%s' has no field '%s'", info.Name, e.Field)
}

func (c *Checker) checkArrayLit(e *ast.ArrayLit) (types.ID, *diag.Error) {
	if len(e.Elems) == 0 {
		return c.in.Array(c.in.NewVariable(), types.DynamicLen), nil
	}
	elem, err := c.checkExpr(e.Elems[0])
	if err != nil {
		return types.None, err
	}
	for _, rest := range e.Elems[1:] {
		t, err := c.checkExpr(rest)
		if err != nil {
			return types.None, err
		}
		if !c.in.Compatible(elem, t) {
			return types.None, diag.Errorf(diag.SemaTypeMismatch, rest.Span(),
				"array element is %s, expected %s", c.in.String(t), c.in.String(elem))
		}
	}
	count, ok := lenToCount(len(e.Elems))
	if !ok {
		return types.None, diag.Errorf(diag.SemaInvalidType, e.Loc, "array literal too large")
	}
	return c.in.Array(elem, count), nil
}

func (c *Checker) checkMapLit(e *ast.MapLit) (types.ID, *diag.Error) {
	if len(e.Keys) == 0 {
		return c.in.Map(c.in.NewVariable(), c.in.NewVariable()), nil
	}
	key, err := c.checkExpr(e.Keys[0])
	if err != nil {
		return types.None, err
	}
	value, err := c.checkExpr(e.Values[0])
	if err != nil {
		return types.None, err
	}
	for i := 1; i < len(e.Keys); i++ {
		kt, err := c.checkExpr(e.Keys[i])
		if err != nil {
			return types.None, err
		}
		vt, err := c.checkExpr(e.Values[i])
		if err != nil {
			return types.None, err
		}
		if !c.in.Compatible(key, kt) || !c.in.Compatible(value, vt) {
			return types.None, diag.Errorf(diag.SemaTypeMismatch, e.Keys[i].Span(),
				"map entries disagree on type")
		}
	}
	return c.in.Map(key, value), nil
}

func (c *Checker) checkStructLit(e *ast.StructLit) (types.ID, *diag.Error) {
	def, found := c.defs.Lookup(e.TypeName)
	if !found {
		return types.None, diag.Errorf(diag.SemaUndefinedSymbol, e.Loc,
			"undefined type '%s'", e.TypeName)
	}
	if def.Kind != types.DefStruct {
		return types.None, diag.Errorf(diag.SemaInvalidType, e.Loc,
			"'%s' is not a struct type", e.TypeName)
	}
	fieldType := make(map[string]types.ID, len(def.Fields))
	for _, f := range def.Fields {
		fieldType[f.Name] = f.Type
	}
	for i, name := range e.Fields {
		want, ok := fieldType[name]
		if !ok {
			return types.None, diag.Errorf(diag.SemaUndefinedSymbol, e.Values[i].Span(),
				"'%s' has no field '%s'", e.TypeName, name)
		}
		got, err := c.checkExpr(e.Values[i])
		if err != nil {
			return types.None, err
		}
		if !c.in.Compatible(want, got) {
			return types.None, diag.Errorf(diag.SemaTypeMismatch, e.Values[i].Span(),
				"field '%s' is %s, found %s", name, c.in.String(want), c.in.String(got))
		}
	}
	return c.in.Named(def.Name, def.Module), nil
}

func lenToCount(n int) (uint32, bool) {
	if n < 0 || uint64(n) >= uint64(types.DynamicLen) {
		return 0, false
	}
	return uint32(n), true
}
