package sema

import (
	"testing"

	"loom/internal/ast"
	"loom/internal/diag"
	"loom/internal/memory"
)

// AST builders keep the fixtures readable; spans stay zero because the
// tests assert on codes, not positions.

func intLit(v int64) ast.Expr      { return &ast.IntLit{Value: v} }
func strLit(v string) ast.Expr     { return &ast.StringLit{Value: v} }
func boolLit(v bool) ast.Expr      { return &ast.BoolLit{Value: v} }
func ident(name string) ast.Expr   { return &ast.Ident{Name: name} }
func block(stmts ...ast.Stmt) *ast.Block {
	return &ast.Block{Stmts: stmts}
}

func letStmt(name string, spec *ast.TypeSpec, value ast.Expr) ast.Stmt {
	return &ast.VarDeclStmt{Name: name, Type: spec, Value: value}
}

func varStmt(name string, spec *ast.TypeSpec, value ast.Expr) ast.Stmt {
	return &ast.VarDeclStmt{Name: name, Type: spec, Value: value, Mutable: true}
}

func exprStmt(e ast.Expr) ast.Stmt { return &ast.ExprStmt{E: e} }

func call(name string, args ...ast.Expr) ast.Expr {
	return &ast.CallExpr{Callee: &ast.Ident{Name: name}, Args: args}
}

func unary(op ast.UnaryOp, operand ast.Expr) ast.Expr {
	return &ast.UnaryExpr{Op: op, Operand: operand}
}

func param(name string, spec *ast.TypeSpec) *ast.Parameter {
	return &ast.Parameter{Name: name, Type: spec}
}

func fn(name string, params []*ast.Parameter, ret *ast.TypeSpec, body *ast.Block) *ast.Function {
	return &ast.Function{Name: name, Params: params, Return: ret, Body: body}
}

func module(fns ...*ast.Function) *ast.Module {
	return &ast.Module{Name: "main", Functions: fns}
}

func analyze(t *testing.T, mod *ast.Module) (*Result, *diag.Error) {
	t.Helper()
	return NewChecker(Options{}).AnalyzeModule(mod)
}

func wantCode(t *testing.T, err *diag.Error, code diag.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, analysis succeeded", code)
	}
	if err.Code != code {
		t.Fatalf("expected %s, got %s: %s", code, err.Code, err.Message)
	}
}

func functionInfo(t *testing.T, res *Result, name string) memory.FunctionMemoryInfo {
	t.Helper()
	for _, info := range res.Functions {
		if info.Function == name {
			return info
		}
	}
	t.Fatalf("no memory info recorded for %q", name)
	return memory.FunctionMemoryInfo{}
}

func localStrategy(t *testing.T, info memory.FunctionMemoryInfo, name string) memory.Strategy {
	t.Helper()
	for _, loc := range info.Locals {
		if loc.Variable == name {
			return loc.Strategy
		}
	}
	t.Fatalf("no allocation recorded for local %q", name)
	return 0
}

func TestImmutablePrimitiveGoesOnStack(t *testing.T) {
	res, err := analyze(t, module(
		fn("main", nil, nil, block(
			letStmt("x", ast.NamedSpec("Integer"), intLit(42)),
		)),
	))
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}
	info := functionInfo(t, res, "main")
	if got := localStrategy(t, info, "x"); got != memory.StrategyStack {
		t.Fatalf("strategy = %s, want stack", got)
	}
}

func TestDynamicArrayIsRefCounted(t *testing.T) {
	res, err := analyze(t, module(
		fn("main", nil, nil, block(
			letStmt("xs", nil, &ast.ArrayLit{Elems: []ast.Expr{intLit(1), intLit(2), intLit(3)}}),
		)),
	))
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}
	info := functionInfo(t, res, "main")
	if got := localStrategy(t, info, "xs"); got != memory.StrategyRefCounted {
		t.Fatalf("strategy = %s, want refcounted", got)
	}
}

func TestMutablePrimitiveLandsInFunctionRegion(t *testing.T) {
	res, err := analyze(t, module(
		fn("main", nil, nil, block(
			varStmt("x", ast.NamedSpec("Integer"), intLit(0)),
		)),
	))
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}
	info := functionInfo(t, res, "main")
	if got := localStrategy(t, info, "x"); got != memory.StrategyRegion {
		t.Fatalf("strategy = %s, want region", got)
	}
}

func TestOwnedParameterConsumesOwnedArgument(t *testing.T) {
	consume := fn("consume",
		[]*ast.Parameter{param("value", ast.OwnedSpec(ast.OwnershipOwned, ast.NamedSpec("String")))},
		nil, block())
	main := fn("main", nil, nil, block(
		letStmt("s", ast.OwnedSpec(ast.OwnershipOwned, ast.NamedSpec("String")), strLit("hello")),
		exprStmt(call("consume", ident("s"))),
		letStmt("t", nil, ident("s")),
	))
	_, err := analyze(t, module(consume, main))
	wantCode(t, err, diag.SemaUseAfterMove)
}

func TestUnqualifiedArgumentToOwnedParameterIsCopied(t *testing.T) {
	consume := fn("consume",
		[]*ast.Parameter{param("value", ast.OwnedSpec(ast.OwnershipOwned, ast.NamedSpec("String")))},
		nil, block())
	main := fn("main", nil, nil, block(
		letStmt("s", nil, strLit("hello")),
		exprStmt(call("consume", ident("s"))),
		letStmt("t", nil, ident("s")),
	))
	if _, err := analyze(t, module(consume, main)); err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}
}

func TestCopyableArgumentSkipsBorrowBookkeeping(t *testing.T) {
	bump := fn("bump",
		[]*ast.Parameter{param("n", ast.OwnedSpec(ast.OwnershipMutBorrow, ast.NamedSpec("Integer")))},
		nil, block())
	main := fn("main", nil, nil, block(
		letStmt("x", nil, intLit(1)),
		exprStmt(call("bump", ident("x"))),
	))
	if _, err := analyze(t, module(bump, main)); err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}
}

func TestBorrowedParameterLeavesOwnerUsable(t *testing.T) {
	borrow := fn("inspect",
		[]*ast.Parameter{param("value", ast.OwnedSpec(ast.OwnershipBorrowed, ast.NamedSpec("String")))},
		nil, block())
	main := fn("main", nil, nil, block(
		letStmt("s", nil, strLit("hello")),
		exprStmt(call("inspect", ident("s"))),
		letStmt("t", nil, ident("s")),
	))
	if _, err := analyze(t, module(borrow, main)); err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}
}

func TestExplicitMoveSigil(t *testing.T) {
	consume := fn("consume",
		[]*ast.Parameter{param("value", ast.OwnedSpec(ast.OwnershipOwned, ast.NamedSpec("String")))},
		nil, block())
	main := fn("main", nil, nil, block(
		letStmt("s", nil, strLit("hello")),
		exprStmt(call("consume", unary(ast.UnaryMove, ident("s")))),
		exprStmt(ident("s")),
	))
	_, err := analyze(t, module(consume, main))
	wantCode(t, err, diag.SemaUseAfterMove)
}

func TestTwoSharedBorrowsCoexist(t *testing.T) {
	_, err := analyze(t, module(
		fn("main", nil, nil, block(
			letStmt("x", nil, intLit(1)),
			letStmt("a", nil, unary(ast.UnaryBorrow, ident("x"))),
			letStmt("b", nil, unary(ast.UnaryBorrow, ident("x"))),
		)),
	))
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}
}

func TestSecondMutableBorrowIsRejected(t *testing.T) {
	_, err := analyze(t, module(
		fn("main", nil, nil, block(
			varStmt("x", nil, intLit(1)),
			letStmt("a", nil, unary(ast.UnaryMutBorrow, ident("x"))),
			letStmt("b", nil, unary(ast.UnaryMutBorrow, ident("x"))),
		)),
	))
	wantCode(t, err, diag.SemaInvalidOperation)
}

func TestMutableBorrowNeedsMutableBinding(t *testing.T) {
	_, err := analyze(t, module(
		fn("main", nil, nil, block(
			letStmt("x", nil, intLit(1)),
			letStmt("a", nil, unary(ast.UnaryMutBorrow, ident("x"))),
		)),
	))
	wantCode(t, err, diag.SemaAssignToImmutable)
}

func TestAssignWhileBorrowedIsRejected(t *testing.T) {
	_, err := analyze(t, module(
		fn("main", nil, nil, block(
			varStmt("x", nil, intLit(1)),
			letStmt("a", nil, unary(ast.UnaryBorrow, ident("x"))),
			&ast.AssignStmt{Target: ident("x"), Value: intLit(2)},
		)),
	))
	wantCode(t, err, diag.SemaInvalidOperation)
}

func TestMoveWhileBorrowedIsRejected(t *testing.T) {
	consume := fn("consume",
		[]*ast.Parameter{param("value", ast.OwnedSpec(ast.OwnershipOwned, ast.NamedSpec("String")))},
		nil, block())
	main := fn("main", nil, nil, block(
		letStmt("s", ast.OwnedSpec(ast.OwnershipOwned, ast.NamedSpec("String")), strLit("hello")),
		letStmt("r", nil, unary(ast.UnaryBorrow, ident("s"))),
		exprStmt(call("consume", ident("s"))),
	))
	_, err := analyze(t, module(consume, main))
	wantCode(t, err, diag.SemaInvalidOperation)
}

func TestBorrowReleasedAtScopeExit(t *testing.T) {
	_, err := analyze(t, module(
		fn("main", nil, nil, block(
			varStmt("x", nil, intLit(1)),
			&ast.BlockStmt{Body: block(
				letStmt("a", nil, unary(ast.UnaryMutBorrow, ident("x"))),
			)},
			letStmt("b", nil, unary(ast.UnaryMutBorrow, ident("x"))),
		)),
	))
	if err != nil {
		t.Fatalf("borrow should end with its scope: %s", err.Message)
	}
}

func TestShadowedBorrowReleasesOuterBinding(t *testing.T) {
	// The shared borrow inside the block targets the outer x; the shadow
	// declared afterwards must not absorb the release at block exit.
	_, err := analyze(t, module(
		fn("main", nil, nil, block(
			varStmt("x", nil, intLit(1)),
			&ast.BlockStmt{Body: block(
				letStmt("r", nil, unary(ast.UnaryBorrow, ident("x"))),
				letStmt("x", nil, strLit("inner")),
			)},
			letStmt("b", nil, unary(ast.UnaryMutBorrow, ident("x"))),
		)),
	))
	if err != nil {
		t.Fatalf("outer borrow should end with the block: %s", err.Message)
	}
}

func TestUseBeforeInitialization(t *testing.T) {
	_, err := analyze(t, module(
		fn("main", nil, nil, block(
			&ast.VarDeclStmt{Name: "x", Type: ast.NamedSpec("Integer"), Mutable: true},
			letStmt("y", nil, ident("x")),
		)),
	))
	wantCode(t, err, diag.SemaUseBeforeInitialization)
}

func TestAssignInitializesDeclaredBinding(t *testing.T) {
	_, err := analyze(t, module(
		fn("main", nil, nil, block(
			&ast.VarDeclStmt{Name: "x", Type: ast.NamedSpec("Integer"), Mutable: true},
			&ast.AssignStmt{Target: ident("x"), Value: intLit(5)},
			letStmt("y", nil, ident("x")),
		)),
	))
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}
}

func TestDuplicateDefinitionInOneScope(t *testing.T) {
	_, err := analyze(t, module(
		fn("main", nil, nil, block(
			letStmt("x", nil, intLit(1)),
			letStmt("x", nil, intLit(2)),
		)),
	))
	wantCode(t, err, diag.SemaDuplicateDefinition)
}

func TestShadowingInInnerScopeIsAllowed(t *testing.T) {
	_, err := analyze(t, module(
		fn("main", nil, nil, block(
			letStmt("x", nil, intLit(1)),
			&ast.BlockStmt{Body: block(
				letStmt("x", nil, strLit("inner")),
			)},
		)),
	))
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}
}

func TestUndefinedSymbol(t *testing.T) {
	_, err := analyze(t, module(
		fn("main", nil, nil, block(
			letStmt("y", nil, ident("nope")),
		)),
	))
	wantCode(t, err, diag.SemaUndefinedSymbol)
}

func TestDeclaredTypeMismatch(t *testing.T) {
	_, err := analyze(t, module(
		fn("main", nil, nil, block(
			letStmt("x", ast.NamedSpec("Integer"), strLit("no")),
		)),
	))
	wantCode(t, err, diag.SemaTypeMismatch)
}

func TestConditionMustBeBoolean(t *testing.T) {
	_, err := analyze(t, module(
		fn("main", nil, nil, block(
			&ast.IfStmt{Cond: intLit(1), Then: block()},
		)),
	))
	wantCode(t, err, diag.SemaTypeMismatch)
}

func TestArgumentCountMismatch(t *testing.T) {
	add := fn("add", []*ast.Parameter{
		param("a", ast.NamedSpec("Integer")),
		param("b", ast.NamedSpec("Integer")),
	}, ast.NamedSpec("Integer"), block(
		&ast.ReturnStmt{Value: intLit(0)},
	))
	main := fn("main", nil, nil, block(
		exprStmt(call("add", intLit(1))),
	))
	_, err := analyze(t, module(add, main))
	wantCode(t, err, diag.SemaArgumentCountMismatch)
}

func TestVariadicAcceptsTrailingArguments(t *testing.T) {
	sum := &ast.Function{
		Name:     "sum",
		Params:   []*ast.Parameter{param("first", ast.NamedSpec("Integer"))},
		Variadic: param("rest", ast.NamedSpec("Integer")),
		Return:   ast.NamedSpec("Integer"),
		Body:     block(&ast.ReturnStmt{Value: ident("first")}),
	}
	main := fn("main", nil, nil, block(
		exprStmt(call("sum", intLit(1), intLit(2), intLit(3))),
		exprStmt(call("sum", intLit(1))),
	))
	if _, err := analyze(t, module(sum, main)); err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}

	short := fn("main", nil, nil, block(
		exprStmt(call("sum")),
	))
	_, err := analyze(t, module(sum, short))
	wantCode(t, err, diag.SemaArgumentCountMismatch)
}

func TestReturnedLocalEscapes(t *testing.T) {
	res, err := analyze(t, module(
		fn("make", nil, ast.NamedSpec("Integer"), block(
			letStmt("x", nil, intLit(7)),
			&ast.ReturnStmt{Value: ident("x")},
		)),
	))
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}
	info := functionInfo(t, res, "make")
	if len(info.Escaping) != 1 || info.Escaping[0] != "x" {
		t.Fatalf("escaping = %v, want [x]", info.Escaping)
	}
}

func TestStoredValueEscapes(t *testing.T) {
	point := &ast.TypeDecl{
		Name:   "Point",
		Kind:   ast.TypeDeclStruct,
		Fields: []ast.Field{{Name: "x", Type: ast.NamedSpec("Integer")}},
	}
	mod := module(
		fn("main", nil, nil, block(
			letStmt("p", nil, &ast.StructLit{
				TypeName: "Point",
				Fields:   []string{"x"},
				Values:   []ast.Expr{intLit(0)},
			}),
			letStmt("v", nil, intLit(3)),
			&ast.AssignStmt{
				Target: &ast.FieldExpr{Target: ident("p"), Field: "x"},
				Value:  ident("v"),
			},
		)),
	)
	mod.Types = []*ast.TypeDecl{point}
	res, err := analyze(t, mod)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}
	info := functionInfo(t, res, "main")
	found := false
	for _, name := range info.Escaping {
		if name == "v" {
			found = true
		}
	}
	if !found {
		t.Fatalf("escaping = %v, want v included", info.Escaping)
	}
}

func TestDeepNestingIsBounded(t *testing.T) {
	expr := intLit(1)
	for range [400]struct{}{} {
		expr = unary(ast.UnaryNeg, expr)
	}
	_, err := analyze(t, module(
		fn("main", nil, nil, block(letStmt("x", nil, expr))),
	))
	wantCode(t, err, diag.SemaNestingTooDeep)
}

func TestVoidReturnMismatch(t *testing.T) {
	_, err := analyze(t, module(
		fn("main", nil, nil, block(
			&ast.ReturnStmt{Value: intLit(1)},
		)),
	))
	wantCode(t, err, diag.SemaTypeMismatch)
}

func TestBooleanOperatorsTypeCheck(t *testing.T) {
	_, err := analyze(t, module(
		fn("main", nil, nil, block(
			letStmt("ok", nil, &ast.BinaryExpr{
				Op:    ast.BinAnd,
				Left:  boolLit(true),
				Right: intLit(1),
			}),
		)),
	))
	wantCode(t, err, diag.SemaTypeMismatch)
}
