package sema

import (
	"testing"

	"loom/internal/ast"
	"loom/internal/diag"
	"loom/internal/memory"
)

func bigArraySpec() *ast.TypeSpec {
	size := uint64(200)
	return ast.ArraySpec(ast.NamedSpec("Integer"), &size)
}

func externFn(name string, ret *ast.TypeSpec) *ast.ExternalFunction {
	return &ast.ExternalFunction{Name: name, Return: ret}
}

func TestLargeFixedArrayIsLinear(t *testing.T) {
	mod := module(
		fn("main", nil, nil, block(
			letStmt("a", bigArraySpec(), call("makeBig")),
		)),
	)
	mod.Externs = []*ast.ExternalFunction{externFn("makeBig", bigArraySpec())}

	res, err := analyze(t, mod)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}
	info := functionInfo(t, res, "main")
	if got := localStrategy(t, info, "a"); got != memory.StrategyLinear {
		t.Fatalf("strategy = %s, want linear", got)
	}
}

func TestLinearBindingMovesItsSource(t *testing.T) {
	mod := module(
		fn("main", nil, nil, block(
			letStmt("a", bigArraySpec(), call("makeBig")),
			letStmt("b", bigArraySpec(), ident("a")),
			exprStmt(ident("a")),
		)),
	)
	mod.Externs = []*ast.ExternalFunction{externFn("makeBig", bigArraySpec())}

	_, err := analyze(t, mod)
	wantCode(t, err, diag.SemaUseAfterMove)
}

func TestCopyingNonLinearIntoLinearIsRejected(t *testing.T) {
	mod := module(
		fn("main", nil, nil, block(
			letStmt("small", ast.ArraySpec(ast.NamedSpec("Integer"), nil),
				&ast.ArrayLit{Elems: []ast.Expr{intLit(1), intLit(2)}}),
			letStmt("big", bigArraySpec(), ident("small")),
		)),
	)
	_, err := analyze(t, mod)
	wantCode(t, err, diag.SemaInvalidType)
}

func TestMutablePointerIsLinear(t *testing.T) {
	ptrSpec := &ast.TypeSpec{
		Kind:    ast.TypeSpecPointer,
		Mutable: true,
		Elem:    ast.NamedSpec("Integer"),
	}
	mod := module(
		fn("main", nil, nil, block(
			letStmt("p", ptrSpec, call("makePtr")),
		)),
	)
	mod.Externs = []*ast.ExternalFunction{externFn("makePtr", ptrSpec)}

	res, err := analyze(t, mod)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}
	info := functionInfo(t, res, "main")
	if got := localStrategy(t, info, "p"); got != memory.StrategyLinear {
		t.Fatalf("strategy = %s, want linear", got)
	}
}

func TestFreshValueBindsToLinearSlot(t *testing.T) {
	mod := module(
		fn("main", nil, nil, block(
			letStmt("a", bigArraySpec(), call("makeBig")),
			letStmt("b", bigArraySpec(), call("makeBig")),
		)),
	)
	mod.Externs = []*ast.ExternalFunction{externFn("makeBig", bigArraySpec())}

	if _, err := analyze(t, mod); err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}
}
