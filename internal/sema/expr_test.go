package sema

import (
	"testing"

	"loom/internal/ast"
	"loom/internal/diag"
	"loom/internal/memory"
)

func structDecl(name string, fields ...ast.Field) *ast.TypeDecl {
	return &ast.TypeDecl{Name: name, Kind: ast.TypeDeclStruct, Fields: fields}
}

func TestStructLiteralAndFieldAccess(t *testing.T) {
	mod := module(
		fn("main", nil, nil, block(
			letStmt("p", nil, &ast.StructLit{
				TypeName: "Point",
				Fields:   []string{"x", "y"},
				Values:   []ast.Expr{intLit(1), intLit(2)},
			}),
			letStmt("x", ast.NamedSpec("Integer"), &ast.FieldExpr{Target: ident("p"), Field: "x"}),
		)),
	)
	mod.Types = []*ast.TypeDecl{structDecl("Point",
		ast.Field{Name: "x", Type: ast.NamedSpec("Integer")},
		ast.Field{Name: "y", Type: ast.NamedSpec("Integer")},
	)}
	if _, err := analyze(t, mod); err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}
}

func TestUnknownStructField(t *testing.T) {
	mod := module(
		fn("main", nil, nil, block(
			letStmt("p", nil, &ast.StructLit{
				TypeName: "Point",
				Fields:   []string{"z"},
				Values:   []ast.Expr{intLit(1)},
			}),
		)),
	)
	mod.Types = []*ast.TypeDecl{structDecl("Point",
		ast.Field{Name: "x", Type: ast.NamedSpec("Integer")},
	)}
	_, err := analyze(t, mod)
	wantCode(t, err, diag.SemaUndefinedSymbol)
}

func TestEnumVariantAccess(t *testing.T) {
	mod := module(
		fn("main", nil, nil, block(
			letStmt("c", ast.NamedSpec("Color"), &ast.FieldExpr{Target: ident("Color"), Field: "Red"}),
		)),
	)
	mod.Types = []*ast.TypeDecl{{
		Name:     "Color",
		Kind:     ast.TypeDeclEnum,
		Variants: []string{"Red", "Green"},
	}}
	if _, err := analyze(t, mod); err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}
}

func TestUnknownEnumVariant(t *testing.T) {
	mod := module(
		fn("main", nil, nil, block(
			exprStmt(&ast.FieldExpr{Target: ident("Color"), Field: "Blue"}),
		)),
	)
	mod.Types = []*ast.TypeDecl{{
		Name:     "Color",
		Kind:     ast.TypeDeclEnum,
		Variants: []string{"Red"},
	}}
	_, err := analyze(t, mod)
	wantCode(t, err, diag.SemaUndefinedSymbol)
}

func TestGenericArityIsChecked(t *testing.T) {
	boxOf := func(args ...*ast.TypeSpec) *ast.TypeSpec {
		return &ast.TypeSpec{Kind: ast.TypeSpecGeneric, Name: "Box", Args: args}
	}
	box := &ast.TypeDecl{
		Name:       "Box",
		Kind:       ast.TypeDeclStruct,
		TypeParams: []ast.TypeParam{{Name: "T"}},
		Fields:     []ast.Field{{Name: "value", Type: ast.NamedSpec("T")}},
	}

	ok := module(fn("main", nil, nil, block(
		&ast.VarDeclStmt{Name: "b", Type: boxOf(ast.NamedSpec("Integer")), Mutable: true},
	)))
	ok.Types = []*ast.TypeDecl{box}
	if _, err := analyze(t, ok); err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}

	bad := module(fn("main", nil, nil, block(
		&ast.VarDeclStmt{Name: "b", Type: boxOf(ast.NamedSpec("Integer"), ast.NamedSpec("String")), Mutable: true},
	)))
	bad.Types = []*ast.TypeDecl{box}
	_, err := analyze(t, bad)
	wantCode(t, err, diag.SemaGenericInstantiation)
}

func TestGenericBoundsAreEnforced(t *testing.T) {
	accOf := func(arg *ast.TypeSpec) *ast.TypeSpec {
		return &ast.TypeSpec{Kind: ast.TypeSpecGeneric, Name: "Acc", Args: []*ast.TypeSpec{arg}}
	}
	acc := &ast.TypeDecl{
		Name: "Acc",
		Kind: ast.TypeDeclStruct,
		TypeParams: []ast.TypeParam{{
			Name:   "T",
			Bounds: []ast.TypeBound{{Name: "Numeric"}},
		}},
		Fields: []ast.Field{{Name: "total", Type: ast.NamedSpec("T")}},
	}

	ok := module(fn("main", nil, nil, block(
		&ast.VarDeclStmt{Name: "a", Type: accOf(ast.NamedSpec("Float")), Mutable: true},
	)))
	ok.Types = []*ast.TypeDecl{acc}
	if _, err := analyze(t, ok); err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}

	bad := module(fn("main", nil, nil, block(
		&ast.VarDeclStmt{Name: "a", Type: accOf(ast.NamedSpec("String")), Mutable: true},
	)))
	bad.Types = []*ast.TypeDecl{acc}
	_, err := analyze(t, bad)
	wantCode(t, err, diag.SemaConstraintViolation)
}

func TestOrderedBoundAcceptsStrings(t *testing.T) {
	keyOf := func(arg *ast.TypeSpec) *ast.TypeSpec {
		return &ast.TypeSpec{Kind: ast.TypeSpecGeneric, Name: "Sorted", Args: []*ast.TypeSpec{arg}}
	}
	sorted := &ast.TypeDecl{
		Name: "Sorted",
		Kind: ast.TypeDeclStruct,
		TypeParams: []ast.TypeParam{{
			Name:   "K",
			Bounds: []ast.TypeBound{{Name: "Ordered"}},
		}},
		Fields: []ast.Field{{Name: "first", Type: ast.NamedSpec("K")}},
	}

	mod := module(fn("main", nil, nil, block(
		&ast.VarDeclStmt{Name: "s", Type: keyOf(ast.NamedSpec("String")), Mutable: true},
	)))
	mod.Types = []*ast.TypeDecl{sorted}
	if _, err := analyze(t, mod); err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}
}

func TestMapLiteralAndIndexing(t *testing.T) {
	mapLit := &ast.MapLit{
		Keys:   []ast.Expr{strLit("one")},
		Values: []ast.Expr{intLit(1)},
	}
	mod := module(
		fn("main", nil, nil, block(
			letStmt("m", nil, mapLit),
			letStmt("v", ast.NamedSpec("Integer"), &ast.IndexExpr{Target: ident("m"), Index: strLit("one")}),
		)),
	)
	if _, err := analyze(t, mod); err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}
}

func TestMapIndexKeyMismatch(t *testing.T) {
	mapLit := &ast.MapLit{
		Keys:   []ast.Expr{strLit("one")},
		Values: []ast.Expr{intLit(1)},
	}
	mod := module(
		fn("main", nil, nil, block(
			letStmt("m", nil, mapLit),
			exprStmt(&ast.IndexExpr{Target: ident("m"), Index: intLit(1)}),
		)),
	)
	_, err := analyze(t, mod)
	wantCode(t, err, diag.SemaTypeMismatch)
}

func TestArrayIndexMustBeInteger(t *testing.T) {
	mod := module(
		fn("main", nil, nil, block(
			letStmt("xs", nil, &ast.ArrayLit{Elems: []ast.Expr{intLit(1)}}),
			exprStmt(&ast.IndexExpr{Target: ident("xs"), Index: strLit("no")}),
		)),
	)
	_, err := analyze(t, mod)
	wantCode(t, err, diag.SemaTypeMismatch)
}

func TestNumericPromotionInArithmetic(t *testing.T) {
	mod := module(
		fn("main", nil, nil, block(
			letStmt("f", ast.NamedSpec("Float"), &ast.BinaryExpr{
				Op:    ast.BinAdd,
				Left:  intLit(1),
				Right: &ast.FloatLit{Value: 1.5},
			}),
			// Promotions run both directions and never warn about narrowing.
			letStmt("i", ast.NamedSpec("Integer32"), intLit(7)),
		)),
	)
	if _, err := analyze(t, mod); err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}
}

func TestStringConcatenation(t *testing.T) {
	mod := module(
		fn("main", nil, nil, block(
			letStmt("s", ast.NamedSpec("String"), &ast.BinaryExpr{
				Op:    ast.BinAdd,
				Left:  strLit("a"),
				Right: strLit("b"),
			}),
		)),
	)
	if _, err := analyze(t, mod); err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}
}

func TestComparisonYieldsBoolean(t *testing.T) {
	mod := module(
		fn("main", nil, nil, block(
			letStmt("b", ast.NamedSpec("Boolean"), &ast.BinaryExpr{
				Op:    ast.BinLt,
				Left:  intLit(1),
				Right: intLit(2),
			}),
		)),
	)
	if _, err := analyze(t, mod); err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}
}

func TestDereferencePointerResult(t *testing.T) {
	ptrSpec := &ast.TypeSpec{Kind: ast.TypeSpecPointer, Elem: ast.NamedSpec("Integer")}
	mod := module(
		fn("main", nil, nil, block(
			letStmt("x", ast.NamedSpec("Integer"), unary(ast.UnaryDeref, call("makePtr"))),
		)),
	)
	mod.Externs = []*ast.ExternalFunction{externFn("makePtr", ptrSpec)}
	if _, err := analyze(t, mod); err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}
}

func TestDereferenceNonPointerFails(t *testing.T) {
	mod := module(
		fn("main", nil, nil, block(
			letStmt("x", nil, unary(ast.UnaryDeref, intLit(1))),
		)),
	)
	_, err := analyze(t, mod)
	wantCode(t, err, diag.SemaTypeMismatch)
}

func TestRegionStatementAllocations(t *testing.T) {
	res, err := analyze(t, module(
		fn("main", nil, nil, block(
			&ast.RegionStmt{Body: block(
				varStmt("x", ast.NamedSpec("Integer"), intLit(1)),
			)},
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

func TestTryCatchBindsCaughtValue(t *testing.T) {
	mod := module(
		fn("main", nil, nil, block(
			&ast.TryCatchStmt{
				Body: block(
					&ast.ThrowStmt{Value: strLit("boom")},
				),
				CatchName: "e",
				Catch: block(
					letStmt("m", ast.NamedSpec("String"), ident("e")),
				),
			},
		)),
	)
	if _, err := analyze(t, mod); err != nil {
		t.Fatalf("unexpected error: %s", err.Message)
	}
}
