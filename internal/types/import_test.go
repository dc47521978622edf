package types

import "testing"

func TestImportBuiltinsMapOntoLocalBuiltins(t *testing.T) {
	src := NewInterner()
	dst := NewInterner()
	b := src.Builtins()

	for _, id := range []ID{b.Integer, b.Float, b.String, b.Boolean, b.Void} {
		got := dst.Import(src, id)
		if got != id {
			t.Errorf("builtin %s re-interned to a different id: %d vs %d",
				src.String(id), got, id)
		}
	}
}

func TestImportPreservesStructure(t *testing.T) {
	src := NewInterner()
	dst := NewInterner()
	b := src.Builtins()

	// Skew the destination so ids cannot line up by accident.
	dst.Named("Filler", "pad")
	dst.Array(dst.Builtins().Float, 0)

	fn := src.Function([]ID{src.Owned(OwnBorrowed, b.String), b.Integer}, b.Boolean)
	got := dst.Import(src, fn)
	want := dst.Function([]ID{dst.Owned(OwnBorrowed, b.String), b.Integer}, b.Boolean)
	if got != want {
		t.Fatalf("imported function = %s, want %s", dst.String(got), dst.String(want))
	}

	arr := src.Array(src.Map(b.String, src.Pointer(b.Integer, true)), 4)
	if dst.String(dst.Import(src, arr)) != src.String(arr) {
		t.Fatalf("imported composite renders as %s, want %s",
			dst.String(dst.Import(src, arr)), src.String(arr))
	}
}

func TestImportNamedKeepsModuleQualifier(t *testing.T) {
	src := NewInterner()
	dst := NewInterner()

	point := src.Named("Point", "geometry")
	got := dst.Import(src, point)
	info, ok := dst.NamedInfoOf(got)
	if !ok {
		t.Fatalf("imported id %d is not a named type", got)
	}
	if info.Name != "Point" || info.Module != "geometry" {
		t.Fatalf("named payload = %+v", info)
	}
	// A second import is a no-op on the arena.
	if again := dst.Import(src, point); again != got {
		t.Fatalf("re-import minted a new id: %d vs %d", again, got)
	}
}

func TestImportVoidResultStaysVoid(t *testing.T) {
	src := NewInterner()
	dst := NewInterner()
	b := src.Builtins()

	fn := src.Function([]ID{b.Integer}, None)
	got := dst.Import(src, fn)
	info, ok := dst.FunctionInfoOf(got)
	if !ok {
		t.Fatalf("imported id %d is not a function", got)
	}
	if info.Result != None {
		t.Fatalf("void result became %s", dst.String(info.Result))
	}
}

func TestImportGenericCarriesConstraints(t *testing.T) {
	src := NewInterner()
	dst := NewInterner()

	g := src.Generic("T", []Constraint{{Kind: NumericBound}})
	got := dst.Import(src, g)
	info, ok := dst.GenericInfoOf(got)
	if !ok {
		t.Fatalf("imported id %d is not a generic", got)
	}
	if info.Name != "T" || len(info.Constraints) != 1 || info.Constraints[0].Kind != NumericBound {
		t.Fatalf("generic payload = %+v", info)
	}
}
