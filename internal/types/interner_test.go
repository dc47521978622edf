package types

import "testing"

func TestInternDeduplicatesStructure(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	a1 := in.Array(b.Integer, 4)
	a2 := in.Array(b.Integer, 4)
	if a1 != a2 {
		t.Fatalf("identical arrays got distinct IDs %d and %d", a1, a2)
	}
	if a3 := in.Array(b.Integer, 8); a3 == a1 {
		t.Fatal("arrays with different lengths share an ID")
	}

	f1 := in.Function([]ID{b.Integer, b.String}, b.Boolean)
	f2 := in.Function([]ID{b.Integer, b.String}, b.Boolean)
	if f1 != f2 {
		t.Fatal("identical function signatures got distinct IDs")
	}

	n1 := in.Named("Point", "geo")
	n2 := in.Named("Point", "geo")
	if n1 != n2 {
		t.Fatal("identical named types got distinct IDs")
	}
	if n3 := in.Named("Point", "other"); n3 == n1 {
		t.Fatal("named types from different modules share an ID")
	}
}

func TestVariablesAreNeverDeduplicated(t *testing.T) {
	in := NewInterner()
	if in.NewVariable() == in.NewVariable() {
		t.Fatal("two inference variables share an ID")
	}
}

func TestOwnedAccessors(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	owned := in.Owned(OwnOwned, b.String)
	if !in.IsOwned(owned) {
		t.Fatal("IsOwned is false for ^String")
	}
	if in.BaseType(owned) != b.String {
		t.Fatal("BaseType did not strip the wrapper")
	}
	if base := in.BaseType(b.Integer); base != b.Integer {
		t.Fatal("BaseType changed an unwrapped type")
	}

	borrowed := in.Borrowed(b.String)
	if !in.IsBorrowed(borrowed) {
		t.Fatal("IsBorrowed is false for &String")
	}
	if in.IsBorrowed(in.Shared(b.String)) {
		t.Fatal("IsBorrowed is true for ~String")
	}
}

func TestSizeBytes(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	cases := []struct {
		id    ID
		size  int
		known bool
	}{
		{b.Integer, 8, true},
		{b.Integer32, 4, true},
		{b.Boolean, 1, true},
		{b.String, 16, true},
		{b.Void, 0, true},
		{in.Pointer(b.Integer, false), 8, true},
		{in.Array(b.Integer32, 4), 16, true},
		{in.Array(b.Integer, DynamicLen), 0, false},
		{in.Map(b.String, b.Integer), 0, false},
		{in.Named("Point", ""), 0, false},
	}
	for _, c := range cases {
		size, known := in.SizeBytes(c.id)
		if known != c.known || size != c.size {
			t.Errorf("SizeBytes(%s) = (%d, %v), want (%d, %v)",
				in.String(c.id), size, known, c.size, c.known)
		}
	}
}

func TestRequiresOwnership(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	wants := []struct {
		id   ID
		want bool
	}{
		{b.String, true},
		{b.Integer, false},
		{b.Boolean, false},
		{in.Array(b.Integer, DynamicLen), true},
		{in.Map(b.String, b.Integer), true},
		{in.Named("Point", ""), true},
		{in.Pointer(b.Integer, true), true},
		{in.Owned(OwnOwned, b.Integer), true},
		{in.Function([]ID{b.Integer}, b.Void), false},
	}
	for _, c := range wants {
		if got := in.RequiresOwnership(c.id); got != c.want {
			t.Errorf("RequiresOwnership(%s) = %v, want %v", in.String(c.id), got, c.want)
		}
	}
}

func TestStringRendering(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	cases := []struct {
		id   ID
		want string
	}{
		{in.Owned(OwnOwned, b.String), "^String"},
		{in.MutableBorrow(b.Integer), "&mut Integer"},
		{in.Array(b.Integer, DynamicLen), "Integer[]"},
		{in.Array(b.Float, 3), "Float[3]"},
		{in.Map(b.String, b.Integer), "Map<String, Integer>"},
		{in.Pointer(b.Integer, true), "*mut Integer"},
		{in.Function([]ID{b.Integer}, b.Boolean), "fn(Integer) -> Boolean"},
		{in.GenericInstance("List", "", []ID{b.Integer}), "List<Integer>"},
	}
	for _, c := range cases {
		if got := in.String(c.id); got != c.want {
			t.Errorf("String = %q, want %q", got, c.want)
		}
	}
}
