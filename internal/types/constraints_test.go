package types

import "testing"

func TestNumericBound(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	bound := []Constraint{{Kind: NumericBound}}

	if _, ok := in.CheckConstraints(b.Integer, bound); !ok {
		t.Error("Integer rejected by numeric bound")
	}
	if _, ok := in.CheckConstraints(b.Float32, bound); !ok {
		t.Error("Float32 rejected by numeric bound")
	}
	if _, ok := in.CheckConstraints(b.String, bound); ok {
		t.Error("String passed numeric bound")
	}
}

func TestEqualityBoundRejectsFunctions(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	bound := []Constraint{{Kind: EqualityBound}}

	fn := in.Function([]ID{b.Integer}, b.Void)
	if _, ok := in.CheckConstraints(fn, bound); ok {
		t.Error("function type passed equality bound")
	}
	if _, ok := in.CheckConstraints(b.String, bound); !ok {
		t.Error("String rejected by equality bound")
	}
}

func TestOrderBound(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	bound := []Constraint{{Kind: OrderBound}}

	if _, ok := in.CheckConstraints(b.String, bound); !ok {
		t.Error("String rejected by order bound")
	}
	if _, ok := in.CheckConstraints(b.Integer64, bound); !ok {
		t.Error("Integer64 rejected by order bound")
	}
	if _, ok := in.CheckConstraints(b.Boolean, bound); ok {
		t.Error("Boolean passed order bound")
	}
}

func TestSizeBound(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	if _, ok := in.CheckConstraints(b.Integer, []Constraint{{Kind: SizeBound, Size: 8}}); !ok {
		t.Error("Integer rejected by size bound 8")
	}
	if _, ok := in.CheckConstraints(b.Integer, []Constraint{{Kind: SizeBound, Size: 4}}); ok {
		t.Error("Integer passed size bound 4")
	}
	dynamic := in.Array(b.Integer, DynamicLen)
	if _, ok := in.CheckConstraints(dynamic, []Constraint{{Kind: SizeBound, Size: 8}}); ok {
		t.Error("dynamically sized type passed a size bound")
	}
}

// Pins the documented permissiveness: trait and subtype bounds always pass
// because this core carries no trait registry.
func TestTraitAndSubtypeBoundsArePermissive(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	bounds := []Constraint{
		{Kind: TraitBound, Name: "Printable"},
		{Kind: SubtypeBound, Name: "Animal"},
	}
	if _, ok := in.CheckConstraints(b.Boolean, bounds); !ok {
		t.Error("trait/subtype bounds must be accepted unconditionally")
	}
}

func TestFirstViolatedConstraintIsReturned(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	bounds := []Constraint{
		{Kind: NumericBound},
		{Kind: SizeBound, Size: 4},
	}
	c, ok := in.CheckConstraints(b.String, bounds)
	if ok || c.Kind != NumericBound {
		t.Fatalf("expected numeric bound violation, got %v ok=%v", c.Kind, ok)
	}
}
