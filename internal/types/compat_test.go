package types

import "testing"

func TestNumericPromotionsAreBidirectional(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	pairs := [][2]ID{
		{b.Integer, b.Float},
		{b.Integer, b.Integer32},
		{b.Integer, b.Integer64},
		{b.Integer32, b.Integer64},
		{b.Float, b.Float32},
		{b.Float, b.Float64},
		{b.Float32, b.Float64},
	}
	for _, p := range pairs {
		if !in.Compatible(p[0], p[1]) || !in.Compatible(p[1], p[0]) {
			t.Errorf("%s and %s must be mutually compatible",
				in.String(p[0]), in.String(p[1]))
		}
	}
	if in.Compatible(b.Integer, b.Boolean) {
		t.Error("Integer accepted Boolean")
	}
	if in.Compatible(b.String, b.Integer) {
		t.Error("String accepted Integer")
	}
}

func TestPointerCompatibility(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	constPtr := in.Pointer(b.Integer, false)
	mutPtr := in.Pointer(b.Integer, true)

	if !in.Compatible(constPtr, mutPtr) {
		t.Error("const pointer rejected a mutable pointer")
	}
	if in.Compatible(mutPtr, constPtr) {
		t.Error("mutable pointer accepted a const pointer")
	}
	if in.Compatible(constPtr, in.Pointer(b.String, false)) {
		t.Error("pointers to unrelated targets reported compatible")
	}
}

func TestArrayCompatibility(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	dynamic := in.Array(b.Integer, DynamicLen)
	fixed := in.Array(b.Integer, 8)
	other := in.Array(b.Integer, 16)

	if !in.Compatible(dynamic, fixed) || !in.Compatible(fixed, dynamic) {
		t.Error("dynamic and fixed arrays of the same element must interchange")
	}
	if in.Compatible(fixed, other) {
		t.Error("fixed arrays of different lengths reported compatible")
	}
	if in.Compatible(dynamic, in.Array(b.String, DynamicLen)) {
		t.Error("arrays of unrelated elements reported compatible")
	}
}

func TestOwnershipRuleTable(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	owned := in.Owned(OwnOwned, b.String)
	borrowed := in.Borrowed(b.String)
	mutBorrow := in.MutableBorrow(b.String)
	shared := in.Shared(b.String)

	// expected -> accepted actuals
	accepts := map[ID][]ID{
		owned:     {owned},
		borrowed:  {borrowed, mutBorrow, owned, shared},
		mutBorrow: {mutBorrow, owned},
		shared:    {shared},
	}
	all := []ID{owned, borrowed, mutBorrow, shared}
	for expected, ok := range accepts {
		for _, actual := range all {
			want := false
			for _, a := range ok {
				if a == actual {
					want = true
				}
			}
			if got := in.Compatible(expected, actual); got != want {
				t.Errorf("Compatible(%s, %s) = %v, want %v",
					in.String(expected), in.String(actual), got, want)
			}
		}
	}
}

func TestOwnedUnwrapsAgainstBareTypes(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	owned := in.Owned(OwnOwned, b.String)
	if !in.Compatible(owned, b.String) {
		t.Error("^String rejected bare String")
	}
	if !in.Compatible(b.String, owned) {
		t.Error("bare String rejected ^String")
	}
	if in.Compatible(owned, b.Integer) {
		t.Error("^String accepted Integer")
	}
	if !in.Compatible(in.Borrowed(b.Integer), b.Integer64) {
		t.Error("&Integer rejected Integer64 despite base promotion")
	}
}

func TestErrorSentinelIsPermissive(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if !in.Compatible(b.Error, b.String) || !in.Compatible(b.Integer, b.Error) {
		t.Error("error sentinel must be compatible with everything")
	}
}
