package types

import "fmt"

// ConstraintKind enumerates the bounds a generic parameter may declare.
type ConstraintKind uint8

const (
	// NumericBound requires an integer or float type.
	NumericBound ConstraintKind = iota
	// EqualityBound requires a type whose values can be compared for
	// equality; function types cannot.
	EqualityBound
	// OrderBound requires an ordered type: numerics and String.
	OrderBound
	// SizeBound requires an exact statically known size in bytes.
	SizeBound
	// TraitBound names a trait the type must implement. There is no trait
	// registry; the bound is accepted unconditionally.
	TraitBound
	// SubtypeBound names a required supertype. Accepted unconditionally,
	// like TraitBound.
	SubtypeBound
)

func (k ConstraintKind) String() string {
	switch k {
	case NumericBound:
		return "numeric"
	case EqualityBound:
		return "equality"
	case OrderBound:
		return "order"
	case SizeBound:
		return "size"
	case TraitBound:
		return "trait"
	case SubtypeBound:
		return "subtype"
	default:
		return fmt.Sprintf("ConstraintKind(%d)", k)
	}
}

// Constraint is one declared bound on a generic parameter.
type Constraint struct {
	Kind ConstraintKind
	Size int    // SizeBound
	Name string // TraitBound, SubtypeBound
}

// CheckConstraints verifies id against every declared bound and returns the
// first violated constraint, or ok.
//
// TraitBound and SubtypeBound are permissive stubs: with no trait registry
// in this core they always pass. Callers must not rely on them rejecting
// anything; making them real is a visible behavior change.
func (in *Interner) CheckConstraints(id ID, constraints []Constraint) (Constraint, bool) {
	for _, c := range constraints {
		switch c.Kind {
		case NumericBound:
			if !in.IsNumeric(id) {
				return c, false
			}
		case EqualityBound:
			if tt, ok := in.Lookup(id); ok && tt.Kind == KindFunction {
				return c, false
			}
		case OrderBound:
			if !in.IsNumeric(id) && id != in.builtins.String {
				return c, false
			}
		case SizeBound:
			size, known := in.SizeBytes(id)
			if !known || size != c.Size {
				return c, false
			}
		case TraitBound, SubtypeBound:
			// Accepted unconditionally; see doc comment.
		}
	}
	return Constraint{}, true
}
