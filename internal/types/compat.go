package types

// Compatible reports whether a value of type actual may be supplied where
// expected is required (assignments and call arguments).
//
// The numeric promotion table is intentionally bidirectional and lossy
// (Integer64 and Integer32 are mutually compatible with no narrowing
// warning); tightening it is a contract change, not a cleanup.
func (in *Interner) Compatible(expected, actual ID) bool {
	if expected == actual {
		return true
	}
	// The recovery sentinel is compatible with everything so one reported
	// error does not cascade.
	if in.IsError(expected) || in.IsError(actual) {
		return true
	}
	et := in.MustLookup(expected)
	at := in.MustLookup(actual)

	// Inference placeholders and unresolved generic parameters are settled
	// by unification, not here.
	if et.Kind == KindVariable || at.Kind == KindVariable {
		return true
	}
	if et.Kind == KindGeneric || at.Kind == KindGeneric {
		return true
	}

	// Ownership qualifiers: both wrapped goes through the rule table; a
	// wrapper on one side only is unwrapped and judged by base type.
	if et.Kind == KindOwned && at.Kind == KindOwned {
		if !ownershipSatisfies(et.Ownership, at.Ownership) {
			return false
		}
		return in.Compatible(et.Elem, at.Elem)
	}
	if et.Kind == KindOwned {
		return in.Compatible(et.Elem, actual)
	}
	if at.Kind == KindOwned {
		return in.Compatible(expected, at.Elem)
	}

	if et.Kind != at.Kind {
		return numericCompatible(et, at)
	}

	switch et.Kind {
	case KindPrimitive:
		return numericCompatible(et, at)
	case KindPointer:
		// A const pointer accepts either mutability; a mutable pointer
		// requires a mutable pointer.
		if et.Mutable && !at.Mutable {
			return false
		}
		return in.Compatible(et.Elem, at.Elem)
	case KindArray:
		// Dynamic and fixed arrays of the same element type interchange.
		if et.Count != at.Count && et.Count != DynamicLen && at.Count != DynamicLen {
			return false
		}
		return in.Compatible(et.Elem, at.Elem)
	case KindMap:
		return in.Compatible(et.Elem, at.Elem) && in.Compatible(et.Aux, at.Aux)
	case KindFunction:
		ei := in.fns[et.Payload]
		ai := in.fns[at.Payload]
		if len(ei.Params) != len(ai.Params) {
			return false
		}
		for i := range ei.Params {
			if !in.Compatible(ei.Params[i], ai.Params[i]) {
				return false
			}
		}
		return in.Compatible(ei.Result, ai.Result)
	case KindGenericInstance:
		ei := in.instances[et.Payload]
		ai := in.instances[at.Payload]
		if ei.Base != ai.Base || ei.Module != ai.Module || len(ei.Args) != len(ai.Args) {
			return false
		}
		for i := range ei.Args {
			if !in.Compatible(ei.Args[i], ai.Args[i]) {
				return false
			}
		}
		return true
	default:
		// Named types and anything else already failed the identity check.
		return false
	}
}

// ownershipSatisfies encodes the qualifier rule table with expected as the
// requirement: &mut satisfies &; ^ satisfies & and &mut; ~ satisfies &.
func ownershipSatisfies(expected, actual Ownership) bool {
	if expected == actual {
		return true
	}
	switch expected {
	case OwnBorrowed:
		return actual == OwnMutBorrow || actual == OwnOwned || actual == OwnShared
	case OwnMutBorrow:
		return actual == OwnOwned
	default:
		return false
	}
}

// numericCompatible applies the promotion pairs in both directions.
func numericCompatible(a, b Type) bool {
	if a.Kind != KindPrimitive || b.Kind != KindPrimitive {
		return false
	}
	x, y := a.Prim, b.Prim
	if x == y {
		return true
	}
	if x > y {
		x, y = y, x
	}
	// Normalized pairs, smaller enum value first.
	switch {
	case x == PrimInteger && (y == PrimInteger32 || y == PrimInteger64 || y == PrimFloat):
		return true
	case x == PrimInteger32 && y == PrimInteger64:
		return true
	case x == PrimFloat && (y == PrimFloat32 || y == PrimFloat64):
		return true
	case x == PrimFloat32 && y == PrimFloat64:
		return true
	}
	return false
}
