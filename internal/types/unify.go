package types

// Subst records the bindings produced by unification, keyed by the
// inference-variable type ID.
type Subst map[ID]ID

// Resolve follows substitution chains until a non-variable type or an
// unbound variable is reached.
func (in *Interner) Resolve(id ID, subst Subst) ID {
	for {
		tt, ok := in.Lookup(id)
		if !ok || tt.Kind != KindVariable {
			return id
		}
		next, bound := subst[id]
		if !bound {
			return id
		}
		id = next
	}
}

// Unify makes a and b equal under subst, binding inference variables as
// needed. Compound types unify structurally and must agree on shape (array
// sizes, pointer mutability, ownership kind, parameter arity) before their
// components are visited.
func (in *Interner) Unify(a, b ID, subst Subst) bool {
	a = in.Resolve(a, subst)
	b = in.Resolve(b, subst)
	if a == b {
		return true
	}
	at := in.MustLookup(a)
	bt := in.MustLookup(b)
	if at.Kind == KindVariable {
		subst[a] = b
		return true
	}
	if bt.Kind == KindVariable {
		subst[b] = a
		return true
	}
	if at.Kind != bt.Kind {
		return false
	}
	switch at.Kind {
	case KindArray:
		if at.Count != bt.Count {
			return false
		}
		return in.Unify(at.Elem, bt.Elem, subst)
	case KindMap:
		return in.Unify(at.Elem, bt.Elem, subst) && in.Unify(at.Aux, bt.Aux, subst)
	case KindPointer:
		if at.Mutable != bt.Mutable {
			return false
		}
		return in.Unify(at.Elem, bt.Elem, subst)
	case KindOwned:
		if at.Ownership != bt.Ownership {
			return false
		}
		return in.Unify(at.Elem, bt.Elem, subst)
	case KindFunction:
		ai := in.fns[at.Payload]
		bi := in.fns[bt.Payload]
		if len(ai.Params) != len(bi.Params) {
			return false
		}
		for i := range ai.Params {
			if !in.Unify(ai.Params[i], bi.Params[i], subst) {
				return false
			}
		}
		return in.Unify(ai.Result, bi.Result, subst)
	case KindGenericInstance:
		ai := in.instances[at.Payload]
		bi := in.instances[bt.Payload]
		if ai.Base != bi.Base || ai.Module != bi.Module || len(ai.Args) != len(bi.Args) {
			return false
		}
		for i := range ai.Args {
			if !in.Unify(ai.Args[i], bi.Args[i], subst) {
				return false
			}
		}
		return true
	default:
		// Identical primitives, named types, and generics share an ID, so
		// reaching here means the shapes differ.
		return false
	}
}

// Apply rewrites id replacing every bound inference variable with its
// substitution. Unbound variables stay in place.
func (in *Interner) Apply(id ID, subst Subst) ID {
	resolved := in.Resolve(id, subst)
	tt, ok := in.Lookup(resolved)
	if !ok {
		return resolved
	}
	switch tt.Kind {
	case KindArray:
		return in.Array(in.Apply(tt.Elem, subst), tt.Count)
	case KindMap:
		return in.Map(in.Apply(tt.Elem, subst), in.Apply(tt.Aux, subst))
	case KindPointer:
		return in.Pointer(in.Apply(tt.Elem, subst), tt.Mutable)
	case KindOwned:
		return in.Owned(tt.Ownership, in.Apply(tt.Elem, subst))
	case KindFunction:
		info := in.fns[tt.Payload]
		params := make([]ID, len(info.Params))
		for i, p := range info.Params {
			params[i] = in.Apply(p, subst)
		}
		return in.Function(params, in.Apply(info.Result, subst))
	case KindGenericInstance:
		info := in.instances[tt.Payload]
		args := make([]ID, len(info.Args))
		for i, a := range info.Args {
			args[i] = in.Apply(a, subst)
		}
		return in.GenericInstance(info.Base, info.Module, args)
	default:
		return resolved
	}
}
