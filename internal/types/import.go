package types

// Import re-interns a type from another interner into this one, copying its
// structure recursively. Checkers for different modules own separate
// interners; exported signatures cross the module boundary through here.
// Inference variables never survive the trip and come back fresh.
func (in *Interner) Import(from *Interner, id ID) ID {
	if in == from {
		return id
	}
	tt, ok := from.Lookup(id)
	if !ok {
		return None
	}
	switch tt.Kind {
	case KindError:
		return in.builtins.Error
	case KindPrimitive:
		return in.Primitive(tt.Prim)
	case KindNamed:
		info := from.named[tt.Payload]
		return in.Named(info.Name, info.Module)
	case KindArray:
		return in.Array(in.Import(from, tt.Elem), tt.Count)
	case KindMap:
		return in.Map(in.Import(from, tt.Elem), in.Import(from, tt.Aux))
	case KindPointer:
		return in.Pointer(in.Import(from, tt.Elem), tt.Mutable)
	case KindFunction:
		info := from.fns[tt.Payload]
		params := make([]ID, len(info.Params))
		for i, p := range info.Params {
			params[i] = in.Import(from, p)
		}
		result := None
		if info.Result != None {
			result = in.Import(from, info.Result)
		}
		return in.Function(params, result)
	case KindGeneric:
		info := from.generics[tt.Payload]
		return in.Generic(info.Name, info.Constraints)
	case KindGenericInstance:
		info := from.instances[tt.Payload]
		args := make([]ID, len(info.Args))
		for i, a := range info.Args {
			args[i] = in.Import(from, a)
		}
		return in.GenericInstance(info.Base, info.Module, args)
	case KindVariable:
		return in.NewVariable()
	case KindOwned:
		return in.Owned(tt.Ownership, in.Import(from, tt.Elem))
	default:
		return None
	}
}
