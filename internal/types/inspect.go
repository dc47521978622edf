package types

import (
	"fmt"
	"strings"
)

// IsNumeric reports whether id is an integer or float primitive.
func (in *Interner) IsNumeric(id ID) bool {
	return in.IsInteger(id) || in.IsFloat(id)
}

// IsInteger reports whether id is an integer primitive.
func (in *Interner) IsInteger(id ID) bool {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindPrimitive {
		return false
	}
	switch tt.Prim {
	case PrimInteger, PrimInteger32, PrimInteger64:
		return true
	}
	return false
}

// IsFloat reports whether id is a float primitive.
func (in *Interner) IsFloat(id ID) bool {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindPrimitive {
		return false
	}
	switch tt.Prim {
	case PrimFloat, PrimFloat32, PrimFloat64:
		return true
	}
	return false
}

// IsPointer reports whether id is a raw pointer type.
func (in *Interner) IsPointer(id ID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind == KindPointer
}

// IsVoid reports whether id is the Void primitive.
func (in *Interner) IsVoid(id ID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind == KindPrimitive && tt.Prim == PrimVoid
}

// IsError reports whether id is the recovery sentinel.
func (in *Interner) IsError(id ID) bool {
	tt, ok := in.Lookup(id)
	return !ok || tt.Kind == KindError
}

// PrimitiveWidth returns the layout width in bytes for a primitive.
func PrimitiveWidth(p Primitive) int {
	switch p {
	case PrimVoid:
		return 0
	case PrimBoolean:
		return 1
	case PrimInteger32, PrimFloat32:
		return 4
	case PrimInteger, PrimInteger64, PrimFloat, PrimFloat64:
		return 8
	case PrimString:
		return 16 // pointer + length header
	default:
		return 8
	}
}

// SizeBytes returns the exact layout size when it is statically known:
// primitives and fixed-size arrays of sized elements. Dynamic arrays, maps,
// named types, and inference placeholders report false.
func (in *Interner) SizeBytes(id ID) (int, bool) {
	tt, ok := in.Lookup(id)
	if !ok {
		return 0, false
	}
	switch tt.Kind {
	case KindPrimitive:
		return PrimitiveWidth(tt.Prim), true
	case KindPointer:
		return 8, true
	case KindArray:
		if tt.Count == DynamicLen {
			return 0, false
		}
		elem, known := in.SizeBytes(tt.Elem)
		if !known {
			return 0, false
		}
		return elem * int(tt.Count), true
	case KindOwned:
		return in.SizeBytes(tt.Elem)
	default:
		return 0, false
	}
}

// OwnershipOf returns the qualifier when id is an Owned wrapper.
func (in *Interner) OwnershipOf(id ID) (Ownership, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindOwned {
		return 0, false
	}
	return tt.Ownership, true
}

// BaseType strips one Owned wrapper; other types return themselves.
func (in *Interner) BaseType(id ID) ID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindOwned {
		return id
	}
	return tt.Elem
}

// IsOwned reports whether id carries the ^ qualifier.
func (in *Interner) IsOwned(id ID) bool {
	own, ok := in.OwnershipOf(id)
	return ok && own == OwnOwned
}

// IsBorrowed reports whether id carries & or &mut.
func (in *Interner) IsBorrowed(id ID) bool {
	own, ok := in.OwnershipOf(id)
	return ok && (own == OwnBorrowed || own == OwnMutBorrow)
}

// RequiresOwnership reports whether values of this type participate in
// move/borrow bookkeeping: String, arrays, maps, named types, pointers, and
// anything already wrapped in an ownership qualifier. Scalars and function
// types are freely copyable.
func (in *Interner) RequiresOwnership(id ID) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindPrimitive:
		return tt.Prim == PrimString
	case KindArray, KindMap, KindNamed, KindPointer, KindOwned, KindGenericInstance:
		return true
	default:
		return false
	}
}

// String renders a type for diagnostics.
func (in *Interner) String(id ID) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch tt.Kind {
	case KindError:
		return "<error>"
	case KindPrimitive:
		return tt.Prim.String()
	case KindNamed:
		info := in.named[tt.Payload]
		if info.Module != "" {
			return info.Module + "::" + info.Name
		}
		return info.Name
	case KindArray:
		if tt.Count == DynamicLen {
			return in.String(tt.Elem) + "[]"
		}
		return fmt.Sprintf("%s[%d]", in.String(tt.Elem), tt.Count)
	case KindMap:
		return fmt.Sprintf("Map<%s, %s>", in.String(tt.Elem), in.String(tt.Aux))
	case KindPointer:
		if tt.Mutable {
			return "*mut " + in.String(tt.Elem)
		}
		return "*" + in.String(tt.Elem)
	case KindFunction:
		info := in.fns[tt.Payload]
		parts := make([]string, len(info.Params))
		for i, p := range info.Params {
			parts[i] = in.String(p)
		}
		result := "Void"
		if info.Result != None {
			result = in.String(info.Result)
		}
		return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), result)
	case KindGeneric:
		return in.generics[tt.Payload].Name
	case KindGenericInstance:
		info := in.instances[tt.Payload]
		parts := make([]string, len(info.Args))
		for i, a := range info.Args {
			parts[i] = in.String(a)
		}
		name := info.Base
		if info.Module != "" {
			name = info.Module + "::" + name
		}
		return fmt.Sprintf("%s<%s>", name, strings.Join(parts, ", "))
	case KindVariable:
		return fmt.Sprintf("?T%d", tt.Payload)
	case KindOwned:
		return tt.Ownership.String() + in.String(tt.Elem)
	default:
		return tt.Kind.String()
	}
}
