// Package types implements the value-type algebra of the language: interned
// structural types, ownership qualifiers, compatibility, unification, and
// generic-constraint checking.
package types

import "fmt"

// ID uniquely identifies a type inside the interner. Interning gives
// structural value semantics: two types with identical structure share one
// ID, so IDs are safe map keys and cheap to compare.
type ID uint32

// None marks the absence of a type.
const None ID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	// KindError is the recovery sentinel produced after a reported error.
	KindError Kind = iota
	KindPrimitive
	KindNamed
	KindArray
	KindMap
	KindPointer
	KindFunction
	KindGeneric
	KindGenericInstance
	KindVariable
	KindOwned
)

func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindPrimitive:
		return "primitive"
	case KindNamed:
		return "named"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindPointer:
		return "pointer"
	case KindFunction:
		return "function"
	case KindGeneric:
		return "generic"
	case KindGenericInstance:
		return "generic-instance"
	case KindVariable:
		return "variable"
	case KindOwned:
		return "owned"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Primitive enumerates the built-in scalar types.
type Primitive uint8

const (
	PrimVoid Primitive = iota
	PrimBoolean
	PrimInteger
	PrimInteger32
	PrimInteger64
	PrimFloat
	PrimFloat32
	PrimFloat64
	PrimString
)

func (p Primitive) String() string {
	switch p {
	case PrimVoid:
		return "Void"
	case PrimBoolean:
		return "Boolean"
	case PrimInteger:
		return "Integer"
	case PrimInteger32:
		return "Integer32"
	case PrimInteger64:
		return "Integer64"
	case PrimFloat:
		return "Float"
	case PrimFloat32:
		return "Float32"
	case PrimFloat64:
		return "Float64"
	case PrimString:
		return "String"
	default:
		return fmt.Sprintf("Primitive(%d)", p)
	}
}

// DynamicLen marks arrays with no compile-time length.
const DynamicLen = ^uint32(0)

// Ownership qualifies how a value of a type is held.
type Ownership uint8

const (
	// OwnOwned is ^T: single owner, moves on use.
	OwnOwned Ownership = iota
	// OwnBorrowed is &T: many simultaneous readers.
	OwnBorrowed
	// OwnMutBorrow is &mut T: exactly one writer, excludes all other access.
	OwnMutBorrow
	// OwnShared is ~T: reference counted, many owners.
	OwnShared
)

func (o Ownership) String() string {
	switch o {
	case OwnOwned:
		return "^"
	case OwnBorrowed:
		return "&"
	case OwnMutBorrow:
		return "&mut "
	case OwnShared:
		return "~"
	default:
		return "?"
	}
}

// Type is a compact descriptor for any supported type. Variable-arity data
// (names, signatures, constraint lists) lives in interner side-arrays
// addressed by Payload.
type Type struct {
	Kind      Kind
	Prim      Primitive // KindPrimitive
	Elem      ID        // array element, pointer target, map key, owned base
	Aux       ID        // map value
	Count     uint32    // array length (DynamicLen for dynamic arrays)
	Mutable   bool      // pointer mutability
	Ownership Ownership // KindOwned wrapper kind
	Payload   uint32    // side-array slot for named/function/generic data
}
