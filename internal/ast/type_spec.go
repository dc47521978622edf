package ast

import "loom/internal/source"

// TypeSpecKind enumerates the syntactic shapes a type annotation can take.
type TypeSpecKind uint8

const (
	TypeSpecName     TypeSpecKind = iota // Integer, String, user types, generic params
	TypeSpecArray                        // T[] or T[N]
	TypeSpecMap                          // Map<K, V>
	TypeSpecPointer                      // *T or *mut T
	TypeSpecFunction                     // fn(T...) -> R
	TypeSpecOwned                        // ^T, &T, &mut T, ~T
	TypeSpecGeneric                      // Base<Args...>
)

// Ownership is the surface sigil attached to a TypeSpecOwned annotation.
type Ownership uint8

const (
	OwnershipOwned     Ownership = iota // ^T
	OwnershipBorrowed                   // &T
	OwnershipMutBorrow                  // &mut T
	OwnershipShared                     // ~T
)

func (o Ownership) String() string {
	switch o {
	case OwnershipOwned:
		return "^"
	case OwnershipBorrowed:
		return "&"
	case OwnershipMutBorrow:
		return "&mut"
	case OwnershipShared:
		return "~"
	default:
		return "?"
	}
}

// TypeSpec is a syntactic type annotation; the checker resolves it into a
// semantic types.ID.
type TypeSpec struct {
	Loc  source.Span
	Kind TypeSpecKind

	// TypeSpecName, TypeSpecGeneric
	Name   string
	Module string // optional qualifier: module::Name

	// TypeSpecArray: Elem + Size; TypeSpecMap: Key + Value;
	// TypeSpecPointer, TypeSpecOwned: Elem.
	Elem  *TypeSpec
	Key   *TypeSpec
	Value *TypeSpec
	Size  *uint64 // nil for dynamic arrays

	// TypeSpecPointer
	Mutable bool

	// TypeSpecFunction
	Params []*TypeSpec
	Return *TypeSpec // nil means void

	// TypeSpecOwned
	Ownership Ownership

	// TypeSpecGeneric
	Args []*TypeSpec
}

func (t *TypeSpec) Span() source.Span { return t.Loc }

// NamedSpec is a shorthand constructor used heavily by tests.
func NamedSpec(name string) *TypeSpec {
	return &TypeSpec{Kind: TypeSpecName, Name: name}
}

// OwnedSpec wraps base in an ownership sigil.
func OwnedSpec(own Ownership, base *TypeSpec) *TypeSpec {
	return &TypeSpec{Kind: TypeSpecOwned, Ownership: own, Elem: base}
}

// ArraySpec builds an array annotation; size nil means dynamic.
func ArraySpec(elem *TypeSpec, size *uint64) *TypeSpec {
	return &TypeSpec{Kind: TypeSpecArray, Elem: elem, Size: size}
}
