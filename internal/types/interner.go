package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Builtins stores IDs for the primitive types and the error sentinel.
type Builtins struct {
	Error     ID
	Void      ID
	Boolean   ID
	Integer   ID
	Integer32 ID
	Integer64 ID
	Float     ID
	Float32   ID
	Float64   ID
	String    ID
}

// NamedInfo stores metadata for a nominal type reference.
type NamedInfo struct {
	Name   string
	Module string
}

// FunctionInfo stores metadata for function types.
type FunctionInfo struct {
	Params []ID
	Result ID // None means void
}

// GenericInfo stores a generic parameter with its declared constraints.
type GenericInfo struct {
	Name        string
	Constraints []Constraint
}

// InstanceInfo stores metadata for an instantiated generic type.
type InstanceInfo struct {
	Base   string
	Module string
	Args   []ID
}

// Interner provides stable IDs by hashing structural descriptors.
type Interner struct {
	types     []Type
	index     map[Type]ID
	builtins  Builtins
	named     []NamedInfo
	fns       []FunctionInfo
	generics  []GenericInfo
	instances []InstanceInfo
	nextVar   uint32
}

// NewInterner constructs an interner seeded with the built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[Type]ID, 64),
	}
	// Reserve payload slot 0 in every side-array as an invalid sentinel.
	in.named = append(in.named, NamedInfo{})
	in.fns = append(in.fns, FunctionInfo{})
	in.generics = append(in.generics, GenericInfo{})
	in.instances = append(in.instances, InstanceInfo{})

	in.builtins.Error = in.internRaw(Type{Kind: KindError})
	in.builtins.Void = in.Primitive(PrimVoid)
	in.builtins.Boolean = in.Primitive(PrimBoolean)
	in.builtins.Integer = in.Primitive(PrimInteger)
	in.builtins.Integer32 = in.Primitive(PrimInteger32)
	in.builtins.Integer64 = in.Primitive(PrimInteger64)
	in.builtins.Float = in.Primitive(PrimFloat)
	in.builtins.Float32 = in.Primitive(PrimFloat32)
	in.builtins.Float64 = in.Primitive(PrimFloat64)
	in.builtins.String = in.Primitive(PrimString)
	return in
}

// Builtins returns IDs for the primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Lookup returns the descriptor for an ID.
func (in *Interner) Lookup(id ID) (Type, bool) {
	if int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id ID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid ID")
	}
	return tt
}

// Primitive interns a primitive descriptor.
func (in *Interner) Primitive(p Primitive) ID {
	return in.intern(Type{Kind: KindPrimitive, Prim: p})
}

// Named interns a nominal type reference. The same name and module always
// yield the same ID.
func (in *Interner) Named(name, module string) ID {
	for id := ID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindNamed {
			continue
		}
		info := in.named[tt.Payload]
		if info.Name == name && info.Module == module {
			return id
		}
	}
	slot := in.appendNamed(NamedInfo{Name: name, Module: module})
	return in.internRaw(Type{Kind: KindNamed, Payload: slot})
}

// Array interns an array type; use DynamicLen for T[].
func (in *Interner) Array(elem ID, count uint32) ID {
	return in.intern(Type{Kind: KindArray, Elem: elem, Count: count})
}

// Map interns a map type.
func (in *Interner) Map(key, value ID) ID {
	return in.intern(Type{Kind: KindMap, Elem: key, Aux: value})
}

// Pointer interns *T or *mut T depending on the mutable flag.
func (in *Interner) Pointer(target ID, mutable bool) ID {
	return in.intern(Type{Kind: KindPointer, Elem: target, Mutable: mutable})
}

// Function interns a function type, deduplicating by signature.
func (in *Interner) Function(params []ID, result ID) ID {
	for id := ID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindFunction {
			continue
		}
		info := in.fns[tt.Payload]
		if info.Result == result && slices.Equal(info.Params, params) {
			return id
		}
	}
	slot := in.appendFn(FunctionInfo{Params: slices.Clone(params), Result: result})
	return in.internRaw(Type{Kind: KindFunction, Payload: slot})
}

// Generic interns a generic type parameter with its constraints.
func (in *Interner) Generic(name string, constraints []Constraint) ID {
	for id := ID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindGeneric {
			continue
		}
		info := in.generics[tt.Payload]
		if info.Name == name && slices.Equal(info.Constraints, constraints) {
			return id
		}
	}
	slot := in.appendGeneric(GenericInfo{Name: name, Constraints: slices.Clone(constraints)})
	return in.internRaw(Type{Kind: KindGeneric, Payload: slot})
}

// GenericInstance interns Base<Args...> for a named generic type.
func (in *Interner) GenericInstance(base, module string, args []ID) ID {
	for id := ID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindGenericInstance {
			continue
		}
		info := in.instances[tt.Payload]
		if info.Base == base && info.Module == module && slices.Equal(info.Args, args) {
			return id
		}
	}
	slot := in.appendInstance(InstanceInfo{Base: base, Module: module, Args: slices.Clone(args)})
	return in.internRaw(Type{Kind: KindGenericInstance, Payload: slot})
}

// Owned wraps base in an ownership qualifier.
func (in *Interner) Owned(own Ownership, base ID) ID {
	return in.intern(Type{Kind: KindOwned, Ownership: own, Elem: base})
}

// Borrowed is shorthand for Owned(OwnBorrowed, base).
func (in *Interner) Borrowed(base ID) ID { return in.Owned(OwnBorrowed, base) }

// MutableBorrow is shorthand for Owned(OwnMutBorrow, base).
func (in *Interner) MutableBorrow(base ID) ID { return in.Owned(OwnMutBorrow, base) }

// Shared is shorthand for Owned(OwnShared, base).
func (in *Interner) Shared(base ID) ID { return in.Owned(OwnShared, base) }

// NewVariable allocates a fresh inference placeholder. Variables are never
// deduplicated; every call yields a distinct type.
func (in *Interner) NewVariable() ID {
	in.nextVar++
	return in.internRaw(Type{Kind: KindVariable, Payload: in.nextVar})
}

// NamedInfoOf returns metadata for a named type ID.
func (in *Interner) NamedInfoOf(id ID) (*NamedInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindNamed {
		return nil, false
	}
	return &in.named[tt.Payload], true
}

// FunctionInfoOf returns signature metadata for a function type ID.
func (in *Interner) FunctionInfoOf(id ID) (*FunctionInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFunction {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}

// GenericInfoOf returns metadata for a generic parameter ID.
func (in *Interner) GenericInfoOf(id ID) (*GenericInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindGeneric {
		return nil, false
	}
	return &in.generics[tt.Payload], true
}

// InstanceInfoOf returns metadata for a generic-instance ID.
func (in *Interner) InstanceInfoOf(id ID) (*InstanceInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindGenericInstance {
		return nil, false
	}
	return &in.instances[tt.Payload], true
}

// intern deduplicates comparable descriptors through the index map.
func (in *Interner) intern(t Type) ID {
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to storage without consulting the map.
func (in *Interner) internRaw(t Type) ID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := ID(lenTypes)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

func (in *Interner) appendNamed(info NamedInfo) uint32 {
	in.named = append(in.named, info)
	return sideSlot(len(in.named))
}

func (in *Interner) appendFn(info FunctionInfo) uint32 {
	in.fns = append(in.fns, info)
	return sideSlot(len(in.fns))
}

func (in *Interner) appendGeneric(info GenericInfo) uint32 {
	in.generics = append(in.generics, info)
	return sideSlot(len(in.generics))
}

func (in *Interner) appendInstance(info InstanceInfo) uint32 {
	in.instances = append(in.instances, info)
	return sideSlot(len(in.instances))
}

func sideSlot(length int) uint32 {
	slot, err := safecast.Conv[uint32](length - 1)
	if err != nil {
		panic(fmt.Errorf("side-array overflow: %w", err))
	}
	return slot
}
