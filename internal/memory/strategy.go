package memory

import (
	"fmt"

	"loom/internal/source"
	"loom/internal/types"
)

// Strategy is the allocation decision made for one binding.
type Strategy uint8

const (
	// StrategyStack places the value in the function frame.
	StrategyStack Strategy = iota
	// StrategyRegion places the value in the active lexical region.
	StrategyRegion
	// StrategyRefCounted shares the value behind a reference count.
	StrategyRefCounted
	// StrategyLinear marks a single-owner value that moves, never copies.
	StrategyLinear
)

func (s Strategy) String() string {
	switch s {
	case StrategyStack:
		return "stack"
	case StrategyRegion:
		return "region"
	case StrategyRefCounted:
		return "refcounted"
	case StrategyLinear:
		return "linear"
	default:
		return fmt.Sprintf("Strategy(%d)", s)
	}
}

// AllocationInfo records the decision made for one binding.
type AllocationInfo struct {
	Variable  string
	Type      types.ID
	SizeBytes int
	Strategy  Strategy
	Region    RegionID // set when Strategy is StrategyRegion
	Location  source.Span
}

// FunctionMemoryInfo is the per-function artifact handed to code
// generation: the function's region, every allocation decision, and the set
// of bindings that escape their declaring scope.
type FunctionMemoryInfo struct {
	Function string
	Region   RegionID
	Params   []AllocationInfo
	Locals   []AllocationInfo
	Escaping []string
}

// Size estimate constants. The dynamic-array estimate is a heuristic
// placeholder (header plus ten elements), not a layout guarantee.
const (
	arrayHeaderBytes   = 24
	arrayEstimateElems = 10
	mapHeaderBytes     = 48
	defaultSizeBytes   = 24
	stackSizeLimit     = 64
	linearSizeLimit    = 1024
)

// EstimateSize returns the planner's byte estimate for a type. Exact where
// the layout is known statically, heuristic for dynamic shapes.
func EstimateSize(in *types.Interner, id types.ID) int {
	if size, known := in.SizeBytes(id); known {
		return size
	}
	tt, ok := in.Lookup(id)
	if !ok {
		return defaultSizeBytes
	}
	switch tt.Kind {
	case types.KindPointer:
		return 8
	case types.KindArray:
		return arrayHeaderBytes + EstimateSize(in, tt.Elem)*arrayEstimateElems
	case types.KindMap:
		return mapHeaderBytes
	case types.KindOwned:
		return EstimateSize(in, tt.Elem)
	default:
		return defaultSizeBytes
	}
}

// IsLinear reports whether values of the type must move rather than copy: an
// array whose estimated size exceeds the linear limit, or a mutable pointer.
func IsLinear(in *types.Interner, id types.ID) bool {
	tt, ok := in.Lookup(in.BaseType(id))
	if !ok {
		return false
	}
	switch tt.Kind {
	case types.KindArray:
		return EstimateSize(in, in.BaseType(id)) > linearSizeLimit
	case types.KindPointer:
		return tt.Mutable
	default:
		return false
	}
}

// isStackEligible limits the stack to types with a fixed, self-contained
// layout.
func isStackEligible(in *types.Interner, id types.ID) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case types.KindPrimitive, types.KindPointer, types.KindFunction:
		return true
	default:
		return false
	}
}

// shouldRefCount selects the shapes that default to shared ownership.
func shouldRefCount(in *types.Interner, id types.ID) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case types.KindArray, types.KindMap, types.KindNamed:
		return true
	default:
		return false
	}
}

// DetermineStrategy picks the allocation strategy for one binding. The
// result is a pure function of the type, the mutability, and the currently
// active region.
func (t *Tracker) DetermineStrategy(in *types.Interner, name string, id types.ID, loc source.Span, mutable bool) AllocationInfo {
	base := in.BaseType(id)
	size := EstimateSize(in, base)
	info := AllocationInfo{
		Variable:  name,
		Type:      id,
		SizeBytes: size,
		Location:  loc,
	}
	switch {
	case IsLinear(in, id):
		info.Strategy = StrategyLinear
	case size <= stackSizeLimit && !mutable && isStackEligible(in, base):
		info.Strategy = StrategyStack
	case shouldRefCount(in, base):
		info.Strategy = StrategyRefCounted
	case t.active.IsValid():
		info.Strategy = StrategyRegion
		info.Region = t.active
	default:
		// Top level with no region open falls back to the stack.
		info.Strategy = StrategyStack
	}
	return info
}
