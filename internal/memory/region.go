// Package memory decides how each binding is physically allocated: on the
// stack, inside a lexically scoped region, reference-counted, or as a
// single-owner linear value. Regions nest in lock-step with blocks and are
// entered and exited in strict LIFO order.
package memory

import (
	"fmt"

	"fortio.org/safecast"
)

// RegionID identifies an allocation arena.
type RegionID uint32

// NoRegionID marks the absence of an active region.
const NoRegionID RegionID = 0

// IsValid reports whether the ID refers to an allocated region.
func (id RegionID) IsValid() bool { return id != NoRegionID }

// Region is one lexically scoped allocation arena.
type Region struct {
	ID     RegionID
	Parent RegionID
	Depth  uint32
}

// Tracker owns the region arena and the active-region stack for one
// analysis pass. The monotonically increasing region ID lives here, never in
// a package-level counter, so analysis runs stay independent.
type Tracker struct {
	regions []Region
	active  RegionID
	stack   []RegionID // previously active regions, innermost last
}

// NewTracker creates a tracker with no active region.
func NewTracker() *Tracker {
	return &Tracker{
		regions: make([]Region, 1, 16), // index 0 reserved for NoRegionID
	}
}

// NewRegion allocates a fresh region beneath parent (NoRegionID for a root).
func (t *Tracker) NewRegion(parent RegionID) RegionID {
	value, err := safecast.Conv[uint32](len(t.regions))
	if err != nil {
		panic(fmt.Errorf("region arena overflow: %w", err))
	}
	id := RegionID(value)
	depth := uint32(0)
	if p := t.Get(parent); p != nil {
		depth = p.Depth + 1
	}
	t.regions = append(t.regions, Region{ID: id, Parent: parent, Depth: depth})
	return id
}

// Get returns the region or nil for an invalid ID.
func (t *Tracker) Get(id RegionID) *Region {
	if !id.IsValid() || int(id) >= len(t.regions) {
		return nil
	}
	return &t.regions[id]
}

// Active returns the currently active region, or NoRegionID at top level.
func (t *Tracker) Active() RegionID {
	return t.active
}

// Enter makes id the active region, remembering the previous one.
func (t *Tracker) Enter(id RegionID) {
	t.stack = append(t.stack, t.active)
	t.active = id
}

// Exit restores the region active before the matching Enter. Exiting the
// outermost region restores "no active region"; it is never an error.
func (t *Tracker) Exit() {
	if len(t.stack) == 0 {
		t.active = NoRegionID
		return
	}
	t.active = t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
}

// StackDepth reports how many Enter calls are outstanding.
func (t *Tracker) StackDepth() int {
	return len(t.stack)
}

// Len reports the number of allocated regions excluding the sentinel.
func (t *Tracker) Len() int {
	return len(t.regions) - 1
}
