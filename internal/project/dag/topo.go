package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Topo is the result of topologically sorting one build graph.
type Topo struct {
	Order   []ModuleID   // linear order over present modules
	Batches [][]ModuleID // waves of mutually independent modules
	Cyclic  bool
	Cycles  []ModuleID // nodes left inside a cycle
}

func toModuleID(i int) ModuleID {
	id, err := safecast.Conv[ModuleID](i)
	if err != nil {
		panic(fmt.Errorf("module id overflow: %w", err))
	}
	return id
}

// ToposortKahn sorts the graph into waves of mutually independent modules so
// callers can analyze each wave in parallel. Waves are ordered by ID, keeping
// both Order and Batches deterministic for identical inputs.
func ToposortKahn(g Graph) *Topo {
	pending := slices.Clone(g.Indeg)
	topo := &Topo{}

	// The first wave holds every present module with no present dependency.
	remaining := 0
	wave := make([]ModuleID, 0, len(pending))
	for i, deg := range pending {
		if !g.Present[i] {
			continue
		}
		remaining++
		if deg == 0 {
			wave = append(wave, toModuleID(i))
		}
	}

	for len(wave) > 0 {
		slices.Sort(wave)
		topo.Batches = append(topo.Batches, wave)
		topo.Order = append(topo.Order, wave...)
		remaining -= len(wave)

		var next []ModuleID
		for _, id := range wave {
			for _, importer := range g.Edges[int(id)] {
				if !g.Present[int(importer)] {
					continue
				}
				pending[int(importer)]--
				if pending[int(importer)] == 0 {
					next = append(next, importer)
				}
			}
		}
		wave = next
	}

	// Anything still waiting on a dependency sits inside a cycle. The scan
	// runs in ID order, so Cycles comes out sorted.
	if remaining > 0 {
		topo.Cyclic = true
		for i, deg := range pending {
			if g.Present[i] && deg > 0 {
				topo.Cycles = append(topo.Cycles, toModuleID(i))
			}
		}
	}
	return topo
}
