package dag

import (
	"fmt"
	"slices"
	"strings"

	"loom/internal/diag"
	"loom/internal/project"
	"loom/internal/source"
)

// Graph is the import graph over one program's modules, stored with edges
// pointing dependency -> importer so a topological sort yields dependencies
// before the modules that import them.
type Graph struct {
	Edges   [][]ModuleID // Edges[dep] = sorted modules importing dep
	Indeg   []int        // Indeg[m] = number of present modules m imports
	Present []bool       // module actually exists, not merely imported
}

// ModuleNode is one discovered module plus the reporter its diagnostics go to.
type ModuleNode struct {
	Meta     project.ModuleMeta
	Reporter diag.Reporter
}

// ModuleSlot is the per-ID record produced by BuildGraph.
type ModuleSlot struct {
	Meta     project.ModuleMeta
	Reporter diag.Reporter
	Present  bool
}

// BuildGraph indexes the nodes into slots and materializes the edge lists.
// Duplicate modules, self imports, and imports of unknown modules are
// reported but do not abort graph construction.
func BuildGraph(idx ModuleIndex, nodes []ModuleNode) (Graph, []ModuleSlot) {
	nodeCount := idx.Len()
	g := Graph{
		Edges:   make([][]ModuleID, nodeCount),
		Indeg:   make([]int, nodeCount),
		Present: make([]bool, nodeCount),
	}
	slots := make([]ModuleSlot, nodeCount)
	for i, name := range idx.IDToName {
		slots[i].Meta.Path = name
	}

	for _, node := range nodes {
		meta := node.Meta
		if meta.Path == "" {
			continue
		}
		id, ok := idx.NameToID[meta.Path]
		if !ok {
			// The index is built over the same metadata; missing entries
			// would mean a programming error upstream.
			continue
		}
		slot := &slots[int(id)]
		if slot.Present {
			if node.Reporter != nil {
				var notes []diag.Note
				if slot.Meta.Span != (source.Span{}) {
					notes = append(notes, diag.Note{
						Span: slot.Meta.Span,
						Msg:  fmt.Sprintf("previous declaration of %q", slot.Meta.Path),
					})
				}
				node.Reporter.Report(diag.DrvDuplicateModule, diag.SevError, meta.Span,
					fmt.Sprintf("duplicate module %q", meta.Path), notes)
			}
			continue
		}
		slot.Meta = meta
		slot.Reporter = node.Reporter
		slot.Present = true
		g.Present[int(id)] = true
	}

	for from := range slots {
		slot := &slots[from]
		if !slot.Present || len(slot.Meta.Imports) == 0 {
			continue
		}
		seen := make(map[ModuleID]struct{}, len(slot.Meta.Imports))
		for _, dep := range slot.Meta.Imports {
			if dep.Path == "" {
				continue
			}
			toID, ok := idx.NameToID[dep.Path]
			if !ok {
				if slot.Reporter != nil {
					slot.Reporter.Report(diag.DrvMissingModule, diag.SevError, dep.Span,
						fmt.Sprintf("module %q imports unknown module %q", slot.Meta.Path, dep.Path), nil)
				}
				continue
			}
			if ModuleID(from) == toID {
				if slot.Reporter != nil {
					slot.Reporter.Report(diag.DrvSelfImport, diag.SevError, dep.Span,
						fmt.Sprintf("module %q imports itself", slot.Meta.Path), nil)
				}
				continue
			}
			if _, dup := seen[toID]; dup {
				continue
			}
			seen[toID] = struct{}{}

			if g.Present[int(toID)] {
				g.Edges[int(toID)] = append(g.Edges[int(toID)], ModuleID(from))
				g.Indeg[from]++
			} else if slot.Reporter != nil {
				slot.Reporter.Report(diag.DrvMissingModule, diag.SevError, dep.Span,
					fmt.Sprintf("module %q imports missing module %q", slot.Meta.Path, idx.IDToName[int(toID)]), nil)
			}
		}
	}
	for i := range g.Edges {
		if len(g.Edges[i]) > 1 {
			slices.Sort(g.Edges[i])
		}
	}

	return g, slots
}

// ReportCycles emits one diagnostic per module stuck in an import cycle.
func ReportCycles(idx ModuleIndex, slots []ModuleSlot, topo *Topo) {
	if !topo.Cyclic || len(topo.Cycles) == 0 {
		return
	}
	names := make([]string, 0, len(topo.Cycles))
	for _, id := range topo.Cycles {
		names = append(names, idx.IDToName[int(id)])
	}
	summary := strings.Join(names, " -> ")

	for _, id := range topo.Cycles {
		slot := slots[int(id)]
		if !slot.Present || slot.Reporter == nil {
			continue
		}
		msg := fmt.Sprintf("module %q participates in an import cycle: %s", slot.Meta.Path, summary)
		slot.Reporter.Report(diag.DrvImportCycle, diag.SevError, slot.Meta.Span, msg, nil)
	}
}
