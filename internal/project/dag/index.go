package dag

import (
	"slices"

	"loom/internal/project"
)

// ModuleID indexes a module inside one build graph.
type ModuleID uint32

// ModuleIndex assigns dense IDs to every module path seen in the program,
// including paths that are only imported and never defined.
type ModuleIndex struct {
	NameToID map[string]ModuleID
	IDToName []string
}

// Len returns the number of indexed paths.
func (idx ModuleIndex) Len() int { return len(idx.IDToName) }

// BuildIndex hands out IDs in sorted path order, so identical inputs always
// map onto identical IDs.
func BuildIndex(metas []project.ModuleMeta) ModuleIndex {
	paths := make([]string, 0, len(metas)*2)
	for _, meta := range metas {
		if meta.Path != "" {
			paths = append(paths, meta.Path)
		}
		for _, dep := range meta.Imports {
			if dep.Path != "" {
				paths = append(paths, dep.Path)
			}
		}
	}
	slices.Sort(paths)
	paths = slices.Compact(paths)

	idx := ModuleIndex{
		NameToID: make(map[string]ModuleID, len(paths)),
		IDToName: paths,
	}
	for i, path := range paths {
		idx.NameToID[path] = ModuleID(i)
	}
	return idx
}
