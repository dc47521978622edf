package dag

import (
	"testing"

	"loom/internal/diag"
	"loom/internal/project"
)

func meta(path string, imports ...string) project.ModuleMeta {
	m := project.ModuleMeta{Path: path}
	for _, imp := range imports {
		m.Imports = append(m.Imports, project.ImportMeta{Path: imp})
	}
	return m
}

func nodes(metas ...project.ModuleMeta) []ModuleNode {
	out := make([]ModuleNode, len(metas))
	for i, m := range metas {
		out[i] = ModuleNode{Meta: m, Reporter: diag.NopReporter{}}
	}
	return out
}

func names(idx ModuleIndex, ids []ModuleID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[int(id)]
	}
	return out
}

func TestToposortDependenciesComeFirst(t *testing.T) {
	metas := []project.ModuleMeta{
		meta("app", "lib", "util"),
		meta("lib", "util"),
		meta("util"),
	}
	idx := BuildIndex(metas)
	g, _ := BuildGraph(idx, nodes(metas...))
	topo := ToposortKahn(g)

	if topo.Cyclic {
		t.Fatal("unexpected cycle")
	}
	pos := make(map[string]int)
	for i, id := range topo.Order {
		pos[idx.IDToName[int(id)]] = i
	}
	if !(pos["util"] < pos["lib"] && pos["lib"] < pos["app"]) {
		t.Fatalf("order = %v", names(idx, topo.Order))
	}
}

func TestToposortBatchesIndependentModules(t *testing.T) {
	metas := []project.ModuleMeta{
		meta("app", "a", "b"),
		meta("a"),
		meta("b"),
	}
	idx := BuildIndex(metas)
	g, _ := BuildGraph(idx, nodes(metas...))
	topo := ToposortKahn(g)

	if len(topo.Batches) != 2 {
		t.Fatalf("batches = %v", topo.Batches)
	}
	first := names(idx, topo.Batches[0])
	if len(first) != 2 || first[0] != "a" || first[1] != "b" {
		t.Fatalf("first wave = %v, want [a b]", first)
	}
	second := names(idx, topo.Batches[1])
	if len(second) != 1 || second[0] != "app" {
		t.Fatalf("second wave = %v, want [app]", second)
	}
}

func TestCycleDetection(t *testing.T) {
	metas := []project.ModuleMeta{
		meta("a", "b"),
		meta("b", "a"),
		meta("free"),
	}
	idx := BuildIndex(metas)
	bag := diag.NewBag(16)
	reporter := diag.BagReporter{Bag: bag}
	withReporter := make([]ModuleNode, len(metas))
	for i, m := range metas {
		withReporter[i] = ModuleNode{Meta: m, Reporter: reporter}
	}
	g, slots := BuildGraph(idx, withReporter)
	topo := ToposortKahn(g)

	if !topo.Cyclic || len(topo.Cycles) != 2 {
		t.Fatalf("cycles = %v", names(idx, topo.Cycles))
	}
	if len(topo.Order) != 1 || idx.IDToName[int(topo.Order[0])] != "free" {
		t.Fatalf("order = %v, want [free]", names(idx, topo.Order))
	}

	ReportCycles(idx, slots, topo)
	found := 0
	for _, d := range bag.Items() {
		if d.Code == diag.DrvImportCycle {
			found++
		}
	}
	if found != 2 {
		t.Fatalf("cycle diagnostics = %d, want 2", found)
	}
}

func TestMissingImportIsReported(t *testing.T) {
	bag := diag.NewBag(16)
	metas := []project.ModuleMeta{meta("app", "ghost")}
	idx := BuildIndex(metas)
	BuildGraph(idx, []ModuleNode{{Meta: metas[0], Reporter: diag.BagReporter{Bag: bag}}})

	if !bag.HasErrors() {
		t.Fatal("expected missing-module diagnostic")
	}
	if bag.Items()[0].Code != diag.DrvMissingModule {
		t.Fatalf("code = %s", bag.Items()[0].Code)
	}
}

func TestDuplicateModuleIsReported(t *testing.T) {
	bag := diag.NewBag(16)
	metas := []project.ModuleMeta{meta("app"), meta("app")}
	idx := BuildIndex(metas)
	reporter := diag.BagReporter{Bag: bag}
	BuildGraph(idx, []ModuleNode{
		{Meta: metas[0], Reporter: reporter},
		{Meta: metas[1], Reporter: reporter},
	})

	if bag.Len() != 1 || bag.Items()[0].Code != diag.DrvDuplicateModule {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestSelfImportIsReported(t *testing.T) {
	bag := diag.NewBag(16)
	metas := []project.ModuleMeta{meta("app", "app")}
	idx := BuildIndex(metas)
	g, _ := BuildGraph(idx, []ModuleNode{{Meta: metas[0], Reporter: diag.BagReporter{Bag: bag}}})

	if bag.Len() != 1 || bag.Items()[0].Code != diag.DrvSelfImport {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
	if topo := ToposortKahn(g); topo.Cyclic {
		t.Fatal("self import edge must be dropped, not form a cycle")
	}
}
