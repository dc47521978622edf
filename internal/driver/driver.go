// Package driver orchestrates semantic analysis over a whole program: it
// orders modules by their import graph, analyzes independent modules in
// parallel, and caches per-module results on disk so clean rebuilds skip
// work.
package driver

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"loom/internal/ast"
	"loom/internal/diag"
	"loom/internal/memory"
	"loom/internal/project"
	"loom/internal/project/dag"
	"loom/internal/sema"
)

// Options tune one AnalyzeProgram run.
type Options struct {
	// Jobs caps concurrent module analyses; 0 means GOMAXPROCS.
	Jobs int
	// Cache enables the disk cache when non-nil.
	Cache *DiskCache
	// MaxDiagnostics bounds the program bag; 0 picks a default.
	MaxDiagnostics int
}

const defaultMaxDiagnostics = 256

// Input is one module handed to the driver: the parsed tree plus the raw
// content it was parsed from (hashed for cache keys).
type Input struct {
	Module  *ast.Module
	Content []byte
}

// ModuleResult is the per-module outcome.
type ModuleResult struct {
	Module string
	// Result is set when the module was analyzed this run.
	Result *sema.Result
	// Functions is always set on success: fresh from Result or replayed
	// from the disk cache.
	Functions []memory.FunctionMemoryInfo
	// Cached reports that analysis was skipped on a cache hit.
	Cached bool
	// Failed reports that the module (or one of its dependencies) has
	// errors; details are in the program bag.
	Failed bool
}

// Outcome aggregates everything a program-level analysis produced.
type Outcome struct {
	Results map[string]*ModuleResult
	Bag     *diag.Bag
}

// AnalyzeProgram analyzes every module of a program. Within one module the
// first error aborts that module; at the program level analysis continues,
// collecting one diagnostic per failed module into the bag. Modules in an
// import cycle are reported and skipped.
func AnalyzeProgram(ctx context.Context, inputs []Input, opts Options) (*Outcome, error) {
	maxDiags := opts.MaxDiagnostics
	if maxDiags == 0 {
		maxDiags = defaultMaxDiagnostics
	}
	out := &Outcome{
		Results: make(map[string]*ModuleResult, len(inputs)),
		Bag:     diag.NewBag(maxDiags),
	}
	reporter := diag.BagReporter{Bag: out.Bag}

	metas := make([]project.ModuleMeta, 0, len(inputs))
	byPath := make(map[string]Input, len(inputs))
	for _, in := range inputs {
		if in.Module == nil {
			continue
		}
		meta := project.ModuleMeta{
			Name:        in.Module.Name,
			Path:        in.Module.Name,
			Span:        in.Module.Loc,
			ContentHash: project.HashBytes(in.Content),
		}
		for _, imp := range in.Module.Imports {
			meta.Imports = append(meta.Imports, project.ImportMeta{
				Path: imp.Path,
				Span: imp.Loc,
			})
		}
		metas = append(metas, meta)
		byPath[meta.Path] = in
	}

	idx := dag.BuildIndex(metas)
	nodes := make([]dag.ModuleNode, len(metas))
	for i, meta := range metas {
		nodes[i] = dag.ModuleNode{Meta: meta, Reporter: reporter}
	}
	graph, slots := dag.BuildGraph(idx, nodes)
	topo := dag.ToposortKahn(graph)
	dag.ReportCycles(idx, slots, topo)
	// Failed module paths; dependents of a failed module are skipped and
	// marked failed without piling follow-on diagnostics into the bag.
	failed := make(map[string]bool, len(metas))
	for _, id := range topo.Cycles {
		slot := slots[int(id)]
		if slot.Present {
			out.Results[slot.Meta.Path] = &ModuleResult{Module: slot.Meta.Path, Failed: true}
			failed[slot.Meta.Path] = true
		}
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Per-module aggregate hashes and export surfaces, filled wave by
	// wave: every dependency of a module in wave N completed in an
	// earlier wave.
	hashes := make(map[string]project.Digest, len(metas))
	exports := make(map[string]*sema.ModuleExports, len(metas))
	var mu sync.Mutex

	for _, batch := range topo.Batches {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(min(jobs, len(batch)))

		for _, id := range batch {
			slot := slots[int(id)]
			if !slot.Present {
				continue
			}
			meta := slot.Meta
			in, ok := byPath[meta.Path]
			if !ok {
				continue
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				mu.Lock()
				blocked := false
				for _, imp := range meta.Imports {
					if failed[imp.Path] {
						blocked = true
						break
					}
				}
				mu.Unlock()

				var res *ModuleResult
				if blocked {
					res = &ModuleResult{Module: meta.Path, Failed: true}
				} else {
					res = analyzeOne(meta, in, hashes, exports, &mu, opts.Cache, out.Bag)
				}
				mu.Lock()
				if res.Failed {
					failed[meta.Path] = true
				}
				out.Results[meta.Path] = res
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return out, err
		}
	}

	out.Bag.Sort()
	out.Bag.Dedup()
	return out, nil
}

// analyzeOne runs (or replays) a single module analysis.
func analyzeOne(meta project.ModuleMeta, in Input, hashes map[string]project.Digest, exports map[string]*sema.ModuleExports, mu *sync.Mutex, cache *DiskCache, bag *diag.Bag) *ModuleResult {
	res := &ModuleResult{Module: meta.Path}

	// Aggregate hash and dependency exports, in sorted import order for
	// determinism. Every dependency completed in an earlier wave.
	deps := make([]string, 0, len(meta.Imports))
	for _, imp := range meta.Imports {
		deps = append(deps, imp.Path)
	}
	sort.Strings(deps)
	depDigests := make([]project.Digest, 0, len(deps))
	imports := make([]*sema.ModuleExports, 0, len(deps))
	mu.Lock()
	for _, dep := range deps {
		if d, ok := hashes[dep]; ok {
			depDigests = append(depDigests, d)
		}
		if e, ok := exports[dep]; ok {
			imports = append(imports, e)
		}
	}
	mu.Unlock()
	key := project.Combine(meta.ContentHash, depDigests...)

	// Broken payloads count as misses: re-analysis reproduces the exact
	// diagnostics instead of a stale marker. A hit still runs the
	// declaration pass so dependents see this module's exports.
	var payload DiskPayload
	if hit, err := cache.Get(key, &payload); err == nil && hit && !payload.Broken {
		checker := sema.NewChecker(sema.Options{Imports: imports})
		if declared, declErr := checker.DeclareModule(in.Module); declErr == nil {
			res.Cached = true
			res.Functions = payload.Functions
			mu.Lock()
			hashes[meta.Path] = key
			exports[meta.Path] = &sema.ModuleExports{
				Module:  meta.Path,
				Types:   checker.Types(),
				Symbols: declared.Exports,
			}
			mu.Unlock()
			return res
		}
		// Declarations that no longer resolve invalidate the hit.
	}

	checker := sema.NewChecker(sema.Options{Imports: imports})
	result, semaErr := checker.AnalyzeModule(in.Module)
	if semaErr != nil {
		res.Failed = true
		mu.Lock()
		bag.Add(semaErr.Diagnostic())
		mu.Unlock()
	} else {
		res.Result = result
		res.Functions = result.Functions
	}

	mu.Lock()
	hashes[meta.Path] = key
	if result != nil {
		exports[meta.Path] = &sema.ModuleExports{
			Module:  meta.Path,
			Types:   checker.Types(),
			Symbols: result.Exports,
		}
	}
	mu.Unlock()

	_ = cache.Put(key, &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Module:      meta.Path,
		ImportPaths: deps,
		ContentHash: meta.ContentHash,
		ModuleHash:  key,
		Broken:      res.Failed,
		Functions:   res.Functions,
	})
	return res
}
