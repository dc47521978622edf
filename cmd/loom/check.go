package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"loom/internal/diag"
	"loom/internal/diagfmt"
	"loom/internal/project"
	"loom/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [directory]",
	Short: "Validate a loom project layout",
	Long: `Validate the project manifest and source tree: loom.toml is located by
walking up from the given directory (default: the current one), its
[build].sources directories are scanned for *.lm files, and layout
problems such as duplicate module names are reported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Bool("list", false, "list discovered modules")
}

func runCheck(cmd *cobra.Command, args []string) error {
	startDir := "."
	if len(args) == 1 {
		startDir = args[0]
	}
	colored, err := applyColorMode(cmd)
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	maxDiags, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fs := source.NewFileSet()
	bag := diag.NewBag(maxDiags)

	files, manifest := collectProject(startDir, fs, bag)

	if list {
		for _, f := range files {
			fmt.Fprintf(out, "%s\t%s\n", f.Module, f.Path)
		}
	}

	bag.Sort()
	diagfmt.Pretty(out, bag, fs, diagfmt.PrettyOpts{Color: colored, Context: true})

	if bag.HasErrors() {
		return fmt.Errorf("%d problem(s) found", len(bag.Items()))
	}
	if !quiet && manifest != nil {
		fmt.Fprintf(out, "ok: %s (%d module(s))\n", manifest.Package.Name, len(files))
	}
	return nil
}

// collectProject loads the manifest and source files, reporting every
// layout problem into the bag instead of aborting on the first one.
func collectProject(startDir string, fs *source.FileSet, bag *diag.Bag) ([]project.SourceFile, *project.Manifest) {
	manifestPath, ok, err := project.FindManifest(startDir)
	if err != nil {
		bag.Add(diag.NewError(diag.DrvIOError, source.Span{}, err.Error()))
		return nil, nil
	}
	if !ok {
		bag.Add(diag.NewError(diag.DrvManifestError, source.Span{},
			fmt.Sprintf("no %s found in %s or any parent", project.ManifestName, startDir)))
		return nil, nil
	}

	// Layout findings are anchored at the manifest so they render with a
	// stable location instead of borrowing some source file's.
	manifestSpan := source.Span{}
	if content, rerr := os.ReadFile(manifestPath); rerr == nil {
		manifestSpan.File = fs.AddVirtual(project.ManifestName, content)
	}

	manifest, err := project.LoadManifest(manifestPath)
	if err != nil {
		bag.Add(diag.NewError(diag.DrvManifestError, manifestSpan, err.Error()))
		return nil, nil
	}

	dirs, err := manifest.SourceDirs()
	if err != nil {
		bag.Add(diag.NewError(diag.DrvManifestError, manifestSpan, err.Error()))
		return nil, manifest
	}

	files, err := project.DiscoverSources(dirs)
	if err != nil {
		bag.Add(diag.NewError(diag.DrvIOError, manifestSpan, err.Error()))
		return nil, manifest
	}

	byModule := make(map[string]string, len(files))
	for _, f := range files {
		fs.AddVirtual(relToManifest(manifestPath, f.Path), f.Content)
		if !project.IsValidModuleIdent(f.Module) {
			bag.Add(diag.NewError(diag.DrvManifestError, manifestSpan,
				fmt.Sprintf("%s: %q is not a valid module name", f.Path, f.Module)))
			continue
		}
		if prev, dup := byModule[f.Module]; dup {
			bag.Add(diag.NewError(diag.DrvDuplicateModule, manifestSpan,
				fmt.Sprintf("module %q defined by both %s and %s", f.Module, prev, f.Path)))
			continue
		}
		byModule[f.Module] = f.Path
	}

	if entry := manifest.Package.Entry; entry != "" {
		if _, found := byModule[entry]; !found {
			bag.Add(diag.NewError(diag.DrvMissingModule, manifestSpan,
				fmt.Sprintf("entry module %q not found under the source directories", entry)))
		}
	}
	return files, manifest
}

func relToManifest(manifestPath, path string) string {
	rel, err := filepath.Rel(filepath.Dir(manifestPath), path)
	if err != nil || rel == "" {
		return path
	}
	return rel
}
