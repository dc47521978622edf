package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"loom/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new loom project",
	Long: `Initialize a new loom project by creating a project manifest (loom.toml)
and an entry module (src/main.lm). If [path|name] is omitted, initializes
the current directory. If a non-existing name is provided, a directory will
be created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else if filepath.IsAbs(args[0]) {
		target = args[0]
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = filepath.Join(wd, args[0])
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%s exists and is not a directory", target)
	}

	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("%s already exists in %s", project.ManifestName, target)
	}

	name := filepath.Base(target)
	if !project.IsValidModuleIdent(name) {
		name = "loom_project"
	}

	manifest := fmt.Sprintf(`[package]
name = %q
version = "0.1.0"
entry = "main"

[build]
sources = ["src"]
`, name)
	if err := os.WriteFile(manifestPath, []byte(manifest), 0o644); err != nil {
		return err
	}

	srcDir := filepath.Join(target, "src")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		return err
	}
	entryPath := filepath.Join(srcDir, "main"+project.SourceExt)
	entry := "fn main() {\n    let greeting: String = \"hello, loom\";\n    print(greeting);\n}\n"
	if err := os.WriteFile(entryPath, []byte(entry), 0o644); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "created %s\n", manifestPath)
	fmt.Fprintf(out, "created %s\n", entryPath)
	return nil
}
