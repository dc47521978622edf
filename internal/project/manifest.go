package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is the parsed content of a loom.toml.
type Manifest struct {
	// Package holds the project identity.
	Package PackageSection
	// Sources lists the directories scanned for modules, relative to the
	// project root. Empty means the root itself.
	Sources []string
	// Path of the manifest file this was loaded from.
	Path string
}

// PackageSection mirrors [package] in loom.toml.
type PackageSection struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Entry   string `toml:"entry"`
}

type manifestFile struct {
	Package PackageSection `toml:"package"`
	Build   struct {
		Sources []string `toml:"sources"`
	} `toml:"build"`
}

// LoadManifest parses loom.toml at path.
func LoadManifest(path string) (*Manifest, error) {
	var cfg manifestFile
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: missing [package]", path)
	}
	name := strings.TrimSpace(cfg.Package.Name)
	if !meta.IsDefined("package", "name") || name == "" {
		return nil, fmt.Errorf("%s: missing [package].name", path)
	}
	if !IsValidModuleIdent(name) {
		return nil, fmt.Errorf("%s: invalid package name %q", path, name)
	}

	m := &Manifest{
		Package: cfg.Package,
		Sources: cfg.Build.Sources,
		Path:    path,
	}
	m.Package.Name = name
	return m, nil
}

// SourceDirs returns the absolute source directories declared by the
// manifest; the project root when none are declared.
func (m *Manifest) SourceDirs() ([]string, error) {
	root := filepath.Dir(m.Path)
	if len(m.Sources) == 0 {
		return []string{root}, nil
	}
	dirs := make([]string, 0, len(m.Sources))
	for _, src := range m.Sources {
		resolved, err := resolveSourceDir(root, src)
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, resolved)
	}
	return dirs, nil
}

// resolveSourceDir validates a source entry: relative, inside the root,
// and an existing directory.
func resolveSourceDir(root, src string) (string, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", fmt.Errorf("invalid [build].sources entry: empty path")
	}
	if filepath.IsAbs(src) {
		return "", fmt.Errorf("invalid [build].sources entry %q: must be relative", src)
	}
	clean := filepath.Clean(filepath.FromSlash(src))
	full := filepath.Join(root, clean)
	if !pathWithin(root, full) {
		return "", fmt.Errorf("invalid [build].sources entry %q: escapes project root", src)
	}
	info, err := os.Stat(full)
	if err != nil {
		return "", fmt.Errorf("invalid [build].sources entry %q: %w", src, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("invalid [build].sources entry %q: not a directory", src)
	}
	return full, nil
}

func pathWithin(root, path string) bool {
	if root == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
