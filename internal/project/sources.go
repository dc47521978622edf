package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SourceExt is the extension of loom source files.
const SourceExt = ".lm"

// SourceFile is one discovered source file with its content digest.
type SourceFile struct {
	// Path is absolute.
	Path string
	// Module is the file name without extension.
	Module  string
	Content []byte
	Hash    Digest
}

// DiscoverSources walks dirs and loads every *.lm file found, sorted by
// path for deterministic ordering. Dirs are walked recursively; hidden
// directories are skipped.
func DiscoverSources(dirs []string) ([]SourceFile, error) {
	var files []SourceFile
	seen := make(map[string]struct{})
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if name := d.Name(); strings.HasPrefix(name, ".") && path != dir {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != SourceExt {
				return nil
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			if _, ok := seen[abs]; ok {
				return nil
			}
			seen[abs] = struct{}{}
			content, err := os.ReadFile(abs)
			if err != nil {
				return fmt.Errorf("read %s: %w", abs, err)
			}
			files = append(files, SourceFile{
				Path:    abs,
				Module:  strings.TrimSuffix(filepath.Base(abs), SourceExt),
				Content: content,
				Hash:    HashBytes(content),
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
