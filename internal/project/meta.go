package project

import (
	"errors"
	"strings"
	"unicode"

	"loom/internal/source"
)

// ImportMeta is one import edge with its source location.
type ImportMeta struct {
	Path string
	Span source.Span
}

// ModuleMeta is the project-level view of one module: where it lives, what
// it imports, and the hashes the disk cache keys on.
type ModuleMeta struct {
	Name        string
	Path        string // normalized module path, "a/b"
	File        string // filesystem path of the module source
	Span        source.Span
	Imports     []ImportMeta
	ContentHash Digest // hash of the module's own source
	ModuleHash  Digest // aggregate hash including dependency hashes
}

// IsValidModuleIdent accepts ASCII identifiers: letter or underscore first,
// letters, digits and underscores after.
func IsValidModuleIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r > unicode.MaxASCII {
			return false
		}
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// NormalizeModulePath canonicalizes a module path to "a/b" form: forward
// slashes, no empty segments, no "." or "..".
func NormalizeModulePath(path string) (string, error) {
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return "", errors.New("invalid module path")
	}
	segments := strings.Split(path, "/")
	for _, seg := range segments {
		if seg == "" || seg == "." || seg == ".." {
			return "", errors.New("invalid module path")
		}
	}
	return strings.Join(segments, "/"), nil
}
