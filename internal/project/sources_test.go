package project

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverSources(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "lib")
	hidden := filepath.Join(root, ".cache")
	for _, dir := range []string{sub, hidden} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	write := func(path, content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(filepath.Join(root, "main.lm"), "fn main() {}\n")
	write(filepath.Join(sub, "util.lm"), "fn helper() {}\n")
	write(filepath.Join(root, "notes.txt"), "not a source file\n")
	write(filepath.Join(hidden, "stale.lm"), "fn old() {}\n")

	files, err := DiscoverSources([]string{root})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2", len(files))
	}
	// Sorted by path: root/lib/util.lm before root/main.lm.
	if files[0].Module != "util" || files[1].Module != "main" {
		t.Fatalf("modules = %q, %q", files[0].Module, files[1].Module)
	}
	if files[1].Hash != HashBytes([]byte("fn main() {}\n")) {
		t.Error("content hash mismatch")
	}
}

func TestDiscoverSourcesDeduplicatesOverlappingDirs(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.lm"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	files, err := DiscoverSources([]string{root, root})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}
}
