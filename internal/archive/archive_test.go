package archive

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/franz/tapevault/internal/util"
)

// writePackage lays out a minimal valid package directory
func writePackage(t *testing.T, manifest string) string {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"shows", "recordings"} {
		if err := os.Mkdir(filepath.Join(root, dir), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "manifest.json"), []byte(manifest), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return root
}

func TestOpenValidatesLayout(t *testing.T) {
	root := writePackage(t, `{"version":"2026.08"}`)

	a, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	m, err := a.Manifest()
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	if m.Version != "2026.08" {
		t.Errorf("unexpected version %q", m.Version)
	}

	// Missing pieces are rejected up front
	if _, err := Open(filepath.Join(root, "does-not-exist")); !errors.Is(err, util.ErrInvalidArchive) {
		t.Errorf("expected ErrInvalidArchive for missing dir, got %v", err)
	}

	bare := t.TempDir()
	if _, err := Open(bare); !errors.Is(err, util.ErrInvalidArchive) {
		t.Errorf("expected ErrInvalidArchive for empty dir, got %v", err)
	}
}

func TestManifestRequiresVersion(t *testing.T) {
	root := writePackage(t, `{"source_ref":"nightly"}`)

	a, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := a.Manifest(); !errors.Is(err, util.ErrInvalidArchive) {
		t.Errorf("expected ErrInvalidArchive for missing version, got %v", err)
	}
}

func TestRecordPathsSortedAndFiltered(t *testing.T) {
	root := writePackage(t, `{"version":"2026.08"}`)
	for _, name := range []string{"b.json", "a.json", "README.txt"} {
		if err := os.WriteFile(filepath.Join(root, "shows", name), []byte("{}"), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	a, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	paths, err := a.ShowPaths()
	if err != nil {
		t.Fatalf("ShowPaths: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 json records, got %d", len(paths))
	}
	if filepath.Base(paths[0]) != "a.json" || filepath.Base(paths[1]) != "b.json" {
		t.Errorf("paths not sorted: %v", paths)
	}
}

func TestCollectionsMissingFile(t *testing.T) {
	root := writePackage(t, `{"version":"2026.08"}`)

	a, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	list, err := a.Collections()
	if err != nil {
		t.Fatalf("missing collections file should not error: %v", err)
	}
	if list != nil {
		t.Errorf("expected nil collections, got %v", list)
	}
}
