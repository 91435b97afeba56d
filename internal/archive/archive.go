package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/franz/tapevault/internal/util"
)

// Manifest describes a downloaded import package
type Manifest struct {
	Version   string     `json:"version"`
	SourceRef FlexString `json:"source_ref"`
	BuiltAt   time.Time  `json:"built_at"`
	Stats     struct {
		Shows       int `json:"shows"`
		Recordings  int `json:"recordings"`
		Collections int `json:"collections"`
	} `json:"stats"`
}

// Archive is a downloaded import package rooted at a directory:
// manifest.json, collections.json, shows/*.json, recordings/*.json.
type Archive struct {
	root string
}

// Open validates the package layout and returns a reader over it
func Open(root string) (*Archive, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", util.ErrInvalidArchive, root)
	}

	for _, required := range []string{"manifest.json", "shows", "recordings"} {
		if _, err := os.Stat(filepath.Join(root, required)); err != nil {
			return nil, fmt.Errorf("%w: missing %s", util.ErrInvalidArchive, required)
		}
	}

	return &Archive{root: root}, nil
}

// Root returns the package's root directory
func (a *Archive) Root() string {
	return a.root
}

// Manifest parses and validates the package manifest
func (a *Archive) Manifest() (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(a.root, "manifest.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: malformed manifest: %v", util.ErrInvalidArchive, err)
	}
	if m.Version == "" {
		return nil, fmt.Errorf("%w: manifest missing version", util.ErrInvalidArchive)
	}

	return &m, nil
}

// ShowPaths lists the show record files in stable order
func (a *Archive) ShowPaths() ([]string, error) {
	return a.recordPaths("shows")
}

// RecordingPaths lists the recording record files in stable order
func (a *Archive) RecordingPaths() ([]string, error) {
	return a.recordPaths("recordings")
}

func (a *Archive) recordPaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(a.root, dir))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(a.root, dir, e.Name()))
	}

	// Deterministic import order regardless of filesystem
	sort.Strings(paths)
	return paths, nil
}

// Collections parses the single collections record. A missing file means
// the package carries no collections, which is not an error.
func (a *Archive) Collections() ([]*CollectionRecord, error) {
	data, err := os.ReadFile(filepath.Join(a.root, "collections.json"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read collections record: %w", err)
	}

	return ParseCollections(data)
}
