package sync

import (
	"path/filepath"
	"sort"
	"strings"
)

// PathKind tags a tree entry as a regular file or a directory.
type PathKind string

const (
	KindFile PathKind = "file"
	KindDir  PathKind = "dir"
)

// PathEntry identifies one node in a tree snapshot by its slash-separated
// path relative to the walk root.
type PathEntry struct {
	Path string
	Kind PathKind
}

func (e PathEntry) IsDir() bool {
	return e.Kind == KindDir
}

// WalkWarning records a subtree that could not be read and was skipped.
type WalkWarning struct {
	Path string
	Err  error
}

// TreeSnapshot is the set of entries produced by walking one root at one
// instant. Entries are keyed by normalized relative path, so no two entries
// share a path.
type TreeSnapshot struct {
	Root     string
	Entries  map[string]PathEntry
	Warnings []WalkWarning
}

func newTreeSnapshot(root string) *TreeSnapshot {
	return &TreeSnapshot{
		Root:    root,
		Entries: make(map[string]PathEntry),
	}
}

// Paths returns the snapshot's relative paths in ascending lexicographic
// order.
func (t *TreeSnapshot) Paths() []string {
	paths := make([]string, 0, len(t.Entries))
	for p := range t.Entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// AbsPath resolves a snapshot-relative path against the walk root.
func (t *TreeSnapshot) AbsPath(relPath string) string {
	return filepath.Join(t.Root, filepath.FromSlash(relPath))
}

// NormPath normalizes a path by cleaning it, replacing backslashes with
// slashes, and trimming leading slashes.
func NormPath(path string) string {
	path = filepath.Clean(path)
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.TrimLeft(path, "/")
	return path
}
