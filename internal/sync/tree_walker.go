package sync

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

var ErrRootNotFound = errors.New("root directory does not exist")

// Walk enumerates every file and directory under root into a fresh
// snapshot. Each call performs an independent traversal; paths are reported
// relative to root with slash separators, and a directory always sorts
// before its descendants. An unreadable subtree is skipped and recorded as
// a warning instead of aborting the walk; an unreadable root fails the walk
// outright. Entries matching the ignore list are left out entirely; a nil
// ignore list keeps everything.
func Walk(root string, ignore *IgnoreList) (*TreeSnapshot, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("stat root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, root)
	}

	snapshot := newTreeSnapshot(root)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				// An unreadable root would read as an empty tree, and an
				// empty tree plans a full replica wipe. Fail instead.
				return fmt.Errorf("read root: %w", walkErr)
			}
			// Unreadable entry. Skip the subtree but keep walking the rest.
			slog.Warn("walk: skipping unreadable path", "path", path, "error", walkErr)
			snapshot.Warnings = append(snapshot.Warnings, WalkWarning{Path: path, Err: walkErr})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if path == root {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("walk rel path: %w", err)
		}
		relPath = NormPath(relPath)

		if ignore != nil && ignore.ShouldIgnore(relPath) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		kind := KindFile
		if d.IsDir() {
			kind = KindDir
		}
		snapshot.Entries[relPath] = PathEntry{Path: relPath, Kind: kind}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return snapshot, nil
}
