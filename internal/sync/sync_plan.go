package sync

import (
	"log/slog"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Plan computes the ordered operations that make replica mirror source.
// Deletes come first, deepest entries before their parents; creates, copies
// and overwrites follow in ascending path order so parents exist before
// their descendants. Siblings always order ascending, keeping plans
// deterministic. A path whose kind flipped between the trees contributes a
// delete of the replica entry plus a create from the source entry.
func Plan(source, replica *TreeSnapshot, cmp Comparator) []Operation {
	srcPaths := mapset.NewThreadUnsafeSet[string]()
	for p := range source.Entries {
		srcPaths.Add(p)
	}
	repPaths := mapset.NewThreadUnsafeSet[string]()
	for p := range replica.Entries {
		repPaths.Add(p)
	}

	var deletes, creates []Operation

	// Replica-only entries go away.
	for path := range repPaths.Difference(srcPaths).Iter() {
		deletes = append(deletes, deleteOp(replica.Entries[path]))
	}

	// Source-only entries get created.
	for path := range srcPaths.Difference(repPaths).Iter() {
		creates = append(creates, createOp(source.Entries[path]))
	}

	// Entries on both sides: diff file content, or replace on a kind flip.
	for path := range srcPaths.Intersect(repPaths).Iter() {
		srcEntry := source.Entries[path]
		repEntry := replica.Entries[path]

		switch {
		case srcEntry.Kind == repEntry.Kind && srcEntry.IsDir():
			// directory on both sides, nothing to do
		case srcEntry.Kind == repEntry.Kind:
			equal, err := cmp.FilesEqual(source.AbsPath(path), replica.AbsPath(path))
			if err != nil {
				// Cannot determine equality, so re-copy.
				slog.Warn("plan: compare failed, scheduling overwrite", "path", path, "error", err)
				equal = false
			}
			if !equal {
				creates = append(creates, Operation{Type: OpOverwriteFile, Path: path})
			}
		default:
			deletes = append(deletes, deleteOp(repEntry))
			creates = append(creates, createOp(srcEntry))
		}
	}

	sort.Slice(deletes, func(i, j int) bool {
		di, dj := pathDepth(deletes[i].Path), pathDepth(deletes[j].Path)
		if di != dj {
			return di > dj
		}
		return deletes[i].Path < deletes[j].Path
	})
	sort.Slice(creates, func(i, j int) bool { return creates[i].Path < creates[j].Path })

	return append(deletes, creates...)
}

func pathDepth(path string) int {
	return strings.Count(path, "/")
}
