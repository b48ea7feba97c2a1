package sync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/devtonic-net/unisync/internal/utils"
)

var ErrIntegrityCheck = errors.New("integrity check failed")

// Executor applies planned operations to the replica tree.
type Executor struct {
	sourceRoot  string
	replicaRoot string
	hashFile    func(path string) (string, error)
}

func NewExecutor(sourceRoot, replicaRoot string) *Executor {
	return &Executor{
		sourceRoot:  sourceRoot,
		replicaRoot: replicaRoot,
		hashFile:    utils.FileHash,
	}
}

// Execute applies the operations strictly in the order given, one event per
// operation. A failed operation is recorded in its event and execution
// continues with the rest; only context cancellation stops the pass early.
func (ex *Executor) Execute(ctx context.Context, ops []Operation) []SyncEvent {
	events := make([]SyncEvent, 0, len(ops))
	for _, op := range ops {
		if ctx.Err() != nil {
			return events
		}
		events = append(events, ex.apply(op))
	}
	return events
}

func (ex *Executor) apply(op Operation) SyncEvent {
	event := SyncEvent{Op: op.Type, Path: op.Path, Time: time.Now()}
	replicaPath := filepath.Join(ex.replicaRoot, filepath.FromSlash(op.Path))

	switch op.Type {
	case OpCreateDir:
		event.Err = utils.EnsureDir(replicaPath)
	case OpCopyFile, OpOverwriteFile:
		sourcePath := filepath.Join(ex.sourceRoot, filepath.FromSlash(op.Path))
		event.Size, event.Err = ex.copyFile(sourcePath, replicaPath)
	case OpDeleteFile, OpDeleteDir:
		// A path that vanished between planning and execution is fine.
		if err := os.Remove(replicaPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			event.Err = err
		}
	default:
		event.Err = fmt.Errorf("unknown operation %q", op.Type)
	}

	return event
}

// copyFile copies the source file over the replica path and re-hashes the
// written copy against the source to confirm the bytes made it intact.
func (ex *Executor) copyFile(src, dst string) (int64, error) {
	written, err := utils.CopyFile(src, dst)
	if err != nil {
		return written, err
	}

	srcHash, err := ex.hashFile(src)
	if err != nil {
		return written, fmt.Errorf("hash source: %w", err)
	}
	dstHash, err := ex.hashFile(dst)
	if err != nil {
		return written, fmt.Errorf("hash replica: %w", err)
	}
	if srcHash != dstHash {
		return written, fmt.Errorf("%w: %s", ErrIntegrityCheck, dst)
	}

	return written, nil
}
