package sync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/devtonic-net/unisync/internal/utils"
)

var ErrInvalidSource = errors.New("invalid source directory")

// Syncer performs one-way synchronization passes that make the replica an
// exact mirror of the source. A pass keeps no state for the next one; every
// pass re-walks both trees from scratch.
type Syncer struct {
	sourceDir  string
	replicaDir string
	comparator Comparator
	ignore     *IgnoreList
}

func NewSyncer(sourceDir, replicaDir string) (*Syncer, error) {
	source, err := utils.ResolvePath(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("resolve source: %w", err)
	}
	replica, err := utils.ResolvePath(replicaDir)
	if err != nil {
		return nil, fmt.Errorf("resolve replica: %w", err)
	}

	ignore := NewIgnoreList(source)
	ignore.Load()

	return &Syncer{
		sourceDir:  source,
		replicaDir: replica,
		comparator: HashComparator{},
		ignore:     ignore,
	}, nil
}

func (s *Syncer) SourceDir() string {
	return s.sourceDir
}

func (s *Syncer) ReplicaDir() string {
	return s.replicaDir
}

// Synchronize runs one full pass: walk both roots, plan, execute. The
// source must exist and be a directory before anything is mutated; the
// replica is created when missing. Per-operation failures surface as failed
// events in the report, not as an error.
func (s *Syncer) Synchronize(ctx context.Context) (*SyncReport, error) {
	started := time.Now()

	info, err := os.Stat(s.sourceDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrInvalidSource, s.sourceDir)
		}
		return nil, fmt.Errorf("stat source %s: %w", s.sourceDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidSource, s.sourceDir)
	}

	if err := utils.EnsureDir(s.replicaDir); err != nil {
		return nil, fmt.Errorf("create replica %s: %w", s.replicaDir, err)
	}

	// Both walks only read their own tree, so they can run side by side.
	var sourceTree, replicaTree *TreeSnapshot
	var g errgroup.Group
	g.Go(func() error {
		var err error
		sourceTree, err = Walk(s.sourceDir, s.ignore)
		return err
	})
	g.Go(func() error {
		var err error
		replicaTree, err = Walk(s.replicaDir, s.ignore)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("walk trees: %w", err)
	}

	plan := Plan(sourceTree, replicaTree, s.comparator)
	events := NewExecutor(s.sourceDir, s.replicaDir).Execute(ctx, plan)

	report := &SyncReport{
		Source:   s.sourceDir,
		Replica:  s.replicaDir,
		Events:   events,
		Warnings: append(sourceTree.Warnings, replicaTree.Warnings...),
		Started:  started,
		Duration: time.Since(started),
	}
	return report, ctx.Err()
}
