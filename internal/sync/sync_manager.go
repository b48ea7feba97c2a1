package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"

	"github.com/devtonic-net/unisync/internal/utils"
)

const lockFileName = ".unisync.lock"

var ErrReplicaLocked = errors.New("replica locked by another unisync process")

// Manager schedules synchronization passes. With no interval and no watcher
// it runs exactly one pass and returns; otherwise it keeps running until
// the context is canceled, re-syncing on a timer and on source changes.
// Passes are strictly serialized: the next one starts only after the
// previous one has produced its full report.
type Manager struct {
	syncer   *Syncer
	interval time.Duration
	watcher  *FileWatcher
	flock    *flock.Flock
}

func NewManager(syncer *Syncer, interval time.Duration, watch bool) *Manager {
	m := &Manager{
		syncer:   syncer,
		interval: interval,
		flock:    flock.New(filepath.Join(syncer.ReplicaDir(), lockFileName)),
	}
	if watch {
		m.watcher = NewFileWatcher(syncer.SourceDir())
	}
	return m
}

func (m *Manager) Run(ctx context.Context) error {
	if err := m.lockReplica(); err != nil {
		return err
	}
	defer m.unlockReplica()

	if err := m.runPass(ctx); err != nil {
		return err
	}

	if m.interval <= 0 && m.watcher == nil {
		return nil
	}

	var watchEvents <-chan string
	if m.watcher != nil {
		if err := m.watcher.Start(ctx); err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		defer m.watcher.Stop()
		watchEvents = m.watcher.Events()
	}

	// A timer, not a ticker, so a pass that overruns the interval does not
	// queue extra passes behind it.
	var timerC <-chan time.Time
	var timer *time.Timer
	if m.interval > 0 {
		timer = time.NewTimer(m.interval)
		defer timer.Stop()
		timerC = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timerC:
			if err := m.runPass(ctx); err != nil {
				return err
			}
			timer.Reset(m.interval)
		case path := <-watchEvents:
			slog.Info("source changed", "path", path)
			if err := m.runPass(ctx); err != nil {
				return err
			}
		}
	}
}

func (m *Manager) runPass(ctx context.Context) error {
	report, err := m.syncer.Synchronize(ctx)
	if err != nil {
		return err
	}
	logReport(report)
	return nil
}

// lockReplica takes an exclusive lock file inside the replica so two
// unisync processes cannot mirror into the same tree at once. The lock file
// itself is on the built-in ignore list and never enters a snapshot.
func (m *Manager) lockReplica() error {
	if err := utils.EnsureDir(m.syncer.ReplicaDir()); err != nil {
		return fmt.Errorf("create replica: %w", err)
	}

	locked, err := m.flock.TryLock()
	if err != nil {
		return fmt.Errorf("lock replica: %w", err)
	}
	if !locked {
		return ErrReplicaLocked
	}
	return nil
}

func (m *Manager) unlockReplica() {
	if !m.flock.Locked() {
		return
	}
	if err := m.flock.Unlock(); err != nil {
		slog.Warn("failed to unlock replica", "error", err)
		return
	}
	_ = os.Remove(m.flock.Path())
}

func logReport(report *SyncReport) {
	for _, event := range report.Events {
		logEvent(event)
	}
	slog.Info("sync pass complete",
		"changes", len(report.Events),
		"failed", report.FailedCount(),
		"warnings", len(report.Warnings),
		"took", report.Duration,
	)
}

func logEvent(event SyncEvent) {
	attrs := []any{"path", event.Path, "at", event.Time.Format(time.RFC3339)}
	if event.Op == OpCopyFile || event.Op == OpOverwriteFile {
		attrs = append(attrs, "size", humanize.IBytes(uint64(event.Size)))
	}
	if event.Ok() {
		slog.Info(string(event.Op), attrs...)
	} else {
		slog.Error(string(event.Op), append(attrs, "error", event.Err)...)
	}
}
