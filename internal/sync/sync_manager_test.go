package sync

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSyncer(t *testing.T, source, replica string) *Syncer {
	t.Helper()
	syncer, err := NewSyncer(source, replica)
	require.NoError(t, err)
	return syncer
}

func TestManagerRun_SinglePass(t *testing.T) {
	source := t.TempDir()
	replica := t.TempDir()
	writeFile(t, source, "a.txt", "hi")

	manager := NewManager(newTestSyncer(t, source, replica), 0, false)
	require.NoError(t, manager.Run(context.Background()))

	assert.FileExists(t, filepath.Join(replica, "a.txt"))
	// lock file is released and removed after the run
	assert.NoFileExists(t, filepath.Join(replica, lockFileName))
}

func TestManagerRun_ReplicaLocked(t *testing.T) {
	source := t.TempDir()
	replica := t.TempDir()
	writeFile(t, source, "a.txt", "hi")

	first := NewManager(newTestSyncer(t, source, replica), 0, false)
	require.NoError(t, first.lockReplica())
	defer first.unlockReplica()

	second := NewManager(newTestSyncer(t, source, replica), 0, false)
	err := second.Run(context.Background())
	require.ErrorIs(t, err, ErrReplicaLocked)
}

func TestManagerRun_LockFileNeverMirrored(t *testing.T) {
	source := t.TempDir()
	replica := t.TempDir()
	writeFile(t, source, "a.txt", "hi")

	manager := NewManager(newTestSyncer(t, source, replica), 0, false)
	require.NoError(t, manager.lockReplica())
	defer manager.unlockReplica()

	report, err := manager.syncer.Synchronize(context.Background())
	require.NoError(t, err)
	for _, event := range report.Events {
		assert.NotEqual(t, lockFileName, event.Path)
	}
	assert.FileExists(t, filepath.Join(replica, lockFileName))
}

func TestManagerRun_IntervalResync(t *testing.T) {
	source := t.TempDir()
	replica := t.TempDir()
	writeFile(t, source, "a.txt", "hi")

	manager := NewManager(newTestSyncer(t, source, replica), 50*time.Millisecond, false)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- manager.Run(ctx) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(replica, "a.txt"))
		return err == nil
	}, 3*time.Second, 10*time.Millisecond, "initial pass never ran")

	// a file added after the first pass shows up on a later pass
	writeFile(t, source, "later.txt", "new")
	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(replica, "later.txt"))
		return err == nil
	}, 3*time.Second, 10*time.Millisecond, "interval pass never ran")

	cancel()
	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("manager did not stop after cancellation")
	}
}

func TestManagerRun_WatchResync(t *testing.T) {
	source := t.TempDir()
	replica := t.TempDir()
	writeFile(t, source, "a.txt", "hi")

	manager := NewManager(newTestSyncer(t, source, replica), 0, true)
	manager.watcher.SetDebounceTimeout(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- manager.Run(ctx) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(replica, "a.txt"))
		return err == nil
	}, 3*time.Second, 10*time.Millisecond, "initial pass never ran")

	// keep touching the file so the change lands after the watcher is up,
	// then a pass runs with no interval configured
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(source, "edited.txt"), []byte("new"), 0o644)
		_, err := os.Stat(filepath.Join(replica, "edited.txt"))
		return err == nil
	}, 5*time.Second, 100*time.Millisecond, "watch pass never ran")

	cancel()
	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("manager did not stop after cancellation")
	}
}

func TestManagerRun_MissingSourceFails(t *testing.T) {
	manager := NewManager(newTestSyncer(t, filepath.Join(t.TempDir(), "gone"), t.TempDir()), 0, false)
	err := manager.Run(context.Background())
	require.ErrorIs(t, err, ErrInvalidSource)
}
