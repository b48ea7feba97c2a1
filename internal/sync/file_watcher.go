package sync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rjeczalik/notify"
)

const (
	watchBufferSize        = 64
	defaultDebounceTimeout = 500 * time.Millisecond
)

// FileWatcher watches the source tree recursively and emits one debounced
// change notification per path, so editors that write in bursts trigger a
// single re-sync.
type FileWatcher struct {
	watchDir        string
	rawEvents       chan notify.EventInfo
	events          chan string
	debounceTimeout time.Duration
	pendingTimers   map[string]*time.Timer
	debounceMu      sync.Mutex
	done            chan struct{}
	wg              sync.WaitGroup
}

func NewFileWatcher(watchDir string) *FileWatcher {
	return &FileWatcher{
		watchDir:        watchDir,
		debounceTimeout: defaultDebounceTimeout,
		pendingTimers:   make(map[string]*time.Timer),
		done:            make(chan struct{}),
	}
}

// SetDebounceTimeout overrides the debounce window. Call before Start.
func (fw *FileWatcher) SetDebounceTimeout(d time.Duration) {
	fw.debounceTimeout = d
}

// Events returns the debounced change channel. Valid after Start.
func (fw *FileWatcher) Events() <-chan string {
	return fw.events
}

func (fw *FileWatcher) Start(ctx context.Context) error {
	slog.Info("file watcher start", "dir", fw.watchDir)

	fw.rawEvents = make(chan notify.EventInfo, watchBufferSize)
	fw.events = make(chan string, watchBufferSize)

	recursivePath := fw.watchDir + "/..."
	if err := notify.Watch(recursivePath, fw.rawEvents, notify.Write, notify.Create, notify.Remove, notify.Rename); err != nil {
		return err
	}

	fw.wg.Add(1)
	go fw.debounceEvents(ctx)

	return nil
}

func (fw *FileWatcher) Stop() {
	slog.Info("file watcher stop")
	close(fw.done)
	notify.Stop(fw.rawEvents)
	fw.wg.Wait()
}

func (fw *FileWatcher) debounceEvents(ctx context.Context) {
	defer fw.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-fw.done:
			return
		case ev, ok := <-fw.rawEvents:
			if !ok {
				return
			}
			fw.scheduleEvent(ev.Path())
		}
	}
}

// scheduleEvent (re)arms the per-path debounce timer.
func (fw *FileWatcher) scheduleEvent(path string) {
	fw.debounceMu.Lock()
	defer fw.debounceMu.Unlock()

	if timer, ok := fw.pendingTimers[path]; ok {
		timer.Reset(fw.debounceTimeout)
		return
	}

	fw.pendingTimers[path] = time.AfterFunc(fw.debounceTimeout, func() {
		fw.debounceMu.Lock()
		delete(fw.pendingTimers, path)
		fw.debounceMu.Unlock()

		select {
		case fw.events <- path:
		default:
			// channel full, a re-sync is already pending
		}
	})
}
