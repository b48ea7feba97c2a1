package sync

import "time"

// SyncEvent records the outcome of one executed operation. Err is nil on
// success and carries the reason otherwise.
type SyncEvent struct {
	Op   OpType
	Path string
	Size int64 // bytes written, for copy operations
	Time time.Time
	Err  error
}

func (e SyncEvent) Ok() bool {
	return e.Err == nil
}

// SyncReport aggregates everything that happened during one pass.
type SyncReport struct {
	Source   string
	Replica  string
	Events   []SyncEvent
	Warnings []WalkWarning
	Started  time.Time
	Duration time.Duration
}

// FailedCount returns the number of operations that did not succeed.
func (r *SyncReport) FailedCount() int {
	failed := 0
	for _, e := range r.Events {
		if !e.Ok() {
			failed++
		}
	}
	return failed
}

// Changed reports whether the pass performed any operation at all.
func (r *SyncReport) Changed() bool {
	return len(r.Events) > 0
}
