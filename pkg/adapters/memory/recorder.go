package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/aretw0/cadence/pkg/domain"
)

// Recorder implements ports.Publisher by keeping every published diff.
// Safe for concurrent use.
type Recorder struct {
	mu     sync.RWMutex
	latest map[string]bool
	diffs  []*domain.SnapshotDiff
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{latest: make(map[string]bool)}
}

// Publish stores the snapshot values and the diff if anything changed.
func (r *Recorder) Publish(ctx context.Context, snap *domain.Snapshot, diff *domain.SnapshotDiff) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.latest = maps.Clone(snap.Flags)
	if !diff.IsEmpty() {
		r.diffs = append(r.diffs, diff)
	}
	return nil
}

// Latest returns a copy of the last published flag values.
func (r *Recorder) Latest() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.latest)
}

// Diffs returns the recorded diffs in publish order.
func (r *Recorder) Diffs() []*domain.SnapshotDiff {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*domain.SnapshotDiff(nil), r.diffs...)
}
