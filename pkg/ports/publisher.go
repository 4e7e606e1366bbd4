package ports

import (
	"context"

	"github.com/aretw0/cadence/pkg/domain"
)

// Publisher receives flag state after each tick.
// diff is nil when no flag changed during the tick.
// Publish runs on the tick goroutine and must not block on I/O; network
// publishers queue the snapshot and write it from their own goroutine.
type Publisher interface {
	Publish(ctx context.Context, snap *domain.Snapshot, diff *domain.SnapshotDiff) error
}
