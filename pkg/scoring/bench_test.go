package scoring

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/cadence/internal/runtime"
	"github.com/aretw0/cadence/pkg/adapters/clock"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/stretchr/testify/require"
)

const period = 20 * time.Millisecond

// bench drives a scoring table from a map of named inputs.
type bench struct {
	t      *testing.T
	mu     sync.Mutex
	in     map[string]bool
	faulty map[string]bool
	table  *Table
	engine *runtime.Engine

	invariants []*domain.InvariantEvent
	timed      []*domain.TimedEvent
}

func newBench(t *testing.T) *bench {
	t.Helper()
	b := &bench{t: t, in: make(map[string]bool), faulty: make(map[string]bool)}
	for _, name := range SignalNames() {
		b.in[name] = false
	}

	table, err := New(NewSignals(b.read), DefaultConfig())
	require.NoError(t, err)
	b.table = table
	b.engine = runtime.NewEngine(table.Schema(),
		runtime.WithClock(clock.NewManual().Stepped(period)),
		runtime.WithLifecycleHooks(domain.LifecycleHooks{
			OnInvariant: func(ev *domain.InvariantEvent) { b.invariants = append(b.invariants, ev) },
			OnTimed:     func(ev *domain.TimedEvent) { b.timed = append(b.timed, ev) },
		}),
	)
	return b
}

func (b *bench) read(name string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.in[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", domain.ErrUnknownSignal, name)
	}
	if b.faulty[name] {
		return false, fmt.Errorf("%w: %s unavailable", domain.ErrSourceFault, name)
	}
	return v, nil
}

// fault makes names fail on every read until cleared with fault(false, ...).
func (b *bench) fault(on bool, names ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, name := range names {
		b.faulty[name] = on
	}
}

func (b *bench) set(v bool, names ...string) {
	b.t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, name := range names {
		_, ok := b.in[name]
		require.True(b.t, ok, "unknown signal %s", name)
		b.in[name] = v
	}
}

func (b *bench) tick() *domain.Snapshot {
	return b.engine.Tick()
}

func (b *bench) ticks(n int) *domain.Snapshot {
	var snap *domain.Snapshot
	for i := 0; i < n; i++ {
		snap = b.tick()
	}
	return snap
}

// stageCoralL4 holds the operator staging inputs for coral at level 4.
func (b *bench) stageCoralL4() {
	b.t.Helper()
	b.set(true, "operator.coralStage", "operator.staged", "operator.l4")
	snap := b.ticks(3)
	require.True(b.t, snap.Get("coral"))
	require.True(b.t, snap.Get("l4"))
	require.False(b.t, snap.Get("algae"))
}
