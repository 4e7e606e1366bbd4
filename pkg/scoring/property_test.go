package scoring

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Random input traces never leave two members of an exclusive group true.
func TestProperty_ExclusiveGroupsHold(t *testing.T) {
	names := SignalNames()
	for _, seed := range []uint64{1, 7, 42, 1337, 9001} {
		b := newBench(t)
		rng := rand.New(rand.NewPCG(seed, seed^0x5eed))
		groups := b.table.Schema().Groups

		for tick := 0; tick < 400; tick++ {
			for _, name := range names {
				if rng.IntN(10) == 0 {
					b.set(!b.in[name], name)
				}
			}
			snap := b.tick()
			for _, g := range groups {
				var active []string
				for _, f := range g {
					if snap.Get(f.Name()) {
						active = append(active, f.Name())
					}
				}
				require.LessOrEqual(t, len(active), 1, "seed %d tick %d: %v", seed, snap.Tick, active)
			}
		}
		assert.Empty(t, b.invariants, "seed %d", seed)
	}
}

func TestTables_AreIndependent(t *testing.T) {
	a := newBench(t)
	b := newBench(t)

	a.stageCoralL4()
	a.set(true, "pilot.coastOn")
	a.tick()

	snap := b.tick()
	assert.Empty(t, snap.Active())
	assert.True(t, a.engine.Snapshot().Get("coastMode"))
	assert.NotSame(t, a.table.Coral, b.table.Coral)
}

func TestConfigure_ScoreTime(t *testing.T) {
	b := newBench(t)
	cfg := DefaultConfig()
	cfg.ScoreTime = 100 * time.Millisecond
	b.table.Configure(cfg)
	assert.Equal(t, cfg, b.table.Config())

	b.stageCoralL4()
	b.set(true, "pilot.actionReady")
	b.tick()
	b.set(false, "pilot.actionReady")

	var snaps []*domain.Snapshot
	for i := 0; i < 7; i++ {
		snaps = append(snaps, b.tick())
	}
	assert.True(t, snaps[0].Get("action"))
	assert.True(t, snaps[4].Get("action"))
	assert.False(t, snaps[5].Get("action"), "expires after five 20ms polls")

	var phases []domain.TimedPhase
	for _, ev := range b.timed {
		phases = append(phases, ev.Phase)
	}
	assert.Equal(t, []domain.TimedPhase{domain.TimedFired, domain.TimedExpired}, phases)
}
