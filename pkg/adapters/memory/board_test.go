package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/cadence/pkg/adapters/memory"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBoard_Contract(t *testing.T) {
	board := memory.NewBoard("ready", "intake")
	ports.RunSignalBoardContract(t, board, board.Settle)
}

func TestMemoryRecorder_Contract(t *testing.T) {
	rec := memory.NewRecorder()
	ports.RunPublisherContract(t, rec, func() (map[string]bool, error) {
		return rec.Latest(), nil
	})
	assert.Len(t, rec.Diffs(), 2, "the unchanged tick records no diff")
}

func TestMemoryBoard_SetDropsPulse(t *testing.T) {
	board := memory.NewBoard("home")
	require.NoError(t, board.Pulse("home"))
	require.NoError(t, board.Set("home", false))

	v, err := board.Read("home")
	require.NoError(t, err)
	assert.False(t, v)
}

func TestMemoryRecorder_CancelledContext(t *testing.T) {
	rec := memory.NewRecorder()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snap := &domain.Snapshot{Tick: 1, Flags: map[string]bool{"a": true}}
	assert.ErrorIs(t, rec.Publish(ctx, snap, domain.Diff(nil, snap)), context.Canceled)
	assert.Empty(t, rec.Latest())
}

func TestMemoryBoard_PulseEnds(t *testing.T) {
	tests := []struct {
		name string
		read bool
	}{
		{name: "read by the tick", read: true},
		{name: "never read", read: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := memory.NewBoard("fn")
			require.NoError(t, board.Pulse("fn"))

			board.Begin()
			if tt.read {
				v, err := board.Read("fn")
				require.NoError(t, err)
				assert.True(t, v)
			}
			assert.True(t, board.Signals()["fn"])
			board.Settle()
			assert.False(t, board.Signals()["fn"])
		})
	}
}

func TestMemoryBoard_PulsePostedMidTick(t *testing.T) {
	board := memory.NewBoard("fn")

	board.Begin()
	require.NoError(t, board.Pulse("fn"))
	board.Settle()
	assert.True(t, board.Signals()["fn"], "the next tick still sees it")

	board.Begin()
	board.Settle()
	assert.False(t, board.Signals()["fn"])
}
