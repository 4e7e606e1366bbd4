package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSignalBoardContract verifies that a SignalBoard implementation adheres
// to the interface contract. The board must have "ready" and "intake"
// registered, both false. settle is called where a tick boundary would be.
func RunSignalBoardContract(t *testing.T, board SignalBoard, settle func()) {
	t.Run("Set and Read", func(t *testing.T) {
		require.NoError(t, board.Set("ready", true))
		v, err := board.Read("ready")
		require.NoError(t, err)
		assert.True(t, v)

		require.NoError(t, board.Set("ready", false))
		v, _ = board.Read("ready")
		assert.False(t, v)
	})

	t.Run("Unknown Signal", func(t *testing.T) {
		_, err := board.Read("missing")
		assert.ErrorIs(t, err, domain.ErrUnknownSignal)
		assert.ErrorIs(t, board.Set("missing", true), domain.ErrUnknownSignal)
		assert.ErrorIs(t, board.Pulse("missing"), domain.ErrUnknownSignal)
	})

	t.Run("Pulse Lasts One Sampled Tick", func(t *testing.T) {
		require.NoError(t, board.Pulse("intake"))

		// Not sampled yet: a settle must not swallow the pulse.
		settle()
		v, err := board.Read("intake")
		require.NoError(t, err)
		assert.True(t, v)

		settle()
		v, _ = board.Read("intake")
		assert.False(t, v)
	})

	t.Run("Signals", func(t *testing.T) {
		require.NoError(t, board.Set("intake", true))
		defer func() { _ = board.Set("intake", false) }()

		all := board.Signals()
		assert.Equal(t, map[string]bool{"ready": false, "intake": true}, all)
	})
}

// RunPublisherContract verifies that a Publisher delivers state in order.
// latest reads back the flag values the publisher last made visible.
// Publishers may write in the background, so visibility is awaited.
func RunPublisherContract(t *testing.T, pub Publisher, latest func() (map[string]bool, error)) {
	ctx := context.Background()

	first := &domain.Snapshot{Tick: 1, Flags: map[string]bool{"actionPrep": true, "action": false}}
	second := &domain.Snapshot{Tick: 2, Flags: map[string]bool{"actionPrep": false, "action": true}}

	visible := func(t *testing.T, want map[string]bool) {
		t.Helper()
		assert.Eventually(t, func() bool {
			got, err := latest()
			return err == nil && assert.ObjectsAreEqual(want, got)
		}, 2*time.Second, 5*time.Millisecond)
	}

	t.Run("Publish Snapshot", func(t *testing.T) {
		require.NoError(t, pub.Publish(ctx, first, domain.Diff(nil, first)))
		visible(t, first.Flags)
	})

	t.Run("Publish Diff", func(t *testing.T) {
		require.NoError(t, pub.Publish(ctx, second, domain.Diff(first, second)))
		visible(t, second.Flags)
	})

	t.Run("Unchanged Tick", func(t *testing.T) {
		third := &domain.Snapshot{Tick: 3, Flags: second.Flags}
		require.NoError(t, pub.Publish(ctx, third, nil))
		visible(t, second.Flags)
	})
}
