package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshots(values ...map[string]bool) []*domain.Snapshot {
	out := make([]*domain.Snapshot, len(values))
	for i, v := range values {
		out[i] = &domain.Snapshot{Tick: uint64(i + 1), Now: time.Duration(i) * 20 * time.Millisecond, Flags: v}
	}
	return out
}

func TestTimeline_Render(t *testing.T) {
	snaps := snapshots(
		map[string]bool{"actionPrep": true, "action": false, "coral": true},
		map[string]bool{"actionPrep": false, "action": true, "coral": true},
		map[string]bool{"actionPrep": false, "action": true, "coral": false},
		map[string]bool{"actionPrep": false, "action": false, "coral": false},
	)

	t.Run("Explicit Rows", func(t *testing.T) {
		var buf bytes.Buffer
		tl := &Timeline{Profile: termenv.Ascii, Flags: []string{"actionPrep", "action"}}
		tl.Render(&buf, snaps)

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "tick       1", lines[0])
		assert.Equal(t, "actionPrep █···", lines[1])
		assert.Equal(t, "action     ·██·", lines[2])
	})

	t.Run("Ever Active Rows", func(t *testing.T) {
		var buf bytes.Buffer
		tl := &Timeline{Profile: termenv.Ascii}
		tl.Render(&buf, snaps)
		out := buf.String()
		assert.Contains(t, out, "action     ·██·")
		assert.Contains(t, out, "coral      ██··")
	})

	t.Run("Stride", func(t *testing.T) {
		var buf bytes.Buffer
		tl := &Timeline{Profile: termenv.Ascii, Flags: []string{"action"}, Stride: 2}
		tl.Render(&buf, snaps)
		assert.Contains(t, buf.String(), "action ·█\n")
	})

	t.Run("Empty", func(t *testing.T) {
		var buf bytes.Buffer
		NewTimeline().Render(&buf, nil)
		assert.Empty(t, buf.String())
	})
}

func TestPrintChange(t *testing.T) {
	var buf bytes.Buffer
	PrintChange(&buf, termenv.Ascii, nil)
	assert.Empty(t, buf.String())

	PrintChange(&buf, termenv.Ascii, &domain.SnapshotDiff{
		Tick:    105,
		Now:     2080 * time.Millisecond,
		Changed: map[string]bool{"actionPrep": false, "action": true},
	})
	assert.Equal(t, "t=105      2.08s  +action -actionPrep\n", buf.String())
}
