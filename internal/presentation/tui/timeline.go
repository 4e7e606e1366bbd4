package tui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/muesli/termenv"
)

const (
	onCell  = "█"
	offCell = "·"
)

// Timeline renders flag snapshots as one row per flag and one column per
// sampled tick.
type Timeline struct {
	Profile termenv.Profile
	// Flags selects and orders the rows. Empty means every flag that was
	// true at least once, sorted.
	Flags []string
	// Stride samples every Stride-th snapshot. Values below 1 mean 1.
	Stride int
}

// NewTimeline returns a timeline using the terminal's color profile.
func NewTimeline(flags ...string) *Timeline {
	return &Timeline{Profile: termenv.ColorProfile(), Flags: flags, Stride: 1}
}

// Render writes the timeline of snaps to w.
func (tl *Timeline) Render(w io.Writer, snaps []*domain.Snapshot) {
	if len(snaps) == 0 {
		return
	}
	stride := max(tl.Stride, 1)
	var cols []*domain.Snapshot
	for i := 0; i < len(snaps); i += stride {
		cols = append(cols, snaps[i])
	}

	rows := tl.Flags
	if len(rows) == 0 {
		rows = everActive(snaps)
	}
	width := 4
	for _, name := range rows {
		width = max(width, len(name))
	}

	// Header marks the tick number every ten columns.
	var header strings.Builder
	for i := 0; i < len(cols); i += 10 {
		label := fmt.Sprintf("%d", cols[i].Tick)
		header.WriteString(label)
		if pad := 10 - len(label); pad > 0 && i+10 < len(cols) {
			header.WriteString(strings.Repeat(" ", pad))
		}
	}
	fmt.Fprintf(w, "%-*s %s\n", width, "tick", header.String())

	on := tl.Profile.String(onCell).Foreground(tl.Profile.Color("#34d399")).String()
	for _, name := range rows {
		var line strings.Builder
		for _, s := range cols {
			if s.Get(name) {
				line.WriteString(on)
			} else {
				line.WriteString(offCell)
			}
		}
		fmt.Fprintf(w, "%-*s %s\n", width, name, line.String())
	}
}

// PrintChange writes one line per non-empty diff: the tick, the engine
// time and the flags that rose (+) or fell (-).
func PrintChange(w io.Writer, p termenv.Profile, d *domain.SnapshotDiff) {
	if d.IsEmpty() {
		return
	}
	names := make([]string, 0, len(d.Changed))
	for name := range d.Changed {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		if d.Changed[name] {
			parts[i] = p.String("+" + name).Foreground(p.Color("#34d399")).String()
		} else {
			parts[i] = p.String("-" + name).Foreground(p.Color("#fb7185")).String()
		}
	}
	fmt.Fprintf(w, "t=%-5d %8s  %s\n", d.Tick, d.Now, strings.Join(parts, " "))
}

func everActive(snaps []*domain.Snapshot) []string {
	set := make(map[string]bool)
	for _, s := range snaps {
		for _, name := range s.Active() {
			set[name] = true
		}
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
