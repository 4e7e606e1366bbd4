package domain

import "time"

// SnapshotDiff represents the changes between two snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type SnapshotDiff struct {
	Tick uint64        `json:"tick"`
	Now  time.Duration `json:"now"`

	// Changed contains only the flags whose value differs, with their new value.
	// Flags that disappeared (never happens within one table) are reported false.
	Changed map[string]bool `json:"changed,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, it returns a diff representing the entire newSnap (initial load).
// It returns nil when nothing changed.
func Diff(oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}

	diff := &SnapshotDiff{
		Tick: newSnap.Tick,
		Now:  newSnap.Now,
	}

	changed := make(map[string]bool)
	if oldSnap == nil {
		for k, v := range newSnap.Flags {
			changed[k] = v
		}
	} else {
		for k, v := range newSnap.Flags {
			if prev, ok := oldSnap.Flags[k]; !ok || prev != v {
				changed[k] = v
			}
		}
		for k := range oldSnap.Flags {
			if _, ok := newSnap.Flags[k]; !ok {
				changed[k] = false
			}
		}
	}

	if len(changed) == 0 {
		return nil
	}
	diff.Changed = changed
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return d == nil || len(d.Changed) == 0
}
