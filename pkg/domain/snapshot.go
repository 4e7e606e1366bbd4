package domain

import (
	"sort"
	"time"
)

// Snapshot captures the value of every flag at the end of a tick.
// It is a copy: holding on to it never aliases engine state.
type Snapshot struct {
	Tick  uint64          `json:"tick"`
	Now   time.Duration   `json:"now"`
	Flags map[string]bool `json:"flags"`
}

// Capture builds a snapshot of flags.
func Capture(tick uint64, now time.Duration, flags []*Flag) *Snapshot {
	s := &Snapshot{
		Tick:  tick,
		Now:   now,
		Flags: make(map[string]bool, len(flags)),
	}
	for _, f := range flags {
		s.Flags[f.Name()] = f.Get()
	}
	return s
}

// Get returns the value of the named flag (false if unknown).
func (s *Snapshot) Get(name string) bool {
	if s == nil {
		return false
	}
	return s.Flags[name]
}

// Active returns the names of the flags that are true, sorted.
func (s *Snapshot) Active() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.Flags))
	for name, v := range s.Flags {
		if v {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
