// Package clock provides ports.Clock implementations.
package clock

import (
	"sync"
	"time"
)

// Monotonic reads the process monotonic clock.
type Monotonic struct {
	start time.Time
}

// NewMonotonic creates a clock whose origin is the moment of the call.
func NewMonotonic() *Monotonic {
	return &Monotonic{start: time.Now()}
}

func (c *Monotonic) Now() time.Duration { return time.Since(c.start) }

// Manual is a clock that only moves when told to. Used by scenario players
// and tests for deterministic timing.
type Manual struct {
	mu  sync.Mutex
	now time.Duration
}

// NewManual creates a manual clock at zero.
func NewManual() *Manual { return &Manual{} }

func (c *Manual) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. Negative values are ignored.
func (c *Manual) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}

// Stepped returns a clock that advances c by period on every read after the
// first. Handing it to an engine makes every tick exactly one period long.
func (c *Manual) Stepped(period time.Duration) *Stepped {
	return &Stepped{clock: c, period: period}
}

// Stepped advances a Manual clock by a fixed period each time it is read.
type Stepped struct {
	clock  *Manual
	period time.Duration
	read   bool
}

func (s *Stepped) Now() time.Duration {
	if s.read {
		s.clock.Advance(s.period)
	}
	s.read = true
	return s.clock.Now()
}
