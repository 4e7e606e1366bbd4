package memory

import (
	"fmt"
	"maps"
	"sync"

	"github.com/aretw0/cadence/pkg/domain"
)

// Board implements ports.SignalBoard in memory.
// Safe for concurrent use.
type Board struct {
	mu      sync.RWMutex
	values  map[string]bool
	pulsed  map[string]bool
	sampled map[string]bool
	// live pulses were pending when the current tick began.
	live map[string]bool
}

// NewBoard creates a board with names registered, all false.
func NewBoard(names ...string) *Board {
	b := &Board{
		values:  make(map[string]bool, len(names)),
		pulsed:  make(map[string]bool),
		sampled: make(map[string]bool),
		live:    make(map[string]bool),
	}
	for _, n := range names {
		b.values[n] = false
	}
	return b
}

// Read returns the current value of a signal. A pending pulse reads true and
// is marked as sampled.
func (b *Board) Read(name string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	v, ok := b.values[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", domain.ErrUnknownSignal, name)
	}
	if b.pulsed[name] {
		b.sampled[name] = true
		return true, nil
	}
	return v, nil
}

// Set holds a signal at v. It also drops a pending pulse.
func (b *Board) Set(name string, v bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.values[name]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownSignal, name)
	}
	b.values[name] = v
	delete(b.pulsed, name)
	delete(b.sampled, name)
	delete(b.live, name)
	return nil
}

// Pulse makes a signal read true for the next whole tick, or until a tick has
// sampled it.
func (b *Board) Pulse(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.values[name]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownSignal, name)
	}
	b.pulsed[name] = true
	delete(b.sampled, name)
	delete(b.live, name)
	return nil
}

// Begin marks the pending pulses as live for the tick about to run. The
// runner calls it before every tick.
func (b *Board) Begin() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for name := range b.pulsed {
		b.live[name] = true
	}
}

// Settle ends the pulses sampled since the last call and every pulse that was
// live for the tick that just ran, read or not. A pulse posted during that
// tick and not yet read survives into the next one. The runner calls it after
// every tick.
func (b *Board) Settle() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for name := range b.pulsed {
		if b.sampled[name] || b.live[name] {
			delete(b.pulsed, name)
		}
	}
	clear(b.sampled)
	clear(b.live)
}

// Signals returns a copy of every registered signal with pending pulses
// reading true.
func (b *Board) Signals() map[string]bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := maps.Clone(b.values)
	for name := range b.pulsed {
		out[name] = true
	}
	return out
}
