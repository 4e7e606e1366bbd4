package trigger

import (
	"errors"
	"fmt"

	"github.com/aretw0/cadence/pkg/domain"
)

// SourceCond reads an external boolean once per tick.
//
// The first evaluation in a tick calls the underlying function and memoizes
// the result; every later evaluation in the same tick returns the memo, so all
// bindings agree on the value of an input within a tick.
type SourceCond struct {
	name string
	fn   func() (bool, error)

	sampled bool
	tick    uint64
	value   bool
	faulted bool
}

// Source wraps an infallible signal. A nil fn reads as false and reports a fault.
func Source(name string, fn func() bool) *SourceCond {
	var wrapped func() (bool, error)
	if fn != nil {
		wrapped = func() (bool, error) { return fn(), nil }
	}
	return &SourceCond{name: name, fn: wrapped}
}

// SourceErr wraps a signal that can report it is unavailable.
// Any error makes the source read false for that tick.
func SourceErr(name string, fn func() (bool, error)) *SourceCond {
	return &SourceCond{name: name, fn: fn}
}

// Name returns the signal name.
func (c *SourceCond) Name() string { return c.name }

func (c *SourceCond) String() string { return c.name }

func (c *SourceCond) Evaluate(s *Sample) bool {
	if s == nil {
		return false
	}
	if c.sampled && c.tick == s.Tick {
		return c.value
	}
	v, err := c.read()
	if err != nil {
		s.reportFault(c.name, err)
		v = false
	}
	c.sampled, c.tick, c.value, c.faulted = true, s.Tick, v, err != nil
	return v
}

type healthyCond struct {
	c    Condition
	srcs []*SourceCond
}

// Healthy is true while every external source under c reads without a fault.
// Combine it with a negated source to gate on a positive reading:
// And(Not(disabled), Healthy(disabled)) is false when disabled is unavailable.
func Healthy(c Condition) Condition {
	if c == nil {
		c = False
	}
	return &healthyCond{c: c, srcs: Sources(c)}
}

func (h *healthyCond) Evaluate(s *Sample) bool {
	if s == nil {
		return false
	}
	h.c.Evaluate(s)
	for _, src := range h.srcs {
		if src.faulted && src.tick == s.Tick {
			return false
		}
	}
	return true
}

func (h *healthyCond) Operands() []Condition { return []Condition{h.c} }
func (h *healthyCond) String() string        { return "healthy(" + h.c.String() + ")" }

func (c *SourceCond) read() (v bool, err error) {
	if c.fn == nil {
		return false, fmt.Errorf("%w: %s has no reader", domain.ErrSourceFault, c.name)
	}
	defer func() {
		if r := recover(); r != nil {
			v = false
			err = fmt.Errorf("%w: %s panicked: %v", domain.ErrSourceFault, c.name, r)
		}
	}()
	v, err = c.fn()
	if err != nil && !errors.Is(err, domain.ErrSourceFault) {
		err = fmt.Errorf("%w: %s: %w", domain.ErrSourceFault, c.name, err)
	}
	return v, err
}
