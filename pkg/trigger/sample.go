package trigger

import (
	"time"

	"github.com/aretw0/cadence/pkg/domain"
)

// FaultFunc receives a source failure. The source itself already read as false.
type FaultFunc func(source string, err error)

// Sample is the evaluation context for one tick.
// The engine creates one per tick; conditions never keep a reference to it.
type Sample struct {
	Tick uint64
	Now  time.Duration

	fault FaultFunc

	// low flags read false. Set only on probe samples used to observe pulses.
	low   map[*domain.Flag]bool
	probe bool
}

// NewSample creates the sample for tick number tick taken at monotonic time now.
func NewSample(tick uint64, now time.Duration, fault FaultFunc) *Sample {
	return &Sample{Tick: tick, Now: now, fault: fault}
}

// Probe returns a read-only copy of s in which the given flags read false.
// Stateful leaves do not update their memory when evaluated under a probe.
func (s *Sample) Probe(low ...*domain.Flag) *Sample {
	p := &Sample{Tick: s.Tick, Now: s.Now, fault: s.fault, probe: true}
	p.low = make(map[*domain.Flag]bool, len(low))
	for _, f := range low {
		p.low[f] = true
	}
	return p
}

// Probing reports whether s is a probe copy.
func (s *Sample) Probing() bool { return s.probe }

func (s *Sample) reportFault(source string, err error) {
	if s.fault != nil && !s.probe {
		s.fault(source, err)
	}
}
