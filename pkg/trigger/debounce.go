package trigger

import (
	"fmt"
	"time"

	"github.com/aretw0/cadence/pkg/domain"
)

// DebounceCond is true only once its source has been continuously true for
// the hold interval. A single false sample clears it immediately.
//
// A ToggleToTrue pulse on a flag under src counts as a false sample when src
// would have read false with that flag low, so the window restarts.
type DebounceCond struct {
	src  Condition
	hold func() time.Duration

	rising bool
	since  time.Duration

	tracked bool
	flags   []*domain.Flag
	pulses  []uint64
}

// Debounce stabilizes src with a fixed hold interval.
func Debounce(src Condition, hold time.Duration) *DebounceCond {
	return DebounceFunc(src, func() time.Duration { return hold })
}

// DebounceFunc reads the hold interval on every evaluation, so tuned values
// take effect without rebuilding the table.
func DebounceFunc(src Condition, hold func() time.Duration) *DebounceCond {
	if src == nil {
		src = False
	}
	return &DebounceCond{src: src, hold: hold}
}

func (d *DebounceCond) Evaluate(s *Sample) bool {
	v := d.src.Evaluate(s)
	if s == nil {
		return false
	}
	if s.Probing() {
		return v && d.rising && s.Now-d.since >= d.holdFor()
	}
	d.observePulses(s)
	if !v {
		d.rising = false
		return false
	}
	if !d.rising {
		d.rising = true
		d.since = s.Now
	}
	return s.Now-d.since >= d.holdFor()
}

// observePulses clears the window when a flag under src pulsed since the last
// evaluation and src reads false with the pulsed flags low.
func (d *DebounceCond) observePulses(s *Sample) {
	if !d.tracked {
		d.tracked = true
		d.flags = Flags(d.src)
		d.pulses = make([]uint64, len(d.flags))
		for i, f := range d.flags {
			d.pulses[i] = f.Pulses()
		}
		return
	}
	var pulsed []*domain.Flag
	for i, f := range d.flags {
		if n := f.Pulses(); n != d.pulses[i] {
			d.pulses[i] = n
			pulsed = append(pulsed, f)
		}
	}
	if len(pulsed) > 0 && d.rising && !d.src.Evaluate(s.Probe(pulsed...)) {
		d.rising = false
	}
}

// Reset forgets any rising edge in progress.
func (d *DebounceCond) Reset() { d.rising = false }

func (d *DebounceCond) holdFor() time.Duration {
	if d.hold == nil {
		return 0
	}
	return d.hold()
}

func (d *DebounceCond) Operands() []Condition { return []Condition{d.src} }

func (d *DebounceCond) String() string {
	return fmt.Sprintf("debounce(%s, %s)", d.src, d.holdFor())
}
