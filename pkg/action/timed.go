package action

import (
	"fmt"
	"time"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/trigger"
)

// TimedAction asserts a flag for a bounded duration.
//
// Run sets the target true and starts the countdown. On every later tick the
// cancel guard is checked first; if it holds the target is cleared at once.
// Otherwise the countdown is decremented by the measured elapsed time and the
// target is cleared when it reaches zero. Running again while active restarts
// the countdown. A TimedAction has at most one countdown in flight.
type TimedAction struct {
	target   *domain.Flag
	duration func() time.Duration
	cancel   trigger.Condition
	then     Action

	active    bool
	remaining time.Duration
}

// Timed creates a timed assertion of target. duration is read on every fire.
func Timed(target *domain.Flag, duration func() time.Duration) *TimedAction {
	return &TimedAction{target: target, duration: duration}
}

// For is Timed with a fixed duration.
func For(target *domain.Flag, d time.Duration) *TimedAction {
	return Timed(target, func() time.Duration { return d })
}

// WithCancel sets the guard that clears the target early.
func (t *TimedAction) WithCancel(c trigger.Condition) *TimedAction {
	t.cancel = c
	return t
}

// Then runs a after the target is cleared by expiry or cancellation.
func (t *TimedAction) Then(a Action) *TimedAction {
	t.then = a
	return t
}

// Target returns the asserted flag.
func (t *TimedAction) Target() *domain.Flag { return t.target }

// Active reports whether a countdown is in flight.
func (t *TimedAction) Active() bool { return t.active }

// Remaining returns the time left, or zero when inactive.
func (t *TimedAction) Remaining() time.Duration {
	if !t.active {
		return 0
	}
	return t.remaining
}

func (t *TimedAction) Name() string {
	name := fmt.Sprintf("%s=true for %s", t.target.Name(), t.durationOf())
	if t.cancel != nil {
		name += " unless " + t.cancel.String()
	}
	if t.then != nil {
		name += ", then " + t.then.Name()
	}
	return name
}

func (t *TimedAction) Run(sc Scope) {
	phase := domain.TimedFired
	if t.active {
		phase = domain.TimedRestarted
	}
	t.target.SetTrue()
	t.active = true
	t.remaining = t.durationOf()
	sc.Schedule(t)
	sc.Timed(t.target.Name(), phase, t.remaining)
}

func (t *TimedAction) Poll(sc Scope, elapsed time.Duration) bool {
	if !t.active {
		return true
	}
	if t.cancel != nil && t.cancel.Evaluate(sc.Sample()) {
		t.finish(sc, domain.TimedCancelled)
		return true
	}
	t.remaining -= elapsed
	if t.remaining <= 0 {
		t.finish(sc, domain.TimedExpired)
		return true
	}
	return false
}

func (t *TimedAction) finish(sc Scope, phase domain.TimedPhase) {
	t.target.SetFalse()
	t.active = false
	t.remaining = 0
	sc.Timed(t.target.Name(), phase, 0)
	if t.then != nil {
		t.then.Run(sc)
	}
}

// Stop clears the target and drops the countdown without running Then.
func (t *TimedAction) Stop(sc Scope) {
	if !t.active {
		return
	}
	t.target.SetFalse()
	t.Abort(sc)
}

// Abort drops the countdown without touching the target.
func (t *TimedAction) Abort(sc Scope) {
	if !t.active {
		return
	}
	t.active = false
	t.remaining = 0
	sc.Unschedule(t)
	sc.Timed(t.target.Name(), domain.TimedStopped, 0)
}

func (t *TimedAction) Writes() []domain.Write {
	ws := []domain.Write{
		{Flag: t.target, Kind: domain.WriteTrue},
		{Flag: t.target, Kind: domain.WriteFalse, Deferred: true},
	}
	if t.then != nil {
		ws = append(ws, deferred(t.then.Writes())...)
	}
	return ws
}

func (t *TimedAction) durationOf() time.Duration {
	if t.duration == nil {
		return 0
	}
	return t.duration()
}
