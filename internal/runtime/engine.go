package runtime

import (
	"log/slog"
	"time"

	"github.com/aretw0/cadence/internal/logging"
	"github.com/aretw0/cadence/pkg/action"
	"github.com/aretw0/cadence/pkg/adapters/clock"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/aretw0/cadence/pkg/schema"
	"github.com/aretw0/cadence/pkg/trigger"
)

// Engine executes an orchestration table one tick at a time.
//
// Engine is not safe for concurrent use and Tick is not reentrant: it must be
// driven from a single goroutine. Snapshots returned by Tick are copies and
// may be handed to other goroutines.
type Engine struct {
	table  *schema.Table
	clock  ports.Clock
	logger *slog.Logger
	hooks  domain.LifecycleHooks

	tick    uint64
	now     time.Duration
	started bool
	inTick  bool
	sample  *trigger.Sample
	last    *domain.Snapshot

	bindings []*bindingState

	tasks []action.Task
	since map[action.Task]uint64
}

// bindingState is the edge memory of one binding.
type bindingState struct {
	*schema.Binding
	deps   []*domain.Flag
	pulses []uint64
	memory bool
}

// NewEngine creates an engine for table. The table must already be valid.
func NewEngine(table *schema.Table, opts ...EngineOption) *Engine {
	e := &Engine{
		table:  table,
		logger: logging.NewNop(),
		since:  make(map[action.Task]uint64),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.clock == nil {
		e.clock = clock.NewMonotonic()
	}

	for _, b := range table.Bindings {
		st := &bindingState{Binding: b}
		if b.Cond != nil {
			st.deps = trigger.Flags(b.Cond)
		}
		st.pulses = make([]uint64, len(st.deps))
		for i, f := range st.deps {
			st.pulses[i] = f.Pulses()
		}
		e.bindings = append(e.bindings, st)
	}

	e.sample = trigger.NewSample(0, 0, e.reportFault)
	e.last = table.Snapshot(0, 0)
	return e
}

// Tick runs one evaluation cycle and returns the resulting flag snapshot.
//
// The cycle is: sample the clock, latch every flag, evaluate every binding in
// declared order running the actions of those whose edge matched, poll the
// pending tasks, then check exclusive groups.
func (e *Engine) Tick() *domain.Snapshot {
	if e.inTick {
		e.logger.Error("reentrant tick ignored", "tick", e.tick)
		return e.last
	}
	e.inTick = true
	defer func() { e.inTick = false }()

	now := e.clock.Now()
	var elapsed time.Duration
	if e.started {
		elapsed = now - e.now
	}
	e.started = true
	e.now = now
	e.tick++

	for _, f := range e.table.Flags {
		f.Latch()
	}
	e.sample = trigger.NewSample(e.tick, now, e.reportFault)

	fired := 0
	for _, b := range e.bindings {
		if e.evaluate(b) {
			fired++
		}
	}

	e.pollTasks(elapsed)
	e.checkGroups()

	snap := e.table.Snapshot(e.tick, now)
	e.last = snap
	if e.hooks.OnTick != nil {
		e.hooks.OnTick(&domain.TickEvent{
			EventBase: e.base(domain.EventTick),
			Elapsed:   elapsed,
			Fired:     fired,
			Snapshot:  snap,
		})
	}
	return snap
}

// evaluate computes the transition of one binding and runs its actions when
// the edge matches. It reports whether anything ran.
func (e *Engine) evaluate(b *bindingState) bool {
	if b.Cond == nil {
		return false
	}
	cur := b.Cond.Evaluate(e.sample)
	t := domain.Observe(b.memory, cur)
	pulse := false

	// A dependency that was toggled to true while already true pulsed
	// false->true. Re-read the condition with those flags held low; if that
	// reads false the pulse is a rising edge of this binding.
	var pulsed []*domain.Flag
	for i, f := range b.deps {
		if n := f.Pulses(); n != b.pulses[i] {
			b.pulses[i] = n
			pulsed = append(pulsed, f)
		}
	}
	if len(pulsed) > 0 && cur && t == domain.NoChange {
		if !b.Cond.Evaluate(e.sample.Probe(pulsed...)) {
			t = domain.Rose
			pulse = true
		}
	}
	b.memory = cur

	switch {
	case b.Edge == domain.WhileTrue && t == domain.Rose:
		if pulse {
			e.stop(b)
		}
		e.run(b, pulse)
	case b.Edge == domain.WhileTrue && t == domain.Fell:
		e.stop(b)
	case b.Edge.Matches(t):
		e.run(b, pulse)
	default:
		return false
	}
	return true
}

func (e *Engine) run(b *bindingState, pulse bool) {
	e.logger.Debug("binding fired", "tick", e.tick, "binding", b.Label(), "edge", b.Edge.String(), "pulse", pulse)
	if e.hooks.OnBinding != nil {
		e.hooks.OnBinding(&domain.BindingEvent{
			EventBase: e.base(domain.EventBinding),
			Index:     b.Index,
			Binding:   b.Label(),
			Edge:      b.Edge,
			Pulse:     pulse,
		})
	}
	for _, a := range b.Actions {
		a.Run(e)
	}
}

func (e *Engine) stop(b *bindingState) {
	e.logger.Debug("binding stopped", "tick", e.tick, "binding", b.Label())
	if e.hooks.OnBinding != nil {
		e.hooks.OnBinding(&domain.BindingEvent{
			EventBase: e.base(domain.EventBinding),
			Index:     b.Index,
			Binding:   b.Label(),
			Edge:      b.Edge,
			Stop:      true,
		})
	}
	for _, a := range b.Actions {
		action.Stop(a, e)
	}
}

// pollTasks advances every task that was pending before this tick began.
func (e *Engine) pollTasks(elapsed time.Duration) {
	for _, t := range e.Tasks() {
		at, ok := e.since[t]
		if !ok || at == e.tick {
			continue
		}
		if t.Poll(e, elapsed) {
			e.Unschedule(t)
		}
	}
}

// Apply runs a outside of binding evaluation, between ticks. Tasks it
// schedules are first polled on the next tick.
func (e *Engine) Apply(a action.Action) {
	if e.inTick {
		e.logger.Error("apply during tick ignored", "action", a.Name())
		return
	}
	a.Run(e)
	e.last = e.table.Snapshot(e.tick, e.now)
}

// Snapshot returns the flag values as of the end of the last tick or Apply.
func (e *Engine) Snapshot() *domain.Snapshot { return e.last }

// TickCount returns the number of completed ticks.
func (e *Engine) TickCount() uint64 { return e.tick }

// Now returns the clock reading of the last tick.
func (e *Engine) Now() time.Duration { return e.now }

// Table returns the table being executed.
func (e *Engine) Table() *schema.Table { return e.table }

func (e *Engine) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{Type: t, Tick: e.tick, Now: e.now}
}

func (e *Engine) reportFault(source string, err error) {
	e.logger.Warn("source fault, reading false", "tick", e.tick, "source", source, "err", err)
	if e.hooks.OnFault != nil {
		e.hooks.OnFault(&domain.FaultEvent{
			EventBase: e.base(domain.EventFault),
			Source:    source,
			Err:       err,
		})
	}
}
