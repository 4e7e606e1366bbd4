package runtime

import (
	"log/slog"
	"time"

	"github.com/aretw0/cadence/pkg/action"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/trigger"
)

// The engine is the action.Scope of every action it runs.
var _ action.Scope = (*Engine)(nil)

func (e *Engine) Sample() *trigger.Sample { return e.sample }

func (e *Engine) Logger() *slog.Logger { return e.logger }

func (e *Engine) Schedule(t action.Task) {
	if _, ok := e.since[t]; !ok {
		e.tasks = append(e.tasks, t)
	}
	e.since[t] = e.tick
}

func (e *Engine) Unschedule(t action.Task) {
	if _, ok := e.since[t]; !ok {
		return
	}
	delete(e.since, t)
	for i, p := range e.tasks {
		if p == t {
			e.tasks = append(e.tasks[:i], e.tasks[i+1:]...)
			return
		}
	}
}

// Tasks returns a copy of the pending tasks in scheduling order.
func (e *Engine) Tasks() []action.Task {
	return append([]action.Task(nil), e.tasks...)
}

func (e *Engine) Timed(target string, phase domain.TimedPhase, remaining time.Duration) {
	e.logger.Debug("timed action", "tick", e.tick, "target", target, "phase", string(phase), "remaining", remaining)
	if e.hooks.OnTimed != nil {
		e.hooks.OnTimed(&domain.TimedEvent{
			EventBase: e.base(domain.EventTimed),
			Target:    target,
			Phase:     phase,
			Remaining: remaining,
		})
	}
}
