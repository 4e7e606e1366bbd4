package action

import (
	"log/slog"
	"time"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/trigger"
)

// Scope is the view of the engine an action gets while it runs.
type Scope interface {
	// Sample is the evaluation context of the current tick.
	Sample() *trigger.Sample
	// Schedule registers t for polling. Scheduling an already pending task
	// keeps its position. A task is never polled on the tick it was scheduled.
	Schedule(t Task)
	// Unschedule drops t without polling it again.
	Unschedule(t Task)
	// Tasks returns the pending tasks in scheduling order.
	Tasks() []Task
	// Timed reports timed action activity.
	Timed(target string, phase domain.TimedPhase, remaining time.Duration)
	Logger() *slog.Logger
}

// Action is a side effect executed when a binding fires.
type Action interface {
	Name() string
	Run(sc Scope)
	// Writes describes every flag write Run may cause, now or later.
	Writes() []domain.Write
}

// Stopper is implemented by actions that have something to undo when a
// while-true binding ends.
type Stopper interface {
	Stop(sc Scope)
}

// Task is deferred work polled at the end of every tick.
type Task interface {
	Name() string
	// Poll advances the task by the time elapsed since the previous tick and
	// reports whether it finished. Finished tasks are unscheduled.
	Poll(sc Scope, elapsed time.Duration) bool
	// Abort ends the task without running any follow-up.
	Abort(sc Scope)
}

// Countdown is a task that holds a flag true until it ends.
type Countdown interface {
	Task
	Target() *domain.Flag
}

// Stop stops a if it is a Stopper.
func Stop(a Action, sc Scope) {
	if s, ok := a.(Stopper); ok {
		s.Stop(sc)
	}
}

// deferred marks writes as happening on a later tick.
func deferred(ws []domain.Write) []domain.Write {
	out := make([]domain.Write, len(ws))
	for i, w := range ws {
		w.Deferred = true
		out[i] = w
	}
	return out
}

func conditional(ws []domain.Write) []domain.Write {
	out := make([]domain.Write, len(ws))
	for i, w := range ws {
		w.Conditional = true
		out[i] = w
	}
	return out
}
