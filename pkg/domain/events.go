package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventTick      EventType = "tick"
	EventBinding   EventType = "binding_fire"
	EventTimed     EventType = "timed"
	EventFault     EventType = "fault"
	EventInvariant EventType = "invariant"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Type EventType     `json:"type"`
	Tick uint64        `json:"tick"`
	Now  time.Duration `json:"now"`
}

// TickEvent is emitted once a tick has fully completed.
type TickEvent struct {
	EventBase
	Elapsed  time.Duration `json:"elapsed"`
	Fired    int           `json:"fired"`
	Snapshot *Snapshot     `json:"snapshot,omitempty"`
}

// BindingEvent is emitted every time a binding runs its actions.
type BindingEvent struct {
	EventBase
	Index   int    `json:"index"`
	Binding string `json:"binding"`
	Edge    Edge   `json:"edge"`
	// Stop is set when a WhileTrue binding is ending rather than starting.
	Stop bool `json:"stop,omitempty"`
	// Pulse is set when the edge was produced by a ToggleToTrue pulse.
	Pulse bool `json:"pulse,omitempty"`
}

// TimedPhase describes a step in the life of a timed action.
type TimedPhase string

const (
	TimedFired     TimedPhase = "fired"
	TimedRestarted TimedPhase = "restarted"
	TimedExpired   TimedPhase = "expired"
	TimedCancelled TimedPhase = "cancelled"
	TimedStopped   TimedPhase = "stopped"
)

// TimedEvent reports timed action activity.
type TimedEvent struct {
	EventBase
	Target    string        `json:"target"`
	Phase     TimedPhase    `json:"phase"`
	Remaining time.Duration `json:"remaining"`
}

// FaultEvent reports an external source that failed and was read as false.
type FaultEvent struct {
	EventBase
	Source string `json:"source"`
	Err    error  `json:"-"`
}

// InvariantEvent reports flags of an exclusive group that were true together
// at the end of a tick.
type InvariantEvent struct {
	EventBase
	Group []string `json:"group"`
	True  []string `json:"true"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously on the tick goroutine and must not block.
type LifecycleHooks struct {
	OnTick      func(*TickEvent)
	OnBinding   func(*BindingEvent)
	OnTimed     func(*TimedEvent)
	OnFault     func(*FaultEvent)
	OnInvariant func(*InvariantEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTick:      chain(h.OnTick, other.OnTick),
		OnBinding:   chain(h.OnBinding, other.OnBinding),
		OnTimed:     chain(h.OnTimed, other.OnTimed),
		OnFault:     chain(h.OnFault, other.OnFault),
		OnInvariant: chain(h.OnInvariant, other.OnInvariant),
	}
}

func chain[T any](a, b func(T)) func(T) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(v T) {
		a(v)
		b(v)
	}
}
