package action

import (
	"log/slog"
	"time"

	"github.com/aretw0/cadence/internal/logging"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/trigger"
)

const period = 20 * time.Millisecond

// testScope is a minimal tick loop: it polls tasks like the engine does,
// skipping tasks scheduled during the current tick.
type testScope struct {
	tick   uint64
	now    time.Duration
	sample *trigger.Sample

	tasks  []Task
	since  map[Task]uint64
	events []domain.TimedEvent
}

func newTestScope() *testScope {
	sc := &testScope{since: make(map[Task]uint64)}
	sc.sample = trigger.NewSample(0, 0, nil)
	return sc
}

func (s *testScope) Sample() *trigger.Sample { return s.sample }
func (s *testScope) Logger() *slog.Logger    { return logging.NewNop() }

func (s *testScope) Schedule(t Task) {
	if _, ok := s.since[t]; !ok {
		s.tasks = append(s.tasks, t)
	}
	s.since[t] = s.tick
}

func (s *testScope) Unschedule(t Task) {
	if _, ok := s.since[t]; !ok {
		return
	}
	delete(s.since, t)
	for i, p := range s.tasks {
		if p == t {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

func (s *testScope) Tasks() []Task { return append([]Task(nil), s.tasks...) }

func (s *testScope) Timed(target string, phase domain.TimedPhase, remaining time.Duration) {
	s.events = append(s.events, domain.TimedEvent{Target: target, Phase: phase, Remaining: remaining})
}

// step starts a new tick, runs fn as the binding phase and then polls tasks.
func (s *testScope) step(fn func()) {
	s.tick++
	s.now += period
	s.sample = trigger.NewSample(s.tick, s.now, nil)
	if fn != nil {
		fn()
	}
	for _, t := range s.Tasks() {
		at, ok := s.since[t]
		if !ok || at == s.tick {
			continue
		}
		if t.Poll(s, period) {
			s.Unschedule(t)
		}
	}
}

func (s *testScope) phases() []domain.TimedPhase {
	out := make([]domain.TimedPhase, len(s.events))
	for i, e := range s.events {
		out[i] = e.Phase
	}
	return out
}
