package observability

import (
	"log/slog"

	"github.com/aretw0/cadence/pkg/domain"
)

// LogHooks returns hooks that write engine activity to logger. Binding and
// timed activity is logged at INFO, faults at WARN.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBinding: func(e *domain.BindingEvent) {
			logger.Info("binding",
				"tick", e.Tick,
				"binding", e.Binding,
				"edge", e.Edge.String(),
				"stop", e.Stop,
				"pulse", e.Pulse,
			)
		},
		OnTimed: func(e *domain.TimedEvent) {
			logger.Info("timed",
				"tick", e.Tick,
				"target", e.Target,
				"phase", string(e.Phase),
				"remaining", e.Remaining,
			)
		},
		OnFault: func(e *domain.FaultEvent) {
			logger.Warn("source fault", "tick", e.Tick, "source", e.Source, "err", e.Err)
		},
	}
}
