package observability

import (
	"strings"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by engine hooks.
type Metrics struct {
	Ticks      prometheus.Counter
	TickPeriod prometheus.Histogram
	Fires      *prometheus.CounterVec
	Timed      *prometheus.CounterVec
	Faults     *prometheus.CounterVec
	Violations *prometheus.CounterVec
	Flags      *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cadence_ticks_total",
			Help: "Total number of completed ticks",
		}),
		TickPeriod: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cadence_tick_period_seconds",
			Help:    "Elapsed time between consecutive ticks",
			Buckets: []float64{.005, .01, .015, .02, .025, .03, .05, .1, .25},
		}),
		Fires: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cadence_binding_fires_total",
			Help: "Total number of binding firings",
		}, []string{"binding"}),
		Timed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cadence_timed_events_total",
			Help: "Timed action activity by target flag and phase",
		}, []string{"target", "phase"}),
		Faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cadence_source_faults_total",
			Help: "External sources that failed and were read as false",
		}, []string{"source"}),
		Violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cadence_invariant_violations_total",
			Help: "Exclusive groups found with more than one true flag",
		}, []string{"group"}),
		Flags: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cadence_flag",
			Help: "Current flag value (1 true, 0 false)",
		}, []string{"flag"}),
	}
	reg.MustRegister(m.Ticks, m.TickPeriod, m.Fires, m.Timed, m.Faults, m.Violations, m.Flags)
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTick: func(e *domain.TickEvent) {
			m.Ticks.Inc()
			if e.Tick > 1 {
				m.TickPeriod.Observe(e.Elapsed.Seconds())
			}
			if e.Snapshot != nil {
				for name, v := range e.Snapshot.Flags {
					m.Flags.WithLabelValues(name).Set(gauge(v))
				}
			}
		},
		OnBinding: func(e *domain.BindingEvent) {
			if !e.Stop {
				m.Fires.WithLabelValues(e.Binding).Inc()
			}
		},
		OnTimed: func(e *domain.TimedEvent) {
			m.Timed.WithLabelValues(e.Target, string(e.Phase)).Inc()
		},
		OnFault: func(e *domain.FaultEvent) {
			m.Faults.WithLabelValues(e.Source).Inc()
		},
		OnInvariant: func(e *domain.InvariantEvent) {
			m.Violations.WithLabelValues(strings.Join(e.Group, ",")).Inc()
		},
	}
}

func gauge(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
