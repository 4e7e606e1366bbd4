package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/cadence/pkg/ports"
)

// DefaultPeriod is the tick period used when none is configured.
const DefaultPeriod = 20 * time.Millisecond

// DefaultCommandBufferSize is the number of queued Submit calls the runner accepts
// before Submit blocks.
const DefaultCommandBufferSize = 16

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithPeriod sets the tick period.
func WithPeriod(period time.Duration) Option {
	return func(r *Runner) {
		if period > 0 {
			r.Period = period
		}
	}
}

// WithPublisher hands every snapshot and its diff to pub after the tick.
func WithPublisher(pub ports.Publisher) Option {
	return func(r *Runner) {
		r.Publishers = append(r.Publishers, pub)
	}
}

// WithSettler brackets every tick with s so pulsed inputs last one tick.
func WithSettler(s Settler) Option {
	return func(r *Runner) {
		r.Settler = s
	}
}

// WithMaxTicks stops the loop after n ticks. Zero runs until cancelled.
func WithMaxTicks(n uint64) Option {
	return func(r *Runner) {
		r.MaxTicks = n
	}
}

// WithTicker replaces the wall-clock ticker, for tests.
func WithTicker(newTicker func(time.Duration) Ticker) Option {
	return func(r *Runner) {
		r.newTicker = newTicker
	}
}
