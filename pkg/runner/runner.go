package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aretw0/cadence/pkg/action"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/ports"
)

// Engine is the part of the cadence engine the runner drives.
type Engine interface {
	Tick() *domain.Snapshot
	Apply(a action.Action)
}

// Settler bounds pulsed inputs to the tick that observes them. Begin runs
// before every tick and Settle after it.
type Settler interface {
	Begin()
	Settle()
}

// Ticker delivers tick instants. *time.Ticker satisfies it through wallTicker.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type wallTicker struct{ t *time.Ticker }

func (w wallTicker) C() <-chan time.Time { return w.t.C }
func (w wallTicker) Stop()               { w.t.Stop() }

func newWallTicker(d time.Duration) Ticker { return wallTicker{time.NewTicker(d)} }

// Runner drives an engine at a fixed period.
//
// The engine is only ever touched from the goroutine running Run. Other
// goroutines read state through Snapshot and queue actions with Submit.
type Runner struct {
	Logger     *slog.Logger
	Period     time.Duration
	Publishers []ports.Publisher
	Settler    Settler
	MaxTicks   uint64

	engine    Engine
	newTicker func(time.Duration) Ticker
	commands  chan action.Action
	last      atomic.Pointer[domain.Snapshot]
	running   atomic.Bool
}

// NewRunner creates a runner for engine.
func NewRunner(engine Engine, opts ...Option) *Runner {
	r := &Runner{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Period:    DefaultPeriod,
		engine:    engine,
		newTicker: newWallTicker,
		commands:  make(chan action.Action, DefaultCommandBufferSize),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ErrAlreadyRunning is returned by Run when the runner is already running.
var ErrAlreadyRunning = errors.New("runner already running")

// Run ticks the engine until ctx is cancelled or MaxTicks is reached.
// It returns nil on cancellation and on reaching MaxTicks.
func (r *Runner) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer r.running.Store(false)

	ticker := r.newTicker(r.Period)
	defer ticker.Stop()

	r.Logger.Info("runner started", "period", r.Period)
	var ticks uint64
	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("runner stopped", "ticks", ticks, "reason", ctx.Err())
			return nil
		case a := <-r.commands:
			r.engine.Apply(a)
			r.Logger.Debug("applied action", "action", a.Name())
		case <-ticker.C():
			r.step(ctx)
			ticks++
			if r.MaxTicks > 0 && ticks >= r.MaxTicks {
				r.Logger.Info("runner finished", "ticks", ticks)
				return nil
			}
		}
	}
}

// RunUntilSignal runs until ctx is cancelled or the process receives
// SIGINT or SIGTERM.
func (r *Runner) RunUntilSignal(ctx context.Context) error {
	signals := NewSignalManager(ctx)
	defer signals.Stop()
	return r.Run(signals.Context())
}

func (r *Runner) step(ctx context.Context) {
	start := time.Now()
	prev := r.last.Load()
	if r.Settler != nil {
		r.Settler.Begin()
	}
	snap := r.engine.Tick()
	if r.Settler != nil {
		r.Settler.Settle()
	}
	r.last.Store(snap)

	diff := domain.Diff(prev, snap)
	for _, pub := range r.Publishers {
		if err := pub.Publish(ctx, snap, diff); err != nil && ctx.Err() == nil {
			r.Logger.Warn("publish failed", "tick", snap.Tick, "err", err)
		}
	}

	if took := time.Since(start); took > r.Period {
		r.Logger.Warn("tick overran its period", "tick", snap.Tick, "took", took, "period", r.Period)
	}
}

// Snapshot returns the snapshot of the last tick, or nil before the first.
// Safe for concurrent use.
func (r *Runner) Snapshot() *domain.Snapshot {
	return r.last.Load()
}

// Submit queues a to run between two ticks. It blocks while the queue is full
// and fails when ctx ends first.
func (r *Runner) Submit(ctx context.Context, a action.Action) error {
	select {
	case r.commands <- a:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("submit %s: %w", a.Name(), ctx.Err())
	}
}
