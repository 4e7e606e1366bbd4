package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/aretw0/cadence"
	"github.com/aretw0/cadence/internal/logging"
	"github.com/aretw0/cadence/pkg/domain"
)

// Failure is an expectation that did not hold.
type Failure struct {
	Step string
	Tick uint64
	Flag string
	Want bool
	Got  bool
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: tick %d: %s = %v, want %v", f.Step, f.Tick, f.Flag, f.Got, f.Want)
}

// Result is the outcome of a played script.
type Result struct {
	Name      string
	Snapshots []*domain.Snapshot
	Failures  []Failure
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool { return len(r.Failures) == 0 }

// Option configures Play.
type Option func(*player)

type player struct {
	logger  *slog.Logger
	observe func(*domain.Snapshot)
	engine  []cadence.Option
}

// WithLogger logs every step at DEBUG and every failure at WARN.
func WithLogger(logger *slog.Logger) Option {
	return func(p *player) {
		p.logger = logger
	}
}

// WithObserver calls fn with every tick snapshot.
func WithObserver(fn func(*domain.Snapshot)) Option {
	return func(p *player) {
		p.observe = fn
	}
}

// WithEngineOptions passes options to the engine, for example hooks.
func WithEngineOptions(opts ...cadence.Option) Option {
	return func(p *player) {
		p.engine = append(p.engine, opts...)
	}
}

// Play runs s on a fresh bench.
//
// Expectation failures do not stop the script; they are collected and the
// returned error wraps domain.ErrScenarioFailed. Unknown signals and flags
// stop the script immediately.
func Play(ctx context.Context, s *Script, opts ...Option) (*Result, error) {
	p := &player{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(p)
	}

	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}
	bench, err := NewBench(cfg, s.Period, p.engine...)
	if err != nil {
		return nil, err
	}

	res := &Result{Name: s.Name}
	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		label := step.Label(i)
		p.logger.Debug("scenario step", "scenario", s.Name, "step", label)

		if err := p.step(bench, step, label, res); err != nil {
			return res, fmt.Errorf("%s: %w", label, err)
		}
	}

	if !res.Passed() {
		return res, fmt.Errorf("%w: %s: %d expectation(s) failed", domain.ErrScenarioFailed, s.Name, len(res.Failures))
	}
	return res, nil
}

func (p *player) step(b *Bench, step Step, label string, res *Result) error {
	for _, name := range sortedKeys(step.Set) {
		if err := b.Board.Set(name, step.Set[name]); err != nil {
			return err
		}
	}
	for _, name := range step.Pulse {
		if err := b.Board.Pulse(name); err != nil {
			return err
		}
	}
	b.Clock.Advance(step.Advance)

	ticks := step.Tick
	if step.Wait > 0 {
		ticks += int((step.Wait + b.Period - 1) / b.Period)
	}
	for n := 0; n < ticks; n++ {
		snap := b.Tick()
		res.Snapshots = append(res.Snapshots, snap)
		if p.observe != nil {
			p.observe(snap)
		}
	}

	snap := b.Engine.Snapshot()
	for _, name := range sortedKeys(step.Expect) {
		if _, err := b.Engine.Flag(name); err != nil {
			return err
		}
		want := step.Expect[name]
		if got := snap.Get(name); got != want {
			f := Failure{Step: label, Tick: snap.Tick, Flag: name, Want: want, Got: got}
			p.logger.Warn("scenario expectation failed", "failure", f.String())
			res.Failures = append(res.Failures, f)
		}
	}
	return nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
