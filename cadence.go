package cadence

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/cadence/internal/runtime"
	"github.com/aretw0/cadence/internal/validator"
	"github.com/aretw0/cadence/pkg/action"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/aretw0/cadence/pkg/schema"
)

// Engine is the high-level entry point for the cadence library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime     *runtime.Engine
	table       *schema.Table
	hooks       domain.LifecycleHooks
	clock       ports.Clock
	logger      *slog.Logger
	runtimeOpts []runtime.EngineOption
	Name        string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks. Repeated calls merge.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock sets the time source sampled at the start of every tick.
// The default is the process monotonic clock.
func WithClock(c ports.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithName labels the engine in logs.
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// New validates table and returns an engine ready to tick.
// Validation failures are returned as a *schema.Report.
func New(table *schema.Table, opts ...Option) (*Engine, error) {
	if table == nil {
		return nil, fmt.Errorf("table is required")
	}
	if err := validator.Validate(table).Err(); err != nil {
		return nil, fmt.Errorf("invalid table: %w", err)
	}

	eng := &Engine{table: table}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("table", eng.Name)
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithClock(eng.clock),
	}
	runtimeOpts = append(runtimeOpts, eng.runtimeOpts...)

	eng.runtime = runtime.NewEngine(table, runtimeOpts...)
	return eng, nil
}

// Tick runs one evaluation cycle and returns the resulting snapshot.
// Tick must be driven from a single goroutine.
func (e *Engine) Tick() *domain.Snapshot {
	return e.runtime.Tick()
}

// Apply runs an action between ticks, for example a reset requested by an
// operator console. It must not be called concurrently with Tick.
func (e *Engine) Apply(a action.Action) {
	e.runtime.Apply(a)
}

// Snapshot returns the flag values as of the last tick or Apply.
func (e *Engine) Snapshot() *domain.Snapshot {
	return e.runtime.Snapshot()
}

// Flag looks up a flag of the running table by name.
func (e *Engine) Flag(name string) (*domain.Flag, error) {
	f, ok := e.table.Flag(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrFlagNotFound, name)
	}
	return f, nil
}

// TickCount returns the number of completed ticks.
func (e *Engine) TickCount() uint64 {
	return e.runtime.TickCount()
}

// Now returns the clock reading of the last tick.
func (e *Engine) Now() time.Duration {
	return e.runtime.Now()
}

// Pending returns the names of the timed actions and waits still running.
func (e *Engine) Pending() []string {
	tasks := e.runtime.Tasks()
	names := make([]string, 0, len(tasks))
	for _, t := range tasks {
		names = append(names, t.Name())
	}
	return names
}

// Table returns the table being executed.
func (e *Engine) Table() *schema.Table {
	return e.table
}

// BindingInfo describes one binding for introspection tools.
type BindingInfo struct {
	Index     int      `json:"index"`
	Name      string   `json:"name,omitempty"`
	Edge      string   `json:"edge"`
	Condition string   `json:"condition"`
	Actions   []string `json:"actions"`
	Writes    []string `json:"writes"`
}

// Inspect returns the bindings in evaluation order.
func (e *Engine) Inspect() []BindingInfo {
	return Describe(e.table)
}

// Describe returns the bindings of table in evaluation order.
func Describe(table *schema.Table) []BindingInfo {
	out := make([]BindingInfo, 0, len(table.Bindings))
	for _, b := range table.Bindings {
		info := BindingInfo{
			Index:     b.Index,
			Name:      b.Name,
			Edge:      b.Edge.String(),
			Condition: "<nil>",
		}
		if b.Cond != nil {
			info.Condition = b.Cond.String()
		}
		for _, a := range b.Actions {
			info.Actions = append(info.Actions, a.Name())
		}
		for _, w := range b.Writes() {
			info.Writes = append(info.Writes, describeWrite(w))
		}
		out = append(out, info)
	}
	return out
}

func describeWrite(w domain.Write) string {
	s := w.Flag.Name() + "=" + w.Kind.String()
	if w.Deferred {
		s += " (later)"
	}
	if w.Conditional {
		s += " (guarded)"
	}
	return s
}
