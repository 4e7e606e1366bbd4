package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/cadence"
	"github.com/aretw0/cadence/internal/config"
	"github.com/aretw0/cadence/pkg/action"
	"github.com/aretw0/cadence/pkg/adapters/clock"
	"github.com/aretw0/cadence/pkg/adapters/memory"
	"github.com/aretw0/cadence/pkg/observability"
	"github.com/aretw0/cadence/pkg/scoring"
	"github.com/prometheus/client_golang/prometheus"
)

// Stack is a scoring engine wired for real-time use: an in-memory signal
// board, a monotonic clock, metrics and logging hooks.
type Stack struct {
	Board    *memory.Board
	Table    *scoring.Table
	Engine   *cadence.Engine
	Registry *prometheus.Registry
	Metrics  *observability.Metrics
}

// Actions returns the reset actions operators may trigger by name.
func (s *Stack) Actions() map[string]action.Action {
	return map[string]action.Action{
		"clear-states":  s.Table.ClearStates(),
		"partial-reset": s.Table.PartialReset(),
		"clear-staged":  s.Table.ClearStaged(),
	}
}

// createStack initializes a scoring engine with standard CLI conventions.
func createStack(cfg *config.Config, logger *slog.Logger) (*Stack, error) {
	board := memory.NewBoard(scoring.SignalNames()...)
	table, err := scoring.New(scoring.NewSignals(board.Read), cfg.Scoring)
	if err != nil {
		return nil, fmt.Errorf("error building scoring table: %w", err)
	}

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	engine, err := cadence.New(table.Schema(),
		cadence.WithName("scoring"),
		cadence.WithLogger(logger),
		cadence.WithClock(clock.NewMonotonic()),
		cadence.WithLifecycleHooks(metrics.Hooks()),
		cadence.WithLifecycleHooks(observability.LogHooks(logger)),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}

	return &Stack{
		Board:    board,
		Table:    table,
		Engine:   engine,
		Registry: reg,
		Metrics:  metrics,
	}, nil
}

// BuildTable builds the scoring table over a board that reads every signal
// false. The table is returned together with its validation error so
// tooling can still render a broken table.
func BuildTable(cfg scoring.Config) (*scoring.Table, error) {
	board := memory.NewBoard(scoring.SignalNames()...)
	return scoring.New(scoring.NewSignals(board.Read), cfg)
}
