package scenario

import (
	"fmt"
	"time"

	"github.com/aretw0/cadence"
	"github.com/aretw0/cadence/pkg/adapters/clock"
	"github.com/aretw0/cadence/pkg/adapters/memory"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/scoring"
)

// DefaultPeriod is the tick period of scripts that do not set one.
const DefaultPeriod = 20 * time.Millisecond

// Bench is a scoring table wired to an in-memory signal board and a manual
// clock that advances one period per tick.
type Bench struct {
	Board  *memory.Board
	Clock  *clock.Manual
	Table  *scoring.Table
	Engine *cadence.Engine
	Period time.Duration
}

// NewBench builds a bench. opts are passed to cadence.New after the clock
// option, so they may add hooks or a logger.
func NewBench(cfg scoring.Config, period time.Duration, opts ...cadence.Option) (*Bench, error) {
	if period <= 0 {
		period = DefaultPeriod
	}
	board := memory.NewBoard(scoring.SignalNames()...)
	table, err := scoring.New(scoring.NewSignals(board.Read), cfg)
	if err != nil {
		return nil, err
	}

	clk := clock.NewManual()
	opts = append([]cadence.Option{cadence.WithClock(clk.Stepped(period)), cadence.WithName("scoring")}, opts...)
	eng, err := cadence.New(table.Schema(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	return &Bench{
		Board:  board,
		Clock:  clk,
		Table:  table,
		Engine: eng,
		Period: period,
	}, nil
}

// Tick runs one engine tick and ends the pulses it was given.
func (b *Bench) Tick() *domain.Snapshot {
	b.Board.Begin()
	snap := b.Engine.Tick()
	b.Board.Settle()
	return snap
}
