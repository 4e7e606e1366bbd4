package schema

import (
	"time"

	"github.com/aretw0/cadence/pkg/action"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/trigger"
)

// Binding attaches actions to an edge of a condition.
type Binding struct {
	Index   int
	Name    string
	Cond    trigger.Condition
	Edge    domain.Edge
	Actions []action.Action
}

// Label returns the binding name, or its edge and condition when unnamed.
func (b *Binding) Label() string {
	if b.Name != "" {
		return b.Name
	}
	return b.Edge.String() + " " + b.Cond.String()
}

// Writes returns the flag writes of every action, in action order.
func (b *Binding) Writes() []domain.Write {
	var ws []domain.Write
	for _, a := range b.Actions {
		ws = append(ws, a.Writes()...)
	}
	return ws
}

// Table is an ordered orchestration table.
type Table struct {
	Flags    []*domain.Flag
	Named    []*trigger.RefCond
	Groups   [][]*domain.Flag
	Bindings []*Binding
}

// Flag looks a flag up by name.
func (t *Table) Flag(name string) (*domain.Flag, bool) {
	for _, f := range t.Flags {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// Snapshot captures every flag of the table.
func (t *Table) Snapshot(tick uint64, now time.Duration) *domain.Snapshot {
	return domain.Capture(tick, now, t.Flags)
}
