package trigger

import (
	"strings"

	"github.com/aretw0/cadence/pkg/domain"
)

// Condition is a side-effect-free boolean expression re-evaluated every tick.
type Condition interface {
	Evaluate(s *Sample) bool
	String() string
}

// Composite is implemented by conditions that have operands.
type Composite interface {
	Operands() []Condition
}

// --- Leaves ---

type flagCond struct {
	f *domain.Flag
}

// Flag reads a flag.
func Flag(f *domain.Flag) Condition {
	return &flagCond{f: f}
}

func (c *flagCond) Evaluate(s *Sample) bool {
	if c.f == nil {
		return false
	}
	if s != nil && s.low[c.f] {
		return false
	}
	return c.f.Get()
}

func (c *flagCond) String() string {
	if c.f == nil {
		return "<nil flag>"
	}
	return c.f.Name()
}

// FlagOf returns the flag read by c when c is a bare flag read.
func FlagOf(c Condition) (*domain.Flag, bool) {
	fc, ok := c.(*flagCond)
	if !ok || fc.f == nil {
		return nil, false
	}
	return fc.f, true
}

type constCond bool

// True always evaluates to true.
var True Condition = constCond(true)

// False always evaluates to false.
var False Condition = constCond(false)

func (c constCond) Evaluate(*Sample) bool { return bool(c) }

func (c constCond) String() string {
	if c {
		return "true"
	}
	return "false"
}

// --- Combinators ---

type andCond struct{ ops []Condition }

// And is true when every operand is true. And() with no operands is true.
// Every operand is evaluated even after one returned false.
func And(ops ...Condition) Condition {
	return &andCond{ops: normalize(ops)}
}

func (c *andCond) Evaluate(s *Sample) bool {
	out := true
	for _, op := range c.ops {
		if !op.Evaluate(s) {
			out = false
		}
	}
	return out
}

func (c *andCond) Operands() []Condition { return c.ops }
func (c *andCond) String() string        { return join(c.ops, " && ", "true") }

type orCond struct{ ops []Condition }

// Or is true when at least one operand is true. Or() with no operands is false.
// Every operand is evaluated even after one returned true.
func Or(ops ...Condition) Condition {
	return &orCond{ops: normalize(ops)}
}

func (c *orCond) Evaluate(s *Sample) bool {
	out := false
	for _, op := range c.ops {
		if op.Evaluate(s) {
			out = true
		}
	}
	return out
}

func (c *orCond) Operands() []Condition { return c.ops }
func (c *orCond) String() string        { return join(c.ops, " || ", "false") }

type notCond struct{ op Condition }

// Not negates op. A nil op is treated as False, so Not(nil) is true; use it
// only over conditions that are positive requirements themselves.
func Not(op Condition) Condition {
	if op == nil {
		op = False
	}
	return &notCond{op: op}
}

func (c *notCond) Evaluate(s *Sample) bool { return !c.op.Evaluate(s) }
func (c *notCond) Operands() []Condition   { return []Condition{c.op} }
func (c *notCond) String() string          { return "!" + c.op.String() }

// normalize replaces nil operands with False (fail-safe).
func normalize(ops []Condition) []Condition {
	out := make([]Condition, len(ops))
	for i, op := range ops {
		if op == nil {
			op = False
		}
		out[i] = op
	}
	return out
}

func join(ops []Condition, sep, empty string) string {
	if len(ops) == 0 {
		return empty
	}
	if len(ops) == 1 {
		return ops[0].String()
	}
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = op.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}
