package trigger

import (
	"testing"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestCombinators(t *testing.T) {
	a := domain.NewFlag("a")
	b := domain.NewFlag("b")
	s := NewSample(1, 0, nil)

	and := And(Flag(a), Flag(b))
	or := Or(Flag(a), Flag(b))
	not := Not(Flag(a))

	tests := []struct {
		a, b            bool
		wantAnd, wantOr bool
	}{
		{false, false, false, false},
		{true, false, false, true},
		{false, true, false, true},
		{true, true, true, true},
	}
	for _, tt := range tests {
		a.Set(tt.a)
		b.Set(tt.b)
		assert.Equal(t, tt.wantAnd, and.Evaluate(s), "and(%v,%v)", tt.a, tt.b)
		assert.Equal(t, tt.wantOr, or.Evaluate(s), "or(%v,%v)", tt.a, tt.b)
		assert.Equal(t, !tt.a, not.Evaluate(s))
	}
}

func TestCombinators_Identities(t *testing.T) {
	s := NewSample(1, 0, nil)
	assert.True(t, And().Evaluate(s))
	assert.False(t, Or().Evaluate(s))
	assert.False(t, And(True, nil).Evaluate(s), "nil operand must read as false")
	assert.False(t, Or(nil).Evaluate(s))
	assert.False(t, Flag(nil).Evaluate(s))
}

func TestAnd_EvaluatesEveryOperand(t *testing.T) {
	calls := 0
	src := Source("counted", func() bool { calls++; return true })

	cond := And(False, src)
	cond.Evaluate(NewSample(1, 0, nil))
	cond.Evaluate(NewSample(2, 0, nil))

	assert.Equal(t, 2, calls, "sources behind a false operand are still sampled every tick")
}

func TestProbe_ReadsFlagsLow(t *testing.T) {
	home := domain.NewFlag("homeAll")
	home.SetTrue()

	s := NewSample(1, 0, nil)
	c := Flag(home)
	assert.True(t, c.Evaluate(s))
	assert.False(t, c.Evaluate(s.Probe(home)))
	assert.True(t, Not(c).Evaluate(s.Probe(home)))
	assert.True(t, s.Probe(home).Probing())
}

func TestString(t *testing.T) {
	a := domain.NewFlag("coral")
	b := domain.NewFlag("l4")
	c := And(Flag(a), Not(Flag(b)), Source("pilot.ready", nil))
	assert.Equal(t, "(coral && !l4 && pilot.ready)", c.String())
	assert.Equal(t, "coral", Or(Flag(a)).String())
	assert.Equal(t, "false", Or().String())
}

func TestWalk_FlagsAndSources(t *testing.T) {
	coral := domain.NewFlag("coral")
	algae := domain.NewFlag("algae")
	ready := Source("ready", func() bool { return true })

	staged := Define("staged", Or(Flag(coral), Flag(algae)))
	cond := And(ready, staged, Not(Flag(coral)))

	assert.Equal(t, []*domain.Flag{coral, algae}, Flags(cond))
	assert.Equal(t, []*SourceCond{ready}, Sources(cond))

	refs := Refs(cond)
	if assert.Len(t, refs, 1) {
		assert.Equal(t, "staged", refs[0].Name())
	}
}

func TestRef_UnresolvedIsFalseAndCyclesTerminate(t *testing.T) {
	a := Ref("a")
	b := Ref("b")
	assert.False(t, a.Evaluate(NewSample(1, 0, nil)))

	a.Resolve(Not(b))
	b.Resolve(a)

	visited := 0
	Walk(a, func(Condition) bool { visited++; return true })
	assert.Equal(t, 3, visited, "a, !b, b; a is not re-entered")
}
