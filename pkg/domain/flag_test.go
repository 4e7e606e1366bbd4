package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlag_WritesAreImmediate(t *testing.T) {
	f := NewFlag("coral")
	assert.False(t, f.Get())

	f.SetTrue()
	assert.True(t, f.Get(), "write must be visible to the next read")
	assert.False(t, f.Previous(), "previous only moves on Latch")

	f.Latch()
	assert.True(t, f.Previous())

	f.Toggle()
	assert.False(t, f.Get())
	assert.True(t, f.Fell())

	f.Set(true)
	assert.False(t, f.Fell())
	assert.False(t, f.Rose(), "true -> true since the latch is not a rise")
}

func TestFlag_ToggleToTrue(t *testing.T) {
	f := NewFlag("homeAll")

	f.ToggleToTrue()
	assert.True(t, f.Get())
	assert.Equal(t, uint64(0), f.Pulses(), "a false flag rises normally, no pulse")

	f.ToggleToTrue()
	assert.True(t, f.Get())
	assert.Equal(t, uint64(1), f.Pulses(), "an already-true flag records a pulse")
}

func TestEdge_Matches(t *testing.T) {
	tests := []struct {
		edge Edge
		tr   Transition
		want bool
	}{
		{Rising, Rose, true},
		{Rising, Fell, false},
		{Falling, Fell, true},
		{Falling, NoChange, false},
		{AnyChange, Rose, true},
		{AnyChange, Fell, true},
		{AnyChange, NoChange, false},
		{WhileTrue, Rose, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.edge.Matches(tt.tr), "%s / %v", tt.edge, tt.tr)
	}
}

func TestParseEdge(t *testing.T) {
	for _, e := range []Edge{Rising, Falling, AnyChange, WhileTrue} {
		got, err := ParseEdge(e.String())
		assert.NoError(t, err)
		assert.Equal(t, e, got)
	}
	_, err := ParseEdge("sideways")
	assert.Error(t, err)
}

func TestHooks_Merge(t *testing.T) {
	var calls []string
	a := LifecycleHooks{OnFault: func(*FaultEvent) { calls = append(calls, "a") }}
	b := LifecycleHooks{OnFault: func(*FaultEvent) { calls = append(calls, "b") }}

	merged := a.Merge(b)
	merged.OnFault(&FaultEvent{})
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Nil(t, a.Merge(LifecycleHooks{}).OnTick)
}
