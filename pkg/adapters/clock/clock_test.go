package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual(t *testing.T) {
	c := NewManual()
	assert.Equal(t, time.Duration(0), c.Now())

	c.Advance(20 * time.Millisecond)
	c.Advance(-time.Second)
	assert.Equal(t, 20*time.Millisecond, c.Now())
}

func TestStepped(t *testing.T) {
	c := NewManual()
	s := c.Stepped(20 * time.Millisecond)

	assert.Equal(t, time.Duration(0), s.Now())
	assert.Equal(t, 20*time.Millisecond, s.Now())
	assert.Equal(t, 40*time.Millisecond, s.Now())
	assert.Equal(t, 40*time.Millisecond, c.Now())
}

func TestMonotonic(t *testing.T) {
	c := NewMonotonic()
	a := c.Now()
	b := c.Now()
	assert.GreaterOrEqual(t, b, a)
}
