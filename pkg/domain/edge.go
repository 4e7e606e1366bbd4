package domain

import "fmt"

// Edge is the kind of transition a binding reacts to.
type Edge int

const (
	// Rising fires when the condition goes false -> true.
	Rising Edge = iota
	// Falling fires when the condition goes true -> false.
	Falling
	// AnyChange fires on either transition.
	AnyChange
	// WhileTrue starts its actions on the rising edge and stops them on the falling edge.
	WhileTrue
)

var edgeNames = [...]string{"rising", "falling", "change", "while_true"}

func (e Edge) String() string {
	if e < 0 || int(e) >= len(edgeNames) {
		return fmt.Sprintf("edge(%d)", int(e))
	}
	return edgeNames[e]
}

// ParseEdge converts a name produced by Edge.String back into an Edge.
func ParseEdge(s string) (Edge, error) {
	for i, n := range edgeNames {
		if n == s {
			return Edge(i), nil
		}
	}
	return 0, fmt.Errorf("unknown edge kind %q", s)
}

// Transition is what a binding observed between two evaluations.
type Transition int

const (
	NoChange Transition = iota
	Rose
	Fell
)

// Observe classifies the move from prev to cur.
func Observe(prev, cur bool) Transition {
	switch {
	case !prev && cur:
		return Rose
	case prev && !cur:
		return Fell
	default:
		return NoChange
	}
}

// Matches reports whether a transition triggers the one-shot edge kinds.
// WhileTrue is handled separately by the engine since it has a begin and an end.
func (e Edge) Matches(t Transition) bool {
	switch e {
	case Rising:
		return t == Rose
	case Falling:
		return t == Fell
	case AnyChange:
		return t != NoChange
	}
	return false
}
