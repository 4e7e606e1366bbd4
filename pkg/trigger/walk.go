package trigger

import "github.com/aretw0/cadence/pkg/domain"

// Walk visits c and its operands depth-first. Each named reference is entered
// at most once, so Walk terminates even on cyclic references.
// Returning false from fn skips the operands of that node.
func Walk(c Condition, fn func(Condition) bool) {
	seen := make(map[*RefCond]bool)
	var visit func(Condition)
	visit = func(c Condition) {
		if c == nil {
			return
		}
		if r, ok := c.(*RefCond); ok {
			if seen[r] {
				return
			}
			seen[r] = true
		}
		if !fn(c) {
			return
		}
		if comp, ok := c.(Composite); ok {
			for _, op := range comp.Operands() {
				visit(op)
			}
		}
	}
	visit(c)
}

// Flags returns the distinct flags read by c, in first-seen order.
func Flags(c Condition) []*domain.Flag {
	var out []*domain.Flag
	seen := make(map[*domain.Flag]bool)
	Walk(c, func(n Condition) bool {
		if f, ok := FlagOf(n); ok && !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
		return true
	})
	return out
}

// Sources returns the distinct external sources read by c.
func Sources(c Condition) []*SourceCond {
	var out []*SourceCond
	seen := make(map[*SourceCond]bool)
	Walk(c, func(n Condition) bool {
		if src, ok := n.(*SourceCond); ok && !seen[src] {
			seen[src] = true
			out = append(out, src)
		}
		return true
	})
	return out
}

// Refs returns the named references directly reachable from c without
// entering other references. Used to build the reference dependency graph.
func Refs(c Condition) []*RefCond {
	var out []*RefCond
	var visit func(Condition)
	visit = func(n Condition) {
		if n == nil {
			return
		}
		if r, ok := n.(*RefCond); ok {
			out = append(out, r)
			return
		}
		if comp, ok := n.(Composite); ok {
			for _, op := range comp.Operands() {
				visit(op)
			}
		}
	}
	if comp, ok := c.(Composite); ok {
		for _, op := range comp.Operands() {
			visit(op)
		}
	}
	return out
}
