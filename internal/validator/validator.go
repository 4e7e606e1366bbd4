package validator

import (
	"strconv"
	"strings"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/schema"
	"github.com/aretw0/cadence/pkg/trigger"
)

// Validate statically checks a table and returns every defect found.
// The returned report is never nil; use Err to turn it into an error.
//
// Checks:
//   - every binding has a condition and at least one action
//   - every flag read or written is registered in the table
//   - named conditions form no cycle
//   - no binding writes the same flag true and false in one firing
//   - a binding that may set a member of an exclusive group true also
//     clears every other member in the same firing
func Validate(t *schema.Table) *schema.Report {
	r := &schema.Report{}
	checkFlags(t, r)
	checkBindings(t, r)
	checkCycles(t, r)
	checkExclusiveGroups(t, r)
	return r
}

func checkFlags(t *schema.Table, r *schema.Report) {
	seen := make(map[string]*domain.Flag, len(t.Flags))
	for _, f := range t.Flags {
		if prev, ok := seen[f.Name()]; ok && prev != f {
			r.Add(schema.IssueDuplicateFlag, f.Name(), "two distinct flags share the name")
			continue
		}
		seen[f.Name()] = f
	}

	registered := make(map[*domain.Flag]bool, len(t.Flags))
	for _, f := range t.Flags {
		registered[f] = true
	}
	for _, g := range t.Groups {
		for _, f := range g {
			if !registered[f] {
				r.Add(schema.IssueUnregistered, f.Name(), "exclusive group member is not a table flag")
			}
		}
	}
	reported := make(map[*domain.Flag]bool)
	for _, b := range t.Bindings {
		var used []*domain.Flag
		if b.Cond != nil {
			used = append(used, trigger.Flags(b.Cond)...)
		}
		for _, w := range b.Writes() {
			used = append(used, w.Flag)
		}
		for _, f := range used {
			if f == nil || registered[f] || reported[f] {
				continue
			}
			reported[f] = true
			r.Add(schema.IssueUnregistered, f.Name(), "used by binding %q but not a table flag", b.Label())
		}
	}
}

func checkBindings(t *schema.Table, r *schema.Report) {
	for i, b := range t.Bindings {
		if b.Cond == nil {
			r.Add(schema.IssueEmptyBinding, bindingName(i, b), "binding has no condition")
			continue
		}
		if len(b.Actions) == 0 {
			r.Add(schema.IssueEmptyBinding, bindingName(i, b), "binding has no actions")
			continue
		}

		sets := make(map[*domain.Flag]bool)
		clears := make(map[*domain.Flag]bool)
		for _, w := range b.Writes() {
			if w.Deferred || w.Conditional || w.Flag == nil {
				continue
			}
			switch w.Kind {
			case domain.WriteTrue:
				sets[w.Flag] = true
			case domain.WriteFalse:
				clears[w.Flag] = true
			}
		}
		for f := range sets {
			if clears[f] {
				r.Add(schema.IssueConflict, bindingName(i, b), "writes %s both true and false in one firing", f.Name())
			}
		}
	}
}

// checkCycles looks for cycles in the named-condition reference graph.
// A cyclic reference would never terminate when evaluated.
func checkCycles(t *schema.Table, r *schema.Report) {
	var refs []*trigger.RefCond
	known := make(map[*trigger.RefCond]bool)
	collect := func(c trigger.Condition) {
		trigger.Walk(c, func(n trigger.Condition) bool {
			if ref, ok := n.(*trigger.RefCond); ok && !known[ref] {
				known[ref] = true
				refs = append(refs, ref)
			}
			return true
		})
	}
	for _, n := range t.Named {
		collect(n)
	}
	for _, b := range t.Bindings {
		if b.Cond != nil {
			collect(b.Cond)
		}
	}

	const (
		white = iota
		grey
		black
	)
	color := make(map[*trigger.RefCond]int, len(refs))
	var stack []*trigger.RefCond
	var visit func(ref *trigger.RefCond)
	visit = func(ref *trigger.RefCond) {
		color[ref] = grey
		stack = append(stack, ref)
		for _, next := range trigger.Refs(ref) {
			switch color[next] {
			case white:
				visit(next)
			case grey:
				r.Add(schema.IssueCycle, next.Name(), "reference cycle %s", cyclePath(stack, next))
			}
		}
		stack = stack[:len(stack)-1]
		color[ref] = black
	}
	for _, ref := range refs {
		if color[ref] == white {
			visit(ref)
		}
	}
}

func cyclePath(stack []*trigger.RefCond, start *trigger.RefCond) string {
	var names []string
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == start {
			for _, ref := range stack[i:] {
				names = append(names, ref.Name())
			}
			break
		}
	}
	names = append(names, start.Name())
	return strings.Join(names, " -> ")
}

// checkExclusiveGroups proves that no single firing leaves two members of a
// group true. A binding that may set a member true must also clear every
// other member immediately and unconditionally. The only exemption is a
// falling edge on a bare read of the other member, which is false by
// construction when the binding fires.
func checkExclusiveGroups(t *schema.Table, r *schema.Report) {
	for i, b := range t.Bindings {
		if b.Cond == nil {
			continue
		}
		writes := b.Writes()
		cleared := make(map[*domain.Flag]bool)
		for _, w := range writes {
			if w.ClearsNow() {
				cleared[w.Flag] = true
			}
		}
		fallingOn, _ := trigger.FlagOf(b.Cond)
		if b.Edge != domain.Falling {
			fallingOn = nil
		}

		for _, g := range t.Groups {
			for _, w := range writes {
				if !w.MaySetTrue() || !inGroup(g, w.Flag) {
					continue
				}
				if w.Deferred {
					r.Add(schema.IssueExclusiveGroup, bindingName(i, b), "sets %s true on a later tick, where no clear of %s can be proven", w.Flag.Name(), groupNames(g))
					continue
				}
				for _, other := range g {
					if other == w.Flag || cleared[other] || other == fallingOn {
						continue
					}
					r.Add(schema.IssueExclusiveGroup, bindingName(i, b), "sets %s true without clearing %s", w.Flag.Name(), other.Name())
				}
			}
		}
	}
}

func inGroup(g []*domain.Flag, f *domain.Flag) bool {
	for _, m := range g {
		if m == f {
			return true
		}
	}
	return false
}

func groupNames(g []*domain.Flag) string {
	names := make([]string, len(g))
	for i, f := range g {
		names[i] = f.Name()
	}
	return strings.Join(names, ", ")
}

func bindingName(i int, b *schema.Binding) string {
	if b.Name != "" {
		return b.Name
	}
	if b.Cond == nil {
		return "#" + strconv.Itoa(i)
	}
	return "#" + strconv.Itoa(i) + " " + b.Edge.String() + " " + b.Cond.String()
}
