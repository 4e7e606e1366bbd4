package runtime

import "github.com/aretw0/cadence/pkg/domain"

// checkGroups reports exclusive groups with more than one member true.
// The validator proves this cannot happen for a valid table; the check
// guards tables driven through Apply or mutated from outside.
func (e *Engine) checkGroups() {
	for _, g := range e.table.Groups {
		var on []string
		for _, f := range g {
			if f.Get() {
				on = append(on, f.Name())
			}
		}
		if len(on) < 2 {
			continue
		}
		names := make([]string, len(g))
		for i, f := range g {
			names[i] = f.Name()
		}
		e.logger.Error("exclusive group violated", "tick", e.tick, "group", names, "true", on)
		if e.hooks.OnInvariant != nil {
			e.hooks.OnInvariant(&domain.InvariantEvent{
				EventBase: e.base(domain.EventInvariant),
				Group:     names,
				True:      on,
			})
		}
	}
}
