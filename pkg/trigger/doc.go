/*
Package trigger provides the boolean condition trees evaluated by the engine on every tick.

Conditions are built with plain combinator functions instead of method chains:

	ready := trigger.Source("pilot.ready", pad.Ready)
	staged := trigger.Or(trigger.Flag(coral), trigger.Flag(algae))
	prep := trigger.And(ready, staged)

Evaluation is deterministic and total. And/Or always evaluate every operand so
that stateful leaves (Debounce, Source) are sampled on every tick no matter
what their siblings return. A Source that errors, panics or is nil reads as
false and reports a fault; no condition ever evaluates to true because of a
missing signal.
*/
package trigger
