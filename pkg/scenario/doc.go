/*
Package scenario plays scripted simulations of the scoring table.

A script is a YAML or TOML document listing steps. Each step may set or
pulse input signals, move the clock, tick the engine and check flag values:

	name: manual score
	period: 20ms
	scoring:
	  score_time: 2s
	steps:
	  - note: stage coral at L4
	    set: {operator.coralStage: true, operator.staged: true, operator.l4: true}
	    tick: 3
	  - expect: {coral: true, l4: true}

Within a step the parts run in a fixed order: set, pulse, advance, tick,
wait, expect. The engine runs on a manual clock, so a script always produces
the same snapshots.
*/
package scenario
