/*
Package cadence is a tick-driven reactive orchestration engine.

A table of named boolean flags is driven by edge bindings: each binding
watches a composable condition and runs actions when the condition rises,
falls, changes, or while it holds. Timed actions hold a flag for a duration
and are polled by the engine, so nothing ever sleeps or spawns a goroutine.

# Concept

Every tick the engine samples its clock, latches every flag, then evaluates
the bindings in the order they were declared. A write made by one binding is
visible to every binding evaluated after it in the same tick. Pending timed
actions are polled last. The resulting flag values are returned as a
Snapshot that can be handed to other goroutines.

Tables are built with the dsl package and statically validated before they
run: unregistered flags, reference cycles, conflicting writes and exclusive
groups that a binding could violate are all reported at build time.

# Usage

	package main

	import (
		"log"
		"time"

		"github.com/aretw0/cadence"
		"github.com/aretw0/cadence/pkg/action"
		"github.com/aretw0/cadence/pkg/dsl"
		"github.com/aretw0/cadence/pkg/trigger"
	)

	func main() {
		b := dsl.New()
		ready := b.Flag("ready")
		busy := b.Flag("busy")
		b.On(trigger.Flag(ready)).Rising(action.SetFalse(ready), action.For(busy, 2*time.Second))

		table, err := b.Build()
		if err != nil {
			log.Fatal(err)
		}
		eng, err := cadence.New(table)
		if err != nil {
			log.Fatal(err)
		}

		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			snap := eng.Tick()
			log.Println(snap.Active())
		}
	}

The pkg/runner package provides the same loop with signal handling and
publishing, and pkg/scoring ships the scoring robot table.
*/
package cadence
