/*
Package domain contains the core domain models of the cadence engine.

It defines the atomic state cell (Flag), the edge kinds a binding can react to,
the tick snapshot handed to observers, and the lifecycle hooks used for
telemetry. This package is kept pure and free of external dependencies like
I/O or scheduling.

# Key Entities

  - Flag: a named boolean cell with edge memory, the unit of robot "mode" state.
  - Edge: the transition kind (rising, falling, any change, while true) a binding reacts to.
  - Write: a static description of what an action does to a flag, used by the validator.
  - Snapshot: the value of every flag at the end of a tick.
  - LifecycleHooks: callbacks for ticks, binding fires, timed actions, faults and invariant violations.
*/
package domain
