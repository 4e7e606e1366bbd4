/*
Package ports defines the driven ports (interfaces) for the cadence engine.

These interfaces decouple the tick loop from the outside world: where time
comes from, where external signals are read from and where flag state is
published after every tick.

# Key Interfaces

  - Clock: Monotonic time source sampled once per tick.
  - SignalBoard: Named boolean inputs written by operators or simulations.
  - Publisher: Receives the flag snapshot and diff produced by each tick.
*/
package ports
