// Package action provides the side effects bound to edges: flag writes,
// timed assertions and the small set of composites the scoring table needs.
//
// Actions never block. Anything that spans several ticks (Timed, WaitUntil,
// Repeatedly) registers itself as a Task with the Scope and is polled by the
// engine once per tick, after every binding has been evaluated.
//
// Every action describes its flag writes statically through Writes, which is
// what the validator uses to prove exclusive groups are never violated.
package action
