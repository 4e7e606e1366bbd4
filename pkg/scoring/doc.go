// Package scoring wires the scoring robot's behavior cycle as an
// orchestration table: staging a payload, preparing an action, running the
// timed action and returning to idle, plus the reversal, alignment and
// autoscore layers around it.
//
// The table owns only flags and bindings. Mechanisms and the drivetrain read
// its flags to pick their targets; everything the table reacts to comes in
// through Signals.
//
// Each call to New returns an independent table. Nothing is shared between
// tables, so several robots (or several simulations) can run side by side.
package scoring
