/*
Package dsl provides a fluent Go builder for orchestration tables.

Flags, named conditions and exclusive groups are declared on a Builder;
bindings are appended in call order, and that order is the evaluation order
of the resulting table.

Example usage:

	b := dsl.New()
	ready := trigger.Source("pilot.ready", pilot.Ready)

	prep := b.Flag("actionPrep")
	act := b.Flag("action")
	b.Exclusive(prep, act)

	b.On(ready).
		Rising(action.SetTrue(prep), action.SetFalse(act)).
		Falling(action.SetFalse(prep))

	b.On(trigger.Flag(prep)).Falling(
		action.For(act, 2*time.Second).WithCancel(trigger.Flag(prep)),
	)

	table, err := b.Build()
	if err != nil {
		// err is a *schema.Report listing every defect found
	}
*/
package dsl
