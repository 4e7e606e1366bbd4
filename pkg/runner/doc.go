/*
Package runner drives a cadence engine at a fixed period.

It acts as the bridge between the engine and the outside world: every tick
it settles pulsed inputs, hands the snapshot and its diff to the configured
publishers, and warns when a tick overruns its period. Actions submitted
from other goroutines run between ticks on the runner goroutine, so the
engine itself is never shared.

# Usage

	r := runner.NewRunner(engine,
		runner.WithPeriod(20*time.Millisecond),
		runner.WithSettler(board),
		runner.WithPublisher(publisher),
	)

	if err := r.RunUntilSignal(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
