/*
Package observability provides lifecycle hooks for monitoring the cadence engine.

Metrics exports Prometheus counters and gauges fed by the engine hooks, and
LogHooks writes the same events to a structured logger. Both return
domain.LifecycleHooks and can be merged and handed to the engine together.
*/
package observability
