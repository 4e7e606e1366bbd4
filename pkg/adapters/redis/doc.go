// Package redis publishes engine flag state to Redis for dashboards and
// other processes on the bench.
package redis
