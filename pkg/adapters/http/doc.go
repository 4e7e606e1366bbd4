// Package http exposes a running engine over HTTP: flag snapshots, the
// signal board, binding introspection, named actions, a server-sent event
// stream of flag diffs and Prometheus metrics.
package http
