// Package metrics exposes the Prometheus collectors of the editor service:
// gesture outcomes, graph mutations, import/export traffic, remote calls and
// live sessions. Helpers are safe to call from any goroutine.
package metrics
