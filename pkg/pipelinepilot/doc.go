// Package pipelinepilot provides a minimal public façade for building data
// pipelines with the editor without importing internal packages. It
// re-exports the core types and exposes a Runtime that opens editor sessions
// against the built-in component catalog.
package pipelinepilot
