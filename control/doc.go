// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime configuration, metrics, and debug introspection for the
// framing engine: negotiated-extension state, payload-size ceilings,
// UTF-8 strictness, and per-parser counters.
//
// Provides concurrent-safe state handling primitives including:
//   - Immutable snapshot config reads and atomic updates
//   - Runtime observers for hot-reload
//   - Metrics telemetry contracts
//   - State export, debug hooks, and probe registration
package control
