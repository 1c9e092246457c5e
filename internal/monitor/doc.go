// Package monitor implements the sampling, evaluation, history and render
// cycle behind the sxmon dashboard.
//
// # Cycle
//
// A Loop runs one goroutine through a fixed state machine:
//
//	Idle → Sampling → Evaluating → Rendering → Sleeping → Sampling → ... → Stopped
//
//   - Sampling collects a telemetry.Snapshot. Partial failures only mark
//     categories as degraded; a provider error wrapping
//     telemetry.ErrUnavailable (or a panic) stops the loop.
//   - Evaluating records the tracked scalars into History and runs Evaluate.
//     Every alert is appended to the alert log (when logging is enabled) and
//     counted (when alerts are enabled).
//   - Rendering turns a Frame into text with Render and hands it to the
//     Display.
//   - Sleeping waits CheckInterval seconds. It is the only point where
//     cancellation is observed, so a stop request never truncates a cycle.
//
// # Thresholds and Colors
//
// Evaluate uses strict greater-than comparisons and keeps no state between
// cycles: a sustained breach alerts on every cycle. The dashboard colors each
// value with Band, which turns amber at 80% of the threshold and red at the
// threshold itself.
//
// # Concurrency
//
// Nothing in this package is shared with other goroutines while the loop
// runs. Consumers (the TUI, the Prometheus collector) get rendered strings or
// a CycleReport at cycle boundaries.
package monitor
