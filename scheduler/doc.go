// SPDX-License-Identifier: EPL-2.0

// Package scheduler runs a graph.Plan from a driver's real-time callback.
//
// Each period renders every node once, in plan order. A node that returns a
// degraded status, or panics, marks the period degraded without stopping the
// scheduler; the event goes through a lock-free queue to a reporter goroutine
// that logs it with log/slog. When the queue is full the event is counted and
// dropped rather than blocking the render thread.
//
// Stop waits for the period in flight, so no node is rendered once it
// returns.
package scheduler
