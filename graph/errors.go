// SPDX-License-Identifier: EPL-2.0

package graph

import "errors"

var (
	// ErrCycleDetected is returned by a connection that would close a loop.
	ErrCycleDetected = errors.New("connection would create a cycle")

	// ErrBusOccupied is returned when an input bus already has a connection,
	// or when no free input bus is left.
	ErrBusOccupied = errors.New("input bus already connected")

	ErrNodeNotAttached = errors.New("node is not attached to the graph")
	ErrBusIndex        = errors.New("bus index out of range")
	ErrNotConnected    = errors.New("input bus is not connected")
	ErrNoPoints        = errors.New("no connection points given")

	// ErrUnconnectedBus is returned by Validate for a required input bus
	// without a connection.
	ErrUnconnectedBus = errors.New("required input bus is not connected")

	ErrNotAllocated  = errors.New("node has no render resources")
	ErrTooManyFrames = errors.New("period exceeds the node's maximum frames to render")
)
