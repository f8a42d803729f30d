// SPDX-License-Identifier: EPL-2.0

package audhost

import "errors"

var (
	// ErrEngineNotReady is returned by Start when the graph cannot be
	// prepared for rendering. It wraps the cause.
	ErrEngineNotReady = errors.New("engine not ready")

	// ErrEngineRunning is returned by topology changes while the engine
	// is rendering.
	ErrEngineRunning = errors.New("engine is running")
)
