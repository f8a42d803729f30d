// SPDX-License-Identifier: EPL-2.0

package scheduler

import "errors"

var (
	ErrAlreadyRunning = errors.New("scheduler already running")

	// ErrQueueSize is returned for a status queue size that is not a power
	// of two.
	ErrQueueSize = errors.New("status queue size must be a power of two")
)
