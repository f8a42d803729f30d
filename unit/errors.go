// SPDX-License-Identifier: EPL-2.0

package unit

import "errors"

var (
	ErrTooManyInputs    = errors.New("mixer has no free input bus left")
	ErrNothingScheduled = errors.New("player has nothing scheduled")
	ErrNoTake           = errors.New("recorder has no take")
	ErrRecorderArmed    = errors.New("recorder is armed")
	ErrInvalidParameter = errors.New("parameter out of range")
)
