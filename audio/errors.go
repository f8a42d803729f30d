// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrFormatUnsupported is returned when a stream format cannot be carried or
	// changed at this point.
	ErrFormatUnsupported = errors.New("format unsupported")

	// ErrUnknownFormat is returned by the decoder registry for unregistered keys.
	ErrUnknownFormat = errors.New("unknown file format")
)
