// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrors_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{ErrInvalidDstSize, "dst size must be multiple of channels"},
		{ErrFormatUnsupported, "format unsupported"},
		{ErrUnknownFormat, "unknown file format"},
	}

	for _, tt := range tests {
		if tt.err.Error() != tt.want {
			t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.want)
		}
	}
}

func TestErrFormatUnsupported_Wrapping(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("bus 0: %w", ErrFormatUnsupported)
	if !errors.Is(err, ErrFormatUnsupported) {
		t.Error("errors.Is() failed for wrapped ErrFormatUnsupported")
	}
	if errors.Is(err, ErrInvalidDstSize) {
		t.Error("errors.Is() matched an unrelated sentinel")
	}
}
