// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"slices"
	"testing"
)

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	got := NewRegistry().Formats()
	want := []string{"aif", "aiff", "mp3", "oga", "ogg", "wav", "wave"}
	if !slices.Equal(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}
}
