// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"testing"
)

func TestLoad_ResamplesAndMapsChannels(t *testing.T) {
	t.Parallel()

	src := newSineSource(8000, 1, 800, 440)
	buf, err := Load(src, StandardFormat(16000, 2), 0)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := buf.Frames(); got < 1599 || got > 1601 {
		t.Errorf("Frames() = %d, want ~1600", got)
	}
	if buf.Format().Encoding != Float32NonInterleaved {
		t.Errorf("Encoding = %v, want non-interleaved", buf.Format().Encoding)
	}
	left, right := buf.Channel(0), buf.Channel(1)
	for i := range left {
		if left[i] != right[i] {
			t.Fatalf("frame %d: left %v != right %v", i, left[i], right[i])
		}
	}
}

func TestLoad_MaxFrames(t *testing.T) {
	t.Parallel()

	buf, err := Load(newConstantSource(44100, 2, 44100, 0.1), StandardFormat(44100, 2), 512)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if buf.Frames() != 512 {
		t.Errorf("Frames() = %d, want 512", buf.Frames())
	}
}

func TestLoad_InvalidFormat(t *testing.T) {
	t.Parallel()

	_, err := Load(newSilentSource(8000, 1, 10), StandardFormat(0, 1), 0)
	if !errors.Is(err, ErrFormatUnsupported) {
		t.Errorf("Load() error = %v, want ErrFormatUnsupported", err)
	}
}

func TestLoad_EmptySource(t *testing.T) {
	t.Parallel()

	buf, err := Load(newSilentSource(8000, 1, 0), StandardFormat(8000, 1), 0)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if buf.Frames() != 0 {
		t.Errorf("Frames() = %d, want 0", buf.Frames())
	}
}
