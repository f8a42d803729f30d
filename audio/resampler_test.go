// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"testing"
)

func TestResampler_Format(t *testing.T) {
	t.Parallel()

	r := NewResampler(newSilentSource(44100, 2, 10), 16000)
	f := r.Format()
	if f.SampleRate != 16000 || f.Channels != 2 || f.Encoding != Float32Interleaved {
		t.Errorf("Format() = %v", f)
	}
}

func TestResampler_SameRate(t *testing.T) {
	t.Parallel()

	r := NewResampler(newConstantSource(8000, 1, 100, 0.5), 8000)
	out, err := readAll(r, 64)
	if err != nil {
		t.Fatalf("readAll() error = %v", err)
	}
	if len(out) != 100 {
		t.Fatalf("len = %d, want 100", len(out))
	}
	for i, v := range out {
		if math.Abs(float64(v-0.5)) > 1e-6 {
			t.Fatalf("out[%d] = %v, want 0.5", i, v)
		}
	}
}

func TestResampler_FrameCounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		srcRate  int
		dstRate  float64
		frames   int
		channels int
		want     int
	}{
		{name: "downsample 44.1k to 16k", srcRate: 44100, dstRate: 16000, frames: 44100, channels: 1, want: 16000},
		{name: "upsample 8k to 16k", srcRate: 8000, dstRate: 16000, frames: 100, channels: 1, want: 200},
		{name: "stereo 48k to 44.1k", srcRate: 48000, dstRate: 44100, frames: 4800, channels: 2, want: 4410},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := NewResampler(newSineSource(tt.srcRate, tt.channels, tt.frames, 440), tt.dstRate)
			out, err := readAll(r, 1024*tt.channels)
			if err != nil {
				t.Fatalf("readAll() error = %v", err)
			}
			got := len(out) / tt.channels
			if got < tt.want-1 || got > tt.want+1 {
				t.Errorf("frames = %d, want %d (±1)", got, tt.want)
			}
		})
	}
}

func TestResampler_StereoChannelsStayApart(t *testing.T) {
	t.Parallel()

	src := newMockSource(44100, 2, 1000, func(_ int, c int) float32 {
		if c == 0 {
			return 0.3
		}
		return -0.6
	})
	out, err := readAll(NewResampler(src, 22050), 256)
	if err != nil {
		t.Fatalf("readAll() error = %v", err)
	}
	for i := 0; i < len(out); i += 2 {
		if math.Abs(float64(out[i]-0.3)) > 1e-4 || math.Abs(float64(out[i+1]+0.6)) > 1e-4 {
			t.Fatalf("frame %d = (%v, %v), want (0.3, -0.6)", i/2, out[i], out[i+1])
		}
	}
}

func TestResampler_EOF(t *testing.T) {
	t.Parallel()

	r := NewResampler(newSilentSource(8000, 1, 0), 16000)
	n, err := r.ReadSamples(make([]float32, 16))
	if n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() = (%d, %v), want (0, io.EOF)", n, err)
	}
	// stays at EOF
	if _, err := r.ReadSamples(make([]float32, 16)); err != io.EOF {
		t.Errorf("second ReadSamples() error = %v, want io.EOF", err)
	}
}

func TestResampler_InvalidDstSize(t *testing.T) {
	t.Parallel()

	r := NewResampler(newSilentSource(8000, 2, 10), 8000)
	if _, err := r.ReadSamples(make([]float32, 3)); !errors.Is(err, ErrInvalidDstSize) {
		t.Errorf("ReadSamples() error = %v, want ErrInvalidDstSize", err)
	}
}

func TestResampler_Close(t *testing.T) {
	t.Parallel()

	src := newSilentSource(8000, 1, 10)
	if err := NewResampler(src, 16000).Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !src.closed {
		t.Error("Close() did not close the source")
	}
}

func BenchmarkResampler_Downsample(b *testing.B) {
	buf := make([]float32, 4096)
	for b.Loop() {
		r := NewResampler(newSineSource(48000, 2, 4800, 440), 44100)
		for {
			if _, err := r.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
