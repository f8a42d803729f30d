// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audhost/audio"
)

// mockOggVorbisReader simulates the oggvorbis.Reader for testing. Like the
// real reader it returns interleaved sample counts, at most limit per call.
type mockOggVorbisReader struct {
	channels     int
	samples      []float32
	offset       int
	limit        int
	returnErrors bool
}

func (m *mockOggVorbisReader) SampleRate() int { return 48000 }
func (m *mockOggVorbisReader) Channels() int   { return m.channels }

func (m *mockOggVorbisReader) Read(buf []float32) (int, error) {
	if m.returnErrors {
		return 0, io.ErrUnexpectedEOF
	}
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}
	if m.limit > 0 && len(buf) > m.limit {
		buf = buf[:m.limit]
	}
	n := copy(buf, m.samples[m.offset:])
	m.offset += n
	return n, nil
}

func newTestSource(r *mockOggVorbisReader) *source {
	return &source{
		dec:    r,
		format: audio.StreamFormat{SampleRate: 48000, Channels: r.channels, Encoding: audio.Float32Interleaved},
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader([]byte("This is not Ogg Vorbis data"))); err == nil {
		t.Error("Decode() error = nil, want error for invalid data")
	}
}

func TestSource_ReadSamples_CountsSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		limit    int
	}{
		{name: "mono", channels: 1},
		{name: "stereo", channels: 2},
		{name: "stereo short reads", channels: 2, limit: 2},
		{name: "six channels", channels: 6, limit: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			samples := make([]float32, 12*tt.channels)
			for i := range samples {
				samples[i] = float32(i) / float32(len(samples))
			}
			src := newTestSource(&mockOggVorbisReader{channels: tt.channels, samples: samples, limit: tt.limit})

			dst := make([]float32, len(samples)+2*tt.channels)
			n, err := src.ReadSamples(dst)
			if err != nil {
				t.Fatalf("ReadSamples() error = %v", err)
			}
			if n != len(samples) {
				t.Fatalf("ReadSamples() = %d, want %d", n, len(samples))
			}
			for i := range samples {
				if dst[i] != samples[i] {
					t.Fatalf("dst[%d] = %v, want %v", i, dst[i], samples[i])
				}
			}
			if n, err := src.ReadSamples(dst); n != 0 || err != io.EOF {
				t.Errorf("ReadSamples() at end = %d, %v, want 0, io.EOF", n, err)
			}
		})
	}
}

func TestSource_ReadSamples_Errors(t *testing.T) {
	t.Parallel()

	src := newTestSource(&mockOggVorbisReader{channels: 2, returnErrors: true})
	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want io.ErrUnexpectedEOF", err)
	}
	if _, err := src.ReadSamples(make([]float32, 3)); !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("ReadSamples(odd) error = %v, want ErrInvalidDstSize", err)
	}
	if n, err := src.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v", n, err)
	}
}
