// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audhost/audio"
)

// mockMP3Reader simulates the gomp3.Decoder for testing. chunk limits the
// bytes returned per Read to exercise short and odd reads.
type mockMP3Reader struct {
	data  []byte
	chunk int
	err   error
}

func (m *mockMP3Reader) SampleRate() int { return 44100 }

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if len(m.data) == 0 {
		return 0, io.EOF
	}
	n := len(buf)
	if m.chunk > 0 && n > m.chunk {
		n = m.chunk
	}
	n = copy(buf[:n], m.data)
	m.data = m.data[n:]
	return n, nil
}

func pcmBytes(samples ...int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

func newTestSource(r *mockMP3Reader) *source {
	return &source{
		dec:    r,
		format: audio.StreamFormat{SampleRate: 44100, Channels: 2, Encoding: audio.Float32Interleaved},
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader([]byte("This is not MP3 data"))); err == nil {
		t.Error("Decode() error = nil, want error for invalid data")
	}
}

func TestDecoder_EmptyInput(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader(nil)); err == nil {
		t.Error("Decode() error = nil, want error for empty input")
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		chunk int
	}{
		{name: "single read", chunk: 0},
		{name: "odd sized reads", chunk: 3},
		{name: "byte at a time", chunk: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := newTestSource(&mockMP3Reader{data: pcmBytes(0, 16384, -16384, -32768), chunk: tt.chunk})
			dst := make([]float32, 8)
			n, err := src.ReadSamples(dst)
			if err != nil {
				t.Fatalf("ReadSamples() error = %v", err)
			}
			want := []float32{0, 0.5, -0.5, -1}
			if n != len(want) {
				t.Fatalf("ReadSamples() = %d, want %d", n, len(want))
			}
			for i, w := range want {
				if dst[i] != w {
					t.Errorf("dst[%d] = %v, want %v", i, dst[i], w)
				}
			}
			if n, err := src.ReadSamples(dst); n != 0 || err != io.EOF {
				t.Errorf("ReadSamples() at end = %d, %v, want 0, io.EOF", n, err)
			}
		})
	}
}

func TestSource_Format(t *testing.T) {
	t.Parallel()

	src := newTestSource(&mockMP3Reader{})
	if f := src.Format(); f.Channels != 2 || f.SampleRate != 44100 {
		t.Errorf("Format() = %s", f)
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestSource_ReadSamples_Errors(t *testing.T) {
	t.Parallel()

	src := newTestSource(&mockMP3Reader{err: errors.New("corrupt frame")})
	if _, err := src.ReadSamples(make([]float32, 4)); err == nil {
		t.Error("ReadSamples() error = nil, want decoder error")
	}
	if _, err := src.ReadSamples(make([]float32, 3)); !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("ReadSamples(odd) error = %v, want ErrInvalidDstSize", err)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	data := pcmBytes(make([]int16, 4096)...)
	dst := make([]float32, 1024)

	b.ResetTimer()
	for b.Loop() {
		src := newTestSource(&mockMP3Reader{data: data})
		for {
			if _, err := src.ReadSamples(dst); err != nil {
				break
			}
		}
	}
}
