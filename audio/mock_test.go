// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"math"
)

// mockSource generates interleaved test audio.
type mockSource struct {
	sampleRate int
	channels   int
	total      int // frames to generate
	generated  int
	closed     bool
	waveform   func(frame int, channel int) float32
}

func newMockSource(sampleRate, channels, total int, waveform func(frame int, channel int) float32) *mockSource {
	return &mockSource{
		sampleRate: sampleRate,
		channels:   channels,
		total:      total,
		waveform:   waveform,
	}
}

func newSilentSource(sampleRate, channels, total int) *mockSource {
	return newMockSource(sampleRate, channels, total, func(int, int) float32 { return 0 })
}

func newConstantSource(sampleRate, channels, total int, value float32) *mockSource {
	return newMockSource(sampleRate, channels, total, func(int, int) float32 { return value })
}

func newSineSource(sampleRate, channels, total int, frequency float64) *mockSource {
	return newMockSource(sampleRate, channels, total, func(frame int, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

func (m *mockSource) Format() StreamFormat {
	return StreamFormat{SampleRate: float64(m.sampleRate), Channels: m.channels, Encoding: Float32Interleaved}
}

func (m *mockSource) Close() error {
	m.closed = true
	return nil
}

func (m *mockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.total {
		return 0, io.EOF
	}
	frames := min(len(dst)/m.channels, m.total-m.generated)
	for f := range frames {
		for c := range m.channels {
			dst[f*m.channels+c] = m.waveform(m.generated+f, c)
		}
	}
	m.generated += frames
	if m.generated >= m.total {
		return frames * m.channels, io.EOF
	}
	return frames * m.channels, nil
}

// readAll drains src with reads of chunk samples.
func readAll(src Source, chunk int) ([]float32, error) {
	var out []float32
	buf := make([]float32, chunk)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
}
