// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides synthetic sources and nodes for tests.
package audiotest

import (
	"io"
	"math"

	"github.com/ik5/audhost/audio"
)

// MockSource is a test helper that generates audio data for testing.
// It implements the audio.Source interface.
type MockSource struct {
	sampleRate int
	channels   int
	total      int // frames to generate
	generated  int
	closed     bool
	waveform   func(frame int, channel int) float32
}

// NewMockSource creates a new mock audio source producing total frames.
// waveform generates sample values given frame index and channel.
func NewMockSource(sampleRate, channels, total int, waveform func(frame int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate: sampleRate,
		channels:   channels,
		total:      total,
		waveform:   waveform,
	}
}

// NewSilentSource creates a mock source that generates silence.
func NewSilentSource(sampleRate, channels, total int) *MockSource {
	return NewMockSource(sampleRate, channels, total, func(int, int) float32 { return 0 })
}

// NewSineSource creates a mock source that generates a sine wave.
func NewSineSource(sampleRate, channels, total int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, total, func(frame int, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewConstantSource creates a mock source with constant value.
func NewConstantSource(sampleRate, channels, total int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, total, func(int, int) float32 { return value })
}

func (m *MockSource) Format() audio.StreamFormat {
	return audio.StreamFormat{
		SampleRate: float64(m.sampleRate),
		Channels:   m.channels,
		Encoding:   audio.Float32Interleaved,
	}
}

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed }

// Reset allows the source to be read again from the start.
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
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
