// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"time"

	goaudio "github.com/go-audio/audio"
)

// SampleEncoding describes how samples of a stream are laid out in memory.
type SampleEncoding int

const (
	// Float32NonInterleaved stores one contiguous run of float32 samples per channel.
	// It is the encoding of the standard format.
	Float32NonInterleaved SampleEncoding = iota
	// Float32Interleaved stores frames one after another (L R L R ...).
	Float32Interleaved
	// Int16Interleaved is 16-bit signed PCM. It only appears at file and device
	// boundaries and is rejected on graph buses.
	Int16Interleaved
)

func (e SampleEncoding) String() string {
	switch e {
	case Float32NonInterleaved:
		return "float32-noninterleaved"
	case Float32Interleaved:
		return "float32-interleaved"
	case Int16Interleaved:
		return "int16-interleaved"
	default:
		return fmt.Sprintf("encoding(%d)", int(e))
	}
}

// IsFloat reports whether samples are float32 in [-1, 1].
func (e SampleEncoding) IsFloat() bool {
	return e == Float32NonInterleaved || e == Float32Interleaved
}

// MaxChannels is the largest channel count accepted on a bus.
const MaxChannels = 64

// StreamFormat describes a PCM stream flowing through a bus.
type StreamFormat struct {
	SampleRate float64
	Channels   int
	Encoding   SampleEncoding
}

// StandardFormat returns the non-interleaved float32 format used by default on buses.
func StandardFormat(sampleRate float64, channels int) StreamFormat {
	return StreamFormat{
		SampleRate: sampleRate,
		Channels:   channels,
		Encoding:   Float32NonInterleaved,
	}
}

// Validate checks that f can be carried by a graph bus.
func (f StreamFormat) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %v", ErrFormatUnsupported, f.SampleRate)
	}
	if f.Channels <= 0 || f.Channels > MaxChannels {
		return fmt.Errorf("%w: channel count must be in 1..%d, got %d", ErrFormatUnsupported, MaxChannels, f.Channels)
	}
	if !f.Encoding.IsFloat() {
		return fmt.Errorf("%w: %s is not a graph encoding", ErrFormatUnsupported, f.Encoding)
	}
	return nil
}

// Equal reports whether both formats describe the same stream.
func (f StreamFormat) Equal(o StreamFormat) bool {
	return f.SampleRate == o.SampleRate && f.Channels == o.Channels && f.Encoding == o.Encoding
}

// CanConvert reports whether a connection may negotiate between f and to.
func (f StreamFormat) CanConvert(to StreamFormat) bool {
	return f.Validate() == nil && to.Validate() == nil
}

func (f StreamFormat) String() string {
	return fmt.Sprintf("%gHz %dch %s", f.SampleRate, f.Channels, f.Encoding)
}

// FrameDuration is the wall-clock length of a single frame.
func (f StreamFormat) FrameDuration() time.Duration {
	if f.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / f.SampleRate)
}

// PeriodDuration is the wall-clock length of frames frames.
func (f StreamFormat) PeriodDuration(frames int) time.Duration {
	if f.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(frames) * float64(time.Second) / f.SampleRate)
}

// GoAudio converts f to a go-audio format descriptor.
func (f StreamFormat) GoAudio() *goaudio.Format {
	return &goaudio.Format{
		NumChannels: f.Channels,
		SampleRate:  int(f.SampleRate),
	}
}

// FormatFromGoAudio builds a StreamFormat from a go-audio descriptor.
func FormatFromGoAudio(gf *goaudio.Format, enc SampleEncoding) StreamFormat {
	if gf == nil {
		return StreamFormat{Encoding: enc}
	}
	return StreamFormat{
		SampleRate: float64(gf.SampleRate),
		Channels:   gf.NumChannels,
		Encoding:   enc,
	}
}
