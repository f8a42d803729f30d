// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audhost/internal/dsp"
)

// Buffer holds up to Capacity frames of audio in one contiguous allocation.
//
// Storage is always planar: channel c lives in data[c*Capacity:(c+1)*Capacity].
// Interleaved formats are converted at the edges with Interleave and Deinterleave.
// None of the methods below allocate, so they are safe to call while rendering.
type Buffer struct {
	format   StreamFormat
	capacity int
	frames   int
	data     []float32
}

// NewBuffer allocates a buffer for capacity frames of format.
func NewBuffer(format StreamFormat, capacity int) (*Buffer, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("buffer capacity must be positive, got %d", capacity)
	}
	return &Buffer{
		format:   format,
		capacity: capacity,
		data:     make([]float32, capacity*format.Channels),
	}, nil
}

func (b *Buffer) Format() StreamFormat { return b.format }
func (b *Buffer) Capacity() int        { return b.capacity }
func (b *Buffer) Frames() int          { return b.frames }
func (b *Buffer) Channels() int        { return b.format.Channels }

// SetFrames sets the number of valid frames, clamped to capacity.
func (b *Buffer) SetFrames(n int) {
	switch {
	case n < 0:
		n = 0
	case n > b.capacity:
		n = b.capacity
	}
	b.frames = n
}

// Channel returns the valid samples of channel c.
func (b *Buffer) Channel(c int) []float32 {
	off := c * b.capacity
	return b.data[off : off+b.frames]
}

// Clear zeroes the valid frames of every channel.
func (b *Buffer) Clear() {
	for c := range b.format.Channels {
		clear(b.Channel(c))
	}
}

// CopyFrom copies src into b, taking src's frame count (clamped to capacity).
// Channel counts are adapted: mono fans out to all channels, extra source
// channels are averaged into the last destination channel group.
func (b *Buffer) CopyFrom(src *Buffer) {
	b.SetFrames(src.frames)
	if src.format.Channels == b.format.Channels {
		for c := range b.format.Channels {
			copy(b.Channel(c), src.Channel(c))
		}
		return
	}
	MixInto(b, src, 1, false)
}

// MixInto adds (or copies when accumulate is false) src into dst scaled by gain,
// adapting the channel layout the same way ChannelMapper does for streams.
func MixInto(dst, src *Buffer, gain float32, accumulate bool) {
	frames := min(dst.frames, src.frames)
	dc, sc := dst.format.Channels, src.format.Channels

	if !accumulate {
		dst.Clear()
	}

	switch {
	case dc == sc:
		for c := range dc {
			d, s := dst.Channel(c)[:frames], src.Channel(c)[:frames]
			for i := range d {
				d[i] += s[i] * gain
			}
		}
	case sc == 1:
		s := src.Channel(0)[:frames]
		for c := range dc {
			d := dst.Channel(c)[:frames]
			for i := range d {
				d[i] += s[i] * gain
			}
		}
	case dc == 1:
		d := dst.Channel(0)[:frames]
		scale := gain / float32(sc)
		for c := range sc {
			s := src.Channel(c)[:frames]
			for i := range d {
				d[i] += s[i] * scale
			}
		}
	default:
		// Map source channel c onto destination channel c % dc and
		// normalise by how many sources land on each destination.
		for c := range sc {
			target := c % dc
			share := (sc - target + dc - 1) / dc
			scale := gain / float32(share)
			d, s := dst.Channel(target)[:frames], src.Channel(c)[:frames]
			for i := range d {
				d[i] += s[i] * scale
			}
		}
	}
}

// Interleave writes the valid frames into dst as L R L R ... and returns the
// number of samples written.
func (b *Buffer) Interleave(dst []float32) int {
	ch := b.format.Channels
	frames := min(b.frames, len(dst)/ch)
	for c := range ch {
		src := b.Channel(c)
		for f := range frames {
			dst[f*ch+c] = src[f]
		}
	}
	return frames * ch
}

// Deinterleave loads interleaved samples from src and sets Frames accordingly.
// It returns the number of frames read.
func (b *Buffer) Deinterleave(src []float32) int {
	ch := b.format.Channels
	frames := min(len(src)/ch, b.capacity)
	b.frames = frames
	for c := range ch {
		dst := b.Channel(c)
		for f := range frames {
			dst[f] = src[f*ch+c]
		}
	}
	return frames
}

// AsIntBuffer fills dst with the valid frames as interleaved PCM of bitDepth
// bits, reusing dst.Data when it is large enough.
func (b *Buffer) AsIntBuffer(bitDepth int, dst *goaudio.IntBuffer) *goaudio.IntBuffer {
	ch := b.format.Channels
	n := b.frames * ch
	if dst == nil {
		dst = &goaudio.IntBuffer{}
	}
	if cap(dst.Data) < n {
		dst.Data = make([]int, n)
	}
	dst.Data = dst.Data[:n]
	dst.Format = b.format.GoAudio()
	dst.SourceBitDepth = bitDepth

	for c := range ch {
		src := b.Channel(c)
		for f, v := range src {
			dst.Data[f*ch+c] = dsp.FloatToPCM(v, bitDepth)
		}
	}
	return dst
}
