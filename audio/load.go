// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// Load reads src to the end (or maxFrames frames, when positive) and returns
// it as a planar Buffer in format. The stream is resampled and channel-mapped
// on the way, so the result can be played by a node running at format without
// any work in the render path.
//
// This creates a processing pipeline:
//  1. Resamples src to format.SampleRate using cubic interpolation
//  2. Maps the channel count to format.Channels
//  3. Deinterleaves into the returned buffer
func Load(src Source, format StreamFormat, maxFrames int) (*Buffer, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	format.Encoding = Float32NonInterleaved

	var stream Source = src
	if sf := src.Format(); sf.SampleRate != format.SampleRate {
		stream = NewResampler(stream, format.SampleRate)
	}
	if stream.Format().Channels != format.Channels {
		stream = NewChannelMapper(stream, format.Channels)
	}

	ch := format.Channels
	chunk := make([]float32, 1024*ch)
	var interleaved []float32

	for {
		n, err := stream.ReadSamples(chunk)
		if n > 0 {
			interleaved = append(interleaved, chunk[:n]...)
		}
		if maxFrames > 0 && len(interleaved)/ch >= maxFrames {
			interleaved = interleaved[:maxFrames*ch]
			break
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
		if n == 0 {
			break
		}
	}

	frames := len(interleaved) / ch
	buf, err := NewBuffer(format, max(frames, 1))
	if err != nil {
		return nil, err
	}
	buf.Deinterleave(interleaved)
	return buf, nil
}
