// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/audhost/internal/dsp"
)

// Resampler streams from src to target sample rate using cubic interpolation.
// Works on interleaved samples; preserves channel count.
// Includes basic anti-aliasing filtering when downsampling.
type Resampler struct {
	src      Source
	dstRate  float64
	ratio    float64 // source frames consumed per output frame
	channels int

	// frames[0] = t-1, frames[1] = t0, frames[2] = t+1, frames[3] = t+2
	frames   [4][]float32
	hasFrame [4]bool
	primed   bool

	// Position between frames[1] and frames[2], in source frames
	pos float64

	srcBuf []float32
	eof    bool

	// One-pole low-pass state, only used when downsampling
	filterState []float32
	filterInit  bool
	useFilter   bool
	filterAlpha float32
}

// NewResampler wraps src so it produces dstRate frames per second.
func NewResampler(src Source, dstRate float64) *Resampler {
	f := src.Format()
	channels := f.Channels
	ratio := f.SampleRate / dstRate

	r := &Resampler{
		src:         src,
		dstRate:     dstRate,
		ratio:       ratio,
		channels:    channels,
		srcBuf:      make([]float32, channels),
		useFilter:   ratio > 1.0,
		filterState: make([]float32, channels),
	}
	if r.useFilter {
		r.filterAlpha = 0.5
	}
	for i := range r.frames {
		r.frames[i] = make([]float32, channels)
	}
	return r
}

func (r *Resampler) Format() StreamFormat {
	return StreamFormat{SampleRate: r.dstRate, Channels: r.channels, Encoding: Float32Interleaved}
}

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// readFrame reads exactly one frame into dst. ok is false when the source has
// nothing more to give.
func (r *Resampler) readFrame(dst []float32) (bool, error) {
	if r.eof {
		return false, nil
	}
	n, err := r.src.ReadSamples(r.srcBuf)
	if err == io.EOF {
		r.eof = true
	} else if err != nil {
		return false, fmt.Errorf("%w", err)
	}
	if n < r.channels {
		r.eof = true
		return false, nil
	}
	copy(dst, r.srcBuf)
	if r.useFilter {
		if !r.filterInit {
			// start from the first sample to avoid a warm-up transient
			copy(r.filterState, dst)
			r.filterInit = true
		}
		for c := range r.channels {
			dst[c] = r.filterAlpha*dst[c] + (1-r.filterAlpha)*r.filterState[c]
			r.filterState[c] = dst[c]
		}
	}
	return true, nil
}

func (r *Resampler) prime() error {
	r.primed = true
	for i := 1; i < len(r.frames); i++ {
		ok, err := r.readFrame(r.frames[i])
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		r.hasFrame[i] = true
	}
	if !r.hasFrame[1] {
		return io.EOF
	}
	return nil
}

func (r *Resampler) shift() {
	first := r.frames[0]
	copy(r.frames[:], r.frames[1:])
	r.frames[3] = first
	copy(r.hasFrame[:], r.hasFrame[1:])
	r.hasFrame[3] = false
}

func (r *Resampler) advance() error {
	r.shift()
	ok, err := r.readFrame(r.frames[3])
	if err != nil {
		return err
	}
	r.hasFrame[3] = ok
	return nil
}

// ReadSamples produces dst samples at the target rate.
// dst length should be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	framesNeeded := len(dst) / r.channels
	for written < framesNeeded {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}
		if !r.hasFrame[1] {
			if written == 0 {
				return 0, io.EOF
			}
			return written * r.channels, io.EOF
		}

		alpha := float32(r.pos)
		for c := range r.channels {
			y1 := r.frames[1][c]
			y0, y2 := y1, y1
			if r.hasFrame[0] {
				y0 = r.frames[0][c]
			}
			if r.hasFrame[2] {
				y2 = r.frames[2][c]
			}
			y3 := y2
			if r.hasFrame[3] {
				y3 = r.frames[3][c]
			}
			dst[written*r.channels+c] = dsp.CubicInterpolate(y0, y1, y2, y3, alpha)
		}

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}
