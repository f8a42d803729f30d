// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audhost/audio"
	"github.com/ik5/audhost/internal/dsp"
)

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// source wraps go-audio aiff.Decoder to implement audio.Source
type source struct {
	dec      aiffReader
	format   audio.StreamFormat
	bitDepth int
	intBuf   *goaudio.IntBuffer
	done     bool
}

func (s *source) Format() audio.StreamFormat { return s.format }
func (s *source) Close() error               { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if s.done {
		return 0, io.EOF
	}
	if len(dst)%s.format.Channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:           make([]int, len(dst)),
			Format:         s.dec.Format(),
			SourceBitDepth: s.bitDepth,
		}
	}
	s.intBuf.Data = s.intBuf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.intBuf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("aiff: %w", err)
	}
	if n == 0 {
		s.done = true
		return 0, io.EOF
	}

	for i, v := range s.intBuf.Data[:n] {
		dst[i] = dsp.PCMToFloat(v, s.bitDepth)
	}

	// A short read or an EOF from the decoder ends the stream.
	if n < len(dst) || err == io.EOF {
		s.done = true
	}
	return n, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// go-audio requires io.ReadSeeker
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	switch dec.BitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: got %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	gf := dec.Format()
	if gf == nil {
		return nil, ErrUnsupportedAiffLayout
	}
	format := audio.FormatFromGoAudio(gf, audio.Float32Interleaved)
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedAiffLayout, err)
	}

	return &source{
		dec:      dec,
		format:   format,
		bitDepth: int(dec.BitDepth),
	}, nil
}
