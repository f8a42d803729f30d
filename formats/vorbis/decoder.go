// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/audhost/audio"
)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	// Read fills p with interleaved samples and returns how many it wrote.
	Read(p []float32) (int, error)
}

type source struct {
	dec    oggReader
	format audio.StreamFormat
}

func (s *source) Format() audio.StreamFormat { return s.format }
func (s *source) Close() error               { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if len(dst)%s.format.Channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}

	read := 0
	for read < len(dst) {
		n, err := s.dec.Read(dst[read:])
		read += n
		if err == io.EOF {
			if read == 0 {
				return 0, io.EOF
			}
			break
		}
		if err != nil {
			return read, fmt.Errorf("vorbis: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return read, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("vorbis: %w", err)
	}

	format := audio.StreamFormat{
		SampleRate: float64(dec.SampleRate()),
		Channels:   dec.Channels(),
		Encoding:   audio.Float32Interleaved,
	}
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("vorbis: %w", err)
	}
	return &source{dec: dec, format: format}, nil
}
