// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audhost/audio"
	"github.com/ik5/audhost/internal/dsp"
)

// go-mp3 always decodes to 16-bit little-endian stereo.
const channels = 2

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec    mp3Reader
	format audio.StreamFormat
	buf    []byte
	// carry holds a trailing odd byte from the previous read.
	carry    byte
	hasCarry bool
}

func (s *source) Format() audio.StreamFormat { return s.format }
func (s *source) Close() error               { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if len(dst)%channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}

	bytesNeeded := len(dst) * 2
	if cap(s.buf) < bytesNeeded {
		s.buf = make([]byte, bytesNeeded)
	}
	s.buf = s.buf[:bytesNeeded]

	off := 0
	if s.hasCarry {
		s.buf[0] = s.carry
		s.hasCarry = false
		off = 1
	}
	n, err := io.ReadFull(s.dec, s.buf[off:])
	n += off
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("mp3: %w", err)
	}

	if n%2 == 1 {
		s.carry = s.buf[n-1]
		s.hasCarry = true
		n--
	}
	samples := n / 2
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(s.buf[2*i:]))
		dst[i] = dsp.PCMToFloat(int(v), 16)
	}

	if samples == 0 {
		return 0, err
	}
	return samples, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	return &source{
		dec: dec,
		format: audio.StreamFormat{
			SampleRate: float64(dec.SampleRate()),
			Channels:   channels,
			Encoding:   audio.Float32Interleaved,
		},
		buf: make([]byte, 8192),
	}, nil
}
