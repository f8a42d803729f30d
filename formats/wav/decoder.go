// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/audhost/audio"
	"github.com/ik5/audhost/internal/dsp"
)

const pcmFormat = 1

// pcmReader is the part of wav.Decoder the source uses.
type pcmReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec      pcmReader
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
		return 0, fmt.Errorf("wav: %w", err)
	}
	if n == 0 {
		s.done = true
		return 0, io.EOF
	}
	for i, v := range s.intBuf.Data[:n] {
		dst[i] = dsp.PCMToFloat(v, s.bitDepth)
	}
	if n < len(dst) {
		s.done = true
	}
	return n, nil
}

// Decoder reads PCM WAV files through github.com/go-audio/wav.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if dec.WavAudioFormat != pcmFormat {
		return nil, fmt.Errorf("%w: audio format %d", ErrUnsupportedWavLayout, dec.WavAudioFormat)
	}
	switch dec.BitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: got %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}

	format := audio.FormatFromGoAudio(dec.Format(), audio.Float32Interleaved)
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	return &source{
		dec:      dec,
		format:   format,
		bitDepth: int(dec.BitDepth),
	}, nil
}
