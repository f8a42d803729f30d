// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/audhost/audio"
)

// Writer encodes planar buffers as a PCM WAV stream. The header is patched
// with the final sizes by Close, so the destination must be seekable.
type Writer struct {
	enc      *wav.Encoder
	format   audio.StreamFormat
	bitDepth int
	scratch  *goaudio.IntBuffer
	frames   int
	closed   bool
}

// NewWriter starts a WAV stream of format at bitDepth bits (16 when zero).
func NewWriter(w io.WriteSeeker, format audio.StreamFormat, bitDepth int) (*Writer, error) {
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("wav writer: %w", err)
	}
	if bitDepth == 0 {
		bitDepth = 16
	}
	switch bitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: got %d", ErrUnsupportedBitDepth, bitDepth)
	}
	return &Writer{
		enc:      wav.NewEncoder(w, int(format.SampleRate), bitDepth, format.Channels, pcmFormat),
		format:   format,
		bitDepth: bitDepth,
	}, nil
}

// Write appends the valid frames of buf, which must have the writer's
// channel count.
func (w *Writer) Write(buf *audio.Buffer) error {
	if w.closed {
		return ErrWriterClosed
	}
	if buf.Channels() != w.format.Channels {
		return fmt.Errorf("wav writer: %w: %d channels, writer has %d",
			audio.ErrFormatUnsupported, buf.Channels(), w.format.Channels)
	}
	w.scratch = buf.AsIntBuffer(w.bitDepth, w.scratch)
	if err := w.enc.Write(w.scratch); err != nil {
		return fmt.Errorf("wav writer: %w", err)
	}
	w.frames += buf.Frames()
	return nil
}

// Frames is the number of frames written so far.
func (w *Writer) Frames() int { return w.frames }

// Close finalizes the header. The underlying writer is left open.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("wav writer: %w", err)
	}
	return nil
}

// WriteBuffer writes buf as a complete WAV stream.
func WriteBuffer(w io.WriteSeeker, buf *audio.Buffer, bitDepth int) error {
	wr, err := NewWriter(w, buf.Format(), bitDepth)
	if err != nil {
		return err
	}
	if err := wr.Write(buf); err != nil {
		return err
	}
	return wr.Close()
}
