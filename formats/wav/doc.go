// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes PCM WAV files on top of github.com/go-audio/wav.
//
// # Decoding
//
// Decoder produces an audio.Source with interleaved float32 samples in
// [-1.0, 1.0]. 16, 24 and 32-bit integer PCM is supported at any sample rate
// and channel count:
//
//	source, err := wav.Decoder{}.Decode(file)
//	if errors.Is(err, wav.ErrNotWavFile) {
//	    // not a RIFF/WAVE stream
//	}
//
// Inputs that are not an io.ReadSeeker are read into memory first.
//
// # Encoding
//
// Writer encodes planar audio.Buffer values. The recorder node uses it to
// store a take after the engine has stopped:
//
//	w, _ := wav.NewWriter(file, buf.Format(), 16)
//	_ = w.Write(buf)
//	_ = w.Close() // patches the RIFF sizes
//
// WriteBuffer does the same for a single buffer.
package wav
