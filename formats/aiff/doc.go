// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff to decode AIFF files, Apple's
// standard uncompressed format. 16, 24 and 32-bit PCM is supported in any
// channel layout and sample rate:
//
//	source, err := aiff.Decoder{}.Decode(file)
//	if err != nil {
//	    // ErrNotAiffFile, ErrUnsupportedBitDepth, ...
//	}
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// Samples are interleaved float32 normalized to [-1.0, 1.0]. Big-endian
// sample data is handled by the underlying decoder.
//
// go-audio needs an io.ReadSeeker; any other reader is loaded into memory
// first.
package aiff
