// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// This package uses github.com/hajimehoshi/go-mp3, which always produces
// 16-bit stereo PCM. The returned audio.Source therefore reports two channels
// regardless of the file's own layout:
//
//	source, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//	    // not an MP3 stream
//	}
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// Feed the source to audio.Load to bring it to a graph format before handing
// it to a player node.
package mp3
