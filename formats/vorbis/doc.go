// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files with github.com/jfreymuth/oggvorbis.
//
// The decoder already yields float32 samples, so the source only has to check
// that reads stay frame aligned:
//
//	source, err := vorbis.Decoder{}.Decode(file)
//	buf := make([]float32, 4096*source.Format().Channels)
//	n, err := source.ReadSamples(buf)
//
// Register the decoder under "ogg" (and "oga") in an audio.Registry to play
// Ogg files through the player node.
package vorbis
