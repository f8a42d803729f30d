// SPDX-License-Identifier: EPL-2.0

// Package formats wires every bundled decoder into an audio.Registry.
package formats

import (
	"github.com/ik5/audhost/audio"
	"github.com/ik5/audhost/formats/aiff"
	"github.com/ik5/audhost/formats/mp3"
	"github.com/ik5/audhost/formats/vorbis"
	"github.com/ik5/audhost/formats/wav"
)

// Register adds the bundled decoders to reg under their file extensions.
func Register(reg *audio.Registry) {
	reg.Register("wav", wav.Decoder{})
	reg.Register("wave", wav.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})
}

// NewRegistry returns a registry with every bundled decoder.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	Register(reg)
	return reg
}
