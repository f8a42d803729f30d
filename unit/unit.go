// SPDX-License-Identifier: EPL-2.0

package unit

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/ik5/audhost/audio"
	"github.com/ik5/audhost/node"
)

// Manufacturer is the four character code of the bundled units.
var Manufacturer = node.MustFourCC("AuHs")

var (
	MixerDescription = node.Description{
		Type: node.TypeMixer, SubType: node.MustFourCC("mcmx"), Manufacturer: Manufacturer,
		Flags: node.FlagSandboxSafe,
	}
	PlayerDescription = node.Description{
		Type: node.TypeGenerator, SubType: node.MustFourCC("sspl"), Manufacturer: Manufacturer,
		Flags: node.FlagSandboxSafe,
	}
	ToneDescription = node.Description{
		Type: node.TypeGenerator, SubType: node.MustFourCC("tone"), Manufacturer: Manufacturer,
		Flags: node.FlagSandboxSafe,
	}
	RecorderDescription = node.Description{
		Type: node.TypeEffect, SubType: node.MustFourCC("rcrd"), Manufacturer: Manufacturer,
	}
	OutputDescription = node.Description{
		Type: node.TypeOutput, SubType: node.MustFourCC("genr"), Manufacturer: Manufacturer,
		Flags: node.FlagSandboxSafe,
	}
	PassthroughDescription = node.Description{
		Type: node.TypeEffect, SubType: node.MustFourCC("thru"), Manufacturer: Manufacturer,
		Flags: node.FlagSandboxSafe,
	}
)

// Options are shared by the unit constructors.
type Options struct {
	// Format is the initial format of every bus. Defaults to 44.1 kHz stereo.
	Format audio.StreamFormat
	// MaximumFramesToRender defaults to node.DefaultMaximumFramesToRender.
	MaximumFramesToRender int
	// RecorderCapacity is the length of a recorder take in frames.
	// Defaults to one minute at Format's sample rate.
	RecorderCapacity int
}

func (o Options) withDefaults() Options {
	if o.Format.SampleRate == 0 && o.Format.Channels == 0 {
		o.Format = audio.StandardFormat(44100, 2)
	}
	if o.MaximumFramesToRender <= 0 {
		o.MaximumFramesToRender = node.DefaultMaximumFramesToRender
	}
	if o.RecorderCapacity <= 0 {
		o.RecorderCapacity = int(o.Format.SampleRate) * 60
	}
	return o
}

// Register adds every bundled unit to reg at version 1.
func Register(reg *node.Registry, opts Options) error {
	entries := []struct {
		desc    node.Description
		name    string
		factory node.Factory
	}{
		{MixerDescription, "Mixer", func(d node.Description) (node.Node, error) { return NewMixer(d, opts) }},
		{PlayerDescription, "Player", func(d node.Description) (node.Node, error) { return NewPlayer(d, opts) }},
		{ToneDescription, "Tone", func(d node.Description) (node.Node, error) { return NewTone(d, opts) }},
		{RecorderDescription, "Recorder", func(d node.Description) (node.Node, error) { return NewRecorder(d, opts) }},
		{OutputDescription, "Output", func(d node.Description) (node.Node, error) { return NewOutput(d, opts) }},
		{PassthroughDescription, "Passthrough", func(d node.Description) (node.Node, error) { return NewPassthrough(d, opts) }},
	}
	for _, e := range entries {
		if err := reg.Register(e.desc, e.name, 1, e.factory); err != nil {
			return fmt.Errorf("register %s: %w", e.name, err)
		}
	}
	return nil
}

// atomicFloat32 holds a render-side parameter written from the control path.
type atomicFloat32 struct {
	bits atomic.Uint32
}

func (f *atomicFloat32) Load() float32   { return math.Float32frombits(f.bits.Load()) }
func (f *atomicFloat32) Store(v float32) { f.bits.Store(math.Float32bits(v)) }
