// SPDX-License-Identifier: EPL-2.0

package unit

import (
	"fmt"

	"github.com/ik5/audhost/audio"
	"github.com/ik5/audhost/node"
)

// MaxMixerInputs bounds how far a mixer grows through AddInputBus.
const MaxMixerInputs = 64

// Mixer sums any number of inputs into one output. Inputs of any channel
// count are accepted and adapted the way audio.MixInto does; sample rates
// must match the output.
type Mixer struct {
	*node.Base

	volume atomicFloat32
}

func NewMixer(desc node.Description, opts Options) (*Mixer, error) {
	opts = opts.withDefaults()
	b, err := node.NewBase(node.Config{
		Name:                  "Mixer",
		Description:           desc,
		Inputs:                []node.BusSpec{{Format: opts.Format, Optional: true}},
		Outputs:               []node.BusSpec{{Format: opts.Format}},
		MaximumFramesToRender: opts.MaximumFramesToRender,
	})
	if err != nil {
		return nil, err
	}
	m := &Mixer{Base: b}
	m.volume.Store(1)
	return m, nil
}

func (m *Mixer) AdaptsChannels() bool { return true }

// AddInputBus appends an optional input in the output format.
func (m *Mixer) AddInputBus() (*node.Bus, error) {
	if m.InputBusses().Count() >= MaxMixerInputs {
		return nil, fmt.Errorf("%s: %w", m.Name(), ErrTooManyInputs)
	}
	return m.InputBusses().Append(node.BusSpec{
		Format:   m.OutputBusses().At(0).Format(),
		Optional: true,
	})
}

// SetVolume sets the output gain, clamped to [0, 1]. Safe while rendering.
func (m *Mixer) SetVolume(v float32) {
	m.volume.Store(min(max(v, 0), 1))
}

func (m *Mixer) Volume() float32 { return m.volume.Load() }

func (m *Mixer) AllocateRenderResources() error {
	rate := m.OutputBusses().At(0).Format().SampleRate
	err := m.InputBusses().Each(func(b *node.Bus) error {
		if b.Format().SampleRate != rate {
			return fmt.Errorf("%s runs at %gHz, output at %gHz: %w",
				b, b.Format().SampleRate, rate, audio.ErrFormatUnsupported)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", node.ErrResourceAllocation, m.Name(), err)
	}
	return m.Base.AllocateRenderResources()
}

func (m *Mixer) Render(rc *node.RenderContext) node.Status {
	out := rc.Outputs[0]
	gain := m.volume.Load()
	out.Clear()
	for _, in := range rc.Inputs {
		audio.MixInto(out, in, gain, true)
	}
	return node.StatusOK
}
