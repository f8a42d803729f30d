// SPDX-License-Identifier: EPL-2.0

package unit

import (
	"fmt"
	"math"

	"github.com/ik5/audhost/node"
)

// Tone generates a sine wave on every channel of its output.
type Tone struct {
	*node.Base

	frequency atomicFloat32
	amplitude atomicFloat32
	phase     float64
}

func NewTone(desc node.Description, opts Options) (*Tone, error) {
	opts = opts.withDefaults()
	b, err := node.NewBase(node.Config{
		Name:                  "Tone",
		Description:           desc,
		Outputs:               []node.BusSpec{{Format: opts.Format}},
		CanProcessInPlace:     true,
		MaximumFramesToRender: opts.MaximumFramesToRender,
	})
	if err != nil {
		return nil, err
	}
	t := &Tone{Base: b}
	t.frequency.Store(440)
	t.amplitude.Store(0.25)
	return t, nil
}

// SetFrequency sets the pitch in Hz; it must be below the Nyquist frequency.
func (t *Tone) SetFrequency(hz float32) error {
	nyquist := t.OutputBusses().At(0).Format().SampleRate / 2
	if hz <= 0 || float64(hz) >= nyquist {
		return fmt.Errorf("%s: frequency %gHz: %w", t.Name(), hz, ErrInvalidParameter)
	}
	t.frequency.Store(hz)
	return nil
}

// SetAmplitude sets the peak level, clamped to [0, 1].
func (t *Tone) SetAmplitude(a float32) { t.amplitude.Store(min(max(a, 0), 1)) }

func (t *Tone) Frequency() float32 { return t.frequency.Load() }
func (t *Tone) Amplitude() float32 { return t.amplitude.Load() }

func (t *Tone) Render(rc *node.RenderContext) node.Status {
	out := rc.Outputs[0]
	rate := out.Format().SampleRate
	step := 2 * math.Pi * float64(t.frequency.Load()) / rate
	amp := float64(t.amplitude.Load())

	first := out.Channel(0)
	for i := range first {
		first[i] = float32(amp * math.Sin(t.phase))
		t.phase += step
		if t.phase >= 2*math.Pi {
			t.phase -= 2 * math.Pi
		}
	}
	for c := 1; c < out.Channels(); c++ {
		copy(out.Channel(c), first)
	}
	return node.StatusOK
}
