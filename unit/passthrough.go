// SPDX-License-Identifier: EPL-2.0

package unit

import (
	"github.com/ik5/audhost/audio"
	"github.com/ik5/audhost/node"
)

// PassthroughFormat is the operating format of Passthrough. Every bus is
// forced to it when render resources are allocated.
var PassthroughFormat = audio.StandardFormat(44100, 2)

// Passthrough is a two-in, two-out unit that copies input bus i to output
// bus i. It cannot render in place, so it holds a buffer per input bus while
// allocated. Unconnected inputs produce silence.
type Passthrough struct {
	*node.Base
}

func NewPassthrough(desc node.Description, opts Options) (*Passthrough, error) {
	opts = opts.withDefaults()
	op := PassthroughFormat

	bus := node.BusSpec{Format: op, Optional: true}
	b, err := node.NewBase(node.Config{
		Name:                  "Passthrough",
		Description:           desc,
		Inputs:                []node.BusSpec{bus, bus},
		Outputs:               []node.BusSpec{{Format: op}, {Format: op}},
		OperatingFormat:       &op,
		MaximumFramesToRender: opts.MaximumFramesToRender,
	})
	if err != nil {
		return nil, err
	}
	return &Passthrough{Base: b}, nil
}

func (p *Passthrough) Render(rc *node.RenderContext) node.Status {
	for i, out := range rc.Outputs {
		if i < len(rc.Inputs) {
			out.CopyFrom(rc.Inputs[i])
		}
	}
	return node.StatusOK
}
