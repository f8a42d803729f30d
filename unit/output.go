// SPDX-License-Identifier: EPL-2.0

package unit

import (
	"sync/atomic"

	"github.com/ik5/audhost/node"
)

// Output is the sink of a graph. Its input bus is pinned to the device
// format, so whatever feeds it adopts that format on connect. The device
// side reads the output bus buffer after every period.
type Output struct {
	*node.Base

	peak   atomicFloat32
	frames atomic.Uint64
}

func NewOutput(desc node.Description, opts Options) (*Output, error) {
	opts = opts.withDefaults()
	b, err := node.NewBase(node.Config{
		Name:                  "Output",
		Description:           desc,
		Inputs:                []node.BusSpec{{Name: "main", Format: opts.Format, Pinned: true}},
		Outputs:               []node.BusSpec{{Name: "device", Format: opts.Format}},
		CanProcessInPlace:     true,
		MaximumFramesToRender: opts.MaximumFramesToRender,
	})
	if err != nil {
		return nil, err
	}
	return &Output{Base: b}, nil
}

// Peak is the highest absolute sample value of the last period.
func (o *Output) Peak() float32 { return o.peak.Load() }

// FramesRendered counts frames delivered since the node was created.
func (o *Output) FramesRendered() uint64 { return o.frames.Load() }

func (o *Output) Render(rc *node.RenderContext) node.Status {
	out := rc.Outputs[0]
	out.CopyFrom(rc.Inputs[0])

	var peak float32
	for c := range out.Channels() {
		for _, v := range out.Channel(c) {
			if v < 0 {
				v = -v
			}
			peak = max(peak, v)
		}
	}
	o.peak.Store(peak)
	o.frames.Add(uint64(rc.Frames))
	return node.StatusOK
}
