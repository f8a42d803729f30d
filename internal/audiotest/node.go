// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"sync/atomic"

	"github.com/ik5/audhost/audio"
	"github.com/ik5/audhost/node"
)

// NodeConfig shapes a MockNode.
type NodeConfig struct {
	Name    string
	Format  audio.StreamFormat
	Inputs  int
	Outputs int
	// OptionalInputs makes every input bus optional.
	OptionalInputs bool
	InPlace        bool
	MaxFrames      int
	// Value is added to every output sample on top of the summed inputs.
	Value float32
	// Status is returned from every Render call.
	Status node.Status
	// Adapter makes the node report node.ChannelAdapter.
	Adapter bool
}

// MockNode sums its inputs plus a constant into every output bus and counts
// its render calls.
type MockNode struct {
	*node.Base

	value   float32
	status  node.Status
	adapter bool

	renders atomic.Int64
	frames  atomic.Int64
	// Log, when set, receives the node name on every render.
	Log *[]string
}

func NewMockNode(cfg NodeConfig) *MockNode {
	if cfg.Format.Channels == 0 {
		cfg.Format = audio.StandardFormat(44100, 2)
	}
	ins := make([]node.BusSpec, cfg.Inputs)
	for i := range ins {
		ins[i] = node.BusSpec{Format: cfg.Format, Optional: cfg.OptionalInputs}
	}
	outs := make([]node.BusSpec, cfg.Outputs)
	for i := range outs {
		outs[i] = node.BusSpec{Format: cfg.Format}
	}
	b, err := node.NewBase(node.Config{
		Name:                  cfg.Name,
		Description:           node.Description{Type: node.MustFourCC("aufx"), SubType: node.MustFourCC("mock"), Manufacturer: node.MustFourCC("Test")},
		Inputs:                ins,
		Outputs:               outs,
		CanProcessInPlace:     cfg.InPlace,
		MaximumFramesToRender: cfg.MaxFrames,
	})
	if err != nil {
		panic(err)
	}
	return &MockNode{Base: b, value: cfg.Value, status: cfg.Status, adapter: cfg.Adapter}
}

// NewSourceNode is a mock with no inputs and one output producing value.
func NewSourceNode(name string, value float32) *MockNode {
	return NewMockNode(NodeConfig{Name: name, Outputs: 1, Value: value})
}

// NewEffectNode is a mock with one required input and one output.
func NewEffectNode(name string) *MockNode {
	return NewMockNode(NodeConfig{Name: name, Inputs: 1, Outputs: 1})
}

// NewSinkNode is a mock with inputs required inputs and one output.
func NewSinkNode(name string, inputs int) *MockNode {
	return NewMockNode(NodeConfig{Name: name, Inputs: inputs, Outputs: 1})
}

func (m *MockNode) AdaptsChannels() bool { return m.adapter }

// Renders is the number of Render calls so far.
func (m *MockNode) Renders() int { return int(m.renders.Load()) }

// FramesRendered is the total of rc.Frames over every Render call.
func (m *MockNode) FramesRendered() int { return int(m.frames.Load()) }

func (m *MockNode) Render(rc *node.RenderContext) node.Status {
	m.renders.Add(1)
	m.frames.Add(int64(rc.Frames))
	if m.Log != nil {
		*m.Log = append(*m.Log, m.Name())
	}
	for _, out := range rc.Outputs {
		for _, in := range rc.Inputs {
			audio.MixInto(out, in, 1, true)
		}
		if m.value != 0 {
			for c := range out.Channels() {
				ch := out.Channel(c)
				for i := range ch {
					ch[i] += m.value
				}
			}
		}
	}
	return m.status
}
