// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"fmt"

	"github.com/ik5/audhost/audio"
	"github.com/ik5/audhost/node"
)

type copyIn struct {
	dst, src *audio.Buffer
}

type step struct {
	node   node.Node
	rc     node.RenderContext
	copies []copyIn
	silent []*audio.Buffer
}

// Plan is the render schedule of one graph session. Everything it needs per
// period is resolved when it is built, so RenderStep does not allocate.
type Plan struct {
	steps     []step
	maxFrames int
}

// BuildPlan resolves the render order into steps for periods of up to
// frames frames. Every node must have its render resources allocated.
//
// For each input bus the step either copies the upstream output into the
// bus's own buffer, hands the upstream buffer over directly (nodes that
// render in place), or uses a silent buffer for an unconnected optional bus.
func (g *Graph) BuildPlan(frames int) (*Plan, error) {
	if frames <= 0 {
		return nil, fmt.Errorf("build plan: frames must be positive, got %d", frames)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	order, err := g.RenderOrder()
	if err != nil {
		return nil, err
	}
	if err := g.checkFormats(); err != nil {
		return nil, err
	}

	p := &Plan{steps: make([]step, 0, len(order)), maxFrames: frames}
	for _, n := range order {
		if !n.RenderResourcesAllocated() {
			return nil, fmt.Errorf("build plan: %s: %w", n.Name(), ErrNotAllocated)
		}
		if frames > n.MaximumFramesToRender() {
			return nil, fmt.Errorf("build plan: %s: %d > %d: %w",
				n.Name(), frames, n.MaximumFramesToRender(), ErrTooManyFrames)
		}

		s := step{node: n}
		err := n.InputBusses().Each(func(b *node.Bus) error {
			own := b.Buffer()
			c, ok := g.InputConnection(n, b.Index())
			if !ok {
				if own == nil {
					var err error
					if own, err = audio.NewBuffer(b.Format(), frames); err != nil {
						return err
					}
				}
				s.silent = append(s.silent, own)
				s.rc.Inputs = append(s.rc.Inputs, own)
				return nil
			}

			upstream := c.From.OutputBusses().At(c.FromBus).Buffer()
			if upstream == nil {
				return fmt.Errorf("%s: %w", c, ErrNotAllocated)
			}
			if own != nil {
				s.copies = append(s.copies, copyIn{dst: own, src: upstream})
				s.rc.Inputs = append(s.rc.Inputs, own)
			} else {
				s.rc.Inputs = append(s.rc.Inputs, upstream)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("build plan: %s: %w", n.Name(), err)
		}

		err = n.OutputBusses().Each(func(b *node.Bus) error {
			if b.Buffer() == nil {
				return fmt.Errorf("%s: %w", b, ErrNotAllocated)
			}
			s.rc.Outputs = append(s.rc.Outputs, b.Buffer())
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("build plan: %s: %w", n.Name(), err)
		}
		p.steps = append(p.steps, s)
	}
	return p, nil
}

// checkFormats verifies that both ends of every connection still agree
// after allocation, which may have forced an operating format onto a bus.
func (g *Graph) checkFormats() error {
	for _, c := range g.conns {
		sf := c.From.OutputBusses().At(c.FromBus).Format()
		df := c.To.InputBusses().At(c.ToBus).Format()
		if sf.SampleRate != df.SampleRate {
			return fmt.Errorf("%s: %w: %s feeds %s", c, audio.ErrFormatUnsupported, sf, df)
		}
		if sf.Channels != df.Channels && !adaptsChannels(c.To) {
			return fmt.Errorf("%s: %w: %s feeds %s", c, audio.ErrFormatUnsupported, sf, df)
		}
	}
	return nil
}

// Len is the number of steps.
func (p *Plan) Len() int { return len(p.steps) }

// MaxFrames is the largest frame count a single RenderStep accepts.
func (p *Plan) MaxFrames() int { return p.maxFrames }

// Node returns the node rendered by step i.
func (p *Plan) Node(i int) node.Node { return p.steps[i].node }

// Nodes lists the nodes in render order.
func (p *Plan) Nodes() []node.Node {
	out := make([]node.Node, len(p.steps))
	for i := range p.steps {
		out[i] = p.steps[i].node
	}
	return out
}

// Output returns the buffer of output bus bus of n, or nil when n is not
// part of the plan.
func (p *Plan) Output(n node.Node, bus int) *audio.Buffer {
	for i := range p.steps {
		if p.steps[i].node == n && bus >= 0 && bus < len(p.steps[i].rc.Outputs) {
			return p.steps[i].rc.Outputs[bus]
		}
	}
	return nil
}

// RenderStep renders step i for frames frames: silent inputs are cleared,
// copied inputs refreshed from upstream, outputs cleared, then the node's
// Render is called. Steps must run in order within a period.
func (p *Plan) RenderStep(i, frames int, ts node.Timestamp) node.Status {
	if frames > p.maxFrames {
		return node.StatusTooManyFrames
	}
	s := &p.steps[i]
	for _, b := range s.silent {
		b.SetFrames(frames)
		b.Clear()
	}
	for _, c := range s.copies {
		c.dst.CopyFrom(c.src)
	}
	for _, out := range s.rc.Outputs {
		out.SetFrames(frames)
		out.Clear()
	}
	s.rc.Frames = frames
	s.rc.Timestamp = ts
	return s.node.Render(&s.rc)
}
