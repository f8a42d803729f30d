// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"fmt"

	"github.com/ik5/audhost/audio"
	"github.com/ik5/audhost/node"
)

// Connect links output bus fromBus of from to input bus toBus of to.
// See ConnectPoints for the checks and the format negotiation.
func (g *Graph) Connect(from node.Node, fromBus int, to node.Node, toBus int, format *audio.StreamFormat) error {
	return g.ConnectPoints(from, fromBus, []ConnectionPoint{{Node: to, Bus: toBus}}, format)
}

type busKey struct {
	n   node.Node
	bus int
}

type formatChange struct {
	bus *node.Bus
	old audio.StreamFormat
	new audio.StreamFormat
}

// ConnectPoints fans output bus fromBus of from out to every point.
//
// Either all connections are made or none: the graph and every bus format
// are unchanged when an error is returned. The checks run in this order:
// attachment, bus indices, occupancy, cycles, format negotiation.
//
// When format is given both ends take it. Otherwise the source format
// propagates to the inputs, except that a pinned input imposes its own format
// on the source. An input whose channel count differs from the source is
// only accepted when its node implements node.ChannelAdapter.
func (g *Graph) ConnectPoints(from node.Node, fromBus int, points []ConnectionPoint, format *audio.StreamFormat) error {
	if len(points) == 0 {
		return ErrNoPoints
	}
	if !g.Contains(from) {
		return fmt.Errorf("connect from %s: %w", from.Name(), ErrNodeNotAttached)
	}
	src := from.OutputBusses().At(fromBus)
	if src == nil {
		return fmt.Errorf("connect from %s output %d: %w", from.Name(), fromBus, ErrBusIndex)
	}

	dsts := make([]*node.Bus, len(points))
	seen := make(map[busKey]bool, len(points))
	for i, p := range points {
		if !g.Contains(p.Node) {
			return fmt.Errorf("connect to %s: %w", p.Node.Name(), ErrNodeNotAttached)
		}
		dst := p.Node.InputBusses().At(p.Bus)
		if dst == nil {
			return fmt.Errorf("connect to %s input %d: %w", p.Node.Name(), p.Bus, ErrBusIndex)
		}
		dsts[i] = dst
	}
	for _, p := range points {
		key := busKey{p.Node, p.Bus}
		if _, taken := g.InputConnection(p.Node, p.Bus); taken || seen[key] {
			return fmt.Errorf("connect to %s input %d: %w", p.Node.Name(), p.Bus, ErrBusOccupied)
		}
		seen[key] = true
	}
	for _, p := range points {
		if p.Node == from || g.reachable(p.Node, from) {
			return fmt.Errorf("connect %s to %s: %w", from.Name(), p.Node.Name(), ErrCycleDetected)
		}
	}

	changes, err := g.negotiate(from, src, points, dsts, format)
	if err != nil {
		return fmt.Errorf("connect %s output %d: %w", from.Name(), fromBus, err)
	}
	g.willChange()
	if err := apply(changes); err != nil {
		return fmt.Errorf("connect %s output %d: %w", from.Name(), fromBus, err)
	}

	for _, p := range points {
		g.conns = append(g.conns, Connection{From: from, FromBus: fromBus, To: p.Node, ToBus: p.Bus})
	}
	g.invalidate()
	return nil
}

// negotiate works out the format of the source and of every input without
// touching the buses.
func (g *Graph) negotiate(from node.Node, src *node.Bus, points []ConnectionPoint, dsts []*node.Bus, format *audio.StreamFormat) ([]formatChange, error) {
	target := src.Format()
	switch {
	case format != nil:
		if err := format.Validate(); err != nil {
			return nil, err
		}
		target = *format
	default:
		var pinned *node.Bus
		for _, d := range dsts {
			if !d.Pinned() {
				continue
			}
			if pinned != nil && !pinned.Format().Equal(d.Format()) {
				return nil, fmt.Errorf("%w: pinned inputs disagree: %s and %s",
					audio.ErrFormatUnsupported, pinned.Format(), d.Format())
			}
			pinned = d
		}
		if pinned != nil {
			target = pinned.Format()
		}
	}

	if !target.Equal(src.Format()) {
		if n := len(g.OutputConnections(from, src.Index())); n > 0 {
			return nil, fmt.Errorf("%w: %s already feeds %d inputs at %s",
				audio.ErrFormatUnsupported, src, n, src.Format())
		}
	}

	changes := []formatChange{{bus: src, old: src.Format(), new: target}}
	for i, d := range dsts {
		name, bus := points[i].Node.Name(), points[i].Bus
		switch {
		case !d.Format().CanConvert(target):
			return nil, fmt.Errorf("%w: cannot convert %s input %d from %s to %s",
				audio.ErrFormatUnsupported, name, bus, d.Format(), target)
		case d.Pinned() && !d.Format().Equal(target):
			return nil, fmt.Errorf("%w: %s input %d is pinned to %s",
				audio.ErrFormatUnsupported, name, bus, d.Format())
		case format == nil && d.Format().Channels != target.Channels:
			if !adaptsChannels(points[i].Node) {
				return nil, fmt.Errorf("%w: %s has %d channels, %s input %d has %d",
					audio.ErrFormatUnsupported, src, target.Channels, name, bus, d.Format().Channels)
			}
		}
		changes = append(changes, formatChange{bus: d, old: d.Format(), new: target})
	}
	return changes, nil
}

// apply sets every new format, restoring the old ones if one fails.
func apply(changes []formatChange) error {
	for i, c := range changes {
		if err := c.bus.SetFormat(c.new); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = changes[j].bus.SetFormat(changes[j].old)
			}
			return err
		}
	}
	return nil
}

func adaptsChannels(n node.Node) bool {
	a, ok := n.(node.ChannelAdapter)
	return ok && a.AdaptsChannels()
}
