// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ik5/audhost/node"
)

// Graph owns node membership and the connections between buses. It is not
// safe for concurrent use; the engine serializes access.
type Graph struct {
	nodes []node.Node
	conns []Connection

	// Render order cache, dropped on every mutation.
	order []node.Node

	onChange func()
}

func New() *Graph {
	return &Graph{}
}

func (g *Graph) invalidate() { g.order = nil }

// OnChange registers fn to run before the graph changes membership,
// connections or bus formats. Operations that fail their checks return
// without calling it.
func (g *Graph) OnChange(fn func()) { g.onChange = fn }

func (g *Graph) willChange() {
	if g.onChange != nil {
		g.onChange()
	}
}

// Attach adds n. Attaching a node twice is a no-op.
func (g *Graph) Attach(n node.Node) error {
	if n == nil {
		return errors.New("attach: nil node")
	}
	if g.Contains(n) {
		return nil
	}
	g.willChange()
	g.nodes = append(g.nodes, n)
	g.invalidate()
	return nil
}

// Detach removes n with all its connections and releases its render
// resources.
func (g *Graph) Detach(n node.Node) error {
	i := g.indexOf(n)
	if i < 0 {
		return fmt.Errorf("detach: %w", ErrNodeNotAttached)
	}
	g.willChange()
	g.DisconnectNode(n)
	g.nodes = slices.Delete(g.nodes, i, i+1)
	n.DeallocateRenderResources()
	g.invalidate()
	return nil
}

func (g *Graph) Contains(n node.Node) bool { return g.indexOf(n) >= 0 }

func (g *Graph) indexOf(n node.Node) int {
	for i, m := range g.nodes {
		if m == n {
			return i
		}
	}
	return -1
}

// Nodes returns the attached nodes in insertion order.
func (g *Graph) Nodes() []node.Node { return slices.Clone(g.nodes) }

// Connections returns every connection in the order they were made.
func (g *Graph) Connections() []Connection { return slices.Clone(g.conns) }

// InputConnection returns the connection feeding input bus bus of n.
func (g *Graph) InputConnection(n node.Node, bus int) (Connection, bool) {
	for _, c := range g.conns {
		if c.To == n && c.ToBus == bus {
			return c, true
		}
	}
	return Connection{}, false
}

// OutputConnections returns the connections leaving output bus bus of n.
func (g *Graph) OutputConnections(n node.Node, bus int) []Connection {
	var out []Connection
	for _, c := range g.conns {
		if c.From == n && c.FromBus == bus {
			out = append(out, c)
		}
	}
	return out
}

// Disconnect removes the connection feeding input bus toBus of to.
func (g *Graph) Disconnect(to node.Node, toBus int) error {
	for i, c := range g.conns {
		if c.To == to && c.ToBus == toBus {
			g.willChange()
			g.conns = slices.Delete(g.conns, i, i+1)
			g.invalidate()
			return nil
		}
	}
	return fmt.Errorf("disconnect %s input %d: %w", to.Name(), toBus, ErrNotConnected)
}

// DisconnectNode removes every connection to or from n.
func (g *Graph) DisconnectNode(n node.Node) {
	if !slices.ContainsFunc(g.conns, func(c Connection) bool { return c.touches(n) }) {
		return
	}
	g.willChange()
	g.conns = slices.DeleteFunc(g.conns, func(c Connection) bool { return c.touches(n) })
	g.invalidate()
}

// NextAvailableInputBus returns the first unconnected input bus of n. A full
// node that implements node.BusGrower gets a new bus.
func (g *Graph) NextAvailableInputBus(n node.Node) (int, error) {
	if !g.Contains(n) {
		return 0, fmt.Errorf("next input bus: %w", ErrNodeNotAttached)
	}
	for i := range n.InputBusses().Count() {
		if _, ok := g.InputConnection(n, i); !ok {
			return i, nil
		}
	}
	if grower, ok := n.(node.BusGrower); ok {
		g.willChange()
		bus, err := grower.AddInputBus()
		if err != nil {
			return 0, fmt.Errorf("next input bus on %s: %w", n.Name(), err)
		}
		return bus.Index(), nil
	}
	return 0, fmt.Errorf("next input bus on %s: %w", n.Name(), ErrBusOccupied)
}

// reachable reports whether to can be reached from from along connections.
func (g *Graph) reachable(from, to node.Node) bool {
	seen := map[node.Node]bool{from: true}
	stack := []node.Node{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == to {
			return true
		}
		for _, c := range g.conns {
			if c.From == n && !seen[c.To] {
				seen[c.To] = true
				stack = append(stack, c.To)
			}
		}
	}
	return false
}

// Validate checks that every required input bus is connected.
func (g *Graph) Validate() error {
	for _, n := range g.nodes {
		err := n.InputBusses().Each(func(b *node.Bus) error {
			if b.Optional() {
				return nil
			}
			if _, ok := g.InputConnection(n, b.Index()); !ok {
				return fmt.Errorf("%s %s: %w", n.Name(), b, ErrUnconnectedBus)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
