// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"fmt"
	"slices"

	"github.com/ik5/audhost/node"
)

// RenderOrder returns the nodes sources first. Among nodes that are ready at
// the same time the one attached first comes first, so the same sequence of
// attach and connect calls always yields the same order. The result is cached
// until the topology changes.
func (g *Graph) RenderOrder() ([]node.Node, error) {
	if g.order != nil {
		return slices.Clone(g.order), nil
	}

	pos := make(map[node.Node]int, len(g.nodes))
	for i, n := range g.nodes {
		pos[n] = i
	}
	indegree := make([]int, len(g.nodes))
	for _, c := range g.conns {
		indegree[pos[c.To]]++
	}

	order := make([]node.Node, 0, len(g.nodes))
	done := make([]bool, len(g.nodes))
	for len(order) < len(g.nodes) {
		next := -1
		for i := range g.nodes {
			if !done[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			// Connect rejects cycles, so this only happens if the
			// connection list was corrupted.
			return nil, fmt.Errorf("render order: %w", ErrCycleDetected)
		}
		done[next] = true
		n := g.nodes[next]
		order = append(order, n)
		for _, c := range g.conns {
			if c.From == n {
				indegree[pos[c.To]]--
			}
		}
	}

	g.order = order
	return slices.Clone(order), nil
}
