// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"fmt"

	"github.com/ik5/audhost/node"
)

// Connection links output bus FromBus of From to input bus ToBus of To.
type Connection struct {
	From    node.Node
	FromBus int
	To      node.Node
	ToBus   int
}

func (c Connection) String() string {
	return fmt.Sprintf("%s[%d] -> %s[%d]", c.From.Name(), c.FromBus, c.To.Name(), c.ToBus)
}

// ConnectionPoint names an input bus on a node.
type ConnectionPoint struct {
	Node node.Node
	Bus  int
}

func (c Connection) touches(n node.Node) bool {
	return c.From == n || c.To == n
}
