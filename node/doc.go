// SPDX-License-Identifier: EPL-2.0

// Package node defines the processing units hosted by the graph.
//
// A Node has ordered input and output buses, each carrying one
// audio.StreamFormat. Before rendering a node acquires its render resources:
// bus formats are fixed and buffers are allocated once. Render is then called
// once per period from the real-time context.
//
// Concrete nodes embed Base, which covers identity, buses and resource
// management, and add Render:
//
//	type gain struct {
//	    *node.Base
//	}
//
//	func (g *gain) Render(rc *node.RenderContext) node.Status {
//	    audio.MixInto(rc.Outputs[0], rc.Inputs[0], 0.5, false)
//	    return node.StatusOK
//	}
//
// # Components
//
// Components are registered in a Registry under a Description (type, subtype
// and manufacturer four character codes) and created with Instantiate, which
// delivers its single result on a channel:
//
//	reg := node.NewRegistry()
//	_ = reg.Register(desc, "Gain", 1, newGain)
//	res := <-reg.Instantiate(ctx, desc)
//	if res.Err != nil {
//	    // ErrInstantiationFailed
//	}
package node
