// SPDX-License-Identifier: EPL-2.0

package node

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ik5/audhost/audio"
)

// Status is the result of one render call. Render never returns errors; a
// non-OK status only degrades the current period.
type Status int

const (
	StatusOK Status = iota
	// StatusNoData means the node had nothing to play and wrote silence.
	StatusNoData
	// StatusUnderrun means the node ran out of data part way through.
	StatusUnderrun
	// StatusOverflow means the node had to drop data it could not store.
	StatusOverflow
	// StatusTooManyFrames means Frames exceeded MaximumFramesToRender.
	StatusTooManyFrames
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoData:
		return "no-data"
	case StatusUnderrun:
		return "underrun"
	case StatusOverflow:
		return "overflow"
	case StatusTooManyFrames:
		return "too-many-frames"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Degraded reports whether s should count against the period.
// StatusNoData is an expected state for idle players.
func (s Status) Degraded() bool {
	return s != StatusOK && s != StatusNoData
}

// Timestamp locates a period on the render timeline.
type Timestamp struct {
	// SampleTime counts frames rendered since the scheduler started.
	SampleTime uint64
	HostTime   time.Time
}

// RenderContext is handed to Render once per period. The scheduler owns it and
// reuses it, so nodes must not keep references past the call.
type RenderContext struct {
	Timestamp Timestamp
	Frames    int
	// Inputs has one buffer per input bus. Unconnected optional buses get a
	// silent buffer.
	Inputs []*audio.Buffer
	// Outputs has one buffer per output bus with Frames already set.
	Outputs []*audio.Buffer
}

// Node is a unit of audio processing with ordered input and output buses.
//
// Everything except Render is called from the control path. Render is called
// from the real-time context and must not allocate, block or do I/O.
type Node interface {
	ID() uuid.UUID
	Name() string
	Description() Description

	InputBusses() *BusArray
	OutputBusses() *BusArray

	CanProcessInPlace() bool
	MaximumFramesToRender() int
	SetMaximumFramesToRender(frames int) error

	AllocateRenderResources() error
	DeallocateRenderResources()
	RenderResourcesAllocated() bool

	Render(rc *RenderContext) Status
}

// ChannelAdapter is implemented by nodes that accept inputs of any channel
// count and adapt them to their own layout (mixers).
type ChannelAdapter interface {
	AdaptsChannels() bool
}

// BusGrower is implemented by nodes that can add input buses on demand.
type BusGrower interface {
	AddInputBus() (*Bus, error)
}
