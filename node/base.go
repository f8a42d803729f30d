// SPDX-License-Identifier: EPL-2.0

package node

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ik5/audhost/audio"
)

// DefaultMaximumFramesToRender is used when Config leaves the limit at zero.
const DefaultMaximumFramesToRender = 4096

// Config describes a node to NewBase.
type Config struct {
	Name        string
	Description Description
	Inputs      []BusSpec
	Outputs     []BusSpec

	// OperatingFormat, when set, is forced onto every bus when render
	// resources are allocated.
	OperatingFormat *audio.StreamFormat

	CanProcessInPlace     bool
	MaximumFramesToRender int
}

// Base implements the bookkeeping half of Node: identity, buses and render
// resources. Concrete nodes embed it and add Render. Nodes that need more
// resources override AllocateRenderResources and call the Base version first.
type Base struct {
	id        uuid.UUID
	name      string
	desc      Description
	inputs    *BusArray
	outputs   *BusArray
	operating *audio.StreamFormat
	inPlace   bool
	maxFrames int

	allocated atomic.Bool
}

// NewBase builds the bus arrays from cfg. The arrays are fixed for the life of
// the node except through BusArray.Append.
func NewBase(cfg Config) (*Base, error) {
	b := &Base{
		id:        uuid.New(),
		name:      cfg.Name,
		desc:      cfg.Description,
		inPlace:   cfg.CanProcessInPlace,
		maxFrames: cfg.MaximumFramesToRender,
	}
	if b.maxFrames <= 0 {
		b.maxFrames = DefaultMaximumFramesToRender
	}
	if cfg.OperatingFormat != nil {
		if err := cfg.OperatingFormat.Validate(); err != nil {
			return nil, fmt.Errorf("%s: operating format: %w", cfg.Name, err)
		}
		op := *cfg.OperatingFormat
		b.operating = &op
	}

	var err error
	if b.inputs, err = newBusArray(b, Input, cfg.Inputs); err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Name, err)
	}
	if b.outputs, err = newBusArray(b, Output, cfg.Outputs); err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Name, err)
	}
	return b, nil
}

func (b *Base) ID() uuid.UUID              { return b.id }
func (b *Base) Description() Description   { return b.desc }
func (b *Base) InputBusses() *BusArray     { return b.inputs }
func (b *Base) OutputBusses() *BusArray    { return b.outputs }
func (b *Base) CanProcessInPlace() bool    { return b.inPlace }
func (b *Base) MaximumFramesToRender() int { return b.maxFrames }

func (b *Base) Name() string {
	if b.name == "" {
		return b.desc.String()
	}
	return b.name
}

func (b *Base) RenderResourcesAllocated() bool { return b.allocated.Load() }

func (b *Base) SetMaximumFramesToRender(frames int) error {
	if frames <= 0 {
		return fmt.Errorf("%s: maximum frames must be positive, got %d", b.Name(), frames)
	}
	if b.allocated.Load() {
		return fmt.Errorf("%s: set maximum frames: %w", b.Name(), ErrNodeActive)
	}
	b.maxFrames = frames
	return nil
}

// NeedsInputBuffers reports whether allocation gives every input bus its own
// buffer. That is the case when the node cannot render in place or has to
// combine several inputs.
func (b *Base) NeedsInputBuffers() bool {
	return !b.inPlace || b.inputs.Count() > 1
}

// AllocateRenderResources reconciles bus formats and allocates the buffers:
// one per output bus, plus one per input bus when NeedsInputBuffers.
func (b *Base) AllocateRenderResources() error {
	if b.allocated.Load() {
		return fmt.Errorf("%w: %s: %w", ErrResourceAllocation, b.Name(), ErrAlreadyAllocated)
	}

	reconcile := func(bus *Bus) error {
		if b.operating != nil {
			if !bus.format.Equal(*b.operating) {
				return bus.SetFormat(*b.operating)
			}
			return nil
		}
		if err := bus.format.Validate(); err != nil {
			return fmt.Errorf("%s: %w", bus, err)
		}
		return nil
	}
	if err := b.inputs.Each(reconcile); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrResourceAllocation, b.Name(), err)
	}
	if err := b.outputs.Each(reconcile); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrResourceAllocation, b.Name(), err)
	}

	allocate := func(bus *Bus) error {
		buf, err := audio.NewBuffer(bus.format, b.maxFrames)
		if err != nil {
			return fmt.Errorf("%s: %w", bus, err)
		}
		bus.buffer = buf
		return nil
	}
	err := b.outputs.Each(allocate)
	if err == nil && b.NeedsInputBuffers() {
		err = b.inputs.Each(allocate)
	}
	if err != nil {
		b.releaseBuffers()
		return fmt.Errorf("%w: %s: %w", ErrResourceAllocation, b.Name(), err)
	}

	b.allocated.Store(true)
	return nil
}

// DeallocateRenderResources releases every buffer. Calling it on a node
// without resources is a no-op.
func (b *Base) DeallocateRenderResources() {
	b.releaseBuffers()
	b.allocated.Store(false)
}

func (b *Base) releaseBuffers() {
	release := func(bus *Bus) error {
		bus.buffer = nil
		return nil
	}
	_ = b.inputs.Each(release)
	_ = b.outputs.Each(release)
}

// BufferCount is the number of buffers currently held by the node's buses.
func (b *Base) BufferCount() int {
	n := 0
	count := func(bus *Bus) error {
		if bus.buffer != nil {
			n++
		}
		return nil
	}
	_ = b.inputs.Each(count)
	_ = b.outputs.Each(count)
	return n
}
