// SPDX-License-Identifier: EPL-2.0

package node

import (
	"fmt"

	"github.com/ik5/audhost/audio"
)

// Direction tells whether a bus receives or produces audio.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Input {
		return "input"
	}
	return "output"
}

type allocationState interface {
	RenderResourcesAllocated() bool
}

// Bus is a connection point on a node. It is owned by exactly one node and its
// format can only change while that node holds no render resources.
type Bus struct {
	index    int
	dir      Direction
	name     string
	format   audio.StreamFormat
	optional bool
	pinned   bool
	owner    allocationState
	buffer   *audio.Buffer
}

// BusSpec describes a bus at construction time.
type BusSpec struct {
	Name   string
	Format audio.StreamFormat
	// Optional input buses may stay unconnected; they render silence.
	Optional bool
	// Pinned input buses keep their format when a connection is made.
	Pinned bool
}

func (b *Bus) Index() int                 { return b.index }
func (b *Bus) Direction() Direction       { return b.dir }
func (b *Bus) Name() string               { return b.name }
func (b *Bus) Format() audio.StreamFormat { return b.format }
func (b *Bus) Optional() bool             { return b.optional }
func (b *Bus) Pinned() bool               { return b.pinned }

// Buffer is the bus's own storage, nil unless render resources are allocated
// and the owning node needs one for this bus.
func (b *Bus) Buffer() *audio.Buffer { return b.buffer }

// SetPinned marks the bus format as fixed for negotiation.
func (b *Bus) SetPinned(pinned bool) { b.pinned = pinned }

// SetFormat changes the bus format. It fails with audio.ErrFormatUnsupported
// when f cannot be carried by a bus, or when the owner has render resources
// allocated and f differs from the current format.
func (b *Bus) SetFormat(f audio.StreamFormat) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%s bus %d: %w", b.dir, b.index, err)
	}
	if f.Equal(b.format) {
		return nil
	}
	if b.owner != nil && b.owner.RenderResourcesAllocated() {
		return fmt.Errorf("%s bus %d: %w: cannot change %s to %s while render resources are allocated",
			b.dir, b.index, audio.ErrFormatUnsupported, b.format, f)
	}
	b.format = f
	return nil
}

func (b *Bus) String() string {
	if b.name != "" {
		return fmt.Sprintf("%s bus %d (%s)", b.dir, b.index, b.name)
	}
	return fmt.Sprintf("%s bus %d", b.dir, b.index)
}

// BusArray is the ordered set of buses of one direction on a node. It is built
// once when the node is constructed.
type BusArray struct {
	dir    Direction
	owner  allocationState
	busses []*Bus
}

func newBusArray(owner allocationState, dir Direction, specs []BusSpec) (*BusArray, error) {
	a := &BusArray{dir: dir, owner: owner, busses: make([]*Bus, 0, len(specs))}
	for _, spec := range specs {
		if _, err := a.add(spec); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *BusArray) add(spec BusSpec) (*Bus, error) {
	if err := spec.Format.Validate(); err != nil {
		return nil, fmt.Errorf("%s bus %d: %w", a.dir, len(a.busses), err)
	}
	b := &Bus{
		index:    len(a.busses),
		dir:      a.dir,
		name:     spec.Name,
		format:   spec.Format,
		optional: spec.Optional,
		pinned:   spec.Pinned,
		owner:    a.owner,
	}
	a.busses = append(a.busses, b)
	return b, nil
}

// Append adds a bus. Only allowed while the owner holds no render resources.
func (a *BusArray) Append(spec BusSpec) (*Bus, error) {
	if a.owner != nil && a.owner.RenderResourcesAllocated() {
		return nil, fmt.Errorf("append %s bus: %w", a.dir, ErrNodeActive)
	}
	return a.add(spec)
}

func (a *BusArray) Direction() Direction { return a.dir }
func (a *BusArray) Count() int           { return len(a.busses) }

// At returns bus i, or nil when i is out of range.
func (a *BusArray) At(i int) *Bus {
	if i < 0 || i >= len(a.busses) {
		return nil
	}
	return a.busses[i]
}

// Each calls fn for every bus in order and stops at the first error.
func (a *BusArray) Each(fn func(*Bus) error) error {
	for _, b := range a.busses {
		if err := fn(b); err != nil {
			return err
		}
	}
	return nil
}
