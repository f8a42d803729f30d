// SPDX-License-Identifier: EPL-2.0

package unit

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ik5/audhost/audio"
	"github.com/ik5/audhost/formats/wav"
	"github.com/ik5/audhost/node"
)

// Recorder passes its input through unchanged and, while armed, copies it
// into a take allocated together with the render resources.
//
// The take outlives DeallocateRenderResources so it can still be written
// after teardown; the next allocation replaces it.
type Recorder struct {
	*node.Base

	capacity int
	take     *audio.Buffer
	written  atomic.Int64
	armed    atomic.Bool
	overflow atomic.Bool
}

func NewRecorder(desc node.Description, opts Options) (*Recorder, error) {
	opts = opts.withDefaults()
	b, err := node.NewBase(node.Config{
		Name:                  "Recorder",
		Description:           desc,
		Inputs:                []node.BusSpec{{Format: opts.Format}},
		Outputs:               []node.BusSpec{{Format: opts.Format}},
		CanProcessInPlace:     true,
		MaximumFramesToRender: opts.MaximumFramesToRender,
	})
	if err != nil {
		return nil, err
	}
	return &Recorder{Base: b, capacity: opts.RecorderCapacity}, nil
}

// SetCapacity changes the take length. Only allowed without render resources.
func (r *Recorder) SetCapacity(frames int) error {
	if frames <= 0 {
		return fmt.Errorf("%s: capacity %d: %w", r.Name(), frames, ErrInvalidParameter)
	}
	if r.RenderResourcesAllocated() {
		return fmt.Errorf("%s: %w", r.Name(), node.ErrNodeActive)
	}
	r.capacity = frames
	return nil
}

func (r *Recorder) AllocateRenderResources() error {
	if err := r.Base.AllocateRenderResources(); err != nil {
		return err
	}
	take, err := audio.NewBuffer(r.InputBusses().At(0).Format(), r.capacity)
	if err != nil {
		r.Base.DeallocateRenderResources()
		return fmt.Errorf("%w: %s: %w", node.ErrResourceAllocation, r.Name(), err)
	}
	r.take = take
	r.written.Store(0)
	r.overflow.Store(false)
	return nil
}

func (r *Recorder) DeallocateRenderResources() {
	r.armed.Store(false)
	r.Base.DeallocateRenderResources()
}

// Arm starts a new take. Render resources must be allocated.
func (r *Recorder) Arm() error {
	if r.take == nil || !r.RenderResourcesAllocated() {
		return fmt.Errorf("%s: arm: %w", r.Name(), ErrNoTake)
	}
	r.written.Store(0)
	r.overflow.Store(false)
	r.armed.Store(true)
	return nil
}

func (r *Recorder) Disarm()          { r.armed.Store(false) }
func (r *Recorder) Armed() bool      { return r.armed.Load() }
func (r *Recorder) Overflowed() bool { return r.overflow.Load() }
func (r *Recorder) Frames() int      { return int(r.written.Load()) }

// Take returns the recorded frames. It fails while the recorder is armed.
func (r *Recorder) Take() (*audio.Buffer, error) {
	if r.armed.Load() {
		return nil, fmt.Errorf("%s: %w", r.Name(), ErrRecorderArmed)
	}
	if r.take == nil || r.written.Load() == 0 {
		return nil, fmt.Errorf("%s: %w", r.Name(), ErrNoTake)
	}
	r.take.SetFrames(int(r.written.Load()))
	return r.take, nil
}

// WriteWAV encodes the take as PCM WAV at bitDepth bits.
func (r *Recorder) WriteWAV(w io.WriteSeeker, bitDepth int) error {
	take, err := r.Take()
	if err != nil {
		return err
	}
	if err := wav.WriteBuffer(w, take, bitDepth); err != nil {
		return fmt.Errorf("%s: %w", r.Name(), err)
	}
	return nil
}

func (r *Recorder) Render(rc *node.RenderContext) node.Status {
	in, out := rc.Inputs[0], rc.Outputs[0]
	out.CopyFrom(in)

	if !r.armed.Load() {
		return node.StatusOK
	}
	pos := int(r.written.Load())
	n := min(in.Frames(), r.capacity-pos)
	r.take.SetFrames(pos + n)
	for c := range r.take.Channels() {
		copy(r.take.Channel(c)[pos:], in.Channel(c)[:n])
	}
	r.written.Store(int64(pos + n))

	if n < in.Frames() {
		r.armed.Store(false)
		r.overflow.Store(true)
		return node.StatusOverflow
	}
	return node.StatusOK
}
