// SPDX-License-Identifier: EPL-2.0

package unit

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/ik5/audhost/audio"
	"github.com/ik5/audhost/node"
)

// Player plays a preloaded buffer on its single output bus.
//
// Files are decoded, resampled and channel-mapped when they are scheduled,
// so Render only copies samples. A buffer can be scheduled while the engine
// is running; playback switches over at the next period.
type Player struct {
	*node.Base

	buffer  atomic.Pointer[audio.Buffer]
	pos     atomic.Int64
	playing atomic.Bool
	loop    atomic.Bool
	volume  atomicFloat32
}

func NewPlayer(desc node.Description, opts Options) (*Player, error) {
	opts = opts.withDefaults()
	b, err := node.NewBase(node.Config{
		Name:                  "Player",
		Description:           desc,
		Outputs:               []node.BusSpec{{Format: opts.Format}},
		CanProcessInPlace:     true,
		MaximumFramesToRender: opts.MaximumFramesToRender,
	})
	if err != nil {
		return nil, err
	}
	p := &Player{Base: b}
	p.volume.Store(1)
	return p, nil
}

func (p *Player) format() audio.StreamFormat {
	return p.OutputBusses().At(0).Format()
}

// Schedule replaces the current buffer and rewinds. buf must match the
// output bus in sample rate and channel count.
func (p *Player) Schedule(buf *audio.Buffer) error {
	if buf == nil {
		return fmt.Errorf("%s: %w", p.Name(), ErrNothingScheduled)
	}
	if err := p.fits(buf); err != nil {
		return fmt.Errorf("%s: %w", p.Name(), err)
	}
	p.buffer.Store(buf)
	p.pos.Store(0)
	return nil
}

func (p *Player) fits(buf *audio.Buffer) error {
	f, bf := p.format(), buf.Format()
	if bf.SampleRate != f.SampleRate || bf.Channels != f.Channels {
		return fmt.Errorf("%w: buffer is %s, output is %s", audio.ErrFormatUnsupported, bf, f)
	}
	return nil
}

// AllocateRenderResources refuses a scheduled buffer that no longer fits the
// output bus. Connecting the player to a pinned input can renegotiate the
// output format after Schedule.
func (p *Player) AllocateRenderResources() error {
	if buf := p.buffer.Load(); buf != nil {
		if err := p.fits(buf); err != nil {
			return fmt.Errorf("%w: %s: %w", node.ErrResourceAllocation, p.Name(), err)
		}
	}
	return p.Base.AllocateRenderResources()
}

// ScheduleSource loads src in the output format and schedules it. src is
// closed afterwards.
func (p *Player) ScheduleSource(src audio.Source) error {
	defer src.Close()

	buf, err := audio.Load(src, p.format(), 0)
	if err != nil {
		return fmt.Errorf("%s: %w", p.Name(), err)
	}
	return p.Schedule(buf)
}

// ScheduleFile decodes path with the decoder registered for its extension.
func (p *Player) ScheduleFile(reg *audio.Registry, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%s: %w", p.Name(), err)
	}
	defer f.Close()

	src, err := reg.DecodeFile(path, f)
	if err != nil {
		return fmt.Errorf("%s: %w", p.Name(), err)
	}
	return p.ScheduleSource(src)
}

// Play starts playback of the scheduled buffer.
func (p *Player) Play() error {
	if p.buffer.Load() == nil {
		return fmt.Errorf("%s: %w", p.Name(), ErrNothingScheduled)
	}
	p.playing.Store(true)
	return nil
}

func (p *Player) Pause() { p.playing.Store(false) }

// Stop pauses and rewinds.
func (p *Player) Stop() {
	p.playing.Store(false)
	p.pos.Store(0)
}

func (p *Player) Playing() bool       { return p.playing.Load() }
func (p *Player) SetLoop(loop bool)   { p.loop.Store(loop) }
func (p *Player) Position() int       { return int(p.pos.Load()) }
func (p *Player) SetVolume(v float32) { p.volume.Store(min(max(v, 0), 1)) }

func (p *Player) Render(rc *node.RenderContext) node.Status {
	out := rc.Outputs[0]
	buf := p.buffer.Load()
	if !p.playing.Load() || buf == nil || buf.Frames() == 0 {
		out.Clear()
		return node.StatusNoData
	}
	if buf.Channels() != out.Channels() {
		out.Clear()
		return node.StatusError
	}

	gain := p.volume.Load()
	pos := int(p.pos.Load())
	written := 0
	for written < rc.Frames {
		if pos >= buf.Frames() {
			if !p.loop.Load() {
				break
			}
			pos = 0
		}
		n := min(rc.Frames-written, buf.Frames()-pos)
		for c := range out.Channels() {
			dst := out.Channel(c)[written : written+n]
			src := buf.Channel(c)[pos : pos+n]
			for i, v := range src {
				dst[i] = v * gain
			}
		}
		written += n
		pos += n
	}
	if pos >= buf.Frames() && p.loop.Load() {
		pos = 0
	}
	p.pos.Store(int64(pos))

	if written < rc.Frames {
		for c := range out.Channels() {
			clear(out.Channel(c)[written:])
		}
		p.playing.Store(false)
		if written == 0 {
			return node.StatusNoData
		}
		return node.StatusUnderrun
	}
	return node.StatusOK
}
