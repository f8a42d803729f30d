// SPDX-License-Identifier: EPL-2.0

//go:build oto

package driver

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"

	"github.com/ik5/audhost/audio"
)

// oto allows one context per process, so it is shared by every Oto driver
// and kept for the life of the process.
var (
	otoMtx    sync.Mutex
	otoCtx    *oto.Context
	otoFormat audio.StreamFormat
)

func otoContext(format audio.StreamFormat) (*oto.Context, error) {
	otoMtx.Lock()
	defer otoMtx.Unlock()

	if otoCtx != nil {
		if otoFormat.SampleRate != format.SampleRate || otoFormat.Channels != format.Channels {
			return nil, fmt.Errorf("oto: context already opened at %s, cannot switch to %s", otoFormat, format)
		}
		if err := otoCtx.Resume(); err != nil {
			return nil, fmt.Errorf("oto: resume: %w", err)
		}
		return otoCtx, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(format.SampleRate),
		ChannelCount: format.Channels,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("oto: new context: %w", err)
	}
	<-ready
	otoCtx, otoFormat = ctx, format
	return ctx, nil
}

// Oto renders into the default output device through oto's pull model: the
// oto player reads float32 little-endian bytes and every read renders up to
// one period.
type Oto struct {
	mtx    sync.Mutex
	player *oto.Player
	reader *otoReader
}

func NewOto() *Oto { return &Oto{} }

func (o *Oto) Name() string { return KindOto }

func (o *Oto) Start(_ context.Context, format audio.StreamFormat, frames int, render RenderFunc) error {
	if err := checkStart(format, frames, render); err != nil {
		return err
	}

	o.mtx.Lock()
	defer o.mtx.Unlock()
	if o.player != nil {
		return errors.New("oto: already started")
	}

	ctx, err := otoContext(format)
	if err != nil {
		return err
	}
	o.reader = &otoReader{
		render:   render,
		channels: format.Channels,
		frames:   frames,
		scratch:  make([]float32, frames*format.Channels),
	}
	o.player = ctx.NewPlayer(o.reader)
	o.player.Play()
	return nil
}

func (o *Oto) Stop() error {
	o.mtx.Lock()
	defer o.mtx.Unlock()
	if o.player == nil {
		return nil
	}
	o.reader.stop()
	o.player.Pause()
	err := o.player.Close()
	o.player, o.reader = nil, nil

	otoMtx.Lock()
	if serr := otoCtx.Suspend(); err == nil {
		err = serr
	}
	otoMtx.Unlock()
	if err != nil {
		return fmt.Errorf("oto: stop: %w", err)
	}
	return nil
}

type otoReader struct {
	render   RenderFunc
	channels int
	frames   int
	scratch  []float32

	mtx     sync.Mutex
	stopped atomic.Bool
}

// stop waits for a Read in progress and makes later reads return io.EOF.
func (r *otoReader) stop() {
	r.mtx.Lock()
	r.stopped.Store(true)
	r.mtx.Unlock()
}

func (r *otoReader) Read(p []byte) (int, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.stopped.Load() {
		return 0, io.EOF
	}

	frameBytes := 4 * r.channels
	frames := min(len(p)/frameBytes, r.frames)
	if frames == 0 {
		return 0, nil
	}
	out := r.scratch[:frames*r.channels]
	r.render(frames, out)
	for i, v := range out {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	return frames * frameBytes, nil
}
