// SPDX-License-Identifier: EPL-2.0

package driver

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/ik5/audhost/audio"
)

// Ticker drives periods from a wall clock on a goroutine locked to its OS
// thread. The rendered samples are discarded unless OnPeriod is set, which
// makes it the driver of choice for headless hosts and tests.
type Ticker struct {
	// OnPeriod, when set, sees every rendered period. It runs on the
	// render goroutine.
	OnPeriod func(out []float32)

	mtx    sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewTicker() *Ticker { return &Ticker{} }

func (t *Ticker) Name() string { return KindTicker }

func (t *Ticker) Start(ctx context.Context, format audio.StreamFormat, frames int, render RenderFunc) error {
	if err := checkStart(format, frames, render); err != nil {
		return err
	}

	t.mtx.Lock()
	defer t.mtx.Unlock()
	if t.done != nil {
		return errors.New("ticker: already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})

	out := make([]float32, frames*format.Channels)
	period := format.PeriodDuration(frames)
	onPeriod := t.OnPeriod
	go func(done chan struct{}) {
		defer close(done)
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		tick := time.NewTicker(period)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				render(frames, out)
				if onPeriod != nil {
					onPeriod(out)
				}
			}
		}
	}(t.done)
	return nil
}

// Stop cancels the render goroutine and waits for it to exit.
func (t *Ticker) Stop() error {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if t.done == nil {
		return nil
	}
	t.cancel()
	<-t.done
	t.done, t.cancel = nil, nil
	return nil
}
