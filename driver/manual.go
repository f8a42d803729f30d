// SPDX-License-Identifier: EPL-2.0

package driver

import (
	"context"
	"sync"

	"github.com/ik5/audhost/audio"
)

// Manual renders only when Step is called, on the caller's goroutine.
type Manual struct {
	mtx    sync.Mutex
	render RenderFunc
	frames int
	out    []float32
}

func NewManual() *Manual { return &Manual{} }

func (m *Manual) Name() string { return KindManual }

func (m *Manual) Start(_ context.Context, format audio.StreamFormat, frames int, render RenderFunc) error {
	if err := checkStart(format, frames, render); err != nil {
		return err
	}
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.render = render
	m.frames = frames
	m.out = make([]float32, frames*format.Channels)
	return nil
}

func (m *Manual) Stop() error {
	m.mtx.Lock()
	m.render = nil
	m.mtx.Unlock()
	return nil
}

// Step renders periods periods and returns the samples of the last one. The
// slice is reused by the next Step.
func (m *Manual) Step(periods int) ([]float32, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if m.render == nil {
		return nil, ErrNotStarted
	}
	for range periods {
		m.render(m.frames, m.out)
	}
	return m.out, nil
}
