// SPDX-License-Identifier: EPL-2.0

//go:build portaudio

package driver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/ik5/audhost/audio"
)

// PortAudio renders into the default output device. The device callback
// runs on PortAudio's own real-time thread.
type PortAudio struct {
	mtx    sync.Mutex
	stream *portaudio.Stream
}

func NewPortAudio() *PortAudio { return &PortAudio{} }

func (p *PortAudio) Name() string { return KindPortAudio }

func (p *PortAudio) Start(_ context.Context, format audio.StreamFormat, frames int, render RenderFunc) error {
	if err := checkStart(format, frames, render); err != nil {
		return err
	}

	p.mtx.Lock()
	defer p.mtx.Unlock()
	if p.stream != nil {
		return errors.New("portaudio: already started")
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio: initialize: %w", err)
	}
	ch := format.Channels
	stream, err := portaudio.OpenDefaultStream(0, ch, format.SampleRate, frames, func(out []float32) {
		render(len(out)/ch, out)
	})
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("portaudio: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("portaudio: start stream: %w", err)
	}
	p.stream = stream
	return nil
}

// Stop blocks until the device callback has returned for the last time.
func (p *PortAudio) Stop() error {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	if p.stream == nil {
		return nil
	}
	err := p.stream.Stop()
	if cerr := p.stream.Close(); err == nil {
		err = cerr
	}
	p.stream = nil
	if terr := portaudio.Terminate(); err == nil {
		err = terr
	}
	if err != nil {
		return fmt.Errorf("portaudio: stop: %w", err)
	}
	return nil
}
