// SPDX-License-Identifier: EPL-2.0

//go:build !portaudio

package driver

import (
	"context"
	"fmt"

	"github.com/ik5/audhost/audio"
)

// PortAudio is unavailable in this build; build with -tags portaudio.
type PortAudio struct{}

func NewPortAudio() *PortAudio { return &PortAudio{} }

func (p *PortAudio) Name() string { return KindPortAudio }

func (p *PortAudio) Start(context.Context, audio.StreamFormat, int, RenderFunc) error {
	return fmt.Errorf("%w: %s (build with -tags portaudio)", ErrUnsupportedDriver, KindPortAudio)
}

func (p *PortAudio) Stop() error { return nil }
