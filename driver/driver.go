// SPDX-License-Identifier: EPL-2.0

package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/ik5/audhost/audio"
)

// ErrUnsupportedDriver is returned for an unknown driver kind, or for a
// device driver this binary was built without.
var ErrUnsupportedDriver = errors.New("unsupported driver")

// ErrNotStarted is returned by Manual.Step before Start.
var ErrNotStarted = errors.New("driver not started")

// RenderFunc fills out with frames interleaved frames. It is called from the
// driver's real-time context.
type RenderFunc func(frames int, out []float32)

// Driver invokes a RenderFunc once per period.
type Driver interface {
	Name() string
	// Start begins calling render for periods of frames frames in format.
	Start(ctx context.Context, format audio.StreamFormat, frames int, render RenderFunc) error
	// Stop returns once render will not be called again.
	Stop() error
}

const (
	KindTicker    = "ticker"
	KindManual    = "manual"
	KindPortAudio = "portaudio"
	KindOto       = "oto"
)

// Kinds lists every name New accepts.
func Kinds() []string {
	return []string{KindTicker, KindManual, KindPortAudio, KindOto}
}

// New returns the driver registered under kind.
func New(kind string) (Driver, error) {
	switch kind {
	case KindTicker, "":
		return NewTicker(), nil
	case KindManual:
		return NewManual(), nil
	case KindPortAudio:
		return NewPortAudio(), nil
	case KindOto:
		return NewOto(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, kind)
	}
}

func checkStart(format audio.StreamFormat, frames int, render RenderFunc) error {
	if err := format.Validate(); err != nil {
		return err
	}
	if frames <= 0 {
		return fmt.Errorf("frames per period must be positive, got %d", frames)
	}
	if render == nil {
		return errors.New("nil render func")
	}
	return nil
}
