// SPDX-License-Identifier: EPL-2.0

//go:build !oto

package driver

import (
	"context"
	"fmt"

	"github.com/ik5/audhost/audio"
)

// Oto is unavailable in this build; build with -tags oto.
type Oto struct{}

func NewOto() *Oto { return &Oto{} }

func (o *Oto) Name() string { return KindOto }

func (o *Oto) Start(context.Context, audio.StreamFormat, int, RenderFunc) error {
	return fmt.Errorf("%w: %s (build with -tags oto)", ErrUnsupportedDriver, KindOto)
}

func (o *Oto) Stop() error { return nil }
