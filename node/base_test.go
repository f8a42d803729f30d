// SPDX-License-Identifier: EPL-2.0

package node

import (
	"errors"
	"testing"

	"github.com/ik5/audhost/audio"
)

type testNode struct {
	*Base
}

func (n *testNode) Render(rc *RenderContext) Status { return StatusOK }

func newTestNode(t *testing.T, cfg Config) *testNode {
	t.Helper()

	b, err := NewBase(cfg)
	if err != nil {
		t.Fatalf("NewBase() error = %v", err)
	}
	return &testNode{Base: b}
}

func stereo() audio.StreamFormat { return audio.StandardFormat(44100, 2) }

func TestNewBase_Defaults(t *testing.T) {
	t.Parallel()

	n := newTestNode(t, Config{
		Description: Description{Type: TypeEffect, SubType: MustFourCC("test"), Manufacturer: MustFourCC("AuHs")},
		Inputs:      []BusSpec{{Format: stereo()}},
		Outputs:     []BusSpec{{Format: stereo()}},
	})

	if n.MaximumFramesToRender() != DefaultMaximumFramesToRender {
		t.Errorf("MaximumFramesToRender() = %d, want %d", n.MaximumFramesToRender(), DefaultMaximumFramesToRender)
	}
	if n.Name() != "aufx/test/AuHs" {
		t.Errorf("Name() = %q", n.Name())
	}
	if n.InputBusses().Count() != 1 || n.OutputBusses().Count() != 1 {
		t.Errorf("bus counts = %d/%d, want 1/1", n.InputBusses().Count(), n.OutputBusses().Count())
	}
	if n.RenderResourcesAllocated() {
		t.Error("new node reports allocated resources")
	}
}

func TestNewBase_InvalidBus(t *testing.T) {
	t.Parallel()

	_, err := NewBase(Config{Outputs: []BusSpec{{Format: audio.StandardFormat(0, 2)}}})
	if !errors.Is(err, audio.ErrFormatUnsupported) {
		t.Errorf("NewBase() error = %v, want ErrFormatUnsupported", err)
	}
}

func TestBase_Allocate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		inputs  int
		inPlace bool
		want    int
	}{
		{name: "copying one input", inputs: 1, inPlace: false, want: 3},
		{name: "in place one input", inputs: 1, inPlace: true, want: 2},
		{name: "in place two inputs", inputs: 2, inPlace: true, want: 4},
		{name: "generator", inputs: 0, inPlace: true, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Config{
				Outputs:               []BusSpec{{Format: stereo()}, {Format: stereo()}},
				CanProcessInPlace:     tt.inPlace,
				MaximumFramesToRender: 256,
			}
			for range tt.inputs {
				cfg.Inputs = append(cfg.Inputs, BusSpec{Format: stereo()})
			}
			n := newTestNode(t, cfg)

			if err := n.AllocateRenderResources(); err != nil {
				t.Fatalf("AllocateRenderResources() error = %v", err)
			}
			if got := n.BufferCount(); got != tt.want {
				t.Errorf("BufferCount() = %d, want %d", got, tt.want)
			}
			if got := n.OutputBusses().At(0).Buffer().Capacity(); got != 256 {
				t.Errorf("output capacity = %d, want 256", got)
			}

			n.DeallocateRenderResources()
			if n.BufferCount() != 0 || n.RenderResourcesAllocated() {
				t.Errorf("after deallocate: buffers = %d, allocated = %v", n.BufferCount(), n.RenderResourcesAllocated())
			}
			n.DeallocateRenderResources()
		})
	}
}

func TestBase_AllocateTwice(t *testing.T) {
	t.Parallel()

	n := newTestNode(t, Config{Outputs: []BusSpec{{Format: stereo()}}})
	if err := n.AllocateRenderResources(); err != nil {
		t.Fatalf("AllocateRenderResources() error = %v", err)
	}
	err := n.AllocateRenderResources()
	if !errors.Is(err, ErrResourceAllocation) || !errors.Is(err, ErrAlreadyAllocated) {
		t.Errorf("second AllocateRenderResources() error = %v", err)
	}
}

func TestBase_OperatingFormatIsForced(t *testing.T) {
	t.Parallel()

	op := stereo()
	n := newTestNode(t, Config{
		Inputs:          []BusSpec{{Format: audio.StandardFormat(48000, 1)}},
		Outputs:         []BusSpec{{Format: audio.StandardFormat(22050, 2)}},
		OperatingFormat: &op,
	})
	if err := n.AllocateRenderResources(); err != nil {
		t.Fatalf("AllocateRenderResources() error = %v", err)
	}
	if got := n.InputBusses().At(0).Format(); !got.Equal(op) {
		t.Errorf("input format = %s, want %s", got, op)
	}
	if got := n.OutputBusses().At(0).Format(); !got.Equal(op) {
		t.Errorf("output format = %s, want %s", got, op)
	}
}

func TestBus_SetFormatWhileAllocated(t *testing.T) {
	t.Parallel()

	n := newTestNode(t, Config{Outputs: []BusSpec{{Format: stereo()}}})
	bus := n.OutputBusses().At(0)

	if err := bus.SetFormat(audio.StandardFormat(48000, 2)); err != nil {
		t.Fatalf("SetFormat() inactive error = %v", err)
	}
	if err := n.AllocateRenderResources(); err != nil {
		t.Fatalf("AllocateRenderResources() error = %v", err)
	}
	if err := bus.SetFormat(audio.StandardFormat(48000, 2)); err != nil {
		t.Errorf("SetFormat() same format error = %v", err)
	}
	err := bus.SetFormat(stereo())
	if !errors.Is(err, audio.ErrFormatUnsupported) {
		t.Errorf("SetFormat() while allocated error = %v, want ErrFormatUnsupported", err)
	}
	if _, err := n.OutputBusses().Append(BusSpec{Format: stereo()}); !errors.Is(err, ErrNodeActive) {
		t.Errorf("Append() while allocated error = %v, want ErrNodeActive", err)
	}
	if err := n.SetMaximumFramesToRender(64); !errors.Is(err, ErrNodeActive) {
		t.Errorf("SetMaximumFramesToRender() while allocated error = %v, want ErrNodeActive", err)
	}
}

func TestBus_SetFormatRejectsInt16(t *testing.T) {
	t.Parallel()

	n := newTestNode(t, Config{Inputs: []BusSpec{{Format: stereo()}}})
	f := stereo()
	f.Encoding = audio.Int16Interleaved
	if err := n.InputBusses().At(0).SetFormat(f); !errors.Is(err, audio.ErrFormatUnsupported) {
		t.Errorf("SetFormat(int16) error = %v, want ErrFormatUnsupported", err)
	}
}

func TestBusArray_At(t *testing.T) {
	t.Parallel()

	n := newTestNode(t, Config{Inputs: []BusSpec{{Name: "left", Format: stereo()}}})
	if n.InputBusses().At(1) != nil || n.InputBusses().At(-1) != nil {
		t.Error("At() out of range returned a bus")
	}
	if got := n.InputBusses().At(0).String(); got != "input bus 0 (left)" {
		t.Errorf("String() = %q", got)
	}
}
