// SPDX-License-Identifier: EPL-2.0

package scheduler_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/ik5/audhost/audio"
	"github.com/ik5/audhost/driver"
	"github.com/ik5/audhost/graph"
	"github.com/ik5/audhost/internal/audiotest"
	"github.com/ik5/audhost/node"
	"github.com/ik5/audhost/scheduler"
)

var stereo = audio.StandardFormat(44100, 2)

type syncBuffer struct {
	mtx sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.buf.String()
}

// panicNode blows up in Render.
type panicNode struct {
	*audiotest.MockNode
}

func (p panicNode) Render(*node.RenderContext) node.Status { panic("boom") }

// capture records the render func instead of calling it.
type capture struct {
	render driver.RenderFunc
	fail   error
}

func (c *capture) Name() string { return "capture" }
func (c *capture) Stop() error  { return nil }

func (c *capture) Start(_ context.Context, _ audio.StreamFormat, _ int, render driver.RenderFunc) error {
	if c.fail != nil {
		return c.fail
	}
	c.render = render
	return nil
}

// build returns a plan src -> tap, plus any extra source nodes, allocated
// for frames frames.
func build(t *testing.T, frames int, extra ...node.Node) (*graph.Plan, *audiotest.MockNode, *audiotest.MockNode) {
	t.Helper()
	src := audiotest.NewSourceNode("src", 0.5)
	tap := audiotest.NewMockNode(audiotest.NodeConfig{Name: "tap", Inputs: 1, Outputs: 1, InPlace: true})

	g := graph.New()
	for _, n := range append([]node.Node{src, tap}, extra...) {
		if err := g.Attach(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.Connect(src, 0, tap, 0, nil); err != nil {
		t.Fatal(err)
	}
	for _, n := range g.Nodes() {
		if err := n.AllocateRenderResources(); err != nil {
			t.Fatal(err)
		}
	}
	plan, err := g.BuildPlan(frames)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	return plan, src, tap
}

func newScheduler(t *testing.T, plan *graph.Plan, sink *audio.Buffer, cfg scheduler.Config) (*scheduler.Scheduler, *syncBuffer) {
	t.Helper()
	logs := &syncBuffer{}
	cfg.Format = stereo
	cfg.Sink = sink
	cfg.Logger = slog.New(slog.NewTextHandler(logs, nil))
	s, err := scheduler.New(plan, cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s, logs
}

func TestRenderPeriod(t *testing.T) {
	t.Parallel()

	plan, src, tap := build(t, 64)
	s, _ := newScheduler(t, plan, plan.Output(tap, 0), scheduler.Config{})

	out := make([]float32, 150*2)
	if s.RenderPeriod(150, out) {
		t.Error("RenderPeriod() reported a degraded period")
	}
	for i, v := range out {
		if v != 0.5 {
			t.Fatalf("out[%d] = %v, want 0.5", i, v)
		}
	}

	if got := src.Renders(); got != 3 {
		t.Errorf("src rendered %d times, want 3 chunks", got)
	}
	if got := src.FramesRendered(); got != 150 {
		t.Errorf("src rendered %d frames, want 150", got)
	}
	st := s.Stats()
	if st.Periods != 1 || st.DegradedPeriods != 0 || st.LastSampleTime != 150 {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestRenderPeriodWithoutSink(t *testing.T) {
	t.Parallel()

	plan, _, _ := build(t, 32)
	s, _ := newScheduler(t, plan, nil, scheduler.Config{})
	out := []float32{1, 1, 1, 1}
	s.RenderPeriod(2, out)
	for i, v := range out {
		if v != 0 {
			t.Errorf("out[%d] = %v, want silence", i, v)
		}
	}
}

func TestDegradedPeriods(t *testing.T) {
	t.Parallel()

	under := audiotest.NewMockNode(audiotest.NodeConfig{Name: "under", Outputs: 1, Status: node.StatusUnderrun})
	idle := audiotest.NewMockNode(audiotest.NodeConfig{Name: "idle", Outputs: 1, Status: node.StatusNoData})
	boom := panicNode{audiotest.NewMockNode(audiotest.NodeConfig{Name: "boom", Outputs: 1})}
	plan, _, tap := build(t, 64, under, idle, boom)

	s, logs := newScheduler(t, plan, plan.Output(tap, 0), scheduler.Config{FramesPerPeriod: 64})
	drv := driver.NewManual()
	if err := s.Start(context.Background(), drv); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	out, err := drv.Step(4)
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if out[0] != 0.5 {
		t.Errorf("out[0] = %v, want 0.5", out[0])
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	st := s.Stats()
	if st.Periods != 4 || st.DegradedPeriods != 4 || st.DroppedEvents != 0 {
		t.Errorf("Stats() = %+v, want 4 periods all degraded", st)
	}
	text := logs.String()
	for _, want := range []string{"render degraded", "node=under", "status=underrun", "node=boom", "status=error"} {
		if !strings.Contains(text, want) {
			t.Errorf("logs missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "node=idle") {
		t.Errorf("no-data should not be reported:\n%s", text)
	}
}

func TestDroppedEvents(t *testing.T) {
	t.Parallel()

	a := audiotest.NewMockNode(audiotest.NodeConfig{Name: "a", Outputs: 1, Status: node.StatusOverflow})
	b := audiotest.NewMockNode(audiotest.NodeConfig{Name: "b", Outputs: 1, Status: node.StatusOverflow})
	plan, _, _ := build(t, 16, a, b)
	s, _ := newScheduler(t, plan, nil, scheduler.Config{StatusQueueSize: 1})

	s.RenderPeriod(16, nil)
	if got := s.Stats().DroppedEvents; got != 1 {
		t.Errorf("DroppedEvents = %d, want 1", got)
	}
}

func TestStartStop(t *testing.T) {
	t.Parallel()

	plan, src, tap := build(t, 64)
	s, _ := newScheduler(t, plan, plan.Output(tap, 0), scheduler.Config{})

	if err := s.Start(context.Background(), &capture{fail: errors.New("no device")}); err == nil {
		t.Fatal("Start() with a failing driver should fail")
	}
	if s.Running() {
		t.Fatal("Running() after failed Start")
	}

	drv := &capture{}
	if err := s.Start(context.Background(), drv); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Start(context.Background(), drv); !errors.Is(err, scheduler.ErrAlreadyRunning) {
		t.Errorf("second Start() error = %v, want ErrAlreadyRunning", err)
	}

	out := make([]float32, 128)
	drv.render(64, out)
	if src.Renders() != 1 {
		t.Fatalf("src rendered %d times, want 1", src.Renders())
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}

	out[0] = 1
	drv.render(64, out)
	if src.Renders() != 1 {
		t.Errorf("src rendered after Stop")
	}
	if out[0] != 0 {
		t.Errorf("out[0] = %v after Stop, want silence", out[0])
	}

	// Restart on the same plan.
	if err := s.Start(context.Background(), drv); err != nil {
		t.Fatalf("restart error = %v", err)
	}
	drv.render(64, out)
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	if got := s.Stats().Periods; got != 2 {
		t.Errorf("Periods = %d, want 2", got)
	}
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	plan, _, _ := build(t, 16)
	if _, err := scheduler.New(nil, scheduler.Config{}); err == nil {
		t.Error("New(nil) should fail")
	}
	if _, err := scheduler.New(plan, scheduler.Config{StatusQueueSize: 3}); !errors.Is(err, scheduler.ErrQueueSize) {
		t.Errorf("New() error = %v, want ErrQueueSize", err)
	}
}
