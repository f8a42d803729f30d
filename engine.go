// SPDX-License-Identifier: EPL-2.0

package audhost

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ik5/audhost/audio"
	"github.com/ik5/audhost/driver"
	"github.com/ik5/audhost/formats"
	"github.com/ik5/audhost/graph"
	"github.com/ik5/audhost/node"
	"github.com/ik5/audhost/scheduler"
	"github.com/ik5/audhost/unit"
)

// Engine owns a render graph and the scheduler that plays it.
//
// Every method is safe for concurrent use. Topology changes are refused with
// ErrEngineRunning while the engine renders; after Stop they are accepted
// again and release the nodes' render resources, which the next Start
// allocates afresh.
type Engine struct {
	cfg      Config
	logger   *slog.Logger
	registry *node.Registry
	decoders *audio.Registry
	drv      driver.Driver

	mtx       sync.Mutex
	graph     *graph.Graph
	mainMixer *unit.Mixer
	output    *unit.Output
	sched     *scheduler.Scheduler
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithDriver replaces the driver named by Config.Driver.
func WithDriver(d driver.Driver) Option {
	return func(e *Engine) { e.drv = d }
}

// WithRegistry replaces the component registry. A replaced registry does
// not get the bundled units registered.
func WithRegistry(r *node.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithDecoders replaces the file decoder registry.
func WithDecoders(r *audio.Registry) Option {
	return func(e *Engine) { e.decoders = r }
}

func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	e := &Engine{cfg: cfg, graph: graph.New()}
	e.graph.OnChange(e.unprepareLocked)
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.logger = e.logger.With("component", "engine")

	if e.registry == nil {
		e.registry = node.NewRegistry()
		if err := unit.Register(e.registry, e.unitOptions()); err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
	}
	if e.decoders == nil {
		e.decoders = formats.NewRegistry()
	}
	if e.drv == nil {
		drv, err := driver.New(cfg.Driver)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		e.drv = drv
	}
	return e, nil
}

func (e *Engine) unitOptions() unit.Options {
	return unit.Options{
		Format:                e.cfg.Format(),
		MaximumFramesToRender: e.cfg.MaximumFramesToRender,
	}
}

func (e *Engine) Config() Config            { return e.cfg }
func (e *Engine) Registry() *node.Registry  { return e.registry }
func (e *Engine) Decoders() *audio.Registry { return e.decoders }
func (e *Engine) Driver() driver.Driver     { return e.drv }

// Instantiate builds a registered component and waits for it.
func (e *Engine) Instantiate(ctx context.Context, desc node.Description) (node.Node, error) {
	n, err := e.registry.InstantiateSync(ctx, desc)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("instantiated", "node", n.Name(), "description", desc.String())
	return n, nil
}

// mutate runs fn against the graph unless the engine is rendering. The graph
// calls unprepareLocked right before it changes anything, so a stopped engine
// keeps its prepared render state through operations that fail.
func (e *Engine) mutate(op string, fn func(g *graph.Graph) error) error {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	if e.runningLocked() {
		return fmt.Errorf("%s: %w", op, ErrEngineRunning)
	}
	return fn(e.graph)
}

func (e *Engine) Attach(n node.Node) error {
	return e.mutate("attach", func(g *graph.Graph) error { return g.Attach(n) })
}

func (e *Engine) Detach(n node.Node) error {
	return e.mutate("detach", func(g *graph.Graph) error {
		if err := g.Detach(n); err != nil {
			return err
		}
		e.forgetLocked(n)
		return nil
	})
}

// forgetLocked drops the engine's own references to n.
func (e *Engine) forgetLocked(n node.Node) {
	if e.mainMixer != nil && node.Node(e.mainMixer) == n {
		e.mainMixer = nil
	}
	if e.output != nil && node.Node(e.output) == n {
		e.output = nil
	}
}

// Connect links output bus fromBus of from to input bus toBus of to. A nil
// format lets the graph negotiate one.
func (e *Engine) Connect(from node.Node, fromBus int, to node.Node, toBus int, format *audio.StreamFormat) error {
	return e.mutate("connect", func(g *graph.Graph) error {
		return g.Connect(from, fromBus, to, toBus, format)
	})
}

// ConnectPoints fans one output bus out to several inputs in a single
// all-or-nothing change.
func (e *Engine) ConnectPoints(from node.Node, fromBus int, points []graph.ConnectionPoint, format *audio.StreamFormat) error {
	return e.mutate("connect", func(g *graph.Graph) error {
		return g.ConnectPoints(from, fromBus, points, format)
	})
}

func (e *Engine) Disconnect(to node.Node, toBus int) error {
	return e.mutate("disconnect", func(g *graph.Graph) error {
		return g.Disconnect(to, toBus)
	})
}

// NextAvailableInputBus returns a free input bus on n, growing mixers.
func (e *Engine) NextAvailableInputBus(n node.Node) (int, error) {
	var bus int
	err := e.mutate("next input bus", func(g *graph.Graph) error {
		var err error
		bus, err = g.NextAvailableInputBus(n)
		return err
	})
	return bus, err
}

// OutputNode returns the engine's sink, attaching it on first use. Its
// input is pinned to the device format.
func (e *Engine) OutputNode() (*unit.Output, error) {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.outputLocked()
}

func (e *Engine) outputLocked() (*unit.Output, error) {
	if e.output != nil {
		return e.output, nil
	}
	if e.runningLocked() {
		return nil, fmt.Errorf("output node: %w", ErrEngineRunning)
	}
	out, err := unit.NewOutput(unit.OutputDescription, e.unitOptions())
	if err != nil {
		return nil, fmt.Errorf("output node: %w", err)
	}
	if err := e.graph.Attach(out); err != nil {
		return nil, fmt.Errorf("output node: %w", err)
	}
	e.output = out
	return out, nil
}

// MainMixer returns the engine's mixer, creating it and connecting it to the
// output node on first use.
func (e *Engine) MainMixer() (*unit.Mixer, error) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.mainMixer != nil {
		return e.mainMixer, nil
	}
	if e.runningLocked() {
		return nil, fmt.Errorf("main mixer: %w", ErrEngineRunning)
	}
	out, err := e.outputLocked()
	if err != nil {
		return nil, err
	}
	mixer, err := unit.NewMixer(unit.MixerDescription, e.unitOptions())
	if err != nil {
		return nil, fmt.Errorf("main mixer: %w", err)
	}
	if err := e.graph.Attach(mixer); err != nil {
		return nil, fmt.Errorf("main mixer: %w", err)
	}
	if err := e.graph.Connect(mixer, 0, out, 0, nil); err != nil {
		_ = e.graph.Detach(mixer)
		return nil, fmt.Errorf("main mixer: %w", err)
	}
	e.mainMixer = mixer
	return mixer, nil
}

// RenderOrder returns the nodes in the order a period renders them.
func (e *Engine) RenderOrder() ([]node.Node, error) {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.graph.RenderOrder()
}

// Nodes lists the attached nodes in attach order.
func (e *Engine) Nodes() []node.Node {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.graph.Nodes()
}

// Connections lists every connection in the order they were made.
func (e *Engine) Connections() []graph.Connection {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.graph.Connections()
}

// Start prepares the graph, allocating every node and building the render
// plan, and hands it to the driver. Starting a running engine is a no-op.
//
// Any preparation failure is returned wrapped in ErrEngineNotReady and leaves
// no node allocated by this call.
func (e *Engine) Start(ctx context.Context) error {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.runningLocked() {
		return nil
	}
	if e.sched == nil {
		if err := e.prepareLocked(); err != nil {
			return fmt.Errorf("%w: %w", ErrEngineNotReady, err)
		}
	}
	if err := e.sched.Start(ctx, e.drv); err != nil {
		e.unprepareLocked()
		return fmt.Errorf("%w: %w", ErrEngineNotReady, err)
	}
	return nil
}

func (e *Engine) prepareLocked() error {
	if err := e.graph.Validate(); err != nil {
		return err
	}
	order, err := e.graph.RenderOrder()
	if err != nil {
		return err
	}

	var allocated []node.Node
	release := func() {
		for _, n := range allocated {
			n.DeallocateRenderResources()
		}
	}
	for _, n := range order {
		if n.RenderResourcesAllocated() {
			continue
		}
		if err := n.AllocateRenderResources(); err != nil {
			release()
			return err
		}
		allocated = append(allocated, n)
	}

	plan, err := e.graph.BuildPlan(e.cfg.FramesPerPeriod)
	if err != nil {
		release()
		return err
	}
	var sink *audio.Buffer
	if e.output != nil {
		sink = plan.Output(e.output, 0)
	}
	sched, err := scheduler.New(plan, scheduler.Config{
		Format:          e.cfg.Format(),
		FramesPerPeriod: e.cfg.FramesPerPeriod,
		Sink:            sink,
		StatusQueueSize: e.cfg.StatusQueueSize,
		ReportInterval:  e.cfg.ReportInterval,
		Logger:          e.logger,
	})
	if err != nil {
		release()
		return err
	}

	names := make([]string, len(order))
	for i, n := range order {
		names[i] = n.Name()
	}
	e.logger.Info("prepared", "order", names, "frames", e.cfg.FramesPerPeriod)
	e.sched = sched
	return nil
}

// unprepareLocked releases every node's render resources and drops the
// scheduler. Caller holds e.mtx and the engine is not running; the graph
// calls it through OnChange.
func (e *Engine) unprepareLocked() {
	if e.sched == nil {
		return
	}
	for _, n := range e.graph.Nodes() {
		n.DeallocateRenderResources()
	}
	e.sched = nil
}

// Stop halts rendering once the period in flight completes. Nodes keep their
// render resources so Start can resume without preparing again.
func (e *Engine) Stop() error {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	if e.sched == nil {
		return nil
	}
	return e.sched.Stop()
}

// Teardown stops the engine and releases every node's render resources.
func (e *Engine) Teardown() error {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	var err error
	if e.sched != nil {
		err = e.sched.Stop()
		e.sched = nil
	}
	for _, n := range e.graph.Nodes() {
		n.DeallocateRenderResources()
	}
	return err
}

func (e *Engine) Running() bool {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.runningLocked()
}

func (e *Engine) runningLocked() bool {
	return e.sched != nil && e.sched.Running()
}

// Stats reports the scheduler counters of the current session.
func (e *Engine) Stats() scheduler.Stats {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	if e.sched == nil {
		return scheduler.Stats{}
	}
	return e.sched.Stats()
}
