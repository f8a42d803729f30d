// SPDX-License-Identifier: EPL-2.0

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ik5/audhost/audio"
	"github.com/ik5/audhost/driver"
	"github.com/ik5/audhost/graph"
	"github.com/ik5/audhost/node"
)

const (
	DefaultStatusQueueSize = 64
	DefaultReportInterval  = 100 * time.Millisecond
)

// inflightPoll is how often Stop checks for the period in flight.
const inflightPoll = 50 * time.Microsecond

// Config configures a Scheduler.
type Config struct {
	// Format is the device format handed to the driver.
	Format audio.StreamFormat
	// FramesPerPeriod is the period size requested from the driver.
	FramesPerPeriod int
	// Sink is copied to the device buffer after every period. Nil
	// renders silence to the device.
	Sink *audio.Buffer

	StatusQueueSize int
	ReportInterval  time.Duration
	Logger          *slog.Logger
}

// Event reports one degraded node render.
type Event struct {
	Period     uint64
	SampleTime uint64
	Node       string
	Status     node.Status
}

// Stats counts periods since the scheduler was created.
type Stats struct {
	Periods         uint64
	DegradedPeriods uint64
	DroppedEvents   uint64
	LastSampleTime  uint64
}

// Scheduler runs a graph.Plan once per driver period.
//
// RenderPeriod is the real-time half: it neither allocates nor locks, and a
// node that misbehaves only degrades the period it rendered in. Status
// events travel to a reporter goroutine that logs them.
type Scheduler struct {
	plan   *graph.Plan
	cfg    Config
	logger *slog.Logger
	events *ring
	names  []string

	sampleTime atomic.Uint64
	periods    atomic.Uint64
	degraded   atomic.Uint64
	dropped    atomic.Uint64

	running  atomic.Bool
	inflight atomic.Int32

	mtx       sync.Mutex
	drv       driver.Driver
	reportCtl context.CancelFunc
	reportWG  sync.WaitGroup
}

func New(plan *graph.Plan, cfg Config) (*Scheduler, error) {
	if plan == nil {
		return nil, fmt.Errorf("scheduler: nil plan")
	}
	if cfg.FramesPerPeriod <= 0 {
		cfg.FramesPerPeriod = plan.MaxFrames()
	}
	if cfg.StatusQueueSize == 0 {
		cfg.StatusQueueSize = DefaultStatusQueueSize
	}
	if cfg.ReportInterval <= 0 {
		cfg.ReportInterval = DefaultReportInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	events, err := newRing(cfg.StatusQueueSize)
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	names := make([]string, plan.Len())
	for i := range names {
		names[i] = plan.Node(i).Name()
	}
	return &Scheduler{
		plan:   plan,
		cfg:    cfg,
		logger: cfg.Logger.With("component", "scheduler"),
		events: events,
		names:  names,
	}, nil
}

// RenderPeriod renders frames frames through every node in plan order and
// writes the sink, interleaved, into out. Periods longer than the plan's
// maximum are rendered in chunks. It reports whether any node degraded the
// period.
func (s *Scheduler) RenderPeriod(frames int, out []float32) bool {
	period := s.periods.Load()
	degraded := false
	ch := s.cfg.Format.Channels

	for offset := 0; offset < frames; {
		n := min(frames-offset, s.plan.MaxFrames())
		ts := node.Timestamp{SampleTime: s.sampleTime.Load(), HostTime: time.Now()}
		for i := range s.plan.Len() {
			st := s.renderStep(i, n, ts)
			if !st.Degraded() {
				continue
			}
			degraded = true
			ev := Event{Period: period, SampleTime: ts.SampleTime, Node: s.names[i], Status: st}
			if !s.events.push(ev) {
				s.dropped.Add(1)
			}
		}
		s.deliver(out, offset, n, ch)
		s.sampleTime.Add(uint64(n))
		offset += n
	}

	s.periods.Add(1)
	if degraded {
		s.degraded.Add(1)
	}
	return degraded
}

func (s *Scheduler) renderStep(i, frames int, ts node.Timestamp) (st node.Status) {
	defer func() {
		if recover() != nil {
			st = node.StatusError
		}
	}()
	return s.plan.RenderStep(i, frames, ts)
}

func (s *Scheduler) deliver(out []float32, offset, frames, ch int) {
	if out == nil || ch <= 0 {
		return
	}
	lo := min(offset*ch, len(out))
	hi := min((offset+frames)*ch, len(out))
	dst := out[lo:hi]
	if s.cfg.Sink == nil || s.cfg.Sink.Channels() != ch {
		clear(dst)
		return
	}
	written := s.cfg.Sink.Interleave(dst)
	clear(dst[written:])
}

// callback is what the driver calls. It renders nothing once Stop has begun.
func (s *Scheduler) callback(frames int, out []float32) {
	s.inflight.Add(1)
	defer s.inflight.Add(-1)
	if !s.running.Load() {
		clear(out)
		return
	}
	s.RenderPeriod(frames, out)
}

// Start hands the scheduler to drv and starts the status reporter.
func (s *Scheduler) Start(ctx context.Context, drv driver.Driver) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.running.Load() {
		return ErrAlreadyRunning
	}

	rctx, cancel := context.WithCancel(context.Background())
	s.reportCtl = cancel
	s.reportWG.Add(1)
	go s.report(rctx)

	s.running.Store(true)
	if err := drv.Start(ctx, s.cfg.Format, s.cfg.FramesPerPeriod, s.callback); err != nil {
		s.running.Store(false)
		s.stopReporter()
		return fmt.Errorf("scheduler: start %s driver: %w", drv.Name(), err)
	}
	s.drv = drv
	s.logger.Info("started", "driver", drv.Name(), "format", s.cfg.Format.String(),
		"frames", s.cfg.FramesPerPeriod, "nodes", s.plan.Len())
	return nil
}

// Stop lets the period in flight finish, then stops the driver. Nodes are not
// rendered again after Stop returns. Stopping a stopped scheduler is a no-op.
func (s *Scheduler) Stop() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if !s.running.Load() {
		return nil
	}

	s.running.Store(false)
	// Only a callback that observed running before the store can still be
	// in flight, so the wait is bounded by one period.
	for s.inflight.Load() > 0 {
		time.Sleep(inflightPoll)
	}
	err := s.drv.Stop()
	s.drv = nil
	s.stopReporter()

	st := s.Stats()
	s.logger.Info("stopped", "periods", st.Periods, "degraded", st.DegradedPeriods, "dropped", st.DroppedEvents)
	if err != nil {
		return fmt.Errorf("scheduler: stop driver: %w", err)
	}
	return nil
}

func (s *Scheduler) Running() bool { return s.running.Load() }

func (s *Scheduler) Stats() Stats {
	return Stats{
		Periods:         s.periods.Load(),
		DegradedPeriods: s.degraded.Load(),
		DroppedEvents:   s.dropped.Load(),
		LastSampleTime:  s.sampleTime.Load(),
	}
}

func (s *Scheduler) stopReporter() {
	s.reportCtl()
	s.reportWG.Wait()
	s.reportCtl = nil
}

func (s *Scheduler) report(ctx context.Context) {
	defer s.reportWG.Done()

	tick := time.NewTicker(s.cfg.ReportInterval)
	defer tick.Stop()
	var lastDropped uint64
	for {
		select {
		case <-ctx.Done():
			s.flush(&lastDropped)
			return
		case <-tick.C:
			s.flush(&lastDropped)
		}
	}
}

func (s *Scheduler) flush(lastDropped *uint64) {
	s.events.drain(func(ev Event) {
		s.logger.Warn("render degraded",
			"node", ev.Node,
			"status", ev.Status.String(),
			"period", ev.Period,
			"sample_time", ev.SampleTime)
	})
	if d := s.dropped.Load(); d != *lastDropped {
		s.logger.Warn("status events dropped", "count", d-*lastDropped)
		*lastDropped = d
	}
}
