package audio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/podium/internal/analysis"
	"github.com/verte-zerg/podium/internal/observe"
)

// Sampler polls a Source on a fixed cadence and feeds the engine.
// Capture and polling run in one errgroup; Stop waits for both to exit
// before the engine is finalised.
type Sampler struct {
	source   Source
	engine   *analysis.Engine
	interval time.Duration
	now      func() time.Time
	log      *zap.Logger
	metrics  *observe.Metrics

	mu         sync.Mutex
	capability Capability
	running    bool
	paused     bool
	cancel     context.CancelFunc
	group      *errgroup.Group
	err        error
}

// SamplerOption configures a Sampler.
type SamplerOption func(*Sampler)

// WithInterval overrides the sampling cadence.
func WithInterval(d time.Duration) SamplerOption {
	return func(s *Sampler) { s.interval = d }
}

// WithSamplerClock overrides the clock used to timestamp samples.
func WithSamplerClock(now func() time.Time) SamplerOption {
	return func(s *Sampler) { s.now = now }
}

// WithSamplerLogger sets the logger.
func WithSamplerLogger(l *zap.Logger) SamplerOption {
	return func(s *Sampler) { s.log = l }
}

// WithSamplerMetrics sets the metric instruments.
func WithSamplerMetrics(m *observe.Metrics) SamplerOption {
	return func(s *Sampler) { s.metrics = m }
}

// NewSampler binds a source to an engine.
func NewSampler(src Source, engine *analysis.Engine, opts ...SamplerOption) *Sampler {
	s := &Sampler{
		source:   src,
		engine:   engine,
		interval: analysis.SampleInterval,
		now:      time.Now,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the source and begins sampling. If the source cannot be
// opened the capability becomes denied and an error wrapping
// ErrCapabilityDenied is returned.
func (s *Sampler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return errors.New("sampler already running")
	}
	if err := s.source.Open(ctx); err != nil {
		s.capability = CapabilityDenied
		s.metrics.CaptureFailed(ctx, "open")
		s.log.Warn("audio input unavailable", zap.Error(err))
		if errors.Is(err, ErrCapabilityDenied) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrCapabilityDenied, err)
	}
	s.capability = CapabilityGranted

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	g, gctx := errgroup.WithContext(runCtx)
	s.cancel = cancel
	s.group = g
	s.running = true
	s.paused = false
	s.err = nil
	s.engine.Start(s.now())

	g.Go(func() error {
		if err := s.source.Run(gctx); err != nil {
			s.metrics.CaptureFailed(gctx, "read")
			return err
		}
		return nil
	})
	g.Go(func() error {
		s.poll(gctx)
		return nil
	})
	return nil
}

func (s *Sampler) poll(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			paused := s.paused
			s.mu.Unlock()
			if paused {
				continue
			}
			s.engine.Sample(s.now(), s.source.Level())
			s.metrics.SampleTaken(ctx)
		}
	}
}

// Pause suspends sampling without releasing the source.
func (s *Sampler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || s.paused {
		return
	}
	s.paused = true
	s.engine.Suspend(s.now())
}

// Resume continues sampling after Pause.
func (s *Sampler) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || !s.paused {
		return
	}
	s.paused = false
	s.engine.Resume(s.now())
}

// Stop halts capture and polling, waits for both to exit, releases the
// source and returns the final summary.
func (s *Sampler) Stop() analysis.Summary {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return analysis.Summary{}
	}
	s.running = false
	cancel, g := s.cancel, s.group
	s.mu.Unlock()

	cancel()
	err := g.Wait()
	if cerr := s.source.Close(); cerr != nil {
		s.log.Warn("close audio input", zap.Error(cerr))
	}

	s.mu.Lock()
	s.err = err
	s.paused = false
	s.mu.Unlock()
	if err != nil {
		s.log.Warn("audio capture stopped with error", zap.Error(err))
	}
	return s.engine.Stop(s.now())
}

// Snapshot returns the engine's live state.
func (s *Sampler) Snapshot() analysis.Snapshot {
	return s.engine.Snapshot()
}

// Capability reports the input access state.
func (s *Sampler) Capability() Capability {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capability
}

// Err returns the capture error of the last run, if any.
func (s *Sampler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
