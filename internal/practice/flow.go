// Package practice implements the practice session lifecycle:
// setup, practicing, review and saved.
package practice

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verte-zerg/podium/internal/analysis"
	"github.com/verte-zerg/podium/internal/audio"
	"github.com/verte-zerg/podium/internal/catalog"
	"github.com/verte-zerg/podium/internal/model"
	"github.com/verte-zerg/podium/internal/observe"
)

// Phase is a lifecycle state.
type Phase string

const (
	PhaseSetup      Phase = "setup"
	PhasePracticing Phase = "practicing"
	PhaseReview     Phase = "review"
	PhaseSaved      Phase = "saved"
)

const (
	// DefaultRating is the self-rating preset when review opens.
	DefaultRating = 3
	minRating     = 1
	maxRating     = 5
)

var (
	ErrInvalidTransition    = errors.New("invalid transition")
	ErrInvalidTarget        = errors.New("invalid target duration")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrUnknownChecklistItem = errors.New("unknown checklist item")
)

// Monitor is the live audio analysis attached to a session.
type Monitor interface {
	Start(ctx context.Context) error
	Pause()
	Resume()
	Stop() analysis.Summary
	Snapshot() analysis.Snapshot
	Capability() audio.Capability
}

// Recorder persists finished sessions.
type Recorder interface {
	AppendSession(ctx context.Context, s model.Session) (model.Progress, error)
}

// Flow drives one practice session at a time. It is not safe for
// concurrent use; the UI owns it.
type Flow struct {
	catalog  *catalog.Catalog
	recorder Recorder
	monitor  Monitor
	now      func() time.Time
	log      *zap.Logger
	metrics  *observe.Metrics

	phase      Phase
	topic      string
	target     int
	timer      timer
	fillers    int
	rating     int
	notes      string
	checklist  map[string]bool
	summary    *analysis.Summary
	capability audio.Capability
	saved      *model.Session
}

// Option configures a Flow.
type Option func(*Flow)

// WithMonitor attaches live audio analysis.
func WithMonitor(m Monitor) Option {
	return func(f *Flow) { f.monitor = m }
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(f *Flow) { f.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(f *Flow) { f.log = l }
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *observe.Metrics) Option {
	return func(f *Flow) { f.metrics = m }
}

// NewFlow returns a flow in the setup phase.
func NewFlow(cat *catalog.Catalog, rec Recorder, opts ...Option) *Flow {
	f := &Flow{
		catalog:  cat,
		recorder: rec,
		now:      time.Now,
		log:      zap.NewNop(),
		target:   cat.DefaultTarget,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.clear()
	return f
}

func (f *Flow) clear() {
	f.phase = PhaseSetup
	f.topic = ""
	f.timer = timer{}
	f.fillers = 0
	f.rating = DefaultRating
	f.notes = ""
	f.checklist = make(map[string]bool, len(f.catalog.Checklist))
	for _, id := range f.catalog.ChecklistIDs() {
		f.checklist[id] = false
	}
	f.summary = nil
	f.saved = nil
	f.capability = audio.CapabilityUnknown
}

func (f *Flow) require(want Phase, action string) error {
	if f.phase != want {
		return fmt.Errorf("%w: cannot %s in %s phase", ErrInvalidTransition, action, f.phase)
	}
	return nil
}

// SetTarget sets the target duration in minutes.
func (f *Flow) SetTarget(minutes int) error {
	if err := f.require(PhaseSetup, "change target"); err != nil {
		return err
	}
	if !f.catalog.ValidTarget(minutes) {
		return fmt.Errorf("%w: %d minutes (choose one of %v)", ErrInvalidTarget, minutes, f.catalog.Targets)
	}
	f.target = minutes
	return nil
}

// SetTopic sets the optional topic.
func (f *Flow) SetTopic(topic string) error {
	if err := f.require(PhaseSetup, "change topic"); err != nil {
		return err
	}
	f.topic = topic
	return nil
}

// Start begins practicing. An unavailable microphone is recorded and the
// session continues without analysis.
func (f *Flow) Start(ctx context.Context) error {
	if err := f.require(PhaseSetup, "start"); err != nil {
		return err
	}
	f.phase = PhasePracticing
	f.timer.start()
	f.capability = audio.CapabilityUnknown
	if f.monitor != nil {
		if err := f.monitor.Start(ctx); err != nil {
			f.log.Warn("practicing without audio analysis", zap.Error(err))
		}
		f.capability = f.monitor.Capability()
	}
	f.metrics.SessionActive(ctx, true)
	f.log.Info("practice started", zap.Int("target_minutes", f.target), zap.String("topic", f.topic))
	return nil
}

// TogglePause pauses or resumes the timer and the analysis.
func (f *Flow) TogglePause() error {
	if err := f.require(PhasePracticing, "pause"); err != nil {
		return err
	}
	f.timer.toggle()
	if f.analysing() {
		if f.timer.paused() {
			f.monitor.Pause()
		} else {
			f.monitor.Resume()
		}
	}
	return nil
}

// Tick advances the timer by one second while practicing and running.
func (f *Flow) Tick() {
	if f.phase == PhasePracticing {
		f.timer.tick()
	}
}

// AddFiller increments the filler-word counter.
func (f *Flow) AddFiller() {
	if f.phase == PhasePracticing || f.phase == PhaseReview {
		f.fillers++
	}
}

// RemoveFiller decrements the filler-word counter, never below zero.
func (f *Flow) RemoveFiller() {
	if (f.phase == PhasePracticing || f.phase == PhaseReview) && f.fillers > 0 {
		f.fillers--
	}
}

// Stop ends practicing. The timer and analysis are halted before the
// summary is read.
func (f *Flow) Stop(ctx context.Context) error {
	if err := f.require(PhasePracticing, "stop"); err != nil {
		return err
	}
	f.timer.stop()
	if f.analysing() {
		sum := f.monitor.Stop()
		f.summary = &sum
	}
	f.phase = PhaseReview
	f.metrics.SessionActive(ctx, false)
	f.log.Info("practice stopped", zap.Int("elapsed", f.timer.elapsed), zap.Bool("overrun", f.Overrun()))
	return nil
}

// SetRating sets the self-rating.
func (f *Flow) SetRating(r int) error {
	if err := f.require(PhaseReview, "rate"); err != nil {
		return err
	}
	if r < minRating || r > maxRating {
		return fmt.Errorf("%w: got %d", ErrInvalidRating, r)
	}
	f.rating = r
	return nil
}

// SetNotes sets the free-form notes.
func (f *Flow) SetNotes(notes string) error {
	if err := f.require(PhaseReview, "edit notes"); err != nil {
		return err
	}
	f.notes = notes
	return nil
}

// ToggleChecklist flips a checklist item.
func (f *Flow) ToggleChecklist(id string) error {
	if err := f.require(PhaseReview, "edit checklist"); err != nil {
		return err
	}
	if _, ok := f.checklist[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownChecklistItem, id)
	}
	f.checklist[id] = !f.checklist[id]
	return nil
}

// SetChecklist replaces the ticked items.
func (f *Flow) SetChecklist(ids []string) error {
	if err := f.require(PhaseReview, "edit checklist"); err != nil {
		return err
	}
	next := make(map[string]bool, len(f.checklist))
	for id := range f.checklist {
		next[id] = false
	}
	for _, id := range ids {
		if _, ok := next[id]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownChecklistItem, id)
		}
		next[id] = true
	}
	f.checklist = next
	return nil
}

// Save records the session and moves to the saved phase.
func (f *Flow) Save(ctx context.Context) (model.Session, error) {
	if err := f.require(PhaseReview, "save"); err != nil {
		return model.Session{}, err
	}
	s := model.Session{
		ID:              uuid.NewString(),
		Date:            f.now(),
		Duration:        f.timer.elapsed,
		TargetDuration:  f.target * 60,
		FillerWordCount: f.fillers,
		SelfRating:      f.rating,
		Notes:           f.notes,
		Checklist:       maps.Clone(f.checklist),
		Topic:           f.topic,
	}
	if f.summary != nil {
		s.Analysis = f.summary.Record()
	}
	if _, err := f.recorder.AppendSession(ctx, s); err != nil {
		return model.Session{}, fmt.Errorf("record session: %w", err)
	}
	f.phase = PhaseSaved
	f.saved = &s
	return s, nil
}

// Reset discards the current session and returns to setup. The target
// duration is kept.
func (f *Flow) Reset(ctx context.Context) {
	if f.phase == PhasePracticing {
		f.timer.stop()
		if f.analysing() {
			f.monitor.Stop()
		}
		f.metrics.SessionActive(ctx, false)
	}
	f.clear()
}

func (f *Flow) analysing() bool {
	return f.monitor != nil && f.capability == audio.CapabilityGranted
}

// Phase returns the current phase.
func (f *Flow) Phase() Phase { return f.phase }

// Topic returns the topic.
func (f *Flow) Topic() string { return f.topic }

// TargetMinutes returns the target duration in minutes.
func (f *Flow) TargetMinutes() int { return f.target }

// TargetSeconds returns the target duration in seconds.
func (f *Flow) TargetSeconds() int { return f.target * 60 }

// Elapsed returns the practised seconds.
func (f *Flow) Elapsed() int { return f.timer.elapsed }

// Running reports whether the timer is counting.
func (f *Flow) Running() bool { return f.timer.running() }

// Paused reports whether practicing is paused.
func (f *Flow) Paused() bool { return f.timer.paused() }

// Fillers returns the filler-word count.
func (f *Flow) Fillers() int { return f.fillers }

// Rating returns the self-rating.
func (f *Flow) Rating() int { return f.rating }

// Notes returns the notes.
func (f *Flow) Notes() string { return f.notes }

// Checked reports whether a checklist item is ticked.
func (f *Flow) Checked(id string) bool { return f.checklist[id] }

// Summary returns the analysis summary once practicing stopped.
func (f *Flow) Summary() (analysis.Summary, bool) {
	if f.summary == nil {
		return analysis.Summary{}, false
	}
	return *f.summary, true
}

// Live returns the analysis snapshot while practicing.
func (f *Flow) Live() (analysis.Snapshot, bool) {
	if f.phase != PhasePracticing || !f.analysing() {
		return analysis.Snapshot{}, false
	}
	return f.monitor.Snapshot(), true
}

// Capability returns the audio access state for the current session.
func (f *Flow) Capability() audio.Capability { return f.capability }

// Saved returns the last saved session.
func (f *Flow) Saved() (model.Session, bool) {
	if f.saved == nil {
		return model.Session{}, false
	}
	return *f.saved, true
}
