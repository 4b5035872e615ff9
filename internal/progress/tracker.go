// Package progress maintains the persisted progress record.
package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/podium/internal/model"
	"github.com/verte-zerg/podium/internal/observe"
	"github.com/verte-zerg/podium/internal/store"
)

// Store loads and saves the single progress record.
type Store interface {
	Load(ctx context.Context) (model.Progress, error)
	Save(ctx context.Context, p model.Progress) error
}

// Tracker applies session and tip updates to the progress record.
// Updates are read-modify-write with last writer wins.
type Tracker struct {
	store   Store
	now     func() time.Time
	log     *zap.Logger
	metrics *observe.Metrics
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *observe.Metrics) Option {
	return func(t *Tracker) { t.metrics = m }
}

// New returns a tracker backed by store.
func New(store Store, opts ...Option) *Tracker {
	t := &Tracker{
		store: store,
		now:   time.Now,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Progress returns the current record. Load failures yield the defaults.
func (t *Tracker) Progress(ctx context.Context) model.Progress {
	p, err := t.load(ctx)
	if err != nil {
		t.log.Error("load progress", zap.Error(err))
		return model.DefaultProgress()
	}
	return p
}

// load reads the record. A corrupt record is replaced by the defaults;
// any other failure is returned so callers never save over stored history.
func (t *Tracker) load(ctx context.Context) (model.Progress, error) {
	p, err := t.store.Load(ctx)
	switch {
	case err == nil:
		return normalize(p), nil
	case errors.Is(err, store.ErrCorruptRecord):
		t.log.Warn("progress record unreadable, using defaults", zap.Error(err))
		return model.DefaultProgress(), nil
	default:
		return model.Progress{}, err
	}
}

// AppendSession records a completed session and updates the streak.
func (t *Tracker) AppendSession(ctx context.Context, s model.Session) (model.Progress, error) {
	p, err := t.load(ctx)
	if err != nil {
		return model.DefaultProgress(), fmt.Errorf("load progress: %w", err)
	}
	p.Sessions = append(p.Sessions, s)
	p.TotalPracticeTime += s.Duration

	day := s.Date
	if day.IsZero() {
		day = t.now()
	}
	p = applyStreak(p, day)

	if err := t.store.Save(ctx, p); err != nil {
		return p, fmt.Errorf("save session: %w", err)
	}
	t.metrics.SessionSaved(ctx, s.Duration, s.TargetDuration)
	t.log.Info("session saved",
		zap.String("id", s.ID),
		zap.Int("duration", s.Duration),
		zap.Int("streak", p.Streak),
	)
	return p, nil
}

// ToggleTip marks a tip as completed, or clears it if already completed.
func (t *Tracker) ToggleTip(ctx context.Context, id string) (model.Progress, error) {
	p, err := t.load(ctx)
	if err != nil {
		return model.DefaultProgress(), fmt.Errorf("load progress: %w", err)
	}
	completed := true
	kept := make([]string, 0, len(p.CompletedTips)+1)
	for _, tip := range p.CompletedTips {
		if tip == id {
			completed = false
			continue
		}
		kept = append(kept, tip)
	}
	if completed {
		kept = append(kept, id)
	}
	p.CompletedTips = kept

	if err := t.store.Save(ctx, p); err != nil {
		return p, fmt.Errorf("save tip %s: %w", id, err)
	}
	t.metrics.TipToggled(ctx, completed)
	t.log.Debug("tip toggled", zap.String("id", id), zap.Bool("completed", completed))
	return p, nil
}

func normalize(p model.Progress) model.Progress {
	if p.Sessions == nil {
		p.Sessions = []model.Session{}
	}
	if p.CompletedTips == nil {
		p.CompletedTips = []string{}
	}
	return p
}
