// Package observe provides the logger and OpenTelemetry metric instruments
// used across podium.
//
// Instruments are created from a [metric.MeterProvider]. The default
// instance uses the global provider, which is a no-op unless the process
// installs one. Tests use [NewMetrics] with an SDK provider and a manual
// reader. A nil *Metrics is valid and records nothing.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/verte-zerg/podium"

// Metrics holds the metric instruments.
type Metrics struct {
	// SessionsSaved counts saved sessions. Attribute "overrun" is "true"
	// when the session ran past its target.
	SessionsSaved metric.Int64Counter

	// SessionDuration records practice time per saved session.
	SessionDuration metric.Float64Histogram

	// Samples counts volume samples fed to the analysis engine.
	Samples metric.Int64Counter

	// CaptureErrors counts microphone open and read failures.
	CaptureErrors metric.Int64Counter

	// TipsToggled counts tip completion changes. Attribute "state" is
	// "completed" or "cleared".
	TipsToggled metric.Int64Counter

	// ActiveSessions is 1 while a practice session is running.
	ActiveSessions metric.Int64UpDownCounter
}

var durationBuckets = []float64{60, 180, 300, 600, 900, 1200, 1800, 3600}

// NewMetrics creates the instruments from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.SessionsSaved, err = m.Int64Counter("podium.sessions.saved",
		metric.WithDescription("Practice sessions saved."),
	); err != nil {
		return nil, err
	}
	if met.SessionDuration, err = m.Float64Histogram("podium.session.duration",
		metric.WithDescription("Practice time of saved sessions."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Samples, err = m.Int64Counter("podium.samples",
		metric.WithDescription("Volume samples analysed."),
	); err != nil {
		return nil, err
	}
	if met.CaptureErrors, err = m.Int64Counter("podium.capture.errors",
		metric.WithDescription("Audio capture failures."),
	); err != nil {
		return nil, err
	}
	if met.TipsToggled, err = m.Int64Counter("podium.tips.toggled",
		metric.WithDescription("Tip completion changes."),
	); err != nil {
		return nil, err
	}
	if met.ActiveSessions, err = m.Int64UpDownCounter("podium.sessions.active",
		metric.WithDescription("Practice sessions currently running."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns instruments bound to the global meter provider.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// SessionSaved records a saved session of duration seconds.
func (m *Metrics) SessionSaved(ctx context.Context, duration, target int) {
	if m == nil {
		return
	}
	overrun := "false"
	if duration > target {
		overrun = "true"
	}
	m.SessionsSaved.Add(ctx, 1, metric.WithAttributes(attribute.String("overrun", overrun)))
	m.SessionDuration.Record(ctx, float64(duration))
}

// SampleTaken records one analysed sample.
func (m *Metrics) SampleTaken(ctx context.Context) {
	if m == nil {
		return
	}
	m.Samples.Add(ctx, 1)
}

// CaptureFailed records an audio capture failure of the given kind.
func (m *Metrics) CaptureFailed(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.CaptureErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// TipToggled records a tip completion change.
func (m *Metrics) TipToggled(ctx context.Context, completed bool) {
	if m == nil {
		return
	}
	state := "cleared"
	if completed {
		state = "completed"
	}
	m.TipsToggled.Add(ctx, 1, metric.WithAttributes(attribute.String("state", state)))
}

// SessionActive adjusts the running-session gauge.
func (m *Metrics) SessionActive(ctx context.Context, running bool) {
	if m == nil {
		return
	}
	delta := int64(-1)
	if running {
		delta = 1
	}
	m.ActiveSessions.Add(ctx, delta)
}
