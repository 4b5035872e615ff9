// Package analysis implements the live speaking/silence state machine.
//
// An Engine consumes volume samples on a 0..100 scale, classifies each one as
// speech or silence and keeps the aggregates reported at the end of a
// practice session. Silence runs are classified once, when speech resumes.
package analysis

import (
	"math"
	"sync"
	"time"
)

const (
	// SilenceThreshold is the level above which a sample counts as speech.
	SilenceThreshold = 12.0
	// SampleInterval is the sampling cadence.
	SampleInterval = 100 * time.Millisecond
	// GoodPauseMin and GoodPauseMax bound a good pause, both inclusive.
	GoodPauseMin = 2 * time.Second
	GoodPauseMax = 5 * time.Second
)

// VolumeMode selects what the live snapshot reports as average volume.
type VolumeMode string

const (
	// VolumeInstant reports the latest sample.
	VolumeInstant VolumeMode = "instant"
	// VolumeMean reports the running mean of all samples.
	VolumeMean VolumeMode = "mean"
)

// ParseVolumeMode converts a config value into a VolumeMode.
func ParseVolumeMode(s string) (VolumeMode, bool) {
	switch VolumeMode(s) {
	case VolumeInstant, "":
		return VolumeInstant, true
	case VolumeMean:
		return VolumeMean, true
	}
	return "", false
}

// Options configures an Engine.
type Options struct {
	Threshold               float64
	ClassifyTrailingSilence bool
	LiveVolume              VolumeMode
}

// DefaultOptions returns the standard engine options.
func DefaultOptions() Options {
	return Options{
		Threshold:  SilenceThreshold,
		LiveVolume: VolumeInstant,
	}
}

// Snapshot is the live view of the engine.
type Snapshot struct {
	Active          bool
	Suspended       bool
	Speaking        bool
	SilenceDuration time.Duration
	SpeakingRatio   float64
	AvgVolume       float64
	Level           float64
	Frames          int
}

// Summary is the final aggregate produced by Stop.
type Summary struct {
	AvgVolume      float64
	SpeakingRatio  float64
	LongSilences   int
	GoodPauses     int
	PeakVolume     float64
	Frames         int
	SpeakingFrames int
}

// Engine is safe for concurrent use. Each Sample call is applied atomically.
type Engine struct {
	mu   sync.Mutex
	opts Options

	active    bool
	suspended bool
	suspendAt time.Time

	speaking     bool
	silenceOpen  bool
	silenceStart time.Time
	silenceFor   time.Duration

	frames         int
	speakingFrames int
	goodPauses     int
	longSilences   int
	volumeSum      float64
	samples        int
	peak           float64
	last           float64
}

// New returns an idle engine.
func New(opts Options) *Engine {
	if opts.Threshold <= 0 {
		opts.Threshold = SilenceThreshold
	}
	if opts.LiveVolume == "" {
		opts.LiveVolume = VolumeInstant
	}
	return &Engine{opts: opts}
}

// Start resets all counters and begins accepting samples.
func (e *Engine) Start(_ time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = true
	e.suspended = false
	e.speaking = false
	e.silenceOpen = false
	e.silenceFor = 0
	e.frames, e.speakingFrames = 0, 0
	e.goodPauses, e.longSilences = 0, 0
	e.volumeSum, e.samples = 0, 0
	e.peak, e.last = 0, 0
}

// Sample feeds one volume reading taken at the given instant.
// Samples outside [0, 100] or NaN count as silence.
func (e *Engine) Sample(at time.Time, level float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active || e.suspended {
		return
	}
	level = sanitize(level)

	e.frames++
	e.volumeSum += level
	e.samples++
	e.last = level
	if level > e.peak {
		e.peak = level
	}

	e.speaking = level > e.opts.Threshold
	if e.speaking {
		e.speakingFrames++
		if e.silenceOpen {
			e.classify(at.Sub(e.silenceStart))
			e.silenceOpen = false
		}
		e.silenceFor = 0
		return
	}
	if !e.silenceOpen {
		e.silenceOpen = true
		e.silenceStart = at
	}
	e.silenceFor = at.Sub(e.silenceStart)
}

func (e *Engine) classify(d time.Duration) {
	switch {
	case d >= GoodPauseMin && d <= GoodPauseMax:
		e.goodPauses++
	case d > GoodPauseMax:
		e.longSilences++
	}
}

// Suspend stops accepting samples until Resume.
func (e *Engine) Suspend(at time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active || e.suspended {
		return
	}
	e.suspended = true
	e.suspendAt = at
}

// Resume accepts samples again. An open silence run is shifted by the
// suspended time so that the pause does not count as silence.
func (e *Engine) Resume(at time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active || !e.suspended {
		return
	}
	e.suspended = false
	if gap := at.Sub(e.suspendAt); gap > 0 && e.silenceOpen {
		e.silenceStart = e.silenceStart.Add(gap)
	}
}

// Snapshot returns the live state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := Snapshot{
		Active:          e.active,
		Suspended:       e.suspended,
		Speaking:        e.speaking,
		SilenceDuration: e.silenceFor,
		SpeakingRatio:   ratio(e.speakingFrames, e.frames),
		Level:           e.last,
		Frames:          e.frames,
	}
	if e.opts.LiveVolume == VolumeMean {
		snap.AvgVolume = mean(e.volumeSum, e.samples)
	} else {
		snap.AvgVolume = e.last
	}
	return snap
}

// Stop finalises the run and returns its summary. An open silence run is
// discarded unless ClassifyTrailingSilence is set.
func (e *Engine) Stop(at time.Time) Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.silenceOpen && e.opts.ClassifyTrailingSilence {
		end := at
		if e.suspended {
			end = e.suspendAt
		}
		e.classify(end.Sub(e.silenceStart))
	}
	e.silenceOpen = false
	e.active = false
	e.suspended = false
	e.speaking = false
	e.silenceFor = 0
	return Summary{
		AvgVolume:      mean(e.volumeSum, e.samples),
		SpeakingRatio:  ratio(e.speakingFrames, e.frames),
		LongSilences:   e.longSilences,
		GoodPauses:     e.goodPauses,
		PeakVolume:     e.peak,
		Frames:         e.frames,
		SpeakingFrames: e.speakingFrames,
	}
}

func sanitize(level float64) float64 {
	if math.IsNaN(level) || level < 0 || level > 100 {
		return 0
	}
	return level
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
