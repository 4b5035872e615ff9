package analysis

import (
	"math"
	"testing"
	"time"
)

var epoch = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// feed plays a sequence of (level, duration) segments at 100ms cadence and
// returns the instant after the last sample.
func feed(e *Engine, at time.Time, segments ...segment) time.Time {
	for _, seg := range segments {
		n := int(seg.d / SampleInterval)
		for i := 0; i < n; i++ {
			e.Sample(at, seg.level)
			at = at.Add(SampleInterval)
		}
	}
	return at
}

type segment struct {
	level float64
	d     time.Duration
}

func speech(d time.Duration) segment  { return segment{level: 40, d: d} }
func silence(d time.Duration) segment { return segment{level: 3, d: d} }

func TestPauseAndLongSilenceScenario(t *testing.T) {
	e := New(DefaultOptions())
	e.Start(epoch)
	at := feed(e, epoch,
		speech(time.Second),
		silence(3*time.Second),
		speech(time.Second),
		silence(8*time.Second),
		speech(time.Second),
	)
	sum := e.Stop(at)
	if sum.GoodPauses != 1 {
		t.Fatalf("expected 1 good pause, got %d", sum.GoodPauses)
	}
	if sum.LongSilences != 1 {
		t.Fatalf("expected 1 long silence, got %d", sum.LongSilences)
	}
	if sum.Frames != 140 {
		t.Fatalf("expected 140 frames, got %d", sum.Frames)
	}
	if sum.SpeakingFrames != 30 {
		t.Fatalf("expected 30 speaking frames, got %d", sum.SpeakingFrames)
	}
}

func TestPauseBoundaries(t *testing.T) {
	cases := []struct {
		name  string
		pause time.Duration
		good  int
		long  int
	}{
		{"exactly two seconds", 2 * time.Second, 1, 0},
		{"exactly five seconds", 5 * time.Second, 1, 0},
		{"just under two seconds", 1999 * time.Millisecond, 0, 0},
		{"just over five seconds", 5001 * time.Millisecond, 0, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := New(DefaultOptions())
			e.Start(epoch)
			e.Sample(epoch, 50)
			e.Sample(epoch.Add(time.Millisecond), 0)
			end := epoch.Add(time.Millisecond + tc.pause)
			e.Sample(end, 50)
			sum := e.Stop(end)
			if sum.GoodPauses != tc.good || sum.LongSilences != tc.long {
				t.Fatalf("expected good=%d long=%d, got good=%d long=%d", tc.good, tc.long, sum.GoodPauses, sum.LongSilences)
			}
		})
	}
}

func TestTrailingSilenceDiscardedByDefault(t *testing.T) {
	e := New(DefaultOptions())
	e.Start(epoch)
	at := feed(e, epoch, speech(time.Second), silence(4*time.Second))
	sum := e.Stop(at)
	if sum.GoodPauses != 0 || sum.LongSilences != 0 {
		t.Fatalf("expected trailing silence to be discarded, got %+v", sum)
	}
}

func TestTrailingSilenceClassifiedWhenEnabled(t *testing.T) {
	opts := DefaultOptions()
	opts.ClassifyTrailingSilence = true
	e := New(opts)
	e.Start(epoch)
	at := feed(e, epoch, speech(time.Second), silence(7*time.Second))
	sum := e.Stop(at)
	if sum.LongSilences != 1 {
		t.Fatalf("expected trailing silence to be counted, got %+v", sum)
	}
}

func TestStopWithoutSamples(t *testing.T) {
	e := New(DefaultOptions())
	e.Start(epoch)
	sum := e.Stop(epoch)
	if sum.SpeakingRatio != 0 || sum.AvgVolume != 0 || sum.PeakVolume != 0 {
		t.Fatalf("expected zero summary, got %+v", sum)
	}
}

func TestRatioAndVolumeAggregates(t *testing.T) {
	e := New(DefaultOptions())
	e.Start(epoch)
	levels := []float64{0, 20, 40, 60, 5}
	for i, l := range levels {
		e.Sample(epoch.Add(time.Duration(i)*SampleInterval), l)
	}
	sum := e.Stop(epoch.Add(time.Second))
	if math.Abs(sum.SpeakingRatio-0.6) > 1e-9 {
		t.Fatalf("expected ratio 0.6, got %v", sum.SpeakingRatio)
	}
	if math.Abs(sum.AvgVolume-25) > 1e-9 {
		t.Fatalf("expected avg 25, got %v", sum.AvgVolume)
	}
	if sum.PeakVolume != 60 {
		t.Fatalf("expected peak 60, got %v", sum.PeakVolume)
	}
	if sum.SpeakingFrames > sum.Frames {
		t.Fatalf("speaking frames exceed total frames")
	}
}

func TestThresholdIsStrict(t *testing.T) {
	e := New(DefaultOptions())
	e.Start(epoch)
	e.Sample(epoch, SilenceThreshold)
	if e.Snapshot().Speaking {
		t.Fatalf("expected level equal to threshold to be silence")
	}
	e.Sample(epoch.Add(SampleInterval), SilenceThreshold+0.1)
	if !e.Snapshot().Speaking {
		t.Fatalf("expected level above threshold to be speech")
	}
}

func TestOutOfRangeSamplesAreSilence(t *testing.T) {
	e := New(DefaultOptions())
	e.Start(epoch)
	for i, l := range []float64{-5, 140, math.NaN()} {
		e.Sample(epoch.Add(time.Duration(i)*SampleInterval), l)
	}
	sum := e.Stop(epoch.Add(time.Second))
	if sum.SpeakingFrames != 0 || sum.PeakVolume != 0 || sum.AvgVolume != 0 {
		t.Fatalf("expected invalid samples to count as zero, got %+v", sum)
	}
	if sum.Frames != 3 {
		t.Fatalf("expected 3 frames, got %d", sum.Frames)
	}
}

func TestSnapshotLiveValues(t *testing.T) {
	e := New(DefaultOptions())
	e.Start(epoch)
	e.Sample(epoch, 50)
	e.Sample(epoch.Add(SampleInterval), 10)
	e.Sample(epoch.Add(1500*time.Millisecond), 2)
	snap := e.Snapshot()
	if snap.Speaking {
		t.Fatalf("expected silence")
	}
	if snap.SilenceDuration != 1400*time.Millisecond {
		t.Fatalf("expected silence duration 1.4s, got %v", snap.SilenceDuration)
	}
	if snap.AvgVolume != 2 {
		t.Fatalf("expected instantaneous volume 2, got %v", snap.AvgVolume)
	}
	if math.Abs(snap.SpeakingRatio-1.0/3.0) > 1e-9 {
		t.Fatalf("unexpected ratio %v", snap.SpeakingRatio)
	}
}

func TestSnapshotMeanVolumeMode(t *testing.T) {
	opts := DefaultOptions()
	opts.LiveVolume = VolumeMean
	e := New(opts)
	e.Start(epoch)
	e.Sample(epoch, 30)
	e.Sample(epoch.Add(SampleInterval), 10)
	if got := e.Snapshot().AvgVolume; got != 20 {
		t.Fatalf("expected mean 20, got %v", got)
	}
}

func TestSamplesIgnoredWhenInactive(t *testing.T) {
	e := New(DefaultOptions())
	e.Sample(epoch, 50)
	if e.Snapshot().Frames != 0 {
		t.Fatalf("expected samples before start to be ignored")
	}
	e.Start(epoch)
	e.Sample(epoch, 50)
	e.Stop(epoch)
	e.Sample(epoch.Add(time.Second), 50)
	if e.Snapshot().Frames != 1 {
		t.Fatalf("expected samples after stop to be ignored")
	}
}

func TestStartResetsCounters(t *testing.T) {
	e := New(DefaultOptions())
	e.Start(epoch)
	feed(e, epoch, speech(time.Second))
	e.Stop(epoch.Add(time.Second))
	e.Start(epoch.Add(time.Minute))
	if snap := e.Snapshot(); snap.Frames != 0 || !snap.Active {
		t.Fatalf("expected fresh active engine, got %+v", snap)
	}
}

func TestSuspendDoesNotCountAsSilence(t *testing.T) {
	e := New(DefaultOptions())
	e.Start(epoch)
	at := feed(e, epoch, speech(time.Second), silence(time.Second))
	e.Suspend(at)
	e.Sample(at.Add(time.Second), 50)
	at = at.Add(10 * time.Second)
	e.Resume(at)
	at = feed(e, at, silence(time.Second), speech(time.Second))
	sum := e.Stop(at)
	if sum.LongSilences != 0 {
		t.Fatalf("expected paused time to be excluded, got %+v", sum)
	}
	if sum.GoodPauses != 1 {
		t.Fatalf("expected one good pause across the suspension, got %+v", sum)
	}
	if sum.Frames != 40 {
		t.Fatalf("expected samples during suspension to be ignored, got %d frames", sum.Frames)
	}
}
