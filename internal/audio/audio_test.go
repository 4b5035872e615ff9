package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/verte-zerg/podium/internal/analysis"
)

func TestLevelScale(t *testing.T) {
	if got := Level(nil); got != 0 {
		t.Fatalf("expected 0 for empty input, got %v", got)
	}
	if got := Level(make([]int16, 160)); got != 0 {
		t.Fatalf("expected 0 for digital silence, got %v", got)
	}
	full := make([]int16, 160)
	for i := range full {
		if i%2 == 0 {
			full[i] = math.MaxInt16
		} else {
			full[i] = math.MinInt16
		}
	}
	if got := Level(full); got < 99.9 {
		t.Fatalf("expected full scale near 100, got %v", got)
	}
	tenth := make([]int16, 160)
	for i := range tenth {
		tenth[i] = 3277
	}
	// -20 dBFS maps to two thirds of the scale.
	if got := Level(tenth); math.Abs(got-66.67) > 0.1 {
		t.Fatalf("expected about 66.67 at -20 dBFS, got %v", got)
	}
	faint := make([]int16, 160)
	for i := range faint {
		faint[i] = 10
	}
	if got := Level(faint); got != 0 {
		t.Fatalf("expected levels below -60 dBFS to clamp to 0, got %v", got)
	}
}

func TestPCMLevelsDownmixAndWindows(t *testing.T) {
	const rate = 1000
	var buf bytes.Buffer
	// 250 ms of stereo audio: 100 loud frames, 100 silent, 50 loud.
	write := func(n int, v int16) {
		for i := 0; i < n; i++ {
			_ = binary.Write(&buf, binary.LittleEndian, v)
			_ = binary.Write(&buf, binary.LittleEndian, v)
		}
	}
	write(100, 3277)
	write(100, 0)
	write(50, 3277)

	levels, err := PCMLevels(&buf, rate, 2, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("PCMLevels: %v", err)
	}
	if len(levels) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(levels))
	}
	if levels[0] < 60 || levels[1] != 0 || levels[2] < 60 {
		t.Fatalf("unexpected levels %v", levels)
	}
}

func TestPCMLevelsRejectsBadFormat(t *testing.T) {
	if _, err := PCMLevels(bytes.NewReader(nil), 0, 2, time.Second); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestReplayCountsPauses(t *testing.T) {
	var levels []float64
	add := func(n int, l float64) {
		for i := 0; i < n; i++ {
			levels = append(levels, l)
		}
	}
	add(10, 50)
	add(30, 0)
	add(10, 50)
	add(60, 0)
	add(10, 50)
	sum := Replay(analysis.DefaultOptions(), time.Unix(0, 0), levels, analysis.SampleInterval)
	if sum.GoodPauses != 1 || sum.LongSilences != 1 {
		t.Fatalf("expected one good pause and one long silence, got %+v", sum)
	}
}

type fakeSource struct {
	mu      sync.Mutex
	level   float64
	openErr error
	runErr  error
	closed  bool
}

func (f *fakeSource) Open(context.Context) error { return f.openErr }

func (f *fakeSource) Run(ctx context.Context) error {
	if f.runErr != nil {
		return f.runErr
	}
	<-ctx.Done()
	return nil
}

func (f *fakeSource) Level() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.level
}

func (f *fakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func waitFrames(t *testing.T, s *Sampler, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.Snapshot().Frames < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d frames", n)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSamplerStopHaltsTicks(t *testing.T) {
	src := &fakeSource{level: 40}
	s := NewSampler(src, analysis.New(analysis.DefaultOptions()), WithInterval(time.Millisecond))
	if s.Capability() != CapabilityUnknown {
		t.Fatalf("expected unknown capability before start")
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.Capability() != CapabilityGranted {
		t.Fatalf("expected granted capability, got %v", s.Capability())
	}
	waitFrames(t, s, 5)

	sum := s.Stop()
	if sum.Frames < 5 || sum.SpeakingRatio != 1 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if !src.closed {
		t.Fatalf("expected source to be closed")
	}
	frames := s.Snapshot().Frames
	time.Sleep(20 * time.Millisecond)
	if got := s.Snapshot().Frames; got != frames {
		t.Fatalf("samples arrived after stop: %d -> %d", frames, got)
	}
	if again := s.Stop(); again != (analysis.Summary{}) {
		t.Fatalf("expected second stop to be a no-op, got %+v", again)
	}
}

func TestSamplerPauseSkipsSamples(t *testing.T) {
	src := &fakeSource{level: 40}
	s := NewSampler(src, analysis.New(analysis.DefaultOptions()), WithInterval(time.Millisecond))
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitFrames(t, s, 2)
	s.Pause()
	frames := s.Snapshot().Frames
	time.Sleep(20 * time.Millisecond)
	if got := s.Snapshot().Frames; got != frames {
		t.Fatalf("samples taken while paused: %d -> %d", frames, got)
	}
	s.Resume()
	waitFrames(t, s, frames+2)
	s.Stop()
}

func TestSamplerDeniedCapability(t *testing.T) {
	src := &fakeSource{openErr: errors.New("no device")}
	s := NewSampler(src, analysis.New(analysis.DefaultOptions()))
	err := s.Start(context.Background())
	if !errors.Is(err, ErrCapabilityDenied) {
		t.Fatalf("expected ErrCapabilityDenied, got %v", err)
	}
	if s.Capability() != CapabilityDenied {
		t.Fatalf("expected denied capability, got %v", s.Capability())
	}
	if sum := s.Stop(); sum != (analysis.Summary{}) {
		t.Fatalf("expected empty summary, got %+v", sum)
	}
}

func TestSamplerCaptureFailure(t *testing.T) {
	src := &fakeSource{runErr: errors.New("device unplugged")}
	s := NewSampler(src, analysis.New(analysis.DefaultOptions()), WithInterval(time.Millisecond))
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Stop()
	if s.Err() == nil {
		t.Fatal("expected capture error to be reported")
	}
}

func TestCapabilityString(t *testing.T) {
	if CapabilityDenied.String() != "denied" || Capability(42).String() != "unknown" {
		t.Fatal("unexpected capability names")
	}
}
