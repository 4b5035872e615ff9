// Package mic captures the default input device through PortAudio. It is
// the only package that needs the PortAudio headers at build time.
package mic

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"

	"github.com/verte-zerg/podium/internal/analysis"
	"github.com/verte-zerg/podium/internal/audio"
)

const sampleRate = 16000

// Microphone captures the default input device through PortAudio.
type Microphone struct {
	log    *zap.Logger
	level  atomic.Uint64
	buf    []int16
	stream *portaudio.Stream
}

// New returns a closed microphone source.
func New(log *zap.Logger) *Microphone {
	if log == nil {
		log = zap.NewNop()
	}
	frames := int(sampleRate * analysis.SampleInterval.Seconds())
	return &Microphone{log: log, buf: make([]int16, frames)}
}

// Open initialises PortAudio and opens a mono input stream. The level of
// an earlier recording is discarded.
func (m *Microphone) Open(_ context.Context) error {
	m.level.Store(0)
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("%w: initialize portaudio: %v", audio.ErrCapabilityDenied, err)
	}
	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, len(m.buf), m.buf)
	if err != nil {
		m.terminate()
		return fmt.Errorf("%w: open input stream: %v", audio.ErrCapabilityDenied, err)
	}
	if err := stream.Start(); err != nil {
		if cerr := stream.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
		m.terminate()
		return fmt.Errorf("%w: start input stream: %v", audio.ErrCapabilityDenied, err)
	}
	m.stream = stream
	m.log.Info("microphone opened", zap.Int("sample_rate", sampleRate), zap.Int("frames", len(m.buf)))
	return nil
}

// Run reads one buffer per sampling interval until ctx is done.
func (m *Microphone) Run(ctx context.Context) error {
	if m.stream == nil {
		return errors.New("microphone not open")
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if err := m.stream.Read(); err != nil {
			if errors.Is(err, portaudio.InputOverflowed) {
				m.log.Debug("input overflowed")
				continue
			}
			return fmt.Errorf("read microphone: %w", err)
		}
		m.level.Store(math.Float64bits(audio.Level(m.buf)))
	}
}

// Level returns the level of the latest buffer.
func (m *Microphone) Level() float64 {
	return math.Float64frombits(m.level.Load())
}

// Close stops the stream and releases PortAudio. Call it after Run returned.
func (m *Microphone) Close() error {
	if m.stream == nil {
		return nil
	}
	var errs []error
	if err := m.stream.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop stream: %w", err))
	}
	if err := m.stream.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close stream: %w", err))
	}
	m.stream = nil
	m.terminate()
	return errors.Join(errs...)
}

func (m *Microphone) terminate() {
	if err := portaudio.Terminate(); err != nil {
		m.log.Warn("terminate portaudio", zap.Error(err))
	}
}
