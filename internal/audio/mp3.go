package audio

import (
	"fmt"
	"io"
	"time"

	"github.com/hajimehoshi/go-mp3"

	"github.com/verte-zerg/podium/internal/analysis"
)

// DecodeMP3Levels decodes an MP3 recording into one level per interval.
func DecodeMP3Levels(r io.Reader, interval time.Duration) ([]float64, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}
	// go-mp3 always produces 16-bit stereo.
	return PCMLevels(dec, dec.SampleRate(), 2, interval)
}

// Replay feeds recorded levels through a fresh engine as if they had been
// sampled live every interval starting at start.
func Replay(opts analysis.Options, start time.Time, levels []float64, interval time.Duration) analysis.Summary {
	e := analysis.New(opts)
	e.Start(start)
	at := start
	for _, l := range levels {
		e.Sample(at, l)
		at = at.Add(interval)
	}
	return e.Stop(at)
}
