// Package audio turns captured or recorded sound into volume samples for the
// analysis engine.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"
)

const (
	floorDBFS = -60.0
	fullScale = 32768.0
)

// Level converts a block of 16-bit PCM samples to a 0..100 volume level.
// The RMS level in dBFS is mapped linearly from [-60, 0] onto [0, 100].
func Level(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sumSquares float64
	for _, s := range samples {
		v := float64(s) / fullScale
		sumSquares += v * v
	}
	rms := math.Sqrt(sumSquares / float64(len(samples)))
	if rms == 0 {
		return 0
	}
	db := 20 * math.Log10(rms)
	level := (db - floorDBFS) / -floorDBFS * 100
	switch {
	case level < 0:
		return 0
	case level > 100:
		return 100
	}
	return level
}

// PCMLevels reads interleaved little-endian 16-bit PCM and returns one level
// per interval window, downmixing channels to mono. A trailing partial
// window is included.
func PCMLevels(r io.Reader, sampleRate, channels int, interval time.Duration) ([]float64, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid pcm format: %d Hz, %d channels", sampleRate, channels)
	}
	frames := int(float64(sampleRate) * interval.Seconds())
	if frames <= 0 {
		return nil, fmt.Errorf("interval %v too short for %d Hz", interval, sampleRate)
	}
	frameBytes := 2 * channels
	buf := make([]byte, frames*frameBytes)
	mono := make([]int16, frames)

	var levels []float64
	for {
		n, err := io.ReadFull(r, buf)
		if n >= frameBytes {
			count := n / frameBytes
			for i := 0; i < count; i++ {
				var sum int
				for c := 0; c < channels; c++ {
					off := i*frameBytes + c*2
					sum += int(int16(binary.LittleEndian.Uint16(buf[off:])))
				}
				mono[i] = int16(sum / channels)
			}
			levels = append(levels, Level(mono[:count]))
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return levels, nil
		}
		if err != nil {
			return levels, fmt.Errorf("read pcm: %w", err)
		}
	}
}
