package audio

import (
	"context"
	"errors"
)

// ErrCapabilityDenied is returned when the audio input cannot be opened.
var ErrCapabilityDenied = errors.New("microphone unavailable")

// Capability is the state of access to the audio input.
type Capability int

const (
	// CapabilityUnknown means access has not been requested yet.
	CapabilityUnknown Capability = iota
	CapabilityDenied
	CapabilityGranted
)

var capabilityNames = map[Capability]string{
	CapabilityUnknown: "unknown",
	CapabilityDenied:  "denied",
	CapabilityGranted: "granted",
}

func (c Capability) String() string {
	if s, ok := capabilityNames[c]; ok {
		return s
	}
	return "unknown"
}

// Source produces the current input level on demand.
type Source interface {
	// Open acquires the input. Failure means the capability is denied.
	Open(ctx context.Context) error
	// Run captures until ctx is done or capture fails.
	Run(ctx context.Context) error
	// Level returns the latest level on the 0..100 scale.
	Level() float64
	Close() error
}
