package mic

import (
	"context"
	"math"
	"testing"
)

func TestOpenDiscardsPreviousLevel(t *testing.T) {
	m := New(nil)
	m.level.Store(math.Float64bits(55))

	// Open may fail on hosts without an input device; the level is cleared either way.
	if err := m.Open(context.Background()); err == nil {
		defer func() {
			if err := m.Close(); err != nil {
				t.Fatalf("close: %v", err)
			}
		}()
	}
	if got := m.Level(); got != 0 {
		t.Fatalf("expected level reset on open, got %.1f", got)
	}
}

func TestRunRequiresOpen(t *testing.T) {
	if err := New(nil).Run(context.Background()); err == nil {
		t.Fatalf("expected error from unopened microphone")
	}
}
