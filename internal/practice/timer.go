package practice

// timerState tracks whether the practice timer is counting.
type timerState int

const (
	timerStopped timerState = iota
	timerRunning
	timerPaused
)

// timer counts whole seconds, advanced by an external 1s tick.
type timer struct {
	state   timerState
	elapsed int
}

func (t *timer) start() {
	t.state = timerRunning
	t.elapsed = 0
}

func (t *timer) stop() {
	t.state = timerStopped
}

func (t *timer) toggle() {
	switch t.state {
	case timerRunning:
		t.state = timerPaused
	case timerPaused:
		t.state = timerRunning
	}
}

func (t *timer) tick() {
	if t.state == timerRunning {
		t.elapsed++
	}
}

func (t *timer) running() bool { return t.state == timerRunning }
func (t *timer) paused() bool { return t.state == timerPaused }
