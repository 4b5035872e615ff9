package progress

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/verte-zerg/podium/internal/model"
	"github.com/verte-zerg/podium/internal/store"
)

type memStore struct {
	p       model.Progress
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load(context.Context) (model.Progress, error) {
	if m.loadErr != nil {
		return model.Progress{}, m.loadErr
	}
	return m.p, nil
}

func (m *memStore) Save(_ context.Context, p model.Progress) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.p = p
	return nil
}

func day(y int, mo time.Month, d, h int) time.Time {
	return time.Date(y, mo, d, h, 0, 0, 0, time.Local)
}

func session(at time.Time, duration int) model.Session {
	return model.Session{ID: at.String(), Date: at, Duration: duration, TargetDuration: 300, SelfRating: 3}
}

func TestAppendSessionStreakRules(t *testing.T) {
	st := &memStore{p: model.DefaultProgress()}
	tr := New(st)
	ctx := context.Background()

	steps := []struct {
		at     time.Time
		streak int
	}{
		{day(2026, 3, 1, 9), 1},
		{day(2026, 3, 1, 21), 1},
		{day(2026, 3, 2, 8), 2},
		{day(2026, 3, 3, 23), 3},
		{day(2026, 3, 6, 7), 1},
	}
	for i, step := range steps {
		p, err := tr.AppendSession(ctx, session(step.at, 60))
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if p.Streak != step.streak {
			t.Fatalf("step %d: expected streak %d, got %d", i, step.streak, p.Streak)
		}
		if p.LastPracticeDate != step.at.Format(model.DateLayout) {
			t.Fatalf("step %d: unexpected last date %q", i, p.LastPracticeDate)
		}
	}
	if len(st.p.Sessions) != len(steps) {
		t.Fatalf("expected %d sessions, got %d", len(steps), len(st.p.Sessions))
	}
	if st.p.TotalPracticeTime != 60*len(steps) {
		t.Fatalf("expected total practice time %d, got %d", 60*len(steps), st.p.TotalPracticeTime)
	}
}

func TestAppendSessionAcrossMonthBoundary(t *testing.T) {
	st := &memStore{p: model.Progress{Streak: 4, LastPracticeDate: "2026-02-28"}}
	p, err := New(st).AppendSession(context.Background(), session(day(2026, 3, 1, 10), 30))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if p.Streak != 5 {
		t.Fatalf("expected streak 5, got %d", p.Streak)
	}
}

func TestAppendSessionUsesClockWithoutDate(t *testing.T) {
	st := &memStore{p: model.Progress{Streak: 2, LastPracticeDate: "2026-03-09"}}
	tr := New(st, WithClock(func() time.Time { return day(2026, 3, 10, 12) }))
	p, err := tr.AppendSession(context.Background(), model.Session{Duration: 10})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if p.Streak != 3 || p.LastPracticeDate != "2026-03-10" {
		t.Fatalf("unexpected streak state: %d %q", p.Streak, p.LastPracticeDate)
	}
}

func TestAppendSessionReturnsSaveError(t *testing.T) {
	st := &memStore{p: model.DefaultProgress(), saveErr: errors.New("disk full")}
	if _, err := New(st).AppendSession(context.Background(), session(day(2026, 3, 1, 9), 5)); err == nil {
		t.Fatal("expected save error")
	}
}

func TestToggleTip(t *testing.T) {
	st := &memStore{p: model.DefaultProgress()}
	tr := New(st)
	ctx := context.Background()

	p, err := tr.ToggleTip(ctx, "eye-contact")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !p.HasTip("eye-contact") || len(p.CompletedTips) != 1 {
		t.Fatalf("expected tip to be completed, got %v", p.CompletedTips)
	}
	if _, err := tr.ToggleTip(ctx, "pauses"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	p, err = tr.ToggleTip(ctx, "eye-contact")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if p.HasTip("eye-contact") || len(p.CompletedTips) != 1 || p.CompletedTips[0] != "pauses" {
		t.Fatalf("expected only pauses to remain, got %v", p.CompletedTips)
	}
	if st.saves != 3 {
		t.Fatalf("expected 3 saves, got %d", st.saves)
	}
}

func TestCorruptRecordFallsBackToDefaults(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	st := &memStore{loadErr: fmt.Errorf("%w: bad json", store.ErrCorruptRecord)}
	tr := New(st, WithLogger(zap.New(core)))

	p := tr.Progress(context.Background())
	if len(p.Sessions) != 0 || p.Streak != 0 || p.Sessions == nil {
		t.Fatalf("expected default progress, got %+v", p)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected one warning, got %d", logs.Len())
	}

	got, err := tr.AppendSession(context.Background(), session(day(2026, 3, 1, 9), 42))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(got.Sessions) != 1 || got.Streak != 1 || got.TotalPracticeTime != 42 {
		t.Fatalf("expected fresh record with one session, got %+v", got)
	}
}

func TestLoadFailureKeepsStoredHistory(t *testing.T) {
	st := &memStore{p: model.DefaultProgress()}
	tr := New(st)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := tr.AppendSession(ctx, session(day(2026, 3, 1+i, 9), 60)); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	saves := st.saves

	locked := errors.New("database is locked")
	st.loadErr = locked
	if _, err := tr.AppendSession(ctx, session(day(2026, 3, 6, 9), 60)); !errors.Is(err, locked) {
		t.Fatalf("expected load error from append, got %v", err)
	}
	if _, err := tr.ToggleTip(ctx, "rule-of-three"); !errors.Is(err, locked) {
		t.Fatalf("expected load error from toggle, got %v", err)
	}
	if st.saves != saves {
		t.Fatalf("expected no save after a load failure, got %d extra", st.saves-saves)
	}

	st.loadErr = nil
	p := tr.Progress(ctx)
	if len(p.Sessions) != 5 || p.TotalPracticeTime != 300 || p.Streak != 5 {
		t.Fatalf("expected stored history intact, got %d sessions, %ds, streak %d",
			len(p.Sessions), p.TotalPracticeTime, p.Streak)
	}
}

func TestDaysBetween(t *testing.T) {
	cases := []struct {
		a, b time.Time
		want int
	}{
		{day(2026, 3, 1, 23), day(2026, 3, 2, 0), 1},
		{day(2026, 3, 1, 0), day(2026, 3, 1, 23), 0},
		{day(2026, 12, 31, 12), day(2027, 1, 1, 1), 1},
		{day(2026, 3, 5, 12), day(2026, 3, 1, 12), -4},
	}
	for _, tc := range cases {
		if got := DaysBetween(tc.a, tc.b); got != tc.want {
			t.Fatalf("DaysBetween(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
