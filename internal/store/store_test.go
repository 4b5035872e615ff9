package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/podium/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	st := newTestStore(t)
	p, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Sessions == nil || p.CompletedTips == nil || p.Streak != 0 || p.LastPracticeDate != "" {
		t.Fatalf("expected defaults, got %+v", p)
	}
}

func TestSaveThenLoad(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	date := time.Date(2026, 4, 2, 18, 30, 0, 0, time.UTC)
	want := model.Progress{
		Sessions: []model.Session{{
			ID:              "a1",
			Date:            date,
			Duration:        310,
			TargetDuration:  300,
			FillerWordCount: 4,
			SelfRating:      4,
			Notes:           "rushed the ending",
			Checklist:       map[string]bool{"opening": true, "closing": false},
			Analysis:        &model.Analysis{AvgVolume: 33.5, SpeakingRatio: 0.72, GoodPauses: 3},
		}},
		CompletedTips:     []string{"pauses"},
		TotalPracticeTime: 310,
		Streak:            2,
		LastPracticeDate:  "2026-04-02",
	}
	if err := st.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Sessions) != 1 {
		t.Fatalf("expected one session, got %d", len(got.Sessions))
	}
	s := got.Sessions[0]
	if !s.Date.Equal(date) || s.Duration != 310 || !s.Checklist["opening"] || s.Analysis == nil || s.Analysis.GoodPauses != 3 {
		t.Fatalf("session not preserved: %+v", s)
	}
	if got.Streak != 2 || got.LastPracticeDate != "2026-04-02" || got.TotalPracticeTime != 310 {
		t.Fatalf("progress not preserved: %+v", got)
	}
}

func TestLoadCorruptRecord(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	if err := st.Put(ctx, ProgressKey, "{not json"); err != nil {
		t.Fatalf("put: %v", err)
	}
	p, err := st.Load(ctx)
	if !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("expected ErrCorruptRecord, got %v", err)
	}
	if len(p.Sessions) != 0 || p.Sessions == nil {
		t.Fatalf("expected defaults with corrupt record, got %+v", p)
	}
}

func TestLastWriterWins(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	if err := st.Save(ctx, model.Progress{Streak: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.Save(ctx, model.Progress{Streak: 5}); err != nil {
		t.Fatalf("save: %v", err)
	}
	p, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Streak != 5 {
		t.Fatalf("expected last write to win, got streak %d", p.Streak)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "podium.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()
	if err := st.Save(ctx, model.Progress{CompletedTips: []string{"a"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	p, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(p.CompletedTips) != 1 {
		t.Fatalf("expected data to survive reopen, got %+v", p)
	}
}
