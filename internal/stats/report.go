package stats

import (
	"github.com/verte-zerg/podium/internal/catalog"
	"github.com/verte-zerg/podium/internal/model"
	"github.com/verte-zerg/podium/internal/scoring"
)

// Report contains precomputed data for progress rendering.
type Report struct {
	Score         model.ScoreBreakdown
	Level         model.Level
	Next          model.Level
	HasNext       bool
	PointsToNext  int
	LevelProgress int

	Sessions      int
	TotalTime     int
	Streak        int
	LastPractice  string
	AvgRating     float64
	AvgFillers    float64
	ChecklistRate int
	CompletedTips int
	TotalTips     int

	// Ratings is the smoothed self-rating curve, oldest first.
	Ratings  []float64
	Focus    []FocusArea
	Coverage []CategoryCoverage
}

// BuildReport derives the report from the progress record and catalog.
// The score always covers every session; cfg.Last limits the curve and focus areas.
func BuildReport(p model.Progress, cat *catalog.Catalog, cfg model.StatsConfig) Report {
	score := scoring.Calculate(p, len(cat.Tips))
	next, hasNext := cat.Levels.NextLevel(score.Total)
	r := Report{
		Score:         score,
		Level:         cat.Levels.SkillLevel(score.Total),
		Next:          next,
		HasNext:       hasNext,
		PointsToNext:  cat.Levels.PointsToNext(score.Total),
		LevelProgress: cat.Levels.ProgressToNext(score.Total),
		Sessions:      len(p.Sessions),
		TotalTime:     p.TotalPracticeTime,
		Streak:        p.Streak,
		LastPractice:  p.LastPracticeDate,
		CompletedTips: len(p.CompletedTips),
		TotalTips:     len(cat.Tips),
		Coverage:      Coverage(cat, p),
	}
	if len(p.Sessions) == 0 {
		return r
	}

	var ratings, fillers, checked, entries int
	for _, s := range p.Sessions {
		ratings += s.SelfRating
		fillers += s.FillerWordCount
		checked += s.CheckedCount()
		entries += len(s.Checklist)
	}
	n := float64(len(p.Sessions))
	r.AvgRating = float64(ratings) / n
	r.AvgFillers = float64(fillers) / n
	r.ChecklistRate = scoring.Percent(checked, entries)

	recent := p.Sessions
	if cfg.Last > 0 && len(recent) > cfg.Last {
		recent = recent[len(recent)-cfg.Last:]
	}
	curve := make([]float64, len(recent))
	for i, s := range recent {
		curve[i] = float64(s.SelfRating)
	}
	r.Ratings = MovingAverage(curve, cfg.CurveWindow)
	r.Focus = FocusAreas(recent, cat.Checklist, cfg.FocusTop)
	return r
}
