package progress

import (
	"time"

	"github.com/verte-zerg/podium/internal/model"
)

// applyStreak updates the streak for a session practised on day.
func applyStreak(p model.Progress, day time.Time) model.Progress {
	today := day.Format(model.DateLayout)
	if p.LastPracticeDate == "" {
		p.Streak = 1
		p.LastPracticeDate = today
		return p
	}
	last, err := time.ParseInLocation(model.DateLayout, p.LastPracticeDate, day.Location())
	if err != nil {
		p.Streak = 1
		p.LastPracticeDate = today
		return p
	}
	switch gap := DaysBetween(last, day); {
	case gap == 1:
		p.Streak++
	case gap > 1:
		p.Streak = 1
	default:
		// Same day or a clock moved backwards: the day already counts.
	}
	p.LastPracticeDate = today
	return p
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
