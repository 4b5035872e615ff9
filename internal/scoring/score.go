// Package scoring computes the progress score and skill level.
package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/verte-zerg/podium/internal/model"
)

const (
	// ComponentMax is the ceiling of each score component.
	ComponentMax = 25

	sessionsForFull = 10
	ratingForFull   = 4
	streakForFull   = 7
)

// Calculate derives the score breakdown from a progress record.
// It is pure and total: empty inputs and totalTips == 0 yield zeros.
func Calculate(p model.Progress, totalTips int) model.ScoreBreakdown {
	var b model.ScoreBreakdown

	b.PracticeFrequency = component(float64(len(p.Sessions)) / sessionsForFull)

	if len(p.Sessions) > 0 {
		var sum int
		for _, s := range p.Sessions {
			sum += s.SelfRating
		}
		meanRating := float64(sum) / float64(len(p.Sessions))
		b.SessionQuality = component(meanRating / ratingForFull)
	}

	if totalTips > 0 {
		b.TipsProgress = component(float64(len(p.CompletedTips)) / float64(totalTips))
	}

	b.Consistency = component(float64(p.Streak) / streakForFull)

	b.Total = b.PracticeFrequency + b.SessionQuality + b.TipsProgress + b.Consistency
	return b
}

// component scales a fraction to 0..25, rounding half away from zero.
func component(fraction float64) int {
	v := int(math.Round(fraction * ComponentMax))
	if v > ComponentMax {
		return ComponentMax
	}
	if v < 0 {
		return 0
	}
	return v
}

// Percent rounds ratio*100 half away from zero.
func Percent(num, den int) int {
	if den == 0 {
		return 0
	}
	return int(math.Round(float64(num) / float64(den) * 100))
}

// Ladder is an ascending, contiguous list of levels covering 0..100.
type Ladder []model.Level

var errEmptyLadder = errors.New("level ladder is empty")

// Validate checks ordering and coverage.
func (l Ladder) Validate() error {
	if len(l) == 0 {
		return errEmptyLadder
	}
	if l[0].Low != 0 {
		return fmt.Errorf("first level %q must start at 0, starts at %d", l[0].Name, l[0].Low)
	}
	for i, lv := range l {
		if lv.Low > lv.High {
			return fmt.Errorf("level %q has low %d above high %d", lv.Name, lv.Low, lv.High)
		}
		if i > 0 && lv.Low != l[i-1].High+1 {
			return fmt.Errorf("level %q must start at %d, starts at %d", lv.Name, l[i-1].High+1, lv.Low)
		}
	}
	if last := l[len(l)-1]; last.High != 100 {
		return fmt.Errorf("last level %q must end at 100, ends at %d", last.Name, last.High)
	}
	return nil
}

// SkillLevel returns the highest level whose lower bound is <= score,
// falling back to the lowest level.
func (l Ladder) SkillLevel(score int) model.Level {
	return l[l.index(score)]
}

func (l Ladder) index(score int) int {
	for i := len(l) - 1; i >= 0; i-- {
		if l[i].Low <= score {
			return i
		}
	}
	return 0
}

// NextLevel returns the level after the current one; false at the top.
func (l Ladder) NextLevel(score int) (model.Level, bool) {
	i := l.index(score)
	if i+1 >= len(l) {
		return model.Level{}, false
	}
	return l[i+1], true
}

// PointsToNext returns the points needed to reach the next level, 0 at the top.
func (l Ladder) PointsToNext(score int) int {
	next, ok := l.NextLevel(score)
	if !ok {
		return 0
	}
	return next.Low - score
}

// ProgressToNext returns how far score is through the current level toward
// the next, as a percentage. At the top it is 100.
func (l Ladder) ProgressToNext(score int) int {
	next, ok := l.NextLevel(score)
	if !ok {
		return 100
	}
	cur := l.SkillLevel(score)
	span := next.Low - cur.Low
	if span <= 0 {
		return 0
	}
	pct := Percent(score-cur.Low, span)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
