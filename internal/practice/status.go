package practice

import (
	"fmt"

	"github.com/verte-zerg/podium/internal/scoring"
)

// TimeStatus grades elapsed time against the target.
type TimeStatus string

const (
	StatusOnTrack     TimeStatus = "on-track"
	StatusApproaching TimeStatus = "approaching"
	StatusClosing     TimeStatus = "closing"
	StatusOver        TimeStatus = "over"
)

// StatusFor grades elapsed against target seconds.
func StatusFor(elapsed, target int) TimeStatus {
	if target <= 0 {
		return StatusOnTrack
	}
	ratio := float64(elapsed) / float64(target)
	switch {
	case ratio < 0.75:
		return StatusOnTrack
	case ratio < 0.9:
		return StatusApproaching
	case ratio <= 1:
		return StatusClosing
	default:
		return StatusOver
	}
}

// TimeStatus grades the current session.
func (f *Flow) TimeStatus() TimeStatus {
	return StatusFor(f.timer.elapsed, f.TargetSeconds())
}

// Overrun reports whether the session ran past its target.
func (f *Flow) Overrun() bool {
	return f.timer.elapsed > f.TargetSeconds()
}

// Overtime returns the seconds past the target, or 0.
func (f *Flow) Overtime() int {
	if over := f.timer.elapsed - f.TargetSeconds(); over > 0 {
		return over
	}
	return 0
}

// Remaining returns the seconds left until the target, or 0.
func (f *Flow) Remaining() int {
	if left := f.TargetSeconds() - f.timer.elapsed; left > 0 {
		return left
	}
	return 0
}

// TargetProgress returns elapsed/target as a percentage capped at 100.
func (f *Flow) TargetProgress() int {
	pct := scoring.Percent(f.timer.elapsed, f.TargetSeconds())
	if pct > 100 {
		return 100
	}
	return pct
}

// ChecklistProgress returns ticked items, total items and the percentage.
func (f *Flow) ChecklistProgress() (done, total, pct int) {
	for _, v := range f.checklist {
		if v {
			done++
		}
	}
	total = len(f.checklist)
	return done, total, scoring.Percent(done, total)
}

var ratingLabels = []string{"", "Needs work", "OK", "Good", "Very good", "Excellent"}

// RatingLabel names a self-rating.
func RatingLabel(r int) string {
	if r < minRating || r > maxRating {
		return ""
	}
	return ratingLabels[r]
}

// FormatClock renders seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
