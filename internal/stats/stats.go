package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/podium/internal/model"
	"github.com/verte-zerg/podium/internal/scoring"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.Abs(hi-lo) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints the score card, breakdown, rating trend and focus areas.
func RenderSummary(w io.Writer, r Report) error {
	lines := []string{
		"Summary",
		fmt.Sprintf("Score: %d/100 (%s)", r.Score.Total, r.Level.Name),
	}
	if r.HasNext {
		lines = append(lines, fmt.Sprintf("Next level: %s in %d points (%d%% there)", r.Next.Name, r.PointsToNext, r.LevelProgress))
	} else {
		lines = append(lines, "Next level: top level reached")
	}
	lines = append(lines,
		fmt.Sprintf("Sessions: %d", r.Sessions),
		fmt.Sprintf("Practice time: %s", FormatDuration(r.TotalTime)),
		fmt.Sprintf("Streak: %s", plural(r.Streak, "day")),
		fmt.Sprintf("Avg rating: %.2f", r.AvgRating),
		fmt.Sprintf("Avg fillers: %.2f", r.AvgFillers),
		fmt.Sprintf("Checklist completion: %d%%", r.ChecklistRate),
		fmt.Sprintf("Tips completed: %d/%d", r.CompletedTips, r.TotalTips),
		"",
		"Breakdown",
	)
	breakdown := table{
		headers: []string{"Component", "Points"},
		rows: [][]string{
			{"Practice frequency", points(r.Score.PracticeFrequency)},
			{"Session quality", points(r.Score.SessionQuality)},
			{"Tips progress", points(r.Score.TipsProgress)},
			{"Consistency", points(r.Score.Consistency)},
		},
		right: map[int]bool{1: true},
	}
	lines = append(lines, breakdown.lines()...)
	lines = append(lines, "")

	if len(r.Ratings) > 0 {
		const label = "Rating trend: "
		values := r.Ratings
		if width := writerWidth(w) - len(label); width > 0 && len(values) > width {
			values = values[len(values)-width:]
		}
		lines = append(lines, label+Sparkline(values), "")
	}

	if len(r.Focus) > 0 {
		lines = append(lines, "Focus Areas")
		rows := make([][]string, 0, len(r.Focus))
		for _, f := range r.Focus {
			rows = append(rows, []string{f.Label, fmt.Sprintf("%d/%d", f.Checked, f.Sessions), fmt.Sprintf("%d%%", f.Rate)})
		}
		focus := table{headers: []string{"Item", "Ticked", "Rate"}, rows: rows, right: map[int]bool{1: true, 2: true}}
		lines = append(lines, focus.lines()...)
		lines = append(lines, "")
	}

	return writeLines(w, lines)
}

// RenderHistory prints the most recent sessions, newest first.
func RenderHistory(w io.Writer, sessions []model.Session, last int) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if last > 0 && len(sessions) > last {
		sessions = sessions[len(sessions)-last:]
	}
	headers := []string{"Date", "Duration", "Target", "Fillers", "Rating", "Checklist", "Speaking", "Topic"}
	rows := make([][]string, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		speaking := "-"
		if s.Analysis != nil {
			speaking = fmt.Sprintf("%.0f%%", s.Analysis.SpeakingRatio*100)
		}
		rows = append(rows, []string{
			s.Date.Format("2006-01-02 15:04"),
			clock(s.Duration),
			clock(s.TargetDuration),
			fmt.Sprintf("%d", s.FillerWordCount),
			fmt.Sprintf("%d/5", s.SelfRating),
			fmt.Sprintf("%d/%d", s.CheckedCount(), len(s.Checklist)),
			speaking,
			s.Topic,
		})
	}
	history := table{headers: headers, rows: rows, right: map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true}}
	return history.write(w)
}

// FormatDuration renders seconds as "1h 05m", "12m 30s" or "45s".
func FormatDuration(seconds int) string {
	d := time.Duration(max(seconds, 0)) * time.Second
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

func clock(seconds int) string {
	seconds = max(seconds, 0)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func points(v int) string {
	return fmt.Sprintf("%d/%d", v, scoring.ComponentMax)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
