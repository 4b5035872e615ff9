package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/podium/internal/analysis"
	"github.com/verte-zerg/podium/internal/catalog"
	"github.com/verte-zerg/podium/internal/model"
)

// RenderTips prints tips with their completion marks.
func RenderTips(w io.Writer, tips []model.Tip, p model.Progress, cat *catalog.Catalog) error {
	if len(tips) == 0 {
		_, err := fmt.Fprintln(w, "No tips match this filter.")
		return err
	}
	rows := make([][]string, 0, len(tips))
	done := 0
	for _, tip := range tips {
		mark := "[ ]"
		if p.HasTip(tip.ID) {
			mark = "[x]"
			done++
		}
		rows = append(rows, []string{mark, tip.ID, tip.Title, cat.CategoryLabel(tip.Category), tip.Difficulty})
	}
	if err := (table{rows: rows}).write(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d of %d done\n", done, len(tips))
	return err
}

var toneMarks = map[analysis.Tone]string{
	analysis.ToneGood: "+",
	analysis.ToneWarn: "!",
	analysis.ToneBad:  "x",
}

// RenderAnalysis prints an analysis summary of a recording of the given
// length followed by its feedback notes.
func RenderAnalysis(w io.Writer, s analysis.Summary, length time.Duration) error {
	rows := [][]string{
		{"Length", FormatDuration(int(length / time.Second))},
		{"Average volume", fmt.Sprintf("%.0f (%s)", s.AvgVolume, analysis.VolumeLabel(s.AvgVolume))},
		{"Peak volume", fmt.Sprintf("%.0f", s.PeakVolume)},
		{"Speaking ratio", fmt.Sprintf("%.0f%%", s.SpeakingRatio*100)},
		{"Good pauses", fmt.Sprintf("%d", s.GoodPauses)},
		{"Long silences", fmt.Sprintf("%d", s.LongSilences)},
	}
	lines := []string{"Analysis"}
	lines = append(lines, table{rows: rows}.lines()...)
	lines = append(lines, "", "Feedback")
	for _, note := range analysis.Review(s) {
		lines = append(lines, toneMarks[note.Tone]+" "+note.Text)
	}
	return writeLines(w, lines)
}
