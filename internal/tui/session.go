package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	bar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/podium/internal/analysis"
	"github.com/verte-zerg/podium/internal/audio"
	"github.com/verte-zerg/podium/internal/catalog"
	"github.com/verte-zerg/podium/internal/practice"
	"github.com/verte-zerg/podium/internal/stats"
	"github.com/verte-zerg/podium/internal/topic"
)

// sessionModel renders the practice flow: setup, practicing, review, saved.
type sessionModel struct {
	flow    *practice.Flow
	catalog *catalog.Catalog
	topics  []string
	gen     *topic.Generator
	width   int
	height  int

	timeBar   bar.Model
	volumeBar bar.Model

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	rating  *int
	notes   *string
	checked *[]string
}

func newSessionModel(f *practice.Flow, cat *catalog.Catalog, topics []string, gen *topic.Generator) sessionModel {
	rating := practice.DefaultRating
	notes := ""
	checked := []string{}
	return sessionModel{
		flow:      f,
		catalog:   cat,
		topics:    topics,
		gen:       gen,
		timeBar:   bar.New(bar.WithDefaultGradient(), bar.WithoutPercentage()),
		volumeBar: bar.New(bar.WithSolidFill(string(colorAccent)), bar.WithoutPercentage()),
		rating:    &rating,
		notes:     &notes,
		checked:   &checked,
	}
}

func (s *sessionModel) setSize(w, h int) {
	s.width = w
	s.height = h
	barWidth := max(10, min(60, w-20))
	s.timeBar.Width = barWidth
	s.volumeBar.Width = max(10, barWidth/2)
}

func (s sessionModel) update(msg tea.Msg) (sessionModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	ctx := context.Background()

	switch s.flow.Phase() {
	case practice.PhaseSetup:
		switch {
		case key.Matches(keyMsg, keys.Left):
			return s, s.shiftTarget(-1)
		case key.Matches(keyMsg, keys.Right):
			return s, s.shiftTarget(1)
		case key.Matches(keyMsg, keys.Topic):
			if err := s.flow.SetTopic(s.gen.Next(s.topics, s.flow.Topic())); err != nil {
				return s, statusCmd(err.Error(), true)
			}
		case key.Matches(keyMsg, keys.Back):
			_ = s.flow.SetTopic("")
		case key.Matches(keyMsg, keys.Start), key.Matches(keyMsg, keys.Enter):
			if err := s.flow.Start(ctx); err != nil {
				return s, statusCmd(err.Error(), true)
			}
			if s.flow.Capability() == audio.CapabilityDenied {
				return s, tea.Batch(liveCmd(), statusCmd("Microphone unavailable; practicing without analysis", true))
			}
			return s, tea.Batch(liveCmd(), statusCmd("Practice started", false))
		}

	case practice.PhasePracticing:
		switch {
		case key.Matches(keyMsg, keys.Pause):
			if err := s.flow.TogglePause(); err != nil {
				return s, statusCmd(err.Error(), true)
			}
			if s.flow.Paused() {
				return s, statusCmd("Paused", false)
			}
			return s, statusCmd("Resumed", false)
		case key.Matches(keyMsg, keys.FillerUp):
			s.flow.AddFiller()
		case key.Matches(keyMsg, keys.FillerDown):
			s.flow.RemoveFiller()
		case key.Matches(keyMsg, keys.Stop):
			if err := s.flow.Stop(ctx); err != nil {
				return s, statusCmd(err.Error(), true)
			}
			return s.showForm()
		case key.Matches(keyMsg, keys.Discard):
			s.flow.Reset(ctx)
			return s, statusCmd("Session discarded", false)
		}

	case practice.PhaseReview:
		switch {
		case key.Matches(keyMsg, keys.Enter):
			return s.showForm()
		case key.Matches(keyMsg, keys.FillerUp):
			s.flow.AddFiller()
		case key.Matches(keyMsg, keys.FillerDown):
			s.flow.RemoveFiller()
		case key.Matches(keyMsg, keys.Discard):
			s.flow.Reset(ctx)
			return s, statusCmd("Session discarded", false)
		}

	case practice.PhaseSaved:
		if key.Matches(keyMsg, keys.New) || key.Matches(keyMsg, keys.Enter) {
			s.flow.Reset(ctx)
		}
	}
	return s, nil
}

func (s sessionModel) shiftTarget(delta int) tea.Cmd {
	targets := s.catalog.Targets
	i := slices.Index(targets, s.flow.TargetMinutes())
	next := targets[(i+delta+len(targets))%len(targets)]
	if err := s.flow.SetTarget(next); err != nil {
		return statusCmd(err.Error(), true)
	}
	return nil
}

func ratingOptions() []huh.Option[int] {
	opts := make([]huh.Option[int], 0, 5)
	for r := 1; r <= 5; r++ {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%d - %s", r, practice.RatingLabel(r)), r))
	}
	return opts
}

func (s sessionModel) showForm() (sessionModel, tea.Cmd) {
	*s.rating = s.flow.Rating()
	*s.notes = s.flow.Notes()
	*s.checked = (*s.checked)[:0]
	opts := make([]huh.Option[string], 0, len(s.catalog.Checklist))
	for _, item := range s.catalog.Checklist {
		opts = append(opts, huh.NewOption(item.Label, item.ID))
		if s.flow.Checked(item.ID) {
			*s.checked = append(*s.checked, item.ID)
		}
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().Title("How did it go?").Options(ratingOptions()...).Value(s.rating),
			huh.NewText().Title("Notes").CharLimit(2000).Value(s.notes),
		).Title("Review"),
		huh.NewGroup(
			huh.NewMultiSelect[string]().Title("What went well?").Options(opts...).Value(s.checked),
		).Title("Checklist"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s sessionModel) updateForm(msg tea.Msg) (sessionModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			if err := s.pushForm(); err != nil {
				return s, statusCmd(err.Error(), true)
			}
			return s, statusCmd("Review paused: enter to continue, ctrl+d to discard", false)
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		return s, s.saveReview()
	}

	return s, cmd
}

// pushForm copies the form values into the flow.
func (s sessionModel) pushForm() error {
	if err := s.flow.SetRating(*s.rating); err != nil {
		return err
	}
	if err := s.flow.SetNotes(strings.TrimSpace(*s.notes)); err != nil {
		return err
	}
	return s.flow.SetChecklist(*s.checked)
}

// saveReview copies the form values into the flow and records the session.
func (s sessionModel) saveReview() tea.Cmd {
	if err := s.pushForm(); err != nil {
		return statusCmd(err.Error(), true)
	}
	saved, err := s.flow.Save(context.Background())
	if err != nil {
		return statusCmd(fmt.Sprintf("Save failed: %v (enter to retry)", err), true)
	}
	return func() tea.Msg { return sessionSavedMsg{session: saved} }
}

func (s sessionModel) view() string {
	w := max(s.width-4, 20)
	var body string
	switch s.flow.Phase() {
	case practice.PhaseSetup:
		body = s.viewSetup(w)
	case practice.PhasePracticing:
		body = s.viewPracticing()
	case practice.PhaseReview:
		body = s.viewReview(w)
	case practice.PhaseSaved:
		body = s.viewSaved()
	}
	return panelStyle.Width(w).Render(body)
}

func (s sessionModel) viewSetup(w int) string {
	rows := []string{titleStyle.Render("New session"), ""}

	targets := make([]string, 0, len(s.catalog.Targets))
	for _, t := range s.catalog.Targets {
		label := fmt.Sprintf(" %d min ", t)
		if t == s.flow.TargetMinutes() {
			targets = append(targets, selectedItemStyle.Render("["+label+"]"))
		} else {
			targets = append(targets, mutedStyle.Render(" "+label+" "))
		}
	}
	rows = append(rows, "Target duration", strings.Join(targets, ""), "")

	topicLine := mutedStyle.Render("none (press t for a random prompt)")
	if t := s.flow.Topic(); t != "" {
		topicLine = normalItemStyle.Render(wrapText(t, w-4))
	}
	rows = append(rows, "Topic", topicLine, "")
	rows = append(rows, mutedStyle.Render("s: start  ←/→: target  t: topic  esc: clear topic"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (s sessionModel) viewPracticing() string {
	elapsed := s.flow.Elapsed()
	status := s.flow.TimeStatus()
	statusStyle := timeStatusStyle(status)

	clock := clockStyle.Render(practice.FormatClock(elapsed)) +
		mutedStyle.Render("/ "+practice.FormatClock(s.flow.TargetSeconds()))
	state := goodStyle.Render("● recording")
	if s.flow.Paused() {
		state = warnStyle.Render("⏸ paused")
	}

	remaining := fmt.Sprintf("%s left", practice.FormatClock(s.flow.Remaining()))
	if s.flow.Overrun() {
		remaining = fmt.Sprintf("+%s over", practice.FormatClock(s.flow.Overtime()))
	}

	rows := []string{
		lipgloss.JoinHorizontal(lipgloss.Center, titleStyle.Render("Practicing"), "  ", state),
	}
	if t := s.flow.Topic(); t != "" {
		rows = append(rows, mutedStyle.Render(truncateLine(t, s.width-8)))
	}
	rows = append(rows,
		"",
		clock,
		s.timeBar.ViewAs(float64(s.flow.TargetProgress())/100),
		statusStyle.Render(fmt.Sprintf("%s · %s", status, remaining)),
		"",
		fmt.Sprintf("Filler words: %s", cardValueStyle.Render(fmt.Sprintf("%d", s.flow.Fillers()))),
		"",
		s.viewLive(),
		"",
		mutedStyle.Render("space: pause  f/+: filler  -: undo filler  x: stop  ctrl+d: discard"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (s sessionModel) viewLive() string {
	switch s.flow.Capability() {
	case audio.CapabilityDenied:
		return errorStyle.Render("Microphone unavailable. Practicing without audio analysis.")
	case audio.CapabilityUnknown:
		return mutedStyle.Render("Audio analysis off.")
	}
	snap, ok := s.flow.Live()
	if !ok {
		return mutedStyle.Render("Audio analysis off.")
	}
	badge := mutedStyle.Render("○ silent")
	if snap.Speaking {
		badge = goodStyle.Render("● speaking")
	}
	silence := ""
	if !snap.Speaking && snap.SilenceDuration > 0 {
		silence = mutedStyle.Render(fmt.Sprintf("  silence %.1fs", snap.SilenceDuration.Seconds()))
	}
	volume := s.volumeBar.ViewAs(snap.AvgVolume/100) + " " + analysis.VolumeLabel(snap.AvgVolume)
	return lipgloss.JoinVertical(lipgloss.Left,
		badge+silence,
		fmt.Sprintf("Speaking ratio: %.0f%%", snap.SpeakingRatio*100),
		"Volume: "+volume,
	)
}

func (s sessionModel) viewReview(w int) string {
	rows := []string{titleStyle.Render("Review"), ""}
	rows = append(rows, fmt.Sprintf("Duration %s of %s  ·  Filler words %d",
		practice.FormatClock(s.flow.Elapsed()),
		practice.FormatClock(s.flow.TargetSeconds()),
		s.flow.Fillers(),
	))
	if s.flow.Overrun() {
		rows = append(rows, warnStyle.Render(fmt.Sprintf("Ran %s over the target.", practice.FormatClock(s.flow.Overtime()))))
	}
	if done, total, pct := s.flow.ChecklistProgress(); done > 0 {
		rows = append(rows, fmt.Sprintf("Checklist %d/%d (%d%%)", done, total, pct))
	}
	if sum, ok := s.flow.Summary(); ok {
		rows = append(rows, "", renderAnalysis(sum, w-4))
	}
	rows = append(rows, "")
	if s.formActive && s.form != nil {
		rows = append(rows, s.form.View())
	} else {
		rows = append(rows, mutedStyle.Render("enter: fill in review  f/-: adjust fillers  ctrl+d: discard"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderAnalysis(sum analysis.Summary, w int) string {
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Avg volume", fmt.Sprintf("%.0f", sum.AvgVolume)),
		metricCard("Speaking", fmt.Sprintf("%.0f%%", sum.SpeakingRatio*100)),
		metricCard("Good pauses", fmt.Sprintf("%d", sum.GoodPauses)),
		metricCard("Long silences", fmt.Sprintf("%d", sum.LongSilences)),
	)
	rows := []string{cards}
	for _, note := range analysis.Review(sum) {
		rows = append(rows, toneStyle(note.Tone).Render(wrapText("• "+note.Text, w)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (s sessionModel) viewSaved() string {
	saved, ok := s.flow.Saved()
	if !ok {
		return ""
	}
	done, total := saved.CheckedCount(), len(saved.Checklist)
	rows := []string{
		titleStyle.Render("Session saved"),
		"",
		fmt.Sprintf("Duration: %s", stats.FormatDuration(saved.Duration)),
		fmt.Sprintf("Rating: %d/5 %s", saved.SelfRating, practice.RatingLabel(saved.SelfRating)),
		fmt.Sprintf("Filler words: %d", saved.FillerWordCount),
		fmt.Sprintf("Checklist: %d/%d", done, total),
	}
	if saved.Notes != "" {
		rows = append(rows, "", mutedStyle.Render(wrapText(saved.Notes, max(s.width-8, 20))))
	}
	rows = append(rows, "", mutedStyle.Render("n: new session  3: view progress"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}
