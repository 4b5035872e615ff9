package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	bar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/podium/internal/catalog"
	"github.com/verte-zerg/podium/internal/model"
	"github.com/verte-zerg/podium/internal/stats"
)

const historyRows = 5

// reportModel renders the score card, sub-score chart, level roadmap and
// recent history.
type reportModel struct {
	catalog *catalog.Catalog
	cfg     model.StatsConfig
	width   int
	height  int

	report   stats.Report
	sessions []model.Session
	chart    barchart.Model
	levelBar bar.Model
}

func newReportModel(cat *catalog.Catalog, cfg model.StatsConfig) reportModel {
	r := reportModel{
		catalog:  cat,
		cfg:      cfg,
		chart:    barchart.New(40, 10),
		levelBar: bar.New(bar.WithDefaultGradient()),
	}
	r.report = stats.BuildReport(model.DefaultProgress(), cat, cfg)
	return r
}

func (r *reportModel) setSize(w, h int) {
	r.width = w
	r.height = h
	r.levelBar.Width = max(10, min(50, w-30))
	r.buildChart()
}

func (r reportModel) update(msg tea.Msg) (reportModel, tea.Cmd) {
	if msg, ok := msg.(progressMsg); ok {
		r.report = stats.BuildReport(msg.progress, r.catalog, r.cfg)
		r.sessions = msg.progress.Sessions
		r.buildChart()
	}
	return r, nil
}

func (r *reportModel) buildChart() {
	chartWidth := max(24, min(r.width-8, 60))
	chartHeight := 10
	if r.height > 40 {
		chartHeight = 14
	}
	r.chart = barchart.New(chartWidth, chartHeight)

	score := r.report.Score
	parts := []struct {
		label string
		value int
		color lipgloss.Color
	}{
		{"Freq", score.PracticeFrequency, lipgloss.Color("#5B8FF9")},
		{"Quality", score.SessionQuality, lipgloss.Color("#52C41A")},
		{"Tips", score.TipsProgress, colorAccent},
		{"Streak", score.Consistency, lipgloss.Color("#B37FEB")},
	}
	bars := make([]barchart.BarData, 0, len(parts))
	for _, p := range parts {
		bars = append(bars, barchart.BarData{
			Label: p.label,
			Values: []barchart.BarValue{{
				Name:  p.label,
				Value: float64(p.value),
				Style: lipgloss.NewStyle().Foreground(p.color),
			}},
		})
	}
	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportModel) view() string {
	w := max(r.width-4, 20)
	rep := r.report

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Score", fmt.Sprintf("%d/100", rep.Score.Total)),
		metricCard("Level", rep.Level.Name),
		metricCard("Streak", fmt.Sprintf("%d days", rep.Streak)),
		metricCard("Sessions", fmt.Sprintf("%d", rep.Sessions)),
		metricCard("Practice", stats.FormatDuration(rep.TotalTime)),
	)

	next := goodStyle.Render("Top level reached")
	if rep.HasNext {
		next = fmt.Sprintf("%s  %s",
			r.levelBar.ViewAs(float64(rep.LevelProgress)/100),
			mutedStyle.Render(fmt.Sprintf("%d points to %s", rep.PointsToNext, rep.Next.Name)),
		)
	}

	rows := []string{
		titleStyle.Render("Progress"),
		"",
		cards,
		"",
		next,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, r.chart.View(), "  ", r.renderBreakdown()),
		"",
		r.renderRoadmap(),
		"",
		r.renderHistory(w),
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (r reportModel) renderBreakdown() string {
	s := r.report.Score
	lines := []string{
		cardTitleStyle.Render("Breakdown"),
		fmt.Sprintf("Practice frequency %2d/25", s.PracticeFrequency),
		fmt.Sprintf("Session quality    %2d/25", s.SessionQuality),
		fmt.Sprintf("Tips progress      %2d/25", s.TipsProgress),
		fmt.Sprintf("Consistency        %2d/25", s.Consistency),
		"",
		mutedStyle.Render(fmt.Sprintf("Avg rating %.1f · fillers %.1f", r.report.AvgRating, r.report.AvgFillers)),
	}
	if len(r.report.Ratings) > 1 {
		lines = append(lines, mutedStyle.Render("Rating trend ")+stats.Sparkline(r.report.Ratings))
	}
	return strings.Join(lines, "\n")
}

func (r reportModel) renderRoadmap() string {
	rows := []string{cardTitleStyle.Render("Levels")}
	for _, lvl := range r.catalog.Levels {
		marker := "  "
		style := mutedStyle
		if lvl.Name == r.report.Level.Name {
			marker = "▸ "
			style = selectedItemStyle
			if lvl.Color != "" {
				style = style.Foreground(lipgloss.Color(lvl.Color))
			}
		}
		line := fmt.Sprintf("%s%-11s %3d-%-3d %s", marker, lvl.Name, lvl.Low, lvl.High, lvl.Description)
		rows = append(rows, style.Render(truncateLine(line, max(r.width-8, 20))))
	}
	return strings.Join(rows, "\n")
}

func (r reportModel) renderHistory(w int) string {
	var buf bytes.Buffer
	if err := stats.RenderHistory(&buf, r.sessions, historyRows); err != nil {
		return errorStyle.Render(fmt.Sprintf("Failed to render history: %v", err))
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for i, line := range lines {
		lines[i] = truncateLine(line, w-4)
	}
	return cardTitleStyle.Render("Recent sessions") + "\n" + strings.Join(lines, "\n")
}
