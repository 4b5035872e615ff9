package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/podium/internal/analysis"
	"github.com/verte-zerg/podium/internal/practice"
)

var (
	colorText    = lipgloss.Color("#F0F0F0")
	colorAccent  = lipgloss.Color("#C89A3A")
	colorMuted   = lipgloss.Color("#8C8C8C")
	colorSubtle  = lipgloss.Color("#4A4A4A")
	colorFooter  = lipgloss.Color("#6E6E6E")
	colorError   = lipgloss.Color("#FF4D4F")
	colorSuccess = lipgloss.Color("#52C41A")
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(colorAccent)
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(colorSubtle)
	titleStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	footerStyle = lipgloss.NewStyle().Foreground(colorFooter)
	errorStyle  = lipgloss.NewStyle().Foreground(colorError)
	goodStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
	warnStyle   = lipgloss.NewStyle().Foreground(colorAccent)
	panelStyle  = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(colorSubtle)
	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(colorSubtle)
	cardTitleStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	cardValueStyle    = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	clockStyle        = lipgloss.NewStyle().Foreground(colorText).Bold(true).Padding(0, 2)
	selectedItemStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	normalItemStyle   = lipgloss.NewStyle().Foreground(colorText)
	doneItemStyle     = lipgloss.NewStyle().Foreground(colorMuted).Strikethrough(true)
)

func toneStyle(t analysis.Tone) lipgloss.Style {
	switch t {
	case analysis.ToneGood:
		return goodStyle
	case analysis.ToneWarn:
		return warnStyle
	default:
		return errorStyle
	}
}

func timeStatusStyle(s practice.TimeStatus) lipgloss.Style {
	switch s {
	case practice.StatusOnTrack:
		return goodStyle
	case practice.StatusApproaching, practice.StatusClosing:
		return warnStyle
	default:
		return errorStyle
	}
}
