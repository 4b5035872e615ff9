package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/podium/internal/model"
	"github.com/verte-zerg/podium/internal/progress"
)

// viewState represents the currently active view.
type viewState int

const (
	viewPractice viewState = iota
	viewTips
	viewProgress
)

var viewNames = []string{"Practice", "Tips", "Progress"}

// liveInterval is the refresh rate of the live analysis panel.
const liveInterval = 100 * time.Millisecond

// --- Messages ---

type tickMsg time.Time

type liveMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

type progressMsg struct {
	progress model.Progress
}

type sessionSavedMsg struct {
	session model.Session
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func liveCmd() tea.Cmd {
	return tea.Tick(liveInterval, func(t time.Time) tea.Msg {
		return liveMsg(t)
	})
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}

func loadProgress(t *progress.Tracker) tea.Cmd {
	return func() tea.Msg {
		return progressMsg{progress: t.Progress(context.Background())}
	}
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
