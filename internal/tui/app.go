// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/podium/internal/catalog"
	"github.com/verte-zerg/podium/internal/model"
	"github.com/verte-zerg/podium/internal/practice"
	"github.com/verte-zerg/podium/internal/progress"
	"github.com/verte-zerg/podium/internal/topic"
)

// Deps wires the App to the domain.
type Deps struct {
	Flow    *practice.Flow
	Tracker *progress.Tracker
	Catalog *catalog.Catalog
	Topics  []string
	Topic   *topic.Generator
	Stats   model.StatsConfig
	Log     *zap.Logger
}

// App is the root Bubble Tea model.
type App struct {
	flow    *practice.Flow
	tracker *progress.Tracker
	log     *zap.Logger
	width   int
	height  int

	activeView viewState
	showHelp   bool

	session sessionModel
	tips    tipsModel
	report  reportModel

	help   help.Model
	status string
	isErr  bool
}

// NewApp builds the root model.
func NewApp(d Deps) App {
	h := help.New()
	h.ShowAll = false

	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	gen := d.Topic
	if gen == nil {
		gen = topic.New()
	}
	topics := d.Topics
	if len(topics) == 0 {
		topics = d.Catalog.Topics
	}

	return App{
		flow:       d.Flow,
		tracker:    d.Tracker,
		log:        log,
		activeView: viewPractice,
		session:    newSessionModel(d.Flow, d.Catalog, topics, gen),
		tips:       newTipsModel(d.Tracker, d.Catalog),
		report:     newReportModel(d.Catalog, d.Stats),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		loadProgress(a.tracker),
		tickCmd(),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.session.setSize(a.width, contentHeight)
		a.tips.setSize(a.width, contentHeight)
		a.report.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// The review form captures all input while open.
		if a.activeView == viewPractice && a.session.formActive {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			a.shutdown()
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewPractice
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewTips
			return a, loadProgress(a.tracker)
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewProgress
			return a, loadProgress(a.tracker)
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			if a.activeView == viewPractice {
				return a, nil
			}
			return a, loadProgress(a.tracker)
		}

	case tickMsg:
		a.flow.Tick()
		return a, tickCmd()

	case liveMsg:
		// Keep refreshing only while a session is live.
		if a.flow.Phase() == practice.PhasePracticing {
			return a, liveCmd()
		}
		return a, nil

	case statusMsg:
		a.status = msg.text
		a.isErr = msg.isError
		if msg.isError {
			a.log.Warn("ui status", zap.String("text", msg.text))
		}
		return a, nil

	case sessionSavedMsg:
		a.status = "Session saved"
		a.isErr = false
		return a, loadProgress(a.tracker)

	case progressMsg:
		a.tips, _ = a.tips.update(msg)
		a.report, _ = a.report.update(msg)
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewPractice:
		a.session, cmd = a.session.update(msg)
	case viewTips:
		a.tips, cmd = a.tips.update(msg)
	case viewProgress:
		a.report, cmd = a.report.update(msg)
	}
	return a, cmd
}

// shutdown releases the microphone when quitting mid-session.
func (a App) shutdown() {
	if a.flow.Phase() == practice.PhasePracticing {
		a.flow.Reset(context.Background())
		a.log.Info("session discarded on quit")
	}
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewPractice:
		content = a.session.view()
	case viewTips:
		content = a.tips.view()
	case viewProgress:
		content = a.report.view()
	}

	contentHeight := a.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 1 {
		contentHeight = 1
	}
	content = fitLines(content, a.width, contentHeight)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := titleStyle.Render("podium")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")
	return lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow)
}

func (a App) renderFooter() string {
	left := footerStyle.Render(a.help.View(keys))

	timerInfo := ""
	if a.flow.Phase() == practice.PhasePracticing {
		clock := practice.FormatClock(a.flow.Elapsed())
		timerInfo = goodStyle.Render(" ● " + clock)
		if a.flow.Paused() {
			timerInfo = warnStyle.Render(" ⏸ " + clock)
		}
	}
	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.isErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")
	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}
