package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/podium/internal/catalog"
	"github.com/verte-zerg/podium/internal/model"
	"github.com/verte-zerg/podium/internal/progress"
)

type tipsModel struct {
	tracker *progress.Tracker
	catalog *catalog.Catalog
	width   int
	height  int

	progress   model.Progress
	category   int // index into categoryKeys
	difficulty int // index into difficultyKeys
	cursor     int
}

func newTipsModel(t *progress.Tracker, cat *catalog.Catalog) tipsModel {
	return tipsModel{
		tracker:  t,
		catalog:  cat,
		progress: model.DefaultProgress(),
	}
}

func (m *tipsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m tipsModel) categoryKeys() []string {
	out := []string{catalog.All}
	for _, c := range m.catalog.Categories {
		out = append(out, c.Key)
	}
	return out
}

func difficultyKeys() []string {
	return append([]string{catalog.All}, catalog.Difficulties...)
}

func (m tipsModel) visible() []model.Tip {
	return m.catalog.Filter(m.categoryKeys()[m.category], difficultyKeys()[m.difficulty])
}

func (m tipsModel) update(msg tea.Msg) (tipsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.progress = msg.progress
		return m, nil

	case tea.KeyMsg:
		tips := m.visible()
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(tips)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Left):
			n := len(m.categoryKeys())
			m.category = (m.category - 1 + n) % n
			m.cursor = 0
		case key.Matches(msg, keys.Right):
			m.category = (m.category + 1) % len(m.categoryKeys())
			m.cursor = 0
		case key.Matches(msg, keys.Difficulty):
			m.difficulty = (m.difficulty + 1) % len(difficultyKeys())
			m.cursor = 0
		case key.Matches(msg, keys.Toggle):
			if m.cursor < len(tips) {
				return m, m.toggle(tips[m.cursor].ID)
			}
		}
	}
	return m, nil
}

func (m tipsModel) toggle(id string) tea.Cmd {
	return func() tea.Msg {
		p, err := m.tracker.ToggleTip(context.Background(), id)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Could not update tip: %v", err), isError: true}
		}
		return progressMsg{progress: p}
	}
}

func (m tipsModel) view() string {
	w := max(m.width-4, 20)
	tips := m.visible()

	category := m.categoryKeys()[m.category]
	categoryLabel := "All categories"
	if category != catalog.All {
		categoryLabel = m.catalog.CategoryLabel(category)
	}
	difficulty := difficultyKeys()[m.difficulty]
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Tips"), "  ",
		selectedItemStyle.Render("‹ "+categoryLabel+" ›"), "  ",
		mutedStyle.Render("difficulty: "+difficulty), "  ",
		mutedStyle.Render(fmt.Sprintf("%d/%d done", len(m.progress.CompletedTips), len(m.catalog.Tips))),
	)

	rows := []string{header, ""}
	if len(tips) == 0 {
		rows = append(rows, mutedStyle.Render("  No tips match this filter"))
	}
	for i, tip := range tips {
		check := "[ ]"
		style := normalItemStyle
		if m.progress.HasTip(tip.ID) {
			check = "[x]"
			style = doneItemStyle
		}
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		line := fmt.Sprintf("%s%s %s", cursor, check, tip.Title)
		rows = append(rows, style.Render(truncateLine(line, w-16))+" "+mutedStyle.Render(tip.Difficulty))
	}

	if m.cursor < len(tips) {
		tip := tips[m.cursor]
		rows = append(rows, "",
			titleStyle.Render(tip.Title),
			mutedStyle.Render(m.catalog.CategoryLabel(tip.Category)+" · "+tip.Difficulty),
			normalItemStyle.Render(wrapText(tip.Body, w-4)),
		)
	}
	rows = append(rows, "", mutedStyle.Render("↑/↓: select  space: toggle done  ←/→: category  d: difficulty"))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
