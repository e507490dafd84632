package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/builder-tracking/internal/model"
)

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	theme := m.config.Theme
	var b strings.Builder

	title := m.config.Title
	if m.report != nil {
		title += "  " + theme.Subtitle.Render(m.report.Range.String())
	}
	b.WriteString(theme.Title.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderSummary())
	b.WriteString("\n\n")

	switch {
	case m.report == nil && m.err != nil:
		b.WriteString(theme.Error.Render("Failed to load report: " + m.err.Error()))
	case m.report == nil:
		b.WriteString(theme.Subtitle.Render("Loading…"))
	default:
		b.WriteString(theme.Box.Render(m.tables[m.tab].View()))
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keymap))
	return b.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		style := m.config.Theme.InactiveTab
		if Tab(i) == m.tab {
			style = m.config.Theme.ActiveTab
		}
		tabs[i] = style.Render(name)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderSummary shows the range totals as colored counts.
func (m Model) renderSummary() string {
	if m.report == nil {
		return ""
	}
	totals := m.report.Totals
	parts := make([]string, 0, len(model.Classifications)+1)
	for _, c := range model.Classifications {
		style := lipgloss.NewStyle().Foreground(m.config.Theme.StatusColor(c))
		parts = append(parts, style.Render(fmt.Sprintf("%s %d", c, totals.Count(c))))
	}
	parts = append(parts, fmt.Sprintf("total %d", totals.Total))
	return strings.Join(parts, "  ")
}

func (m Model) renderStatus() string {
	muted := lipgloss.NewStyle().Foreground(m.config.Theme.Muted)
	switch {
	case m.loading:
		return muted.Render("Reloading…")
	case m.err != nil && m.report != nil:
		return m.config.Theme.Error.Render("Reload failed: " + m.err.Error())
	case !m.loadedAt.IsZero():
		return muted.Render("Updated " + m.loadedAt.Format("15:04:05"))
	default:
		return ""
	}
}
