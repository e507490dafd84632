// Package themes holds the dashboard color themes.
package themes

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/builder-tracking/internal/model"
)

// Theme defines the visual style for the dashboard.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	Error       lipgloss.Style
	Box         lipgloss.Style
	Header      lipgloss.Style
	Selected    lipgloss.Style
	Primary     lipgloss.Color
	Muted       lipgloss.Color
	Border      lipgloss.Color
	Present     lipgloss.Color
	Late        lipgloss.Color
	Absent      lipgloss.Color
	Excused     lipgloss.Color
	Pending     lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	Primary: lipgloss.Color("#3b82f6"),
	Muted:   lipgloss.Color("#737373"),
	Border:  lipgloss.Color("#404040"),
	Present: lipgloss.Color("#10b981"),
	Late:    lipgloss.Color("#f59e0b"),
	Absent:  lipgloss.Color("#ef4444"),
	Excused: lipgloss.Color("#a78bfa"),
	Pending: lipgloss.Color("#737373"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	ActiveTab: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		Background(lipgloss.Color("#3b82f6")).
		Padding(0, 1),
	InactiveTab: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")).
		Padding(0, 1),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")),
	Header: lipgloss.NewStyle().
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color("#404040")),
	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")).
		Background(lipgloss.Color("#1e3a8a")),
}

// StatusColor returns the color a classification is drawn in.
func (t Theme) StatusColor(c model.Classification) lipgloss.Color {
	switch c {
	case model.ClassPresent:
		return t.Present
	case model.ClassLate:
		return t.Late
	case model.ClassAbsent:
		return t.Absent
	case model.ClassExcused:
		return t.Excused
	default:
		return t.Pending
	}
}
