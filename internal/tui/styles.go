package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains the lipgloss styles of the reader.
type Styles struct {
	Title    lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Sidebar  lipgloss.Style
	Cursor   lipgloss.Style
	Active   lipgloss.Style
	Child    lipgloss.Style
	Selected lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	primary := lipgloss.Color("#7C3AED")
	muted := lipgloss.Color("#6C7086")
	border := lipgloss.Color("#45475A")

	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(primary),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
		Sidebar:  lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderRight(true).BorderForeground(border).PaddingRight(1),
		Cursor:   lipgloss.NewStyle().Reverse(true),
		Active:   lipgloss.NewStyle().Bold(true).Foreground(primary),
		Child:    lipgloss.NewStyle().PaddingLeft(2),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4")),
	}
}
