package app

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/amit-agicent/crm-gemini/internal/session"
)

// palette is one theme's color set. The TUI ships exactly two: the default
// light profile and the persisted "dark" preference.
type palette struct {
	background lipgloss.Color
	text       lipgloss.Color
	border     lipgloss.Color
	accent     lipgloss.Color
	accentAlt  lipgloss.Color
	muted      lipgloss.Color
	warning    lipgloss.Color
	selection  lipgloss.Color
}

var darkPalette = palette{
	background: lipgloss.Color("#05090C"),
	text:       lipgloss.Color("#E8F0F2"),
	border:     lipgloss.Color("#2D6A80"),
	accent:     lipgloss.Color("#50E3C2"),
	accentAlt:  lipgloss.Color("#F6AE2D"),
	muted:      lipgloss.Color("#8CA1AE"),
	warning:    lipgloss.Color("#FF6B6B"),
	selection:  lipgloss.Color("#13232C"),
}

var lightPalette = palette{
	background: lipgloss.Color("#F7F5F0"),
	text:       lipgloss.Color("#22303A"),
	border:     lipgloss.Color("#7FA8B8"),
	accent:     lipgloss.Color("#0E7C66"),
	accentAlt:  lipgloss.Color("#B0650A"),
	muted:      lipgloss.Color("#6C7A85"),
	warning:    lipgloss.Color("#B23A42"),
	selection:  lipgloss.Color("#E4E9EC"),
}

type styles struct {
	theme string

	screen     lipgloss.Style
	header     lipgloss.Style
	status     lipgloss.Style
	errorLine  lipgloss.Style
	help       lipgloss.Style
	panel      lipgloss.Style
	panelTitle lipgloss.Style
	label      lipgloss.Style
	value      lipgloss.Style
	navActive  lipgloss.Style
	navIdle    lipgloss.Style

	table table.Styles
}

func newStyles(theme string) styles {
	colors := lightPalette
	if theme == session.ThemeDark {
		colors = darkPalette
	}

	tableStyles := table.DefaultStyles()
	tableStyles.Header = tableStyles.Header.
		Bold(true).
		Foreground(colors.accent).
		BorderForeground(colors.border)
	tableStyles.Selected = tableStyles.Selected.
		Foreground(colors.text).
		Background(colors.selection).
		Bold(false)

	return styles{
		theme: theme,
		screen: lipgloss.NewStyle().
			Background(colors.background).
			Foreground(colors.text).
			Padding(0, 1),
		header: lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(colors.accent),
		status: lipgloss.NewStyle().
			Foreground(colors.accentAlt).
			Bold(true),
		errorLine: lipgloss.NewStyle().
			Foreground(colors.warning).
			Bold(true),
		help: lipgloss.NewStyle().
			Foreground(colors.muted),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.border).
			Padding(0, 1),
		panelTitle: lipgloss.NewStyle().
			Foreground(colors.accent).
			Bold(true),
		label: lipgloss.NewStyle().
			Foreground(colors.muted),
		value: lipgloss.NewStyle().
			Foreground(colors.text),
		navActive: lipgloss.NewStyle().
			Foreground(colors.accent).
			Bold(true).
			Underline(true),
		navIdle: lipgloss.NewStyle().
			Foreground(colors.muted),
		table: tableStyles,
	}
}

// toggledTheme is the pure two-state flip behind the theme keybinding.
func toggledTheme(current string) string {
	if current == session.ThemeDark {
		return session.ThemeLight
	}
	return session.ThemeDark
}
