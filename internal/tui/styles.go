package tui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	colorPrimary   = lipgloss.Color("#4ECDC4")
	colorAccent    = lipgloss.Color("#FFE66D")
	colorMuted     = lipgloss.Color("#6B7089")
	colorSuccess   = lipgloss.Color("#A8E6CF")
	colorWarning   = lipgloss.Color("#FF8B94")
	colorError     = lipgloss.Color("#FF6B6B")
	colorFg        = lipgloss.Color("#D8DEE9")
	colorSubtle    = lipgloss.Color("#3B4252")
	colorHighlight = lipgloss.Color("#B4A7D6")
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	// Forms and the running-logs panel.
	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorMuted).
			Align(lipgloss.Center)

	clockRunningStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorSuccess).
				Align(lipgloss.Center)

	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(colorFg)
	accentStyle       = lipgloss.NewStyle().Foreground(colorAccent)
	successStyle      = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle      = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle        = lipgloss.NewStyle().Foreground(colorError)
	mutedStyle        = lipgloss.NewStyle().Foreground(colorMuted)
	highlightStyle    = lipgloss.NewStyle().Foreground(colorHighlight)
	selectedItemStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	normalItemStyle   = lipgloss.NewStyle().Foreground(colorFg)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
)

// heatStyles colors heatmap cells by level, 0 (nothing) to 4.
var heatStyles = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(colorSubtle),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#2E6B67")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#3A9A93")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#45BFB6")),
	lipgloss.NewStyle().Foreground(colorPrimary),
}

// colorDot renders a bullet in a category color.
func colorDot(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}
