package components

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"}
	colorError   = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#92400E", Dark: "#FBBF24"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
	colorInfo    = lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#93C5FD"}
	colorOrange  = lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#FB923C"}
	colorPurple  = lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#C4B5FD"}
	colorTeal    = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#5EEAD4"}
	colorPink    = lipgloss.AdaptiveColor{Light: "#BE185D", Dark: "#F9A8D4"}
	colorNeutral = lipgloss.AdaptiveColor{Light: "#374151", Dark: "#D1D5DB"}
	colorHighBg  = lipgloss.AdaptiveColor{Light: "#FEF3C7", Dark: "#3F3A1D"}
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	accentStyle   = lipgloss.NewStyle().Foreground(colorAccent)
	selectedStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	warningStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	disabledStyle = lipgloss.NewStyle().Foreground(colorBorder)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
	cardFocusedStyle   = cardStyle.BorderForeground(colorAccent)
	cardHighlightStyle = cardStyle.BorderForeground(colorWarning).Background(colorHighBg)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	badgeStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true)
	tagStyle   = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
)

// badge renders text as a colored pill.
func badge(text string, c lipgloss.TerminalColor) string {
	return badgeStyle.Foreground(c).Render(text)
}
