package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorBrand   = lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#67E8F9"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	colorSpinner = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#C4B5FD"}
)

var (
	brandStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	helpStyle  = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
)
