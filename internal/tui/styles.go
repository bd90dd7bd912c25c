package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared by the progress view and the option form
const (
	colorBorder = lipgloss.Color("#5C4F4B")
	colorFocus  = lipgloss.Color("#724D7C")
	colorMuted  = lipgloss.Color("#AEA47A")
	colorText   = lipgloss.Color("#F3DBB2")
	colorHeader = lipgloss.Color("#D33061")
	colorInfo   = lipgloss.Color("#3097C6")
	colorAmber  = lipgloss.Color("#CC8B3F")
	colorError  = lipgloss.Color("#AC3835")
	colorOK     = lipgloss.Color("#A6A75D")
)

var (
	textStyle    = lipgloss.NewStyle().Foreground(colorText)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	successStyle = lipgloss.NewStyle().Foreground(colorOK).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
)
