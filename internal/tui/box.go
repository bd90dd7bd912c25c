package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// progressState is what the progress box shows
type progressState struct {
	Total     int
	Completed int
	Clip      int
	Fraction  float64
	Status    string
}

// renderBox draws a rounded box with the title in the top border:
// ╭─ Title ─────╮
func renderBox(title string, lines []string, width int) string {
	if width < 4 {
		return ""
	}
	inner := width - 2

	border := lipgloss.NewStyle().Foreground(colorBorder)
	header := lipgloss.NewStyle().Foreground(colorHeader).Bold(true).Render(" " + title + " ")

	fill := inner - 1 - lipgloss.Width(header)
	if fill < 0 {
		fill = 0
	}

	out := make([]string, 0, len(lines)+2)
	out = append(out, border.Render("╭─")+header+border.Render(strings.Repeat("─", fill)+"╮"))
	for _, line := range lines {
		if lipgloss.Width(line) > inner {
			line = ansi.Truncate(line, inner-3, "...")
		}
		pad := inner - lipgloss.Width(line)
		out = append(out, border.Render("│")+line+strings.Repeat(" ", pad)+border.Render("│"))
	}
	out = append(out, border.Render("╰"+strings.Repeat("─", inner)+"╯"))

	return strings.Join(out, "\n")
}

// renderBar draws a bar of width cells followed by a percentage label
func renderBar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	if width < 4 {
		width = 4
	}

	filled := int(fraction * float64(width))
	bar := lipgloss.NewStyle().Foreground(colorOK).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(colorAmber).Render(strings.Repeat("░", width-filled))
	return bar + textStyle.Render(fmt.Sprintf(" %3d%%", int(fraction*100)))
}

// renderProgress renders the batch box: overall bar, clip counter, current clip bar
func renderProgress(state progressState, width int) string {
	if width < 12 {
		return ""
	}
	barWidth := width - 9

	var overall float64
	if state.Total > 0 {
		overall = float64(state.Completed) / float64(state.Total)
	}

	lines := []string{
		" " + renderBar(overall, barWidth),
		textStyle.Render(fmt.Sprintf(" %d/%d clips", state.Completed, state.Total)),
	}
	if state.Clip > 0 && state.Completed < state.Total {
		lines = append(lines,
			mutedStyle.Render(fmt.Sprintf(" Part %d", state.Clip)),
			" "+renderBar(state.Fraction, barWidth),
		)
	}
	if state.Status != "" {
		lines = append(lines, " "+infoStyle.Render(state.Status))
	}

	return renderBox("Split", lines, width)
}
