package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styleSet holds the themed styles for one App instance. It is rebuilt
// whenever the theme changes, so no global style state exists.
type styleSet struct {
	header    lipgloss.Style
	text      lipgloss.Style
	value     lipgloss.Style
	muted     lipgloss.Style
	dim       lipgloss.Style
	selected  lipgloss.Style
	success   lipgloss.Style
	warning   lipgloss.Style
	errorText lipgloss.Style
	spark     lipgloss.Style
	pane      lipgloss.Style
	panel     lipgloss.Style
}

func stylesFor(t Theme) styleSet {
	return styleSet{
		header:    lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		text:      lipgloss.NewStyle().Foreground(t.Text),
		value:     lipgloss.NewStyle().Foreground(t.Accent),
		muted:     lipgloss.NewStyle().Foreground(t.Muted),
		dim:       lipgloss.NewStyle().Foreground(t.Muted).Faint(true),
		selected:  lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		success:   lipgloss.NewStyle().Foreground(t.Success),
		warning:   lipgloss.NewStyle().Foreground(t.Warning),
		errorText: lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		spark:     lipgloss.NewStyle().Foreground(t.Primary),
		pane:      lipgloss.NewStyle().Padding(1, 2),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(sideWidth),
	}
}

// progressBar renders playback position as a filled bar.
func (s styleSet) progressBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return s.value.Render(strings.Repeat("█", filled)) + s.muted.Render(strings.Repeat("░", width-filled))
}

func (s styleSet) separator(width int) string {
	if width < 8 {
		if width < 1 {
			return ""
		}
		return s.dim.Render(strings.Repeat("─", width))
	}
	mid := width / 2
	left := strings.Repeat("─", mid-2)
	right := strings.Repeat("─", width-mid-1)
	return s.dim.Render(left + " ◆ " + right)
}
