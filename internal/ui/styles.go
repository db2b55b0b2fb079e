package ui

import "github.com/charmbracelet/lipgloss"

// Nord palette, carried from the teacher and renamed to this
// player's own semantic roles.
var (
	nordBg0    = lipgloss.Color("#2E3440")
	nordBg1    = lipgloss.Color("#3B4252")
	nordBg2    = lipgloss.Color("#434C5E")
	nordBg3    = lipgloss.Color("#4C566A")
	nordFg     = lipgloss.Color("#D8DEE9")
	nordCyan   = lipgloss.Color("#8FBCBB")
	nordBlue   = lipgloss.Color("#88C0D0")
	nordBlue2  = lipgloss.Color("#81A1C1")
	nordBlue3  = lipgloss.Color("#5E81AC")
	nordRed    = lipgloss.Color("#BF616A")
	nordYellow = lipgloss.Color("#EBCB8B")
	nordGreen  = lipgloss.Color("#A3BE8C")

	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(nordBlue)
	styleHeader = lipgloss.NewStyle().MarginTop(1).Foreground(nordBlue2)
	styleFocus  = lipgloss.NewStyle().Foreground(nordYellow)
	stylePanel  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(nordBg3).Padding(0, 1).Margin(0, 0, 1, 0)
	styleHelp   = lipgloss.NewStyle().Foreground(nordBg3)
	styleDim    = lipgloss.NewStyle().Faint(true)
	styleClip   = lipgloss.NewStyle().Bold(true).Foreground(nordRed)

	styleLEDGreen  = lipgloss.NewStyle().Foreground(nordGreen)
	styleLEDYellow = lipgloss.NewStyle().Foreground(nordYellow)
	styleLEDRed    = lipgloss.NewStyle().Foreground(nordRed)

	styleMarkTick     = lipgloss.NewStyle().Foreground(nordCyan)
	stylePositionCell = lipgloss.NewStyle().Foreground(nordBg0).Background(nordBlue3)
	styleProgressFill = lipgloss.NewStyle().Foreground(nordBlue)
	styleProgressRest = lipgloss.NewStyle().Foreground(nordBg3)
	styleBody         = lipgloss.NewStyle().Foreground(nordFg)
)

// ledChars are the bucketed meter glyphs, lowest to highest level.
var ledChars = []string{"◦", "○", "◐", "●"}

// ledStyleFor picks the color ramp bucket for a 0..1 level: green
// below 0.6, yellow below 0.9, red (clip) at or above 0.9.
func ledStyleFor(level float64) lipgloss.Style {
	switch {
	case level >= 0.9:
		return styleLEDRed
	case level >= 0.6:
		return styleLEDYellow
	default:
		return styleLEDGreen
	}
}

// ledChar buckets level into one of the four LED glyphs.
func ledChar(level float64) string {
	idx := int(level * float64(len(ledChars)))
	if idx >= len(ledChars) {
		idx = len(ledChars) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return ledChars[idx]
}
