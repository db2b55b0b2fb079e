package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zim-audio/zim/internal/player"
)

// minScopeHeight is the terminal height below which the oscilloscope
// canvas is hidden, per spec.md §4.9.
const minScopeHeight = 20

// fmtPercent renders a 0..1 ratio as 3 integer digits and one decimal
// place, per spec.md §4.9 ("always 3 digits with one decimal").
func fmtPercent(ratio float64) string {
	return fmt.Sprintf("%05.1f%%", clampRatio(ratio)*100)
}

// fmtMMSS renders seconds as MM:SS.
func fmtMMSS(seconds float32) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds + 0.5)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func clampRatio(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// View renders the current frame. It is a thin wrapper over the pure
// Render function so Model satisfies tea.Model.
func (m *Model) View() string {
	return Render(m)
}

// Render assembles the full frame: title / body (modal-dependent) /
// help bar, per spec.md §4.9.
func Render(m *Model) string {
	w := contentWidth(m.width)
	var b strings.Builder

	fmt.Fprintln(&b, styleTitle.Render("zim"))

	switch m.state.Modal {
	case player.ModalBrowser:
		fmt.Fprintln(&b, renderBrowser(m, w))
	case player.ModalSaveDialog:
		fmt.Fprintln(&b, renderSaveDialog(m, w))
	default:
		fmt.Fprintln(&b, renderFilenameAndMeters(m, w))
		fmt.Fprintln(&b, renderProgress(m, w))
		if m.height >= minScopeHeight {
			fmt.Fprintln(&b, renderScope(m, w))
		}
	}

	fmt.Fprint(&b, renderHelp(m, w))
	return b.String()
}

// renderBrowser draws the filter query, the bubbles/list of scored
// matches, and a scrollable preview of the selected entry's sidecar
// body, per spec.md §4.7's browser and §4.9's "varying with modal" row.
func renderBrowser(m *Model, w int) string {
	var b strings.Builder
	fmt.Fprintln(&b, m.browseText.View())
	fmt.Fprintln(&b, m.browseList.View())
	fmt.Fprintln(&b, styleDim.Render("sidecar:"))
	fmt.Fprint(&b, stylePanel.Render(m.sidecarView.View()))
	return lipgloss.NewStyle().Width(w).Render(b.String())
}

// renderSaveDialog draws the Tab-cycled directory list and filename
// field, per spec.md §4.8's save flow.
func renderSaveDialog(m *Model, w int) string {
	var b strings.Builder
	fmt.Fprintln(&b, "Save selection to:")
	for i, name := range m.save.dirEntries {
		line := "  " + name
		if i == m.save.dirSelected {
			cursor := "> " + name
			if m.save.focus == focusDirList {
				line = styleFocus.Render(cursor)
			} else {
				line = cursor
			}
		}
		fmt.Fprintln(&b, line)
	}
	fmt.Fprintln(&b)
	filenameView := m.save.filename.View()
	if m.save.focus == focusFilename {
		filenameView = styleFocus.Render(filenameView)
	}
	fmt.Fprintln(&b, "filename: "+filenameView)
	return lipgloss.NewStyle().Width(w).Render(b.String())
}

func contentWidth(termWidth int) int {
	if termWidth < 40 {
		return 40
	}
	return termWidth - 4
}

func renderFilenameAndMeters(m *Model, w int) string {
	name := filepath.Base(m.sourcePath)
	if name == "" || name == "." {
		name = "(no file loaded)"
	}
	leds := renderLEDRow(m)
	gap := w - lipgloss.Width(name) - lipgloss.Width(leds)
	if gap < 1 {
		gap = 1
	}
	return name + strings.Repeat(" ", gap) + leds
}

// renderLEDRow draws the two-column LED meter for L/R output level,
// color-ramped per spec.md §4.9.
func renderLEDRow(m *Model) string {
	l := ledStyleFor(m.meter.L.OutputLevel).Render(ledChar(m.meter.L.OutputLevel))
	r := ledStyleFor(m.meter.R.OutputLevel).Render(ledChar(m.meter.R.OutputLevel))
	return "L " + l + "  R " + r
}

func renderProgress(m *Model, w int) string {
	pos, dur := m.state.PositionSeconds, m.state.DurationSeconds
	ratio := 0.0
	if dur > 0 {
		ratio = float64(pos / dur)
	}
	filled := int(clampRatio(ratio) * float64(w))
	if filled > w {
		filled = w
	}
	cells := make([]rune, w)
	for i := range cells {
		if i < filled {
			cells[i] = '█'
		} else {
			cells[i] = '░'
		}
	}
	if !m.state.MultiTrack {
		if m.state.MarkIn != nil && dur > 0 {
			tick := int(clampRatio(float64(*m.state.MarkIn/dur)) * float64(w-1))
			cells[tick] = '│'
		}
		if m.state.MarkOut != nil && dur > 0 {
			tick := int(clampRatio(float64(*m.state.MarkOut/dur)) * float64(w-1))
			cells[tick] = '│'
		}
	}
	bar := styleProgressFill.Render(string(cells))
	line := fmt.Sprintf("[%s] %s / %s  %s", bar, fmtMMSS(pos), fmtMMSS(dur), fmtPercent(ratio))
	return line
}

func renderScope(m *Model, w int) string {
	samples := m.wave.ReadDownsampled(w)
	height := 5
	rows := make([][]byte, height)
	for i := range rows {
		rows[i] = make([]byte, w)
		for j := range rows[i] {
			if j%10 == 0 {
				rows[i][j] = '.'
			} else {
				rows[i][j] = ' '
			}
		}
	}
	mid := height / 2
	for x, s := range samples {
		y := mid - int(s*float32(mid))
		if y < 0 {
			y = 0
		}
		if y >= height {
			y = height - 1
		}
		rows[y][x] = '*'
	}
	var b strings.Builder
	for i, row := range rows {
		if i == mid {
			b.WriteByte('-')
		} else {
			b.WriteByte('|')
		}
		b.Write(row)
		b.WriteByte('\n')
	}
	return stylePanel.Render(strings.TrimRight(b.String(), "\n"))
}

func renderHelp(m *Model, w int) string {
	var lines []string
	switch m.state.Modal {
	case player.ModalBrowser:
		lines = []string{
			"type to filter   ↑/↓ select   enter open   esc cancel",
		}
	case player.ModalSaveDialog:
		lines = []string{
			"tab switch field   ↑/↓ navigate   enter confirm   esc cancel",
		}
	default:
		lines = []string{
			"space play/pause   ←/→ seek 5s   shift+←/→ jump 20%   i/o mark in/out",
			"x clear marks   l loop   / browse   s save   e edit sidecar   q quit",
		}
	}
	if m.lastErr != nil {
		lines = append(lines, styleClip.Render(m.lastErr.Error()))
	}
	return styleHelp.Render(strings.Join(lines, "\n"))
}
