// Package ui lays out the memo surface and composites overlays for the TUI.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/memopad/internal/styles"
)

// dim renders background text in the muted theme color. Existing escape
// codes are stripped first since faint does not combine reliably with
// other colors.
func dim(s string) string {
	return lipgloss.NewStyle().Foreground(styles.TextMuted).Render(ansi.Strip(s))
}

func widest(lines []string) int {
	w := 0
	for _, line := range lines {
		w = max(w, ansi.StringWidth(line))
	}
	return w
}

// splice places row over bg at column x, dimming the visible background on
// both sides.
func splice(bg, row string, x, rowWidth, width int) string {
	var sb strings.Builder
	plain := ansi.Strip(bg)
	plainWidth := ansi.StringWidth(plain)

	if x > 0 {
		left := ansi.Truncate(plain, x, "")
		sb.WriteString(dim(left))
		if pad := x - ansi.StringWidth(left); pad > 0 {
			sb.WriteString(strings.Repeat(" ", pad))
		}
	}
	sb.WriteString(row)
	if right := x + rowWidth; right < width && plainWidth > right {
		sb.WriteString(dim(ansi.Cut(plain, right, plainWidth)))
	}
	return sb.String()
}

// Overlay centers box over a dimmed background of width x height cells.
func Overlay(background, box string, width, height int) string {
	bg := strings.Split(background, "\n")
	rows := strings.Split(box, "\n")
	boxWidth := widest(rows)
	x := max((width-boxWidth)/2, 0)
	y := max((height-len(rows))/2, 0)

	out := make([]string, height)
	for i := range height {
		line := ""
		if i < len(bg) {
			line = bg[i]
		}
		if r := i - y; r >= 0 && r < len(rows) {
			out[i] = splice(line, rows[r], x, boxWidth, width)
		} else {
			out[i] = dim(line)
		}
	}
	return strings.Join(out, "\n")
}
