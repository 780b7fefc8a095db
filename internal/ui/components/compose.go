package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// SpliceOverlay replaces a rectangular region of a rendered view with
// overlay lines placed at (x, y). ANSI-aware truncation keeps the escape
// sequences of the view intact on both sides of the overlay. Overlay
// columns left of 0 are cut; rows outside the view are skipped.
func SpliceOverlay(view string, overlay []string, x, y int) string {
	if len(overlay) == 0 {
		return view
	}
	viewLines := strings.Split(view, "\n")

	for i, line := range overlay {
		row := y + i
		if row < 0 || row >= len(viewLines) {
			continue
		}
		viewLines[row] = spliceLine(viewLines[row], line, x)
	}
	return strings.Join(viewLines, "\n")
}

func spliceLine(viewLine, overlayLine string, x int) string {
	if x < 0 {
		overlayLine = ansi.TruncateLeft(overlayLine, -x, "")
		x = 0
	}
	overlayWidth := ansi.StringWidth(overlayLine)
	viewWidth := ansi.StringWidth(viewLine)

	var b strings.Builder
	if x > 0 {
		prefix := ansi.Truncate(viewLine, x, "")
		b.WriteString(prefix)
		if pad := x - ansi.StringWidth(prefix); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
	}
	b.WriteString("\x1b[0m")
	b.WriteString(overlayLine)
	b.WriteString("\x1b[0m")

	if end := x + overlayWidth; end < viewWidth {
		b.WriteString(ansi.TruncateLeft(viewLine, end, ""))
	}
	return b.String()
}

// Dim strips the styling of every line in view and renders it with style.
// Used to push the background behind a modal.
func Dim(view string, style lipgloss.Style) string {
	lines := strings.Split(view, "\n")
	for i, line := range lines {
		lines[i] = style.Render(ansi.Strip(line))
	}
	return strings.Join(lines, "\n")
}
