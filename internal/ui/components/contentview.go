package components

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// ContentView is a scrollable block of text cut to a fixed width. It backs
// both panel bodies and the background document.
type ContentView struct {
	content   string
	wrap      bool
	width     int
	height    int
	scrollPos int

	lines      []string
	linesWidth int
}

// NewContentView creates an empty content view
func NewContentView() *ContentView {
	return &ContentView{wrap: true, linesWidth: -1}
}

// SetContent replaces the text. With wrap the text is word-wrapped to the
// view width; without it the text is assumed pre-rendered (e.g. markdown)
// and only truncated.
func (cv *ContentView) SetContent(content string, wrap bool) {
	if content == cv.content && wrap == cv.wrap {
		return
	}
	cv.content = content
	cv.wrap = wrap
	cv.linesWidth = -1
	cv.clampScroll()
}

// Content returns the current text
func (cv *ContentView) Content() string {
	return cv.content
}

// SetDimensions sets the width and height for the view
func (cv *ContentView) SetDimensions(width, height int) {
	cv.width = max(0, width)
	cv.height = max(0, height)
	cv.clampScroll()
}

// ScrollUp scrolls up by one line
func (cv *ContentView) ScrollUp() {
	if cv.scrollPos > 0 {
		cv.scrollPos--
	}
}

// ScrollDown scrolls down by one line
func (cv *ContentView) ScrollDown() {
	if cv.scrollPos < cv.maxScrollPosition() {
		cv.scrollPos++
	}
}

// ScrollPageUp scrolls up by one page
func (cv *ContentView) ScrollPageUp() {
	cv.scrollPos = max(0, cv.scrollPos-max(1, cv.height-1))
}

// ScrollPageDown scrolls down by one page
func (cv *ContentView) ScrollPageDown() {
	cv.scrollPos = min(cv.maxScrollPosition(), cv.scrollPos+max(1, cv.height-1))
}

// ScrollToTop scrolls to the first line
func (cv *ContentView) ScrollToTop() {
	cv.scrollPos = 0
}

// ScrollToBottom scrolls to the last page
func (cv *ContentView) ScrollToBottom() {
	cv.scrollPos = cv.maxScrollPosition()
}

// GetScrollInfo returns current scroll information for display
func (cv *ContentView) GetScrollInfo() (current, maximum int) {
	return cv.scrollPos, cv.maxScrollPosition()
}

// IsAtTop returns true if scrolled to top
func (cv *ContentView) IsAtTop() bool {
	return cv.scrollPos <= 0
}

// IsAtBottom returns true if scrolled to bottom
func (cv *ContentView) IsAtBottom() bool {
	return cv.scrollPos >= cv.maxScrollPosition()
}

// Lines returns exactly height lines, each exactly width cells wide
func (cv *ContentView) Lines() []string {
	if cv.height == 0 {
		return nil
	}
	all := cv.allLines()
	out := make([]string, cv.height)
	for i := range out {
		idx := cv.scrollPos + i
		line := ""
		if idx < len(all) {
			line = all[idx]
		}
		out[i] = FitLine(line, cv.width)
	}
	return out
}

// Render joins Lines into a block
func (cv *ContentView) Render() string {
	return strings.Join(cv.Lines(), "\n")
}

func (cv *ContentView) allLines() []string {
	if cv.linesWidth == cv.width && cv.lines != nil {
		return cv.lines
	}
	text := strings.TrimRight(cv.content, "\n")
	if cv.wrap {
		text = wordWrap(text, cv.width)
	}
	cv.lines = strings.Split(text, "\n")
	cv.linesWidth = cv.width
	return cv.lines
}

func (cv *ContentView) maxScrollPosition() int {
	if cv.height == 0 {
		return 0
	}
	return max(0, len(cv.allLines())-cv.height)
}

func (cv *ContentView) clampScroll() {
	cv.scrollPos = min(cv.scrollPos, cv.maxScrollPosition())
}

// FitLine truncates or pads line to exactly width cells
func FitLine(line string, width int) string {
	if width <= 0 {
		return ""
	}
	line = ansi.Truncate(line, width, "")
	if pad := width - ansi.StringWidth(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	return line
}

// wordWrap wraps each paragraph of text to width, keeping blank lines
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	paragraphs := strings.Split(text, "\n")
	var result []string
	for _, paragraph := range paragraphs {
		if ansi.StringWidth(paragraph) <= width {
			result = append(result, paragraph)
			continue
		}

		var currentLine strings.Builder
		lineWidth := 0
		for _, word := range strings.Fields(paragraph) {
			wordWidth := ansi.StringWidth(word)
			// If adding this word would exceed width, start new line
			if lineWidth > 0 && lineWidth+wordWidth+1 > width {
				result = append(result, currentLine.String())
				currentLine.Reset()
				lineWidth = 0
			}
			if lineWidth > 0 {
				currentLine.WriteString(" ")
				lineWidth++
			}
			currentLine.WriteString(word)
			lineWidth += wordWidth
		}
		result = append(result, currentLine.String())
	}
	return strings.Join(result, "\n")
}
