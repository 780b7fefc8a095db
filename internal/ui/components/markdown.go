package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer wraps glamour for markdown panel bodies. Output is
// cached per (content, width) since panels re-render on every frame.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	style    string
	width    int

	lastInput  string
	lastOutput string
}

// NewMarkdownRenderer creates a renderer wrapping at width. An empty style
// uses "dark".
func NewMarkdownRenderer(width int, style string) (*MarkdownRenderer, error) {
	if style == "" {
		style = "dark"
	}
	renderer, err := newTermRenderer(width, style)
	if err != nil {
		return nil, err
	}

	return &MarkdownRenderer{
		renderer: renderer,
		style:    style,
		width:    width,
	}, nil
}

func newTermRenderer(width int, style string) (*glamour.TermRenderer, error) {
	return glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
}

// Render renders markdown content to styled terminal output with the
// surrounding blank margin glamour adds trimmed away
func (mr *MarkdownRenderer) Render(content string) (string, error) {
	if content == mr.lastInput && mr.lastOutput != "" {
		return mr.lastOutput, nil
	}
	out, err := mr.renderer.Render(content)
	if err != nil {
		return "", err
	}
	out = strings.Trim(out, "\n")
	mr.lastInput = content
	mr.lastOutput = out
	return out, nil
}

// Width returns the wrap width
func (mr *MarkdownRenderer) Width() int {
	return mr.width
}

// UpdateWidth recreates the renderer for a new wrap width
func (mr *MarkdownRenderer) UpdateWidth(width int) error {
	if width == mr.width {
		return nil
	}

	renderer, err := newTermRenderer(width, mr.style)
	if err != nil {
		return err
	}

	mr.renderer = renderer
	mr.width = width
	mr.lastInput = ""
	mr.lastOutput = ""
	return nil
}
