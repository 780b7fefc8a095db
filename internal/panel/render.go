package panel

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"floatview/internal/geometry"
	"floatview/internal/ui/components"
	"floatview/internal/window"
)

// control is a clickable glyph in the title row, in screen columns
type control struct {
	name   string
	glyph  string
	x      int
	width  int
	action func()
}

func (s *Shell) frame() int {
	if s.opts.Compact {
		return 0
	}
	return 1
}

func (s *Shell) iconSize() int {
	if s.opts.Compact {
		return 1
	}
	return 2
}

func (s *Shell) handleVisible() bool {
	return s.opts.Resizable && !s.opts.Modal && s.machine.Mode() == window.Normal
}

// controls lays out the title-row controls right to left against the
// inner right edge of r. Controls that would cross the left edge are
// dropped.
func (s *Shell) controls(r geometry.Rect) []control {
	type spec struct {
		name   string
		action func()
	}
	var specs []spec
	if !s.opts.Modal {
		mode := s.machine.Mode()
		if s.opts.Resizable && mode == window.Normal {
			specs = append(specs, spec{components.IconReset, s.resetSize})
		}
		specs = append(specs,
			spec{toggleIcon(mode, window.Minimized, components.IconMinimize), func() { s.transition(s.machine.ToggleMinimize) }},
			spec{toggleIcon(mode, window.Maximized, components.IconMaximize), func() { s.transition(s.machine.ToggleMaximize) }},
			spec{toggleIcon(mode, window.Docked, components.IconDock), func() { s.transition(s.machine.ToggleDock) }},
		)
	}
	specs = append(specs, spec{components.IconClose, s.Close})

	left := r.X + s.frame()
	x := r.Right() - s.frame()
	out := make([]control, 0, len(specs))
	for i := len(specs) - 1; i >= 0; i-- {
		glyph := s.deps.Icons.Icon(specs[i].name, s.iconSize())
		width := ansi.StringWidth(glyph)
		x -= width
		if x < left {
			break
		}
		out = append(out, control{name: specs[i].name, glyph: glyph, x: x, width: width, action: specs[i].action})
		x--
	}
	// reverse back to left-to-right order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func toggleIcon(current, target window.Mode, icon string) string {
	if current == target {
		return components.IconRestore
	}
	return icon
}

// View renders the panel as exactly Rect().Height lines of Rect().Width
// cells, ready to be spliced over the workspace
func (s *Shell) View() string {
	r := s.Rect()
	styles := s.deps.Styles
	f := s.frame()
	innerW := max(0, r.Width-2*f)
	innerH := max(0, r.Height-2*f)

	lines := make([]string, 0, innerH)
	if innerH > 0 {
		lines = append(lines, s.titleLine(r, innerW))
	}
	if bodyH := innerH - 1; bodyH > 0 {
		lines = append(lines, s.bodyLines(innerW, bodyH)...)
	}

	block := strings.Join(lines, "\n")
	if f > 0 {
		block = s.frameStyle().Render(block)
	}

	out := strings.Split(block, "\n")
	if s.handleVisible() && len(out) > 0 && r.Width > 1 {
		last := len(out) - 1
		handle := styles.Handle.Render(s.deps.Icons.Icon(components.IconResize, 1))
		out[last] = ansi.Truncate(out[last], r.Width-1, "") + handle
	}
	return strings.Join(out, "\n")
}

func (s *Shell) frameStyle() lipgloss.Style {
	switch {
	case s.opts.Modal:
		return s.deps.Styles.FrameModal
	case s.focused:
		return s.deps.Styles.FrameFocused
	default:
		return s.deps.Styles.Frame
	}
}

func (s *Shell) titleLine(r geometry.Rect, width int) string {
	styles := s.deps.Styles
	titleStyle := styles.Title
	if s.focused || s.opts.Compact {
		titleStyle = styles.TitleFocused
	}
	line := titleStyle.Render(components.FitLine(" "+s.opts.Title, width))

	left := r.X + s.frame()
	for _, c := range s.controls(r) {
		line = components.SpliceOverlay(line, []string{styles.Control.Render(c.glyph)}, c.x-left, 0)
	}
	return components.FitLine(line, width)
}

func (s *Shell) bodyLines(width, height int) []string {
	if s.machine.Mode() == window.Minimized && !s.opts.Modal {
		blank := components.FitLine("", width)
		lines := make([]string, height)
		for i := range lines {
			lines[i] = blank
		}
		return lines
	}

	if s.opts.Markdown {
		s.renderMarkdown(width)
	}
	s.body.SetDimensions(width, height)
	lines := s.body.Lines()
	if !s.opts.Markdown {
		for i, line := range lines {
			lines[i] = s.deps.Styles.Content.Render(line)
		}
	}
	return lines
}

// renderMarkdown feeds the body with glamour output for the current
// width. Rendering failures fall back to the raw text.
func (s *Shell) renderMarkdown(width int) {
	if width <= 0 {
		return
	}
	if s.markdown == nil {
		mr, err := components.NewMarkdownRenderer(width, s.deps.MarkdownStyle)
		if err != nil {
			s.log.Warn().Err(err).Msg("markdown renderer unavailable")
			s.body.SetContent(s.opts.Content, true)
			return
		}
		s.markdown = mr
	}
	if err := s.markdown.UpdateWidth(width); err != nil {
		s.log.Warn().Err(err).Int("width", width).Msg("markdown width update failed")
	}
	out, err := s.markdown.Render(s.opts.Content)
	if err != nil {
		s.log.Warn().Err(err).Msg("markdown render failed")
		s.body.SetContent(s.opts.Content, true)
		return
	}
	s.body.SetContent(out, false)
}
