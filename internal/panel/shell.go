// Package panel composes the geometry engine, layout store, window state
// machine and interaction controller into a floating panel.
package panel

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"floatview/internal/geometry"
	"floatview/internal/interaction"
	"floatview/internal/layoutstore"
	"floatview/internal/logging"
	"floatview/internal/ui/components"
	"floatview/internal/window"
)

// IconRenderer draws control glyphs. size 1 asks for a single-cell glyph.
type IconRenderer interface {
	Icon(name string, size int) string
}

// Deps are the process-wide services a shell mounts against
type Deps struct {
	Store         *layoutstore.Store
	Hub           *interaction.Hub
	Icons         IconRenderer
	Scroll        *ScrollLock
	Bus           EventHandler
	Styles        *components.Styles
	Keys          KeyMap
	Window        window.Options
	Limits        interaction.Limits
	Gap           int
	DefaultSize   geometry.Size
	MarkdownStyle string
}

func (d Deps) normalized() Deps {
	if d.Hub == nil {
		d.Hub = interaction.NewHub()
	}
	if d.Icons == nil {
		d.Icons = components.Glyphs{}
	}
	if d.Scroll == nil {
		d.Scroll = NewScrollLock(nil)
	}
	if d.Styles == nil {
		d.Styles = components.NewStyles()
	}
	if len(d.Keys.Dismiss.Keys()) == 0 {
		d.Keys = DefaultKeyMap()
	}
	if d.Limits.MinSize.Empty() {
		d.Limits = interaction.DefaultLimits()
	}
	if d.Gap <= 0 {
		d.Gap = 1
	}
	if d.DefaultSize.Empty() {
		d.DefaultSize = geometry.Size{Width: 40, Height: 12}
	}
	return d
}

// Options are the construction parameters of a single panel
type Options struct {
	// ID keys persisted layout. Empty disables persistence.
	ID                  string
	Title               string
	Placement           Placement
	Resizable           bool
	Modal               bool
	Compact             bool
	CloseOnOutsideClick bool
	OnClose             func()

	Content  string
	Markdown bool
	// Parent is the context anchor used by ContextParent placements
	Parent Anchor
}

// Shell is a mounted floating panel. It owns one window machine and at
// most one interaction session; everything else is shared through Deps.
type Shell struct {
	ctx      context.Context
	log      zerolog.Logger
	instance string
	deps     Deps
	opts     Options
	size     geometry.Size

	machine    *window.Machine
	controller *interaction.Controller

	body     *components.ContentView
	markdown *components.MarkdownRenderer

	lastAnchored *geometry.Point
	focused      bool
	closed       bool
	unmounted    bool
	releases     []func()
}

// New mounts a panel. Initial geometry comes from the layout store when the
// panel has an ID and a saved layout, otherwise from the placement.
func New(ctx context.Context, deps Deps, opts Options) *Shell {
	deps = deps.normalized()
	s := &Shell{
		instance: uuid.NewString(),
		deps:     deps,
		opts:     opts,
		size:     opts.Placement.Size(deps.DefaultSize),
		body:     components.NewContentView(),
	}
	s.ctx = logging.WithPanelID(logging.WithComponent(ctx, "panel"), opts.ID)
	s.log = logging.FromContext(s.ctx).With().Str("instance", s.instance).Logger()

	viewport := deps.Hub.Viewport()
	s.machine = window.New(s.initialRect(viewport), viewport, deps.Window)
	s.controller = interaction.NewController(deps.Hub, s.machine, deps.Limits, s.commit)
	s.controller.SetEnabled(!opts.Modal)
	s.SetContent(opts.Content)

	s.releases = append(s.releases,
		deps.Hub.Listen(s.outsideClick),
		deps.Hub.ListenResize(s.viewportChanged),
	)
	if opts.Modal {
		s.releases = append(s.releases, deps.Scroll.Acquire())
	}

	s.log.Debug().
		Bool("modal", opts.Modal).
		Interface("rect", s.Rect()).
		Msg("panel mounted")
	s.emit(EventMounted)
	return s
}

// ID returns the persistence identifier
func (s *Shell) ID() string {
	return s.opts.ID
}

// Instance returns the per-mount identifier used in logs and events
func (s *Shell) Instance() string {
	return s.instance
}

// Title returns the panel title
func (s *Shell) Title() string {
	return s.opts.Title
}

// Modal reports whether the panel is modal
func (s *Shell) Modal() bool {
	return s.opts.Modal
}

// Mode returns the window mode
func (s *Shell) Mode() window.Mode {
	return s.machine.Mode()
}

// Rect returns the on-screen rectangle. Modal panels are re-centered on
// the current viewport every time.
func (s *Shell) Rect() geometry.Rect {
	if s.opts.Modal {
		return geometry.Center(s.size, s.machine.Viewport())
	}
	return s.machine.Rect()
}

// Contains reports whether the cell (x, y) is covered by the panel
func (s *Shell) Contains(x, y int) bool {
	return s.Rect().Contains(x, y)
}

// Dragging reports whether a drag or resize is in progress
func (s *Shell) Dragging() bool {
	return s.controller.Active()
}

// Closed reports whether the panel has been closed
func (s *Shell) Closed() bool {
	return s.closed
}

// SetFocused marks the panel as the keyboard target
func (s *Shell) SetFocused(focused bool) {
	s.focused = focused
}

// SetContent replaces the body text
func (s *Shell) SetContent(content string) {
	s.opts.Content = content
	s.body.SetContent(content, !s.opts.Markdown)
}

// ScrollBody scrolls the body by delta lines
func (s *Shell) ScrollBody(delta int) {
	for ; delta < 0; delta++ {
		s.body.ScrollUp()
	}
	for ; delta > 0; delta-- {
		s.body.ScrollDown()
	}
}

// PointerDown handles a pointer press routed to this panel. It reports
// whether the panel consumed the event, which is the case for any press
// inside its rectangle.
func (s *Shell) PointerDown(ev interaction.Event) bool {
	if s.unmounted || !s.Contains(ev.X, ev.Y) {
		return false
	}
	if ev.Button != tea.MouseButtonLeft {
		return true
	}

	r := s.Rect()
	titleRow := r.Y + s.frame()
	if ev.Y == titleRow {
		for _, c := range s.controls(r) {
			if ev.X >= c.x && ev.X < c.x+c.width {
				c.action()
				return true
			}
		}
	}

	if s.handleVisible() && ev.X == r.Right()-1 && ev.Y == r.Bottom()-1 {
		s.controller.Begin(interaction.Resize, ev.Point())
		return true
	}
	if ev.Y >= r.Y && ev.Y <= titleRow {
		s.controller.Begin(interaction.Drag, ev.Point())
	}
	return true
}

// HandleKey handles a key press while the panel is on top. Modal panels
// close on escape; focused panels also take the mode bindings.
func (s *Shell) HandleKey(msg tea.KeyMsg) bool {
	if s.unmounted {
		return false
	}
	keys := s.deps.Keys
	switch {
	case key.Matches(msg, keys.Dismiss):
		if s.opts.Modal {
			s.Close()
			return true
		}
		return false
	case s.opts.Modal || !s.focused:
		return false
	case key.Matches(msg, keys.Minimize):
		s.transition(s.machine.ToggleMinimize)
	case key.Matches(msg, keys.Maximize):
		s.transition(s.machine.ToggleMaximize)
	case key.Matches(msg, keys.Dock):
		s.transition(s.machine.ToggleDock)
	case key.Matches(msg, keys.Reset):
		s.resetSize()
	case key.Matches(msg, keys.Close):
		s.Close()
	default:
		return false
	}
	return true
}

// Close runs the close callback once. The owner is expected to Unmount.
func (s *Shell) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.log.Debug().Msg("panel closed")
	s.emit(EventClosed)
	if s.opts.OnClose != nil {
		s.opts.OnClose()
	}
}

// Unmount releases the interaction session, every hub listener and the
// scroll lock. Calling it again does nothing.
func (s *Shell) Unmount() {
	if s.unmounted {
		return
	}
	s.unmounted = true
	s.controller.Close()
	for _, release := range s.releases {
		release()
	}
	s.releases = nil
	s.log.Debug().Msg("panel unmounted")
	s.emit(EventUnmounted)
}

func (s *Shell) initialRect(viewport geometry.Size) geometry.Rect {
	p := s.opts.Placement
	if s.opts.Modal {
		return geometry.Center(s.size, viewport)
	}

	size := s.storedSize()
	if p.IsAnchored() {
		if r, ok := s.placeAnchored(size, viewport); ok {
			return r
		}
		s.log.Debug().Msg("anchor not resolvable at mount")
		return s.fallbackRect(size, viewport)
	}

	pos := geometry.Point{X: p.X, Y: p.Y}
	if !p.HasPosition {
		pos = geometry.Align(size, viewport, p.Align, s.deps.Gap).Pos()
	}
	pos = layoutstore.Read(s.ctx, s.deps.Store, s.opts.ID, layoutstore.FieldPosition, pos)
	return geometry.NewRect(pos, size)
}

// storedSize reads the persisted size. Sizes no resize could have produced
// are treated as corrupt: empty ones fall back to the placement size and
// ones under the resize floor are raised to it.
func (s *Shell) storedSize() geometry.Size {
	stored := layoutstore.Read(s.ctx, s.deps.Store, s.opts.ID, layoutstore.FieldSize, s.size)
	if stored == s.size {
		return stored
	}
	if stored.Empty() {
		s.log.Warn().Interface("size", stored).Msg("discarding invalid stored size")
		return s.size
	}
	floor := s.deps.Limits.MinSize
	return geometry.Size{
		Width:  max(stored.Width, floor.Width),
		Height: max(stored.Height, floor.Height),
	}
}

func (s *Shell) placeAnchored(size, viewport geometry.Size) (geometry.Rect, bool) {
	anchor, ok := anchorBounds(s.opts.Placement.Anchor, s.opts.Parent)
	if !ok {
		return geometry.Rect{}, false
	}
	r := geometry.PlaceRelativeToAnchor(anchor, size, viewport, s.deps.Gap)
	pos := r.Pos()
	s.lastAnchored = &pos
	return r, true
}

// fallbackRect positions a panel whose anchor is gone: last computed
// anchored position, then the explicit position, then centered.
func (s *Shell) fallbackRect(size, viewport geometry.Size) geometry.Rect {
	p := s.opts.Placement
	switch {
	case s.lastAnchored != nil:
		return geometry.NewRect(*s.lastAnchored, size)
	case p.HasPosition:
		return geometry.NewRect(geometry.Point{X: p.X, Y: p.Y}, size)
	default:
		return geometry.NewRect(geometry.Center(size, viewport).Pos(), size)
	}
}

func (s *Shell) viewportChanged(viewport geometry.Size) {
	if s.unmounted {
		return
	}
	s.machine.SetViewport(viewport)
	if s.opts.Placement.IsAnchored() && !s.opts.Modal {
		normal, _ := s.machine.Saved(window.Normal)
		r, ok := s.placeAnchored(normal.Size(), viewport)
		if !ok {
			r = s.fallbackRect(normal.Size(), viewport)
		}
		s.machine.SetNormal(r)
	}
}

func (s *Shell) outsideClick(ev interaction.Event) {
	if ev.Kind != interaction.Down || s.closed || s.unmounted {
		return
	}
	if s.Contains(ev.X, ev.Y) {
		return
	}
	if s.opts.Modal && s.opts.CloseOnOutsideClick {
		s.Close()
	}
}

func (s *Shell) commit(kind interaction.Kind, rect geometry.Rect) {
	if s.opts.Modal || s.machine.Mode() != window.Normal {
		return
	}
	switch kind {
	case interaction.Drag:
		// anchored panels recompute their position, so it is never stored
		if !s.opts.Placement.IsAnchored() {
			layoutstore.Write(s.ctx, s.deps.Store, s.opts.ID, layoutstore.FieldPosition, rect.Pos())
		}
	case interaction.Resize:
		layoutstore.Write(s.ctx, s.deps.Store, s.opts.ID, layoutstore.FieldSize, rect.Size())
	}
	s.log.Debug().Stringer("kind", kind).Interface("rect", rect).Msg("layout committed")
	s.emit(EventLayoutCommitted)
}

func (s *Shell) transition(fn func() bool) {
	from := s.machine.Mode()
	if !fn() {
		return
	}
	s.log.Debug().
		Stringer("from", from).
		Stringer("to", s.machine.Mode()).
		Msg("mode changed")
	s.emit(EventModeChanged)
}

func (s *Shell) resetSize() {
	if !s.opts.Resizable || !s.machine.ResetSize(s.size) {
		return
	}
	layoutstore.Write(s.ctx, s.deps.Store, s.opts.ID, layoutstore.FieldSize, s.machine.Rect().Size())
	s.emit(EventLayoutCommitted)
}

func (s *Shell) emit(t EventType) {
	if s.deps.Bus == nil {
		return
	}
	s.deps.Bus.HandleEvent(Event{
		Type:      t,
		PanelID:   s.opts.ID,
		Instance:  s.instance,
		Mode:      s.machine.Mode(),
		Rect:      s.Rect(),
		Timestamp: time.Now(),
	})
}
