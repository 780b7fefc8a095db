// Package interaction turns pointer sequences into drag and resize
// operations on a window.Machine.
package interaction

import (
	"floatview/internal/geometry"
	"floatview/internal/window"
)

// Kind is the type of an interaction session
type Kind int

const (
	Drag Kind = iota
	Resize
)

func (k Kind) String() string {
	if k == Resize {
		return "resize"
	}
	return "drag"
}

// Session is the transient state between a pointer-down and its pointer-up
type Session struct {
	Kind       Kind
	Origin     geometry.Point
	OriginRect geometry.Rect
}

// Limits are the hard floors for resizing
type Limits struct {
	MinSize geometry.Size
}

// DefaultLimits returns terminal-sized floors
func DefaultLimits() Limits {
	return Limits{MinSize: geometry.Size{Width: 20, Height: 5}}
}

// CommitFunc is called once per completed session with the committed rectangle
type CommitFunc func(kind Kind, rect geometry.Rect)

// Controller runs at most one drag or resize session at a time against a
// machine. Sessions only start in Normal mode and while enabled.
type Controller struct {
	hub      *Hub
	machine  *window.Machine
	limits   Limits
	onCommit CommitFunc

	enabled bool
	session *Session
	dispose func()
}

// NewController creates a controller. A nil onCommit is allowed.
func NewController(hub *Hub, machine *window.Machine, limits Limits, onCommit CommitFunc) *Controller {
	if limits.MinSize.Empty() {
		limits = DefaultLimits()
	}
	return &Controller{
		hub:      hub,
		machine:  machine,
		limits:   limits,
		onCommit: onCommit,
		enabled:  true,
	}
}

// SetEnabled toggles whether new sessions may begin (modal panels disable it)
func (c *Controller) SetEnabled(enabled bool) {
	c.enabled = enabled
}

// Active reports whether a session is running
func (c *Controller) Active() bool {
	return c.session != nil
}

// Session returns a copy of the running session
func (c *Controller) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Begin starts a session at pointer and attaches the move/up listeners.
// The returned dispose detaches them and ends the session; it runs
// automatically on pointer-up and is safe to call again. Begin refuses
// (ok=false) while another session is active, outside Normal mode, or when
// disabled.
func (c *Controller) Begin(kind Kind, pointer geometry.Point) (dispose func(), ok bool) {
	if c.session != nil || !c.enabled || c.machine.Mode() != window.Normal {
		return func() {}, false
	}

	session := &Session{
		Kind:       kind,
		Origin:     pointer,
		OriginRect: c.machine.Rect(),
	}
	c.session = session

	var release func()
	disposed := false
	dispose = func() {
		if disposed {
			return
		}
		disposed = true
		if release != nil {
			release()
		}
		if c.session == session {
			c.session = nil
			c.dispose = nil
		}
	}

	release = c.hub.Listen(func(ev Event) {
		switch ev.Kind {
		case Move:
			c.machine.Move(c.derive(*session, ev.Point()))
		case Up:
			final := c.derive(*session, ev.Point())
			// Dispose first so the commit callback can start a new session.
			dispose()
			if committed, ok := c.machine.Commit(final); ok && c.onCommit != nil {
				c.onCommit(session.Kind, committed)
			}
		}
	})
	c.dispose = dispose
	return dispose, true
}

// Close ends any running session without committing. Used on unmount.
func (c *Controller) Close() {
	if c.dispose != nil {
		c.dispose()
	}
}

// derive recomputes the rectangle from the session origin and the latest
// pointer position; nothing accumulates between moves.
func (c *Controller) derive(s Session, pointer geometry.Point) geometry.Rect {
	vp := c.machine.Viewport()
	inset := c.machine.TopInset()

	switch s.Kind {
	case Resize:
		// The cell under the pointer belongs to the panel, hence +1.
		width := max(c.limits.MinSize.Width, pointer.X-s.OriginRect.X+1)
		height := max(c.limits.MinSize.Height, pointer.Y-s.OriginRect.Y+1)
		if !vp.Empty() {
			width = min(width, vp.Width)
			height = min(height, vp.Height)
		}
		r := geometry.Rect{X: s.OriginRect.X, Y: s.OriginRect.Y, Width: width, Height: height}
		return geometry.ClampToViewport(r, vp, inset)
	default:
		grab := s.Origin.Sub(s.OriginRect.Pos())
		pos := pointer.Sub(grab)
		return geometry.ClampToViewport(s.OriginRect.WithPos(pos), vp, inset)
	}
}
