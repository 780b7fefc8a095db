// Package window owns a panel's display mode and the geometry remembered
// for each mode.
package window

import "floatview/internal/geometry"

// Options controls the geometry derived for non-normal modes
type Options struct {
	MinimizedSize   geometry.Size // title-bar-only box parked bottom-right
	DockWidth       int           // width of the docked strip
	DockHeightRatio float64       // docked height as a share of the viewport
	Margin          int           // distance of the minimized box from the edges
	TopInset        int           // rows that must stay visible when clamping
}

// DefaultOptions returns terminal-sized defaults
func DefaultOptions() Options {
	return Options{
		MinimizedSize:   geometry.Size{Width: 24, Height: 3},
		DockWidth:       32,
		DockHeightRatio: 0.8,
		Margin:          1,
		TopInset:        2,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.MinimizedSize.Empty() {
		o.MinimizedSize = d.MinimizedSize
	}
	if o.DockWidth <= 0 {
		o.DockWidth = d.DockWidth
	}
	if o.DockHeightRatio <= 0 || o.DockHeightRatio > 1 {
		o.DockHeightRatio = d.DockHeightRatio
	}
	if o.Margin < 0 {
		o.Margin = 0
	}
	if o.TopInset < 0 {
		o.TopInset = 0
	}
	return o
}

// Machine is the per-panel window state machine. Exactly one mode is
// active; transitions are explicit and re-check the current mode, so
// repeating one is a no-op.
type Machine struct {
	mode     Mode
	rect     geometry.Rect
	history  History
	viewport geometry.Size
	opts     Options
}

// New starts a machine in Normal with initial as its geometry
func New(initial geometry.Rect, viewport geometry.Size, opts Options) *Machine {
	m := &Machine{
		mode:     Normal,
		viewport: viewport,
		opts:     opts.normalized(),
	}
	m.rect = m.clamp(initial)
	m.history.put(Normal, m.rect)
	return m
}

// Mode returns the active mode
func (m *Machine) Mode() Mode {
	return m.mode
}

// Rect returns the geometry in effect
func (m *Machine) Rect() geometry.Rect {
	return m.rect
}

// Viewport returns the last viewport the machine was told about
func (m *Machine) Viewport() geometry.Size {
	return m.viewport
}

// TopInset is the reserved inset used for every clamp
func (m *Machine) TopInset() int {
	return m.opts.TopInset
}

// Saved returns the rectangle remembered for mode
func (m *Machine) Saved(mode Mode) (geometry.Rect, bool) {
	return m.history.Get(mode)
}

// Minimize parks the panel as a title bar in the bottom-right corner
func (m *Machine) Minimize() bool {
	return m.enter(Minimized)
}

// Maximize fills the viewport
func (m *Machine) Maximize() bool {
	return m.enter(Maximized)
}

// Dock pins the panel to the right edge as a fixed-width strip
func (m *Machine) Dock() bool {
	return m.enter(Docked)
}

// RestoreToNormal returns to the remembered Normal geometry
func (m *Machine) RestoreToNormal() bool {
	if m.mode == Normal {
		return false
	}
	m.history.put(m.mode, m.rect)
	normal, _ := m.history.Get(Normal)
	m.rect = m.clamp(normal)
	m.history.put(Normal, m.rect)
	m.mode = Normal
	return true
}

// ToggleMinimize minimizes, or restores when already minimized
func (m *Machine) ToggleMinimize() bool {
	return m.toggle(Minimized)
}

// ToggleMaximize maximizes, or restores when already maximized
func (m *Machine) ToggleMaximize() bool {
	return m.toggle(Maximized)
}

// ToggleDock docks, or restores when already docked
func (m *Machine) ToggleDock() bool {
	return m.toggle(Docked)
}

// ResetSize restores the original requested size. Normal only.
func (m *Machine) ResetSize(original geometry.Size) bool {
	if m.mode != Normal {
		return false
	}
	next := m.clamp(m.rect.WithSize(original))
	changed := next != m.rect
	m.rect = next
	m.history.put(Normal, next)
	return changed
}

// Move updates the live geometry during an interaction without touching
// history. Ignored outside Normal.
func (m *Machine) Move(r geometry.Rect) bool {
	if m.mode != Normal {
		return false
	}
	m.rect = m.clamp(r)
	return true
}

// Commit makes r the Normal geometry and records it in history. Ignored
// outside Normal.
func (m *Machine) Commit(r geometry.Rect) (geometry.Rect, bool) {
	if m.mode != Normal {
		return m.rect, false
	}
	m.rect = m.clamp(r)
	m.history.put(Normal, m.rect)
	return m.rect, true
}

// SetNormal replaces the remembered Normal geometry, applying it
// immediately when the panel is in Normal.
func (m *Machine) SetNormal(r geometry.Rect) {
	r = m.clamp(r)
	m.history.put(Normal, r)
	if m.mode == Normal {
		m.rect = r
	}
}

// SetViewport re-derives geometry for a new viewport. Normal geometry is
// re-clamped; the other modes are recomputed from scratch.
func (m *Machine) SetViewport(viewport geometry.Size) {
	m.viewport = viewport
	if m.mode == Normal {
		m.rect = m.clamp(m.rect)
		m.history.put(Normal, m.rect)
		return
	}
	m.rect = m.derived(m.mode)
}

func (m *Machine) toggle(target Mode) bool {
	if m.mode == target {
		return m.RestoreToNormal()
	}
	return m.enter(target)
}

func (m *Machine) enter(target Mode) bool {
	if m.mode == target || !target.Valid() {
		return false
	}
	if target == Normal {
		return m.RestoreToNormal()
	}
	if m.mode != Normal {
		m.RestoreToNormal()
	}
	m.history.put(Normal, m.rect)
	m.mode = target
	m.rect = m.derived(target)
	return true
}

func (m *Machine) derived(mode Mode) geometry.Rect {
	vp := m.viewport
	if vp.Empty() {
		return m.rect
	}

	switch mode {
	case Minimized:
		size := m.opts.MinimizedSize
		r := geometry.Rect{
			X:      vp.Width - size.Width - m.opts.Margin,
			Y:      vp.Height - size.Height - m.opts.Margin,
			Width:  size.Width,
			Height: size.Height,
		}
		return geometry.ClampToViewport(r, vp, min(size.Height, vp.Height))
	case Maximized:
		return geometry.Rect{X: 0, Y: 0, Width: vp.Width, Height: vp.Height}
	case Docked:
		width := min(m.opts.DockWidth, vp.Width)
		height := max(1, int(float64(vp.Height)*m.opts.DockHeightRatio))
		return geometry.Rect{
			X:      vp.Width - width,
			Y:      (vp.Height - height) / 2,
			Width:  width,
			Height: height,
		}
	default:
		normal, _ := m.history.Get(Normal)
		return m.clamp(normal)
	}
}

func (m *Machine) clamp(r geometry.Rect) geometry.Rect {
	return geometry.ClampToViewport(r, m.viewport, m.opts.TopInset)
}
