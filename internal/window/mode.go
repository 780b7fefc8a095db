package window

import "floatview/internal/geometry"

// Mode is the discrete display state of a panel
type Mode int

const (
	Normal Mode = iota
	Minimized
	Maximized
	Docked

	modeCount
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Minimized:
		return "minimized"
	case Maximized:
		return "maximized"
	case Docked:
		return "docked"
	default:
		return "unknown"
	}
}

// Valid reports whether m is one of the four modes
func (m Mode) Valid() bool {
	return m >= Normal && m < modeCount
}

type historyEntry struct {
	rect geometry.Rect
	set  bool
}

// History remembers the last rectangle in effect for each mode. The mode
// set is closed, so it is a fixed array rather than a map.
type History [modeCount]historyEntry

// Get returns the saved rectangle for mode
func (h *History) Get(m Mode) (geometry.Rect, bool) {
	if !m.Valid() {
		return geometry.Rect{}, false
	}
	e := h[m]
	return e.rect, e.set
}

func (h *History) put(m Mode, r geometry.Rect) {
	if m.Valid() {
		h[m] = historyEntry{rect: r, set: true}
	}
}
