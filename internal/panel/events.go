package panel

import (
	"time"

	"floatview/internal/geometry"
	"floatview/internal/window"
)

// EventType represents the different panel lifecycle events
type EventType string

const (
	EventMounted         EventType = "mounted"
	EventModeChanged     EventType = "mode_changed"
	EventLayoutCommitted EventType = "layout_committed"
	EventClosed          EventType = "closed"
	EventUnmounted       EventType = "unmounted"
)

// Event is emitted by a shell to its EventHandler
type Event struct {
	Type      EventType     `json:"type"`
	PanelID   string        `json:"panel_id"`
	Instance  string        `json:"instance"`
	Mode      window.Mode   `json:"mode"`
	Rect      geometry.Rect `json:"rect"`
	Timestamp time.Time     `json:"timestamp"`
}

// EventHandler receives panel events
type EventHandler interface {
	HandleEvent(event Event)
}

// EventHandlerFunc adapts a function to EventHandler
type EventHandlerFunc func(Event)

func (f EventHandlerFunc) HandleEvent(event Event) {
	f(event)
}
