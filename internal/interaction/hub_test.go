package interaction

import (
	"testing"

	"floatview/internal/geometry"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestHub_DispatchOrderAndRelease(t *testing.T) {
	hub := NewHub()
	var calls []string

	releaseA := hub.Listen(func(Event) { calls = append(calls, "a") })
	hub.Listen(func(Event) { calls = append(calls, "b") })

	hub.Dispatch(Event{Kind: Down})
	assert.Equal(t, []string{"a", "b"}, calls)

	releaseA()
	releaseA()
	calls = nil
	hub.Dispatch(Event{Kind: Down})
	assert.Equal(t, []string{"b"}, calls)
	assert.Equal(t, 1, hub.PointerListeners())
}

func TestHub_ReleaseDuringDispatch(t *testing.T) {
	hub := NewHub()
	var second int
	var release func()
	release = hub.Listen(func(Event) { release() })
	hub.Listen(func(Event) { second++ })

	hub.Dispatch(Event{Kind: Up})
	hub.Dispatch(Event{Kind: Up})
	assert.Equal(t, 2, second)
	assert.Equal(t, 1, hub.PointerListeners())
}

func TestHub_ListenerAddedDuringDispatchWaitsForNextEvent(t *testing.T) {
	hub := NewHub()
	var late int
	hub.Listen(func(Event) {
		hub.Listen(func(Event) { late++ })
	})
	hub.Dispatch(Event{Kind: Down})
	assert.Zero(t, late)
}

func TestHub_Resize(t *testing.T) {
	hub := NewHub()
	var got geometry.Size
	release := hub.ListenResize(func(s geometry.Size) { got = s })

	hub.DispatchResize(geometry.Size{Width: 120, Height: 40})
	assert.Equal(t, geometry.Size{Width: 120, Height: 40}, got)
	assert.Equal(t, geometry.Size{Width: 120, Height: 40}, hub.Viewport())

	release()
	assert.Zero(t, hub.ResizeListeners())
}

func TestFromMouse(t *testing.T) {
	ev, ok := FromMouse(tea.MouseMsg{X: 3, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.True(t, ok)
	assert.Equal(t, Event{Kind: Down, X: 3, Y: 4, Button: tea.MouseButtonLeft}, ev)

	ev, ok = FromMouse(tea.MouseMsg{X: 5, Y: 6, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	assert.True(t, ok)
	assert.Equal(t, Move, ev.Kind)

	ev, ok = FromMouse(tea.MouseMsg{Action: tea.MouseActionRelease})
	assert.True(t, ok)
	assert.Equal(t, Up, ev.Kind)

	_, ok = FromMouse(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.False(t, ok)
}
