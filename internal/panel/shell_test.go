package panel

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floatview/internal/geometry"
	"floatview/internal/interaction"
	"floatview/internal/layoutstore"
	"floatview/internal/ui/components"
	"floatview/internal/window"
)

type countingBackend struct {
	*layoutstore.MemoryBackend
	sets []string
}

func (c *countingBackend) Set(ctx context.Context, key string, value []byte) error {
	c.sets = append(c.sets, key)
	return c.MemoryBackend.Set(ctx, key, value)
}

func newTestDeps(t *testing.T, viewport geometry.Size) (Deps, *countingBackend) {
	t.Helper()
	hub := interaction.NewHub()
	hub.DispatchResize(viewport)
	backend := &countingBackend{MemoryBackend: layoutstore.NewMemoryBackend()}
	return Deps{
		Store:  layoutstore.New(backend),
		Hub:    hub,
		Scroll: NewScrollLock(nil),
		Limits: interaction.Limits{MinSize: geometry.Size{Width: 200, Height: 100}},
	}, backend
}

func down(x, y int) interaction.Event {
	return interaction.Event{Kind: interaction.Down, X: x, Y: y, Button: tea.MouseButtonLeft}
}

func clickControl(t *testing.T, s *Shell, name string) {
	t.Helper()
	r := s.Rect()
	for _, c := range s.controls(r) {
		if c.name == name {
			ev := down(c.x, r.Y+s.frame())
			s.deps.Hub.Dispatch(ev)
			require.True(t, s.PointerDown(ev))
			return
		}
	}
	t.Fatalf("control %q not rendered", name)
}

func drag(hub *interaction.Hub, s *Shell, from, to geometry.Point) {
	ev := down(from.X, from.Y)
	hub.Dispatch(ev)
	s.PointerDown(ev)
	hub.Dispatch(interaction.Event{Kind: interaction.Move, X: to.X, Y: to.Y, Button: tea.MouseButtonLeft})
	hub.Dispatch(interaction.Event{Kind: interaction.Up, X: to.X, Y: to.Y})
}

func TestDragPersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	deps, backend := newTestDeps(t, geometry.Size{Width: 1200, Height: 800})
	opts := Options{ID: "panel-1", Title: "Panel", Placement: At(20, 20, 400, 300), OnClose: func() {}}

	s := New(ctx, deps, opts)
	require.Equal(t, geometry.Rect{X: 20, Y: 20, Width: 400, Height: 300}, s.Rect())

	drag(deps.Hub, s, geometry.Point{X: 30, Y: 21}, geometry.Point{X: 80, Y: 51})

	assert.Equal(t, geometry.Rect{X: 70, Y: 50, Width: 400, Height: 300}, s.Rect())
	assert.Equal(t, []string{"panel-1/position"}, backend.sets)
	assert.Equal(t, geometry.Point{X: 70, Y: 50},
		layoutstore.Read(ctx, deps.Store, "panel-1", layoutstore.FieldPosition, geometry.Point{}))

	s.Unmount()
	reloaded := New(ctx, deps, opts)
	assert.Equal(t, geometry.Rect{X: 70, Y: 50, Width: 400, Height: 300}, reloaded.Rect())
}

func TestPanelWithoutIDNeverPersists(t *testing.T) {
	deps, backend := newTestDeps(t, geometry.Size{Width: 1200, Height: 800})
	s := New(context.Background(), deps, Options{Placement: At(20, 20, 400, 300)})

	drag(deps.Hub, s, geometry.Point{X: 30, Y: 21}, geometry.Point{X: 80, Y: 51})
	assert.Equal(t, geometry.Point{X: 70, Y: 50}, s.Rect().Pos())
	assert.Empty(t, backend.sets)
}

func TestNoWritesOutsideNormal(t *testing.T) {
	deps, backend := newTestDeps(t, geometry.Size{Width: 1200, Height: 800})
	s := New(context.Background(), deps, Options{ID: "p", Placement: At(20, 20, 400, 300), Resizable: true})

	clickControl(t, s, components.IconMaximize)
	require.Equal(t, window.Maximized, s.Mode())

	listeners := deps.Hub.PointerListeners()
	drag(deps.Hub, s, geometry.Point{X: 10, Y: 1}, geometry.Point{X: 300, Y: 300})
	assert.Equal(t, listeners, deps.Hub.PointerListeners(), "no session may start while maximized")
	assert.Equal(t, geometry.Rect{X: 0, Y: 0, Width: 1200, Height: 800}, s.Rect())

	clickControl(t, s, components.IconRestore)
	require.Equal(t, window.Normal, s.Mode())
	assert.Equal(t, geometry.Rect{X: 20, Y: 20, Width: 400, Height: 300}, s.Rect())
	assert.Empty(t, backend.sets)
}

func TestResizeHandle(t *testing.T) {
	ctx := context.Background()
	deps, backend := newTestDeps(t, geometry.Size{Width: 1200, Height: 800})
	s := New(ctx, deps, Options{ID: "p", Placement: At(20, 20, 400, 300), Resizable: true})

	drag(deps.Hub, s, geometry.Point{X: 419, Y: 319}, geometry.Point{X: 519, Y: 419})

	assert.Equal(t, geometry.Rect{X: 20, Y: 20, Width: 500, Height: 400}, s.Rect())
	assert.Equal(t, []string{"p/size"}, backend.sets)
	assert.Equal(t, geometry.Size{Width: 500, Height: 400},
		layoutstore.Read(ctx, deps.Store, "p", layoutstore.FieldSize, geometry.Size{}))

	clickControl(t, s, components.IconReset)
	assert.Equal(t, geometry.Size{Width: 400, Height: 300}, s.Rect().Size())
	assert.Equal(t, geometry.Size{Width: 400, Height: 300},
		layoutstore.Read(ctx, deps.Store, "p", layoutstore.FieldSize, geometry.Size{}))
}

func TestResizeHandleIgnoredWhenNotResizable(t *testing.T) {
	deps, backend := newTestDeps(t, geometry.Size{Width: 1200, Height: 800})
	s := New(context.Background(), deps, Options{ID: "p", Placement: At(20, 20, 400, 300)})

	drag(deps.Hub, s, geometry.Point{X: 419, Y: 319}, geometry.Point{X: 519, Y: 419})
	assert.Equal(t, geometry.Rect{X: 20, Y: 20, Width: 400, Height: 300}, s.Rect())
	assert.Empty(t, backend.sets)
}

func TestUnmountMidDragReleasesListeners(t *testing.T) {
	deps, backend := newTestDeps(t, geometry.Size{Width: 1200, Height: 800})
	s := New(context.Background(), deps, Options{ID: "p", Placement: At(20, 20, 400, 300)})

	ev := down(30, 21)
	deps.Hub.Dispatch(ev)
	s.PointerDown(ev)
	require.True(t, s.Dragging())
	deps.Hub.Dispatch(interaction.Event{Kind: interaction.Move, X: 60, Y: 60})

	s.Unmount()
	s.Unmount()
	assert.Zero(t, deps.Hub.PointerListeners())
	assert.Zero(t, deps.Hub.ResizeListeners())

	deps.Hub.Dispatch(interaction.Event{Kind: interaction.Up, X: 60, Y: 60})
	assert.Empty(t, backend.sets)
}

func TestModalOutsideClick(t *testing.T) {
	deps, _ := newTestDeps(t, geometry.Size{Width: 1200, Height: 800})
	closed := 0
	s := New(context.Background(), deps, Options{
		Title:               "Confirm",
		Placement:           Aligned(geometry.AlignCenter, 40, 10),
		Modal:               true,
		CloseOnOutsideClick: true,
		OnClose:             func() { closed++ },
	})

	r := s.Rect()
	deps.Hub.Dispatch(down(r.X+1, r.Y+1))
	assert.Zero(t, closed)

	deps.Hub.Dispatch(down(0, 0))
	deps.Hub.Dispatch(down(0, 0))
	assert.Equal(t, 1, closed)
	assert.True(t, s.Closed())
}

func TestOutsideClickIgnoredWhenDisabledOrNotModal(t *testing.T) {
	deps, _ := newTestDeps(t, geometry.Size{Width: 1200, Height: 800})
	closed := 0
	onClose := func() { closed++ }

	New(context.Background(), deps, Options{Placement: At(20, 20, 40, 10), CloseOnOutsideClick: true, OnClose: onClose})
	New(context.Background(), deps, Options{Placement: At(20, 20, 40, 10), Modal: true, OnClose: onClose})

	deps.Hub.Dispatch(down(1000, 700))
	assert.Zero(t, closed)
}

func TestModalIsCenteredAndFixed(t *testing.T) {
	deps, _ := newTestDeps(t, geometry.Size{Width: 1200, Height: 800})
	s := New(context.Background(), deps, Options{Placement: At(5, 5, 40, 10), Modal: true, Resizable: true})

	assert.Equal(t, geometry.Rect{X: 580, Y: 395, Width: 40, Height: 10}, s.Rect())
	deps.Hub.DispatchResize(geometry.Size{Width: 100, Height: 50})
	assert.Equal(t, geometry.Rect{X: 30, Y: 20, Width: 40, Height: 10}, s.Rect())

	controls := s.controls(s.Rect())
	require.Len(t, controls, 1)
	assert.Equal(t, components.IconClose, controls[0].name)

	drag(deps.Hub, s, geometry.Point{X: 35, Y: 21}, geometry.Point{X: 5, Y: 5})
	assert.Equal(t, geometry.Rect{X: 30, Y: 20, Width: 40, Height: 10}, s.Rect())
	assert.False(t, s.Dragging())
}

func TestModalEscapeCloses(t *testing.T) {
	deps, _ := newTestDeps(t, geometry.Size{Width: 100, Height: 40})
	closed := false
	s := New(context.Background(), deps, Options{Placement: At(0, 0, 20, 6), Modal: true, OnClose: func() { closed = true }})

	assert.True(t, s.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}))
	assert.True(t, closed)
}

func TestEscapeIgnoredByNonModal(t *testing.T) {
	deps, _ := newTestDeps(t, geometry.Size{Width: 100, Height: 40})
	s := New(context.Background(), deps, Options{Placement: At(0, 0, 20, 6), OnClose: func() {}})
	s.SetFocused(true)

	assert.False(t, s.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}))
	assert.False(t, s.Closed())

	assert.True(t, s.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m"), Alt: true}))
	assert.Equal(t, window.Minimized, s.Mode())
}

func TestScrollLockOverlappingModals(t *testing.T) {
	deps, _ := newTestDeps(t, geometry.Size{Width: 100, Height: 40})
	var transitions []bool
	deps.Scroll = NewScrollLock(func(locked bool) { transitions = append(transitions, locked) })

	first := New(context.Background(), deps, Options{Placement: At(0, 0, 20, 6), Modal: true})
	second := New(context.Background(), deps, Options{Placement: At(0, 0, 20, 6), Modal: true})
	plain := New(context.Background(), deps, Options{Placement: At(0, 0, 20, 6)})
	assert.Equal(t, 2, deps.Scroll.Depth())

	first.Unmount()
	assert.True(t, deps.Scroll.Locked())
	first.Unmount()
	assert.Equal(t, 1, deps.Scroll.Depth())

	plain.Unmount()
	second.Unmount()
	assert.False(t, deps.Scroll.Locked())
	assert.Equal(t, []bool{true, false}, transitions)
}

func TestAnchoredPlacementFollowsViewport(t *testing.T) {
	deps, _ := newTestDeps(t, geometry.Size{Width: 1200, Height: 800})
	alive := true
	anchor := AnchorFunc(func() (geometry.Rect, bool) {
		return geometry.Rect{X: 100, Y: 10, Width: 10, Height: 1}, alive
	})

	s := New(context.Background(), deps, Options{Placement: Anchored(Explicit(anchor), 40, 10)})
	assert.Equal(t, geometry.Rect{X: 100, Y: 12, Width: 40, Height: 10}, s.Rect())

	deps.Hub.DispatchResize(geometry.Size{Width: 120, Height: 30})
	assert.Equal(t, geometry.Rect{X: 80, Y: 12, Width: 40, Height: 10}, s.Rect())

	alive = false
	deps.Hub.DispatchResize(geometry.Size{Width: 200, Height: 50})
	assert.Equal(t, geometry.Rect{X: 80, Y: 12, Width: 40, Height: 10}, s.Rect())
}

func TestInvalidStoredSizeIsDiscarded(t *testing.T) {
	ctx := context.Background()
	deps, _ := newTestDeps(t, geometry.Size{Width: 1200, Height: 800})
	opts := Options{ID: "p", Placement: At(20, 20, 300, 200), Resizable: true}

	layoutstore.Write(ctx, deps.Store, "p", layoutstore.FieldSize, geometry.Size{Width: -7, Height: 0})
	s := New(ctx, deps, opts)
	assert.Equal(t, geometry.Rect{X: 20, Y: 20, Width: 300, Height: 200}, s.Rect())
	s.Unmount()

	layoutstore.Write(ctx, deps.Store, "p", layoutstore.FieldSize, geometry.Size{Width: 50, Height: 400})
	s = New(ctx, deps, opts)
	assert.Equal(t, geometry.Rect{X: 20, Y: 20, Width: 200, Height: 400}, s.Rect())
}

func TestAnchoredDragDoesNotStorePosition(t *testing.T) {
	deps, backend := newTestDeps(t, geometry.Size{Width: 1200, Height: 800})
	anchor := AnchorFunc(func() (geometry.Rect, bool) {
		return geometry.Rect{X: 100, Y: 10, Width: 10, Height: 1}, true
	})
	var committed int
	deps.Bus = EventHandlerFunc(func(e Event) {
		if e.Type == EventLayoutCommitted {
			committed++
		}
	})

	s := New(context.Background(), deps, Options{ID: "pop", Placement: Anchored(Explicit(anchor), 40, 10)})
	require.Equal(t, geometry.Rect{X: 100, Y: 12, Width: 40, Height: 10}, s.Rect())

	drag(deps.Hub, s, geometry.Point{X: 105, Y: 13}, geometry.Point{X: 115, Y: 23})
	assert.Equal(t, geometry.Point{X: 110, Y: 22}, s.Rect().Pos())
	assert.Equal(t, 1, committed)
	assert.Empty(t, backend.sets)
}

func TestAnchoredFallsBackToExplicitPosition(t *testing.T) {
	deps, _ := newTestDeps(t, geometry.Size{Width: 1200, Height: 800})
	dead := AnchorFunc(func() (geometry.Rect, bool) { return geometry.Rect{}, false })

	s := New(context.Background(), deps, Options{Placement: Anchored(Explicit(dead), 40, 10).WithPosition(5, 6)})
	assert.Equal(t, geometry.Rect{X: 5, Y: 6, Width: 40, Height: 10}, s.Rect())
}

func TestContextParentAnchor(t *testing.T) {
	deps, _ := newTestDeps(t, geometry.Size{Width: 1200, Height: 800})
	parent := AnchorFunc(func() (geometry.Rect, bool) {
		return geometry.Rect{X: 300, Y: 200, Width: 50, Height: 20}, true
	})

	s := New(context.Background(), deps, Options{Placement: Anchored(ContextParent(), 40, 10), Parent: parent})
	assert.Equal(t, geometry.Rect{X: 300, Y: 221, Width: 40, Height: 10}, s.Rect())

	orphan := New(context.Background(), deps, Options{Placement: Anchored(ContextParent(), 40, 10)})
	assert.Equal(t, geometry.Rect{X: 580, Y: 395, Width: 40, Height: 10}, orphan.Rect())
}

func TestEventsEmitted(t *testing.T) {
	deps, _ := newTestDeps(t, geometry.Size{Width: 1200, Height: 800})
	var events []Event
	deps.Bus = EventHandlerFunc(func(e Event) { events = append(events, e) })

	s := New(context.Background(), deps, Options{ID: "p", Placement: At(20, 20, 400, 300), OnClose: func() {}})
	clickControl(t, s, components.IconDock)
	clickControl(t, s, components.IconRestore)
	drag(deps.Hub, s, geometry.Point{X: 30, Y: 21}, geometry.Point{X: 40, Y: 21})
	clickControl(t, s, components.IconClose)

	var types []EventType
	for _, e := range events {
		types = append(types, e.Type)
		assert.Equal(t, "p", e.PanelID)
		assert.Equal(t, s.Instance(), e.Instance)
	}
	assert.Equal(t, []EventType{
		EventMounted, EventModeChanged, EventModeChanged, EventLayoutCommitted, EventClosed,
	}, types)
	assert.Equal(t, window.Docked, events[1].Mode)
}

func TestViewIsExactlyRectSized(t *testing.T) {
	deps, _ := newTestDeps(t, geometry.Size{Width: 100, Height: 40})

	for _, compact := range []bool{false, true} {
		s := New(context.Background(), deps, Options{
			Title:     "Inspector",
			Placement: At(2, 2, 40, 8),
			Resizable: true,
			Compact:   compact,
			Content:   strings.Repeat("body text ", 20),
		})
		lines := strings.Split(s.View(), "\n")
		require.Len(t, lines, 8)
		for _, line := range lines {
			assert.Equal(t, 40, ansi.StringWidth(line))
		}
		assert.Contains(t, ansi.Strip(lines[s.frame()]), "Inspector")
		assert.True(t, strings.HasSuffix(ansi.Strip(lines[7]), "◢"))
	}
}

func TestMinimizedViewShowsTitleOnly(t *testing.T) {
	deps, _ := newTestDeps(t, geometry.Size{Width: 100, Height: 40})
	s := New(context.Background(), deps, Options{Title: "Logs", Placement: At(2, 2, 30, 8), Content: "secret"})

	clickControl(t, s, components.IconMinimize)
	require.Equal(t, window.Minimized, s.Mode())

	view := ansi.Strip(s.View())
	assert.Contains(t, view, "Logs")
	assert.NotContains(t, view, "secret")
	assert.Len(t, strings.Split(view, "\n"), s.Rect().Height)
}
