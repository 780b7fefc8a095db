package app

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floatview/internal/geometry"
	"floatview/internal/layoutstore"
	"floatview/internal/window"
)

func newTestApp(t *testing.T, store *layoutstore.Store) *Application {
	t.Helper()
	a := NewApplication(context.Background(), Options{
		Store:         store,
		MarkdownStyle: "notty",
		Document:      strings.Repeat("background line\n", 200),
	})
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	t.Cleanup(a.Shutdown)
	return a
}

func press(a *Application, keys string) tea.Cmd {
	var msg tea.KeyMsg
	switch keys {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "pgdown":
		msg = tea.KeyMsg{Type: tea.KeyPgDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	_, cmd := a.Update(msg)
	return cmd
}

func mouse(a *Application, action tea.MouseAction, button tea.MouseButton, x, y int) {
	a.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: button})
}

func TestViewBeforeSize(t *testing.T) {
	a := NewApplication(context.Background(), Options{})
	assert.Equal(t, "Initializing...", a.View())
}

func TestViewFillsTerminal(t *testing.T) {
	a := newTestApp(t, nil)
	lines := strings.Split(a.View(), "\n")
	require.Len(t, lines, 40)
	for _, line := range lines {
		assert.Equal(t, 120, ansi.StringWidth(line))
	}
	assert.Contains(t, ansi.Strip(lines[0]), "floatview")
	assert.Contains(t, ansi.Strip(lines[0]), popoverButton)
}

func TestQuit(t *testing.T) {
	a := newTestApp(t, nil)
	cmd := press(a, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestTogglePanels(t *testing.T) {
	a := newTestApp(t, nil)

	press(a, "i")
	inspector, ok := a.Panel(PanelInspector)
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X: 71, Y: 1, Width: 48, Height: 14}, inspector.Rect())
	assert.Contains(t, ansi.Strip(a.View()), "Inspector")

	press(a, "i")
	_, ok = a.Panel(PanelInspector)
	assert.False(t, ok)
	assert.Empty(t, a.Panels())
}

func TestInspectorAlignment(t *testing.T) {
	a := NewApplication(context.Background(), Options{
		MarkdownStyle:  "notty",
		InspectorAlign: geometry.AlignBottomLeft,
	})
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	t.Cleanup(a.Shutdown)

	press(a, "i")
	inspector, ok := a.Panel(PanelInspector)
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X: 1, Y: 24, Width: 48, Height: 14}, inspector.Rect())
}

func TestHelpModalLocksBackgroundScroll(t *testing.T) {
	a := newTestApp(t, nil)

	press(a, "j")
	require.Equal(t, 1, a.BackgroundOffset())

	press(a, "?")
	require.True(t, a.ScrollLocked())
	help, ok := a.Panel(PanelHelp)
	require.True(t, ok)
	assert.True(t, help.Modal())

	press(a, "j")
	press(a, "pgdown")
	mouse(a, tea.MouseActionPress, tea.MouseButtonWheelDown, 0, 30)
	assert.Equal(t, 1, a.BackgroundOffset())

	// shortcuts are swallowed while the modal is open
	press(a, "i")
	_, ok = a.Panel(PanelInspector)
	assert.False(t, ok)

	press(a, "esc")
	_, ok = a.Panel(PanelHelp)
	assert.False(t, ok)
	assert.False(t, a.ScrollLocked())

	press(a, "j")
	assert.Equal(t, 2, a.BackgroundOffset())
}

func TestHelpModalClosesOnOutsideClick(t *testing.T) {
	a := newTestApp(t, nil)
	press(a, "?")

	mouse(a, tea.MouseActionPress, tea.MouseButtonLeft, 0, 38)
	mouse(a, tea.MouseActionRelease, tea.MouseButtonLeft, 0, 38)

	_, ok := a.Panel(PanelHelp)
	assert.False(t, ok)
	assert.False(t, a.ScrollLocked())
}

func TestDismissClickDoesNotReachPopoverButton(t *testing.T) {
	a := newTestApp(t, nil)
	button, ok := a.popoverButtonRect()
	require.True(t, ok)

	press(a, "?")
	mouse(a, tea.MouseActionPress, tea.MouseButtonLeft, button.X+1, 0)
	mouse(a, tea.MouseActionRelease, tea.MouseButtonLeft, button.X+1, 0)

	_, ok = a.Panel(PanelHelp)
	assert.False(t, ok)
	_, ok = a.Panel(PanelPopover)
	assert.False(t, ok)
}

func TestDismissClickDoesNotDragPanelBelow(t *testing.T) {
	store := layoutstore.New(layoutstore.NewMemoryBackend())
	a := newTestApp(t, store)
	press(a, "n")
	notes, _ := a.Panel(PanelNotes)
	start := notes.Rect()

	press(a, "?")
	mouse(a, tea.MouseActionPress, tea.MouseButtonLeft, start.X+1, start.Y)
	assert.False(t, notes.Dragging())
	mouse(a, tea.MouseActionMotion, tea.MouseButtonLeft, start.X+11, start.Y+6)
	mouse(a, tea.MouseActionRelease, tea.MouseButtonLeft, start.X+11, start.Y+6)

	_, ok := a.Panel(PanelHelp)
	assert.False(t, ok)
	assert.Equal(t, start, notes.Rect())
	assert.Equal(t, geometry.Point{X: -1, Y: -1},
		layoutstore.Read(context.Background(), store, PanelNotes, layoutstore.FieldPosition, geometry.Point{X: -1, Y: -1}))
}

func TestDragInspectorPersists(t *testing.T) {
	ctx := context.Background()
	store := layoutstore.New(layoutstore.NewMemoryBackend())
	a := newTestApp(t, store)
	press(a, "i")
	inspector, _ := a.Panel(PanelInspector)
	start := inspector.Rect()

	mouse(a, tea.MouseActionPress, tea.MouseButtonLeft, start.X+3, start.Y+1)
	mouse(a, tea.MouseActionMotion, tea.MouseButtonLeft, start.X-7, start.Y+6)
	mouse(a, tea.MouseActionRelease, tea.MouseButtonLeft, start.X-7, start.Y+6)

	want := geometry.Point{X: start.X - 10, Y: start.Y + 5}
	assert.Equal(t, want, inspector.Rect().Pos())
	assert.Equal(t, want, layoutstore.Read(ctx, store, PanelInspector, layoutstore.FieldPosition, geometry.Point{}))

	press(a, "i")
	press(a, "i")
	reopened, _ := a.Panel(PanelInspector)
	assert.Equal(t, want, reopened.Rect().Pos())
}

func TestClickRaisesPanel(t *testing.T) {
	a := newTestApp(t, nil)
	press(a, "n")
	press(a, "i")

	notes, _ := a.Panel(PanelNotes)
	panels := a.Panels()
	require.Len(t, panels, 2)
	require.NotSame(t, notes, panels[1])

	r := notes.Rect()
	mouse(a, tea.MouseActionPress, tea.MouseButtonLeft, r.X+1, r.Y+2)
	mouse(a, tea.MouseActionRelease, tea.MouseButtonLeft, r.X+1, r.Y+2)
	assert.Same(t, notes, a.Panels()[1])
}

func TestFocusedPanelTakesModeKeys(t *testing.T) {
	a := newTestApp(t, nil)
	press(a, "n")
	notes, _ := a.Panel(PanelNotes)

	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x"), Alt: true})
	assert.Equal(t, window.Maximized, notes.Mode())
	assert.Equal(t, geometry.Rect{X: 0, Y: 0, Width: 120, Height: 39}, notes.Rect())
}

func TestPopoverAnchoredToHeaderButton(t *testing.T) {
	a := newTestApp(t, nil)
	button, ok := a.popoverButtonRect()
	require.True(t, ok)

	mouse(a, tea.MouseActionPress, tea.MouseButtonLeft, button.X+1, 0)
	mouse(a, tea.MouseActionRelease, tea.MouseButtonLeft, button.X+1, 0)

	popover, ok := a.Panel(PanelPopover)
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X: 84, Y: 2, Width: 36, Height: 7}, popover.Rect())

	a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, geometry.Rect{X: 64, Y: 2, Width: 36, Height: 7}, popover.Rect())

	// too narrow for the button: the popover keeps its last position
	a.Update(tea.WindowSizeMsg{Width: 12, Height: 30})
	_, ok = a.popoverButtonRect()
	require.False(t, ok)
	assert.Equal(t, 0, popover.Rect().X)
}

func TestInspectorListsPanels(t *testing.T) {
	a := newTestApp(t, nil)
	press(a, "n")
	press(a, "i")

	view := ansi.Strip(a.View())
	assert.Contains(t, view, "notes")
	assert.Contains(t, view, "scroll lock depth 0")
}

func TestStatusMsg(t *testing.T) {
	a := newTestApp(t, nil)
	a.Update(StatusMsg{Status: "layout", Message: "notes at 1,2"})
	assert.Contains(t, ansi.Strip(a.View()), "[layout] notes at 1,2")
}
