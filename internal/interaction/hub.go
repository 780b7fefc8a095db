package interaction

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"floatview/internal/geometry"
)

// EventKind is the phase of a pointer event
type EventKind int

const (
	Down EventKind = iota
	Move
	Up
)

func (k EventKind) String() string {
	switch k {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	default:
		return "unknown"
	}
}

// Event is a pointer event in screen cells
type Event struct {
	Kind   EventKind
	X, Y   int
	Button tea.MouseButton
}

// Point returns the event position
func (e Event) Point() geometry.Point {
	return geometry.Point{X: e.X, Y: e.Y}
}

// FromMouse translates a bubbletea mouse message. Wheel events and other
// non-pointer actions report ok=false.
func FromMouse(msg tea.MouseMsg) (Event, bool) {
	ev := Event{X: msg.X, Y: msg.Y, Button: msg.Button}
	switch msg.Action {
	case tea.MouseActionPress:
		if tea.MouseEvent(msg).IsWheel() {
			return Event{}, false
		}
		ev.Kind = Down
	case tea.MouseActionMotion:
		ev.Kind = Move
	case tea.MouseActionRelease:
		ev.Kind = Up
	default:
		return Event{}, false
	}
	return ev, true
}

// PointerListener receives every dispatched pointer event
type PointerListener func(Event)

// ResizeListener receives viewport size changes
type ResizeListener func(geometry.Size)

// Hub is the process-wide listener registry: the terminal equivalent of
// document-level pointer and window resize listeners. Listeners are called
// in registration order. Every Listen call returns a release func that is
// safe to call more than once and from inside a listener.
type Hub struct {
	mu       sync.Mutex
	nextID   int
	pointer  map[int]PointerListener
	resize   map[int]ResizeListener
	order    []int
	viewport geometry.Size
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		pointer: make(map[int]PointerListener),
		resize:  make(map[int]ResizeListener),
	}
}

// Listen registers a pointer listener
func (h *Hub) Listen(fn PointerListener) (release func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.register()
	h.pointer[id] = fn
	return h.releaser(id)
}

// ListenResize registers a viewport resize listener
func (h *Hub) ListenResize(fn ResizeListener) (release func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.register()
	h.resize[id] = fn
	return h.releaser(id)
}

// Dispatch delivers ev to the pointer listeners registered at call time
// that are still registered when their turn comes.
func (h *Hub) Dispatch(ev Event) {
	for _, id := range h.snapshot() {
		h.mu.Lock()
		fn, ok := h.pointer[id]
		h.mu.Unlock()
		if ok {
			fn(ev)
		}
	}
}

// DispatchResize records the viewport and notifies resize listeners
func (h *Hub) DispatchResize(size geometry.Size) {
	h.mu.Lock()
	h.viewport = size
	h.mu.Unlock()

	for _, id := range h.snapshot() {
		h.mu.Lock()
		fn, ok := h.resize[id]
		h.mu.Unlock()
		if ok {
			fn(size)
		}
	}
}

// Viewport returns the last dispatched viewport size
func (h *Hub) Viewport() geometry.Size {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.viewport
}

// PointerListeners returns how many pointer listeners are attached
func (h *Hub) PointerListeners() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pointer)
}

// ResizeListeners returns how many resize listeners are attached
func (h *Hub) ResizeListeners() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.resize)
}

func (h *Hub) register() int {
	h.nextID++
	h.order = append(h.order, h.nextID)
	return h.nextID
}

func (h *Hub) releaser(id int) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.pointer, id)
			delete(h.resize, id)
			for i, v := range h.order {
				if v == id {
					h.order = append(h.order[:i:i], h.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (h *Hub) snapshot() []int {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]int, len(h.order))
	copy(ids, h.order)
	return ids
}
