package app

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"floatview/internal/panel"
)

// EventBus manages panel event distribution throughout the application.
// HandleEvent runs inside Update, so it never blocks and never talks to
// the program directly; the EventProcessor goroutines do that.
type EventBus struct {
	subscribers map[panel.EventType][]chan panel.Event
	mutex       sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewEventBus creates a new event bus
func NewEventBus(ctx context.Context) *EventBus {
	busCtx, cancel := context.WithCancel(ctx)
	return &EventBus{
		subscribers: make(map[panel.EventType][]chan panel.Event),
		ctx:         busCtx,
		cancel:      cancel,
	}
}

// Subscribe subscribes to specific event types
func (eb *EventBus) Subscribe(eventType panel.EventType, bufferSize int) <-chan panel.Event {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	eventCh := make(chan panel.Event, bufferSize)
	eb.subscribers[eventType] = append(eb.subscribers[eventType], eventCh)

	return eventCh
}

// HandleEvent implements panel.EventHandler
func (eb *EventBus) HandleEvent(event panel.Event) {
	eb.mutex.RLock()
	defer eb.mutex.RUnlock()

	for _, subscriber := range eb.subscribers[event.Type] {
		select {
		case subscriber <- event:
		case <-eb.ctx.Done():
			return
		default:
			// Non-blocking send - drop event if channel is full
		}
	}
}

// Shutdown gracefully shuts down the event bus
func (eb *EventBus) Shutdown() {
	eb.cancel()

	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	// Close all subscriber channels
	for _, subscribers := range eb.subscribers {
		for _, ch := range subscribers {
			close(ch)
		}
	}

	eb.subscribers = make(map[panel.EventType][]chan panel.Event)
}

// StatusMsg represents general status updates
type StatusMsg struct {
	Status  string
	Message string
}

// EventProcessor turns panel events into status messages for the program
type EventProcessor struct {
	eventBus *EventBus
	ctx      context.Context
}

// NewEventProcessor creates a new event processor
func NewEventProcessor(ctx context.Context, eventBus *EventBus) *EventProcessor {
	return &EventProcessor{
		eventBus: eventBus,
		ctx:      ctx,
	}
}

// ProcessEvents starts processing events and sending them as tea messages
func (ep *EventProcessor) ProcessEvents(program *tea.Program) {
	modeEvents := ep.eventBus.Subscribe(panel.EventModeChanged, 10)
	layoutEvents := ep.eventBus.Subscribe(panel.EventLayoutCommitted, 10)
	closeEvents := ep.eventBus.Subscribe(panel.EventClosed, 10)

	go ep.processEventStream(modeEvents, program, ep.handleModeEvent)
	go ep.processEventStream(layoutEvents, program, ep.handleLayoutEvent)
	go ep.processEventStream(closeEvents, program, ep.handleCloseEvent)
}

// processEventStream processes a stream of events
func (ep *EventProcessor) processEventStream(eventCh <-chan panel.Event, program *tea.Program, handler func(panel.Event) tea.Msg) {
	for {
		select {
		case event, ok := <-eventCh:
			if !ok {
				return
			}
			if msg := handler(event); msg != nil {
				program.Send(msg)
			}
		case <-ep.ctx.Done():
			return
		}
	}
}

func (ep *EventProcessor) handleModeEvent(event panel.Event) tea.Msg {
	return StatusMsg{
		Status:  "mode",
		Message: fmt.Sprintf("%s is now %s", panelName(event), event.Mode),
	}
}

func (ep *EventProcessor) handleLayoutEvent(event panel.Event) tea.Msg {
	r := event.Rect
	return StatusMsg{
		Status:  "layout",
		Message: fmt.Sprintf("%s at %d,%d size %dx%d", panelName(event), r.X, r.Y, r.Width, r.Height),
	}
}

func (ep *EventProcessor) handleCloseEvent(event panel.Event) tea.Msg {
	return StatusMsg{
		Status:  "closed",
		Message: panelName(event),
	}
}

func panelName(event panel.Event) string {
	if event.PanelID != "" {
		return event.PanelID
	}
	if len(event.Instance) >= 8 {
		return event.Instance[:8]
	}
	return event.Instance
}
