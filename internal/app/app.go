package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"

	"floatview/internal/geometry"
	"floatview/internal/interaction"
	"floatview/internal/layoutstore"
	"floatview/internal/logging"
	"floatview/internal/panel"
	"floatview/internal/ui/components"
	"floatview/internal/window"
)

// Names of the panels the workspace knows how to open
const (
	PanelHelp      = "help"
	PanelInspector = "inspector"
	PanelPopover   = "popover"
	PanelNotes     = "notes"
)

const popoverButton = "[ popover ]"

// Options configures the workspace
type Options struct {
	Store         *layoutstore.Store
	Window        window.Options
	Limits        interaction.Limits
	Gap           int
	Compact       bool
	MarkdownStyle string
	// InspectorAlign is where the inspector opens; AlignNone means top-right
	InspectorAlign geometry.Alignment
	// Document is the background text; empty uses a built-in sample
	Document string
}

// Application is the workspace: a scrollable background document with
// floating panels composited over it
type Application struct {
	ctx            context.Context
	log            zerolog.Logger
	eventBus       *EventBus
	eventProcessor *EventProcessor
	program        *tea.Program

	width  int
	height int
	layout *components.LayoutManager
	styles *components.Styles
	keys   KeyMap
	help   help.Model

	hub       *interaction.Hub
	scroll    *panel.ScrollLock
	panelDeps panel.Deps
	compact   bool
	inspector geometry.Alignment

	background *components.ContentView
	// panels is the z-order, bottom first
	panels []*panel.Shell
	byName map[string]*panel.Shell

	statusMessage string
}

// NewApplication creates the workspace
func NewApplication(ctx context.Context, opts Options) *Application {
	ctx = logging.WithComponent(ctx, "app")
	eventBus := NewEventBus(ctx)
	styles := components.NewStyles()
	hub := interaction.NewHub()

	document := opts.Document
	if document == "" {
		document = sampleDocument
	}
	background := components.NewContentView()
	background.SetContent(document, true)

	a := &Application{
		ctx:            ctx,
		log:            *logging.FromContext(ctx),
		eventBus:       eventBus,
		eventProcessor: NewEventProcessor(ctx, eventBus),
		layout:         components.NewLayoutManager(0, 0),
		styles:         styles,
		keys:           DefaultKeyMap(),
		help:           help.New(),
		hub:            hub,
		compact:        opts.Compact,
		inspector:      opts.InspectorAlign,
		background:     background,
		byName:         make(map[string]*panel.Shell),
	}
	a.scroll = panel.NewScrollLock(func(locked bool) {
		a.log.Debug().Bool("locked", locked).Msg("background scroll lock changed")
	})
	a.panelDeps = panel.Deps{
		Store:         opts.Store,
		Hub:           hub,
		Icons:         components.Glyphs{},
		Scroll:        a.scroll,
		Bus:           eventBus,
		Styles:        styles,
		Keys:          panel.DefaultKeyMap(),
		Window:        opts.Window,
		Limits:        opts.Limits,
		Gap:           opts.Gap,
		MarkdownStyle: opts.MarkdownStyle,
	}
	return a
}

// SetProgram sets the bubbletea program reference and starts forwarding
// panel events as status messages
func (a *Application) SetProgram(program *tea.Program) {
	a.program = program
	a.eventProcessor.ProcessEvents(program)
}

// Shutdown unmounts every panel and stops the event bus
func (a *Application) Shutdown() {
	for _, p := range append([]*panel.Shell(nil), a.panels...) {
		p.Unmount()
	}
	a.panels = nil
	a.byName = make(map[string]*panel.Shell)
	a.eventBus.Shutdown()
}

// Init initializes the application (bubbletea interface)
func (a *Application) Init() tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{
			Status:  "init",
			Message: "press ? for help",
		}
	}
}

// Update handles messages (bubbletea interface)
func (a *Application) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)

	case tea.MouseMsg:
		a.handleMouse(msg)

	case tea.KeyMsg:
		cmd = a.handleKeyPress(msg)

	case StatusMsg:
		a.statusMessage = fmt.Sprintf("[%s] %s", msg.Status, msg.Message)
	}

	a.refreshInspector()
	return a, cmd
}

func (a *Application) resize(width, height int) {
	a.width = width
	a.height = height
	a.layout = components.NewLayoutManager(width, height)
	a.help.Width = width

	dims := a.layout.CalculateDimensions()
	a.background.SetDimensions(dims.BodyWidth, dims.BodyHeight)
	a.hub.DispatchResize(a.layout.Viewport())
}

func (a *Application) handleMouse(msg tea.MouseMsg) {
	if tea.MouseEvent(msg).IsWheel() {
		a.handleWheel(msg)
		return
	}

	ev, ok := interaction.FromMouse(msg)
	if !ok {
		return
	}
	// A press that dismisses a modal still belongs to its overlay, so the
	// modal on top is captured before listeners get a chance to close it.
	modal := a.topModal()
	a.hub.Dispatch(ev)
	if ev.Kind == interaction.Down {
		a.routePointerDown(ev, modal)
	}
}

// routePointerDown delivers a press to the topmost panel under it. When a
// modal was open at press time it takes the press, even if the press just
// closed it; presses outside it land on the overlay.
func (a *Application) routePointerDown(ev interaction.Event, modal *panel.Shell) {
	if modal != nil {
		if !modal.Closed() {
			modal.PointerDown(ev)
		}
		return
	}

	for i := len(a.panels) - 1; i >= 0; i-- {
		p := a.panels[i]
		if !p.Contains(ev.X, ev.Y) {
			continue
		}
		a.raise(p)
		p.PointerDown(ev)
		return
	}

	if r, ok := a.popoverButtonRect(); ok && r.Contains(ev.X, ev.Y) {
		a.togglePanel(PanelPopover)
	}
}

func (a *Application) handleWheel(msg tea.MouseMsg) {
	delta := 1
	if msg.Button == tea.MouseButtonWheelUp {
		delta = -1
	}

	if modal := a.topModal(); modal != nil {
		if modal.Contains(msg.X, msg.Y) {
			modal.ScrollBody(delta)
		}
		return
	}
	for i := len(a.panels) - 1; i >= 0; i-- {
		if a.panels[i].Contains(msg.X, msg.Y) {
			a.panels[i].ScrollBody(delta)
			return
		}
	}
	a.scrollBackground(func() {
		if delta < 0 {
			a.background.ScrollUp()
		} else {
			a.background.ScrollDown()
		}
	})
}

// handleKeyPress handles keyboard input
func (a *Application) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}

	if modal := a.topModal(); modal != nil {
		modal.HandleKey(msg)
		return nil
	}
	if focused := a.focused(); focused != nil && focused.HandleKey(msg) {
		return nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.togglePanel(PanelHelp)
	case key.Matches(msg, a.keys.Inspector):
		a.togglePanel(PanelInspector)
	case key.Matches(msg, a.keys.Popover):
		a.togglePanel(PanelPopover)
	case key.Matches(msg, a.keys.Notes):
		a.togglePanel(PanelNotes)
	case key.Matches(msg, a.keys.Cycle):
		if len(a.panels) > 1 {
			a.raise(a.panels[0])
		}
	case key.Matches(msg, a.keys.ScrollUp):
		a.scrollBackground(a.background.ScrollUp)
	case key.Matches(msg, a.keys.ScrollDown):
		a.scrollBackground(a.background.ScrollDown)
	case key.Matches(msg, a.keys.PageUp):
		a.scrollBackground(a.background.ScrollPageUp)
	case key.Matches(msg, a.keys.PageDown):
		a.scrollBackground(a.background.ScrollPageDown)
	case key.Matches(msg, a.keys.Top):
		a.scrollBackground(a.background.ScrollToTop)
	case key.Matches(msg, a.keys.Bottom):
		a.scrollBackground(a.background.ScrollToBottom)
	}
	return nil
}

// scrollBackground runs fn unless a modal holds the scroll lock
func (a *Application) scrollBackground(fn func()) {
	if a.scroll.Locked() {
		return
	}
	fn()
}

// Panel returns the open panel registered under name
func (a *Application) Panel(name string) (*panel.Shell, bool) {
	p, ok := a.byName[name]
	return p, ok
}

// Panels returns the open panels in z-order, bottom first
func (a *Application) Panels() []*panel.Shell {
	return append([]*panel.Shell(nil), a.panels...)
}

// ScrollLocked reports whether background scrolling is suppressed
func (a *Application) ScrollLocked() bool {
	return a.scroll.Locked()
}

// BackgroundOffset returns the background scroll position
func (a *Application) BackgroundOffset() int {
	current, _ := a.background.GetScrollInfo()
	return current
}

func (a *Application) togglePanel(name string) {
	if p, ok := a.byName[name]; ok {
		p.Close()
		return
	}
	a.openPanel(name)
}

func (a *Application) openPanel(name string) {
	opts, ok := a.panelOptions(name)
	if !ok {
		return
	}
	opts.OnClose = func() { a.closePanel(name) }

	p := panel.New(a.ctx, a.panelDeps, opts)
	a.byName[name] = p
	a.panels = append(a.panels, p)
	a.refocus()
	a.log.Debug().Str("panel", name).Str("instance", p.Instance()).Msg("panel opened")
}

func (a *Application) closePanel(name string) {
	p, ok := a.byName[name]
	if !ok {
		return
	}
	p.Unmount()
	delete(a.byName, name)
	for i, candidate := range a.panels {
		if candidate == p {
			a.panels = append(a.panels[:i], a.panels[i+1:]...)
			break
		}
	}
	a.refocus()
	a.log.Debug().Str("panel", name).Msg("panel closed")
}

func (a *Application) panelOptions(name string) (panel.Options, bool) {
	switch name {
	case PanelHelp:
		return panel.Options{
			Title:               "Help",
			Placement:           panel.Aligned(geometry.AlignCenter, 60, 22),
			Modal:               true,
			CloseOnOutsideClick: true,
			Markdown:            true,
			Content:             a.helpMarkdown(),
		}, true
	case PanelInspector:
		return panel.Options{
			ID:        PanelInspector,
			Title:     "Inspector",
			Placement: panel.Aligned(a.inspectorAlignment(), 48, 14),
			Resizable: true,
			Compact:   a.compact,
		}, true
	case PanelPopover:
		return panel.Options{
			Title:     "Popover",
			Placement: panel.Anchored(panel.Explicit(panel.AnchorFunc(a.popoverButtonRect)), 36, 7),
			Content:   "Anchored below the header button. Shrink the terminal and it flips or shifts to stay on screen.",
		}, true
	case PanelNotes:
		return panel.Options{
			ID:        PanelNotes,
			Title:     "Notes",
			Placement: panel.At(2, 3, 40, 10),
			Resizable: true,
			Compact:   true,
			Content:   "Drag the title bar to move. Drag the corner handle to resize. Position and size are remembered.",
		}, true
	default:
		return panel.Options{}, false
	}
}

func (a *Application) inspectorAlignment() geometry.Alignment {
	if a.inspector == geometry.AlignNone {
		return geometry.AlignTopRight
	}
	return a.inspector
}

// raise moves p to the top of the z-order and focuses it
func (a *Application) raise(p *panel.Shell) {
	for i, candidate := range a.panels {
		if candidate == p {
			a.panels = append(a.panels[:i], a.panels[i+1:]...)
			break
		}
	}
	a.panels = append(a.panels, p)
	a.refocus()
}

func (a *Application) refocus() {
	top := a.focused()
	for _, p := range a.panels {
		p.SetFocused(p == top)
	}
}

// focused is the topmost non-modal panel
func (a *Application) focused() *panel.Shell {
	for i := len(a.panels) - 1; i >= 0; i-- {
		if !a.panels[i].Modal() {
			return a.panels[i]
		}
	}
	return nil
}

func (a *Application) topModal() *panel.Shell {
	for i := len(a.panels) - 1; i >= 0; i-- {
		if a.panels[i].Modal() {
			return a.panels[i]
		}
	}
	return nil
}

// popoverButtonRect locates the header button. It stops resolving when
// the terminal is too narrow to draw it.
func (a *Application) popoverButtonRect() (geometry.Rect, bool) {
	width := ansi.StringWidth(popoverButton)
	x := a.width - width - 1
	if x < len(appTitle)+2 {
		return geometry.Rect{}, false
	}
	return geometry.Rect{X: x, Y: 0, Width: width, Height: 1}, true
}

func (a *Application) refreshInspector() {
	p, ok := a.byName[PanelInspector]
	if !ok {
		return
	}

	var b strings.Builder
	for _, candidate := range a.panels {
		r := candidate.Rect()
		name := candidate.ID()
		if name == "" {
			name = candidate.Title()
		}
		fmt.Fprintf(&b, "%-10s %-9s %d,%d %dx%d\n", name, candidate.Mode(), r.X, r.Y, r.Width, r.Height)
	}
	fmt.Fprintf(&b, "\nscroll lock depth %d\n", a.scroll.Depth())
	fmt.Fprintf(&b, "pointer listeners %d, resize listeners %d\n", a.hub.PointerListeners(), a.hub.ResizeListeners())
	p.SetContent(b.String())
}

func (a *Application) helpMarkdown() string {
	var b strings.Builder
	b.WriteString("# Workspace\n\n")
	for _, column := range a.keys.FullHelp() {
		for _, binding := range column {
			writeBinding(&b, binding)
		}
	}
	b.WriteString("\n# Panels\n\n")
	b.WriteString("Drag a title bar to move a panel and the corner handle to resize it. ")
	b.WriteString("Title bar buttons minimize, maximize, dock, reset the size and close.\n\n")
	for _, binding := range a.panelDeps.Keys.Bindings() {
		writeBinding(&b, binding)
	}
	return b.String()
}

func writeBinding(b *strings.Builder, binding key.Binding) {
	h := binding.Help()
	fmt.Fprintf(b, "- `%s` %s\n", h.Key, h.Desc)
}

const appTitle = "floatview"

// View renders the application (bubbletea interface)
func (a *Application) View() string {
	if a.width == 0 || a.height == 0 {
		return "Initializing..."
	}
	dims := a.layout.CalculateDimensions()

	lines := make([]string, 0, dims.WorkspaceHeight)
	if dims.WorkspaceHeight > 0 {
		lines = append(lines, a.renderHeader())
	}
	padding := strings.Repeat(" ", a.layout.BodyPadding())
	for _, line := range a.background.Lines() {
		lines = append(lines, components.FitLine(padding+a.styles.Body.Render(line), a.width))
	}
	workspace := strings.Join(lines, "\n")

	var modals []*panel.Shell
	for _, p := range a.panels {
		if p.Modal() {
			modals = append(modals, p)
			continue
		}
		workspace = a.composite(workspace, p)
	}
	if len(modals) > 0 {
		workspace = components.Dim(workspace, a.styles.Overlay)
		for _, p := range modals {
			workspace = a.composite(workspace, p)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, workspace, a.renderFooter())
}

func (a *Application) composite(workspace string, p *panel.Shell) string {
	r := p.Rect()
	return components.SpliceOverlay(workspace, strings.Split(p.View(), "\n"), r.X, r.Y)
}

func (a *Application) renderHeader() string {
	header := a.styles.Header.Render(components.FitLine(" "+appTitle, a.width))
	if r, ok := a.popoverButtonRect(); ok {
		header = components.SpliceOverlay(header, []string{a.styles.HeaderButton.Render(popoverButton)}, r.X, 0)
	}
	return components.FitLine(header, a.width)
}

func (a *Application) renderFooter() string {
	status := a.statusMessage
	if a.scroll.Locked() {
		status = "dialog open"
	}
	text := a.help.ShortHelpView(a.keys.ShortHelp())
	if status != "" {
		text = a.styles.Status.Render(status) + "  " + text
	}
	return a.styles.Footer.Render(components.FitLine(text, a.width))
}

const sampleDocument = `Shipping details

Full name, street address, postal code and country are required before an order can be placed. The address is validated against the carrier's service area when the form is submitted.

Billing

Billing defaults to the shipping address. Untick "same as shipping" to enter a separate billing address. Invoices are sent to the account email.

Preferences

Delivery windows, gift wrapping and order notes live here. Notes are limited to 500 characters and are printed on the packing slip.

Review

The order summary lists every line item with its quantity and price. Taxes are estimated from the shipping address and finalized at checkout.

Everything below this line is filler so the background has something to scroll.
` + fillerParagraphs

const fillerParagraphs = `
Lorem ipsum dolor sit amet, consectetur adipiscing elit. Integer posuere erat a ante venenatis dapibus posuere velit aliquet.

Cras mattis consectetur purus sit amet fermentum. Aenean lacinia bibendum nulla sed consectetur. Vestibulum id ligula porta felis euismod semper.

Maecenas faucibus mollis interdum. Nullam quis risus eget urna mollis ornare vel eu leo. Donec ullamcorper nulla non metus auctor fringilla.

Etiam porta sem malesuada magna mollis euismod. Sed posuere consectetur est at lobortis. Duis mollis, est non commodo luctus, nisi erat porttitor ligula.

Curabitur blandit tempus porttitor. Praesent commodo cursus magna, vel scelerisque nisl consectetur et. Vivamus sagittis lacus vel augue laoreet rutrum.
`
