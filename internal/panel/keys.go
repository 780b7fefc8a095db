package panel

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings a focused panel responds to
type KeyMap struct {
	Dismiss  key.Binding
	Minimize key.Binding
	Maximize key.Binding
	Dock     key.Binding
	Reset    key.Binding
	Close    key.Binding
}

// DefaultKeyMap returns the default panel bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close dialog"),
		),
		Minimize: key.NewBinding(
			key.WithKeys("alt+m"),
			key.WithHelp("alt+m", "minimize/restore"),
		),
		Maximize: key.NewBinding(
			key.WithKeys("alt+x"),
			key.WithHelp("alt+x", "maximize/restore"),
		),
		Dock: key.NewBinding(
			key.WithKeys("alt+d"),
			key.WithHelp("alt+d", "dock/restore"),
		),
		Reset: key.NewBinding(
			key.WithKeys("alt+r"),
			key.WithHelp("alt+r", "reset size"),
		),
		Close: key.NewBinding(
			key.WithKeys("alt+w"),
			key.WithHelp("alt+w", "close panel"),
		),
	}
}

// Bindings lists every binding, for help screens
func (k KeyMap) Bindings() []key.Binding {
	return []key.Binding{k.Dismiss, k.Minimize, k.Maximize, k.Dock, k.Reset, k.Close}
}
