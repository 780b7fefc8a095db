package components

import "github.com/charmbracelet/lipgloss"

// Styles contains the styling for the workspace chrome and panel frames
type Styles struct {
	Header       lipgloss.Style
	HeaderButton lipgloss.Style
	Footer       lipgloss.Style
	Body         lipgloss.Style
	Status       lipgloss.Style
	Highlight    lipgloss.Style
	Overlay      lipgloss.Style

	Frame        lipgloss.Style
	FrameFocused lipgloss.Style
	FrameModal   lipgloss.Style
	Title        lipgloss.Style
	TitleFocused lipgloss.Style
	Control      lipgloss.Style
	Handle       lipgloss.Style
	Content      lipgloss.Style
}

// NewStyles creates the default styles
func NewStyles() *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("235")).
			Bold(true),
		HeaderButton: lipgloss.NewStyle().
			Foreground(lipgloss.Color("235")).
			Background(lipgloss.Color("62")),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Background(lipgloss.Color("235")),
		Body: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Highlight: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true),
		Overlay: lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Faint(true),

		Frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")),
		FrameFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")),
		FrameModal: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("205")),
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true),
		TitleFocused: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("62")).
			Bold(true),
		Control: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")),
		Handle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")),
		Content: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
	}
}
