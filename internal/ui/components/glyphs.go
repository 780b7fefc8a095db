package components

// Icon names understood by Glyphs
const (
	IconMinimize = "minimize"
	IconMaximize = "maximize"
	IconRestore  = "restore"
	IconDock     = "dock"
	IconReset    = "reset"
	IconClose    = "close"
	IconResize   = "resize"
)

var regularGlyphs = map[string]string{
	IconMinimize: "[_]",
	IconMaximize: "[□]",
	IconRestore:  "[▫]",
	IconDock:     "[⇥]",
	IconReset:    "[↺]",
	IconClose:    "[×]",
	IconResize:   "◢",
}

var compactGlyphs = map[string]string{
	IconMinimize: "_",
	IconMaximize: "□",
	IconRestore:  "▫",
	IconDock:     "⇥",
	IconReset:    "↺",
	IconClose:    "×",
	IconResize:   "◢",
}

// Glyphs is the default icon renderer. Size 1 selects the single-cell
// compact set; anything larger selects the bracketed set.
type Glyphs struct{}

// Icon returns the glyph for name, or "?" for unknown names
func (Glyphs) Icon(name string, size int) string {
	set := regularGlyphs
	if size <= 1 {
		set = compactGlyphs
	}
	if g, ok := set[name]; ok {
		return g
	}
	return "?"
}
