package geometry

// Alignment names a viewport-relative placement
type Alignment int

const (
	AlignNone Alignment = iota
	AlignCenter
	AlignTopLeft
	AlignTopRight
	AlignBottomLeft
	AlignBottomRight
)

var alignmentNames = map[Alignment]string{
	AlignNone:        "none",
	AlignCenter:      "center",
	AlignTopLeft:     "top-left",
	AlignTopRight:    "top-right",
	AlignBottomLeft:  "bottom-left",
	AlignBottomRight: "bottom-right",
}

func (a Alignment) String() string {
	if name, ok := alignmentNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAlignment maps a token such as "bottom-right" to an Alignment.
// Unknown tokens yield AlignNone.
func ParseAlignment(token string) Alignment {
	for a, name := range alignmentNames {
		if name == token {
			return a
		}
	}
	return AlignNone
}

// ClampToViewport keeps rect visible. x is clamped to
// [0, viewport.Width-width] and y to [0, viewport.Height-reservedTopInset] so
// a title bar of reservedTopInset rows stays on screen. Sizes never exceed the
// viewport and never drop below one cell. Negative ranges collapse to 0.
func ClampToViewport(rect Rect, viewport Size, reservedTopInset int) Rect {
	rect.Width = max(1, rect.Width)
	rect.Height = max(1, rect.Height)
	if viewport.Empty() {
		// Nothing reported yet; keep the requested position.
		return rect
	}

	rect.Width = min(rect.Width, viewport.Width)
	rect.Height = min(rect.Height, viewport.Height)
	rect.X = clamp(rect.X, 0, viewport.Width-rect.Width)
	rect.Y = clamp(rect.Y, 0, viewport.Height-reservedTopInset)
	return rect
}

// PlaceRelativeToAnchor positions a panel of size below the anchor's
// bottom-left corner, gap cells away. Right overflow shifts the panel left
// just enough to fit, bottom overflow flips it above the anchor, and the
// result never sits closer than gap to the top-left edges.
func PlaceRelativeToAnchor(anchor Rect, size Size, viewport Size, gap int) Rect {
	x := anchor.X
	y := anchor.Bottom() + gap

	if x+size.Width > viewport.Width {
		x = viewport.Width - size.Width
	}
	if y+size.Height > viewport.Height {
		y = anchor.Y - size.Height - gap
	}

	return Rect{
		X:      max(x, gap),
		Y:      max(y, gap),
		Width:  size.Width,
		Height: size.Height,
	}
}

// Center returns size centered in the viewport
func Center(size Size, viewport Size) Rect {
	size.Width = min(max(1, size.Width), max(1, viewport.Width))
	size.Height = min(max(1, size.Height), max(1, viewport.Height))
	return Rect{
		X:      max(0, (viewport.Width-size.Width)/2),
		Y:      max(0, (viewport.Height-size.Height)/2),
		Width:  size.Width,
		Height: size.Height,
	}
}

// Align places size at a named corner of the viewport, gap cells in from
// the edges. AlignNone and AlignCenter both center.
func Align(size Size, viewport Size, alignment Alignment, gap int) Rect {
	rect := Center(size, viewport)
	switch alignment {
	case AlignTopLeft:
		rect.X, rect.Y = gap, gap
	case AlignTopRight:
		rect.X, rect.Y = viewport.Width-rect.Width-gap, gap
	case AlignBottomLeft:
		rect.X, rect.Y = gap, viewport.Height-rect.Height-gap
	case AlignBottomRight:
		rect.X, rect.Y = viewport.Width-rect.Width-gap, viewport.Height-rect.Height-gap
	}
	rect.X = max(0, rect.X)
	rect.Y = max(0, rect.Y)
	return rect
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
