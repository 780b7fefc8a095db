package panel

import "floatview/internal/geometry"

// Anchor is an element a panel can be positioned against. Bounds reports
// ok=false once the element no longer resolves.
type Anchor interface {
	Bounds() (geometry.Rect, bool)
}

// AnchorFunc adapts a function to Anchor
type AnchorFunc func() (geometry.Rect, bool)

func (f AnchorFunc) Bounds() (geometry.Rect, bool) {
	return f()
}

// AnchorKind selects where an anchored panel finds its anchor
type AnchorKind int

const (
	AnchorNone AnchorKind = iota
	AnchorExplicit
	AnchorContextParent
)

// AnchorRef is the tagged anchor reference of a placement
type AnchorRef struct {
	Kind   AnchorKind
	Target Anchor
}

// Explicit anchors to target
func Explicit(target Anchor) AnchorRef {
	return AnchorRef{Kind: AnchorExplicit, Target: target}
}

// ContextParent anchors to the Parent passed in Options
func ContextParent() AnchorRef {
	return AnchorRef{Kind: AnchorContextParent}
}

// Placement describes where a panel first appears: an explicit rectangle
// (At), an anchor plus size (Anchored) or a named alignment (Aligned). An
// anchored placement may also carry a position used when the anchor is gone.
type Placement struct {
	X, Y          int
	HasPosition   bool
	Width, Height int
	Anchor        AnchorRef
	Align         geometry.Alignment
}

// At places the panel at an explicit rectangle
func At(x, y, width, height int) Placement {
	return Placement{X: x, Y: y, HasPosition: true, Width: width, Height: height}
}

// Anchored places the panel relative to an anchor
func Anchored(ref AnchorRef, width, height int) Placement {
	return Placement{Anchor: ref, Width: width, Height: height}
}

// Aligned places the panel at a named position in the viewport
func Aligned(align geometry.Alignment, width, height int) Placement {
	return Placement{Align: align, Width: width, Height: height}
}

// WithPosition sets the explicit position
func (p Placement) WithPosition(x, y int) Placement {
	p.X, p.Y, p.HasPosition = x, y, true
	return p
}

// Size returns the requested size, falling back to def for unset dimensions
func (p Placement) Size(def geometry.Size) geometry.Size {
	s := geometry.Size{Width: p.Width, Height: p.Height}
	if s.Width <= 0 {
		s.Width = def.Width
	}
	if s.Height <= 0 {
		s.Height = def.Height
	}
	return s
}

// IsAnchored reports whether the placement follows an anchor
func (p Placement) IsAnchored() bool {
	return p.Anchor.Kind != AnchorNone
}

// anchorBounds resolves ref against parent
func anchorBounds(ref AnchorRef, parent Anchor) (geometry.Rect, bool) {
	var target Anchor
	switch ref.Kind {
	case AnchorExplicit:
		target = ref.Target
	case AnchorContextParent:
		target = parent
	}
	if target == nil {
		return geometry.Rect{}, false
	}
	return target.Bounds()
}
