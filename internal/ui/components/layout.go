package components

import "floatview/internal/geometry"

// LayoutManager centralizes layout calculations for the workspace screen.
// The workspace is everything above the footer; panels float over the
// header as well as the background document.
type LayoutManager struct {
	width        int
	height       int
	headerHeight int
	footerHeight int
	bodyPaddingX int // horizontal padding around the background document
}

// NewLayoutManager creates a layout manager with the default chrome
func NewLayoutManager(width, height int) *LayoutManager {
	return &LayoutManager{
		width:        width,
		height:       height,
		headerHeight: 1,
		footerHeight: 1,
		bodyPaddingX: 1,
	}
}

// CalculateDimensions returns the sizes to use for each area
func (lm *LayoutManager) CalculateDimensions() WorkspaceDimensions {
	workspace := max(0, lm.height-lm.footerHeight)
	return WorkspaceDimensions{
		Width:           lm.width,
		HeaderHeight:    lm.headerHeight,
		FooterHeight:    lm.footerHeight,
		WorkspaceHeight: workspace,
		BodyHeight:      max(0, workspace-lm.headerHeight),
		BodyWidth:       max(1, lm.width-2*lm.bodyPaddingX),
	}
}

// Viewport is the area panels are clamped to
func (lm *LayoutManager) Viewport() geometry.Size {
	dims := lm.CalculateDimensions()
	return geometry.Size{Width: dims.Width, Height: dims.WorkspaceHeight}
}

// BodyPadding is the left padding of the background document
func (lm *LayoutManager) BodyPadding() int {
	return lm.bodyPaddingX
}
