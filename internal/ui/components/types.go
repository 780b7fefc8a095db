package components

// WorkspaceDimensions represents computed sizes for the screen areas
type WorkspaceDimensions struct {
	Width           int
	HeaderHeight    int
	FooterHeight    int
	WorkspaceHeight int // rows panels may occupy, header included
	BodyHeight      int // rows of background document below the header
	BodyWidth       int
}
