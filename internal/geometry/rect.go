// Package geometry holds the constraint functions that keep panels inside
// the terminal and place them relative to anchors. Everything here is pure;
// all units are terminal cells.
package geometry

// Point is a cell coordinate
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Sub returns p - o
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Size represents panel or viewport dimensions
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether either dimension is unusable
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is a positioned size
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewRect builds a Rect from a position and a size
func NewRect(pos Point, size Size) Rect {
	return Rect{X: pos.X, Y: pos.Y, Width: size.Width, Height: size.Height}
}

// Pos returns the top-left corner
func (r Rect) Pos() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns the dimensions
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Right returns the first column past the rectangle
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the first row past the rectangle
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Contains reports whether the cell (x, y) lies inside the rectangle
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// WithPos returns a copy moved to pos
func (r Rect) WithPos(pos Point) Rect {
	r.X, r.Y = pos.X, pos.Y
	return r
}

// WithSize returns a copy resized to size
func (r Rect) WithSize(size Size) Rect {
	r.Width, r.Height = size.Width, size.Height
	return r
}
