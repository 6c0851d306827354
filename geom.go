package tiled

import "fmt"

// Point is a 2D point with float64 coordinates.
type Point struct {
	X, Y float64
}

// Pt creates a Point from x, y coordinates.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Rect is an axis-aligned rectangle in destination (screen) coordinates.
// Used for quad submission when drawing a tile.
type Rect struct {
	X, Y float64 // top-left corner
	W, H float64
}

// R creates a Rect from its top-left corner and size.
func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Empty returns true if the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// String returns a string representation of the rectangle.
func (r Rect) String() string {
	return fmt.Sprintf("Rect(%g,%g %gx%g)", r.X, r.Y, r.W, r.H)
}
