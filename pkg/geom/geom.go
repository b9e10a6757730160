// Package geom provides the integer geometry shared by the layout engine,
// the connector builder and the renderers.
//
// All coordinates are integers in the layout's own unit (one unit is one
// SVG user unit). Halving always rounds toward negative infinity so that
// results do not depend on the sign of the operands.
package geom

import "fmt"

// Point is an (x, y) coordinate pair. Y grows downward.
type Point struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Size is the extent of a node box.
type Size struct {
	W int `json:"w" bson:"w"`
	H int `json:"h" bson:"h"`
}

// MiddleTop returns the horizontal midpoint of the top edge of a box whose
// top-left corner is at p.
func MiddleTop(p Point, s Size) Point {
	return Point{X: p.X + FloorDiv(s.W, 2), Y: p.Y}
}

// MiddleBottom returns the horizontal midpoint of the bottom edge of a box
// whose top-left corner is at p.
func MiddleBottom(p Point, s Size) Point {
	return Point{X: p.X + FloorDiv(s.W, 2), Y: p.Y + s.H}
}

// Rect is an axis-aligned rectangle. Max is exclusive.
type Rect struct {
	Min Point `json:"min" bson:"min"`
	Max Point `json:"max" bson:"max"`
}

// BoxAt returns the rectangle covered by a box of size s at p.
func BoxAt(p Point, s Size) Rect {
	return Rect{Min: p, Max: Point{X: p.X + s.W, Y: p.Y + s.H}}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y }

// Width returns the horizontal extent of r.
func (r Rect) Width() int { return r.Max.X - r.Min.X }

// Height returns the vertical extent of r.
func (r Rect) Height() int { return r.Max.Y - r.Min.Y }

// Union returns the smallest rectangle containing r and s.
// An empty rectangle is ignored.
func (r Rect) Union(s Rect) Rect {
	if r.Empty() {
		return s
	}
	if s.Empty() {
		return r
	}
	return Rect{
		Min: Point{X: min(r.Min.X, s.Min.X), Y: min(r.Min.Y, s.Min.Y)},
		Max: Point{X: max(r.Max.X, s.Max.X), Y: max(r.Max.Y, s.Max.Y)},
	}
}

// Inset grows r by d on every side (shrinks for negative d).
func (r Rect) Inset(d int) Rect {
	return Rect{
		Min: Point{X: r.Min.X - d, Y: r.Min.Y - d},
		Max: Point{X: r.Max.X + d, Y: r.Max.Y + d},
	}
}

// Overlaps reports whether r and s share any area.
func (r Rect) Overlaps(s Rect) bool {
	return r.Min.X < s.Max.X && s.Min.X < r.Max.X &&
		r.Min.Y < s.Max.Y && s.Min.Y < r.Max.Y
}

// FloorDiv divides a by b rounding toward negative infinity.
// b must be positive.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && (a < 0) {
		q--
	}
	return q
}

// Abs returns |v|.
func Abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
