// Package geometry provides the coordinate model shared by the canvas engine.
//
// The canvas distinguishes two coordinate systems:
//
//   - World space: the canvas's own coordinate system, in which node
//     positions are stored. Independent of the current view.
//   - Screen space: device-pixel coordinates of pointer and render events,
//     related to world space by the viewport's pan offset and zoom factor.
//
// All functions are pure and stateless. The viewport guarantees a non-zero
// zoom, so the transforms never divide by zero.
package geometry

import "math"

// Point is a 2-D coordinate. Depending on context it is either a world-space
// or a screen-space position; the two never mix inside a single value.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p minus q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale returns p with both components multiplied by f.
func (p Point) Scale(f float64) Point { return Point{X: p.X * f, Y: p.Y * f} }

// IsFinite reports whether both components are finite numbers.
// Pointer events occasionally deliver NaN coordinates; callers treat
// non-finite points as no-ops rather than errors.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Size is a width/height pair in world units.
type Size struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Rect is an axis-aligned rectangle identified by its top-left corner.
type Rect struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// FromCorners builds the axis-aligned rectangle spanning two arbitrary
// corner points. The result always has non-negative width and height.
func FromCorners(a, b Point) Rect {
	return Rect{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// CenterX returns the x-coordinate of the horizontal center.
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

// CenterY returns the y-coordinate of the vertical center.
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Empty reports whether the rectangle has zero (or negative) area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Intersects reports whether r and other overlap with positive area.
// The comparison is open-interval: rectangles that merely share an edge or
// corner do not intersect. Marquee selection relies on this so that a node
// exactly touching the selection box is not picked up.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width && r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height && r.Y+r.Height > other.Y
}

// Contains reports whether p lies inside r (closed on the top-left edges,
// open on the bottom-right, matching hit-testing of rendered elements).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// ScreenToWorld converts a screen-space point to world space for the given
// pan offset and zoom factor: world = (screen - pan) / zoom.
func ScreenToWorld(p, pan Point, zoom float64) Point {
	return Point{X: (p.X - pan.X) / zoom, Y: (p.Y - pan.Y) / zoom}
}

// WorldToScreen converts a world-space point to screen space for the given
// pan offset and zoom factor: screen = world*zoom + pan.
func WorldToScreen(p, pan Point, zoom float64) Point {
	return Point{X: p.X*zoom + pan.X, Y: p.Y*zoom + pan.Y}
}

// Clamp limits v to the inclusive range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
