// Package geometry holds the value types used to lay out views.
package geometry

import "math"

// epsilon is the tolerance for floating-point comparisons.
const epsilon = 0.0001

// Size represents width and height dimensions in points.
type Size struct {
	Width  float64
	Height float64
}

// Rect represents a rectangle using left, top, right, bottom coordinates.
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// RectFromLTWH constructs a Rect from left, top, width, height values.
func RectFromLTWH(left, top, width, height float64) Rect {
	return Rect{
		Left:   left,
		Top:    top,
		Right:  left + width,
		Bottom: top + height,
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Size returns the size of the rectangle.
func (r Rect) Size() Size {
	return Size{Width: r.Width(), Height: r.Height()}
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Equal reports whether r and other match within floating-point tolerance.
func (r Rect) Equal(other Rect) bool {
	return floatEqual(r.Left, other.Left) &&
		floatEqual(r.Top, other.Top) &&
		floatEqual(r.Right, other.Right) &&
		floatEqual(r.Bottom, other.Bottom)
}

// EdgeInsets are per-edge offsets applied when pinning a view inside its
// superview. They follow constraint-constant conventions: Top and Left move
// the edge inward when positive, Bottom and Right move it inward when
// negative.
type EdgeInsets struct {
	Top, Left, Bottom, Right float64
}

// Padding expands a single scalar into insets that shrink a view by
// padding on every side.
func Padding(padding float64) EdgeInsets {
	return EdgeInsets{
		Top:    padding,
		Left:   padding,
		Bottom: -padding,
		Right:  -padding,
	}
}

// IsZero reports whether all insets are zero.
func (e EdgeInsets) IsZero() bool {
	return e == EdgeInsets{}
}

// Inset resolves the rectangle obtained by pinning each edge of r with e.
func (e EdgeInsets) Inset(r Rect) Rect {
	return Rect{
		Left:   r.Left + e.Left,
		Top:    r.Top + e.Top,
		Right:  r.Right + e.Right,
		Bottom: r.Bottom + e.Bottom,
	}
}

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}
