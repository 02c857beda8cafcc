// Package geom provides the layout-space and device-space geometry used by
// the clip core: points, sizes, rectangles, border radii and transforms.
//
// Layout rectangles use float32 coordinates so that they can be pushed into
// GPU blocks unchanged. Device rectangles use int32 pixel coordinates.
// Empty rectangles are ordinary values; operations that can produce "no
// result" return a (value, ok) pair instead of a sentinel.
package geom

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// scalar is the coordinate type of a rectangle.
type scalar interface {
	constraints.Integer | constraints.Float
}

// intersectSpan intersects [a0, a1) and [b0, b1). ok is false when the
// result is empty.
func intersectSpan[T scalar](a0, a1, b0, b1 T) (lo, hi T, ok bool) {
	lo = max(a0, b0)
	hi = min(a1, b1)
	return lo, hi, lo < hi
}

// containsSpan reports whether [inner0, inner1) lies within [outer0, outer1).
func containsSpan[T scalar](outer0, outer1, inner0, inner1 T) bool {
	return outer0 <= inner0 && inner1 <= outer1
}

// Point is a position in layout space.
type Point struct {
	X, Y float32
}

// Pt creates a Point.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by v.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vector {
	return Vector{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p with both coordinates multiplied by s.
func (p Point) Scale(s float32) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Vector is a displacement in layout space.
type Vector struct {
	X, Y float32
}

// Vec creates a Vector.
func Vec(x, y float32) Vector {
	return Vector{X: x, Y: y}
}

// Neg returns -v.
func (v Vector) Neg() Vector {
	return Vector{X: -v.X, Y: -v.Y}
}

// Size is a width and height in layout space.
type Size struct {
	Width, Height float32
}

// Sz creates a Size.
func Sz(w, h float32) Size {
	return Size{Width: w, Height: h}
}

// ToVector returns the size as a vector from the origin.
func (s Size) ToVector() Vector {
	return Vector{X: s.Width, Y: s.Height}
}

// Scale returns s with both dimensions multiplied by f.
func (s Size) Scale(f float32) Size {
	return Size{Width: s.Width * f, Height: s.Height * f}
}

// IsZero reports whether both dimensions are zero.
func (s Size) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}

// Round rounds both dimensions to the nearest integer.
func (s Size) Round() DeviceIntSize {
	return DeviceIntSize{
		Width:  int32(math.Round(float64(s.Width))),
		Height: int32(math.Round(float64(s.Height))),
	}
}

// Rect is an axis-aligned rectangle in layout space, stored as origin and
// size. A rectangle with a non-positive width or height is empty.
type Rect struct {
	Origin Point
	Size   Size
}

// NewRect creates a Rect from position and size.
func NewRect(x, y, w, h float32) Rect {
	return Rect{Origin: Point{X: x, Y: y}, Size: Size{Width: w, Height: h}}
}

// RectFromPoints creates the rectangle spanning min to max.
func RectFromPoints(minPt, maxPt Point) Rect {
	return Rect{Origin: minPt, Size: Size{Width: maxPt.X - minPt.X, Height: maxPt.Y - minPt.Y}}
}

// MaxRect returns the largest rectangle whose edges can still be computed
// without overflowing float32.
func MaxRect() Rect {
	return Rect{
		Origin: Point{X: -math.MaxFloat32 / 2, Y: -math.MaxFloat32 / 2},
		Size:   Size{Width: math.MaxFloat32, Height: math.MaxFloat32},
	}
}

func (r Rect) MinX() float32 { return r.Origin.X }
func (r Rect) MinY() float32 { return r.Origin.Y }
func (r Rect) MaxX() float32 { return r.Origin.X + r.Size.Width }
func (r Rect) MaxY() float32 { return r.Origin.Y + r.Size.Height }

// TopRight returns the top-right corner.
func (r Rect) TopRight() Point { return Point{X: r.MaxX(), Y: r.MinY()} }

// BottomLeft returns the bottom-left corner.
func (r Rect) BottomLeft() Point { return Point{X: r.MinX(), Y: r.MaxY()} }

// BottomRight returns the bottom-right corner.
func (r Rect) BottomRight() Point { return Point{X: r.MaxX(), Y: r.MaxY()} }

// Center returns the center point.
func (r Rect) Center() Point {
	return Point{X: r.Origin.X + r.Size.Width/2, Y: r.Origin.Y + r.Size.Height/2}
}

// IsEmpty reports whether the rectangle has zero area.
func (r Rect) IsEmpty() bool {
	return r.Size.Width <= 0 || r.Size.Height <= 0
}

// Area returns width times height, or 0 for empty rectangles.
func (r Rect) Area() float32 {
	if r.IsEmpty() {
		return 0
	}
	return r.Size.Width * r.Size.Height
}

// Contains reports whether p lies inside r. The minimum edges are inclusive
// and the maximum edges exclusive.
func (r Rect) Contains(p Point) bool {
	return r.MinX() <= p.X && p.X < r.MaxX() && r.MinY() <= p.Y && p.Y < r.MaxY()
}

// ContainsRect reports whether o lies entirely within r. An empty o is
// contained by every rectangle.
func (r Rect) ContainsRect(o Rect) bool {
	if o.IsEmpty() {
		return true
	}
	return containsSpan(r.MinX(), r.MaxX(), o.MinX(), o.MaxX()) &&
		containsSpan(r.MinY(), r.MaxY(), o.MinY(), o.MaxY())
}

// Intersection returns the overlap of r and o. ok is false when they do not
// overlap with a positive area.
func (r Rect) Intersection(o Rect) (Rect, bool) {
	x0, x1, okX := intersectSpan(r.MinX(), r.MaxX(), o.MinX(), o.MaxX())
	y0, y1, okY := intersectSpan(r.MinY(), r.MaxY(), o.MinY(), o.MaxY())
	if !okX || !okY {
		return Rect{}, false
	}
	return NewRect(x0, y0, x1-x0, y1-y0), true
}

// Union returns the smallest rectangle containing r and o. Empty operands
// are ignored.
func (r Rect) Union(o Rect) Rect {
	switch {
	case r.IsEmpty():
		return o
	case o.IsEmpty():
		return r
	}
	minPt := Point{X: min(r.MinX(), o.MinX()), Y: min(r.MinY(), o.MinY())}
	maxPt := Point{X: max(r.MaxX(), o.MaxX()), Y: max(r.MaxY(), o.MaxY())}
	return RectFromPoints(minPt, maxPt)
}

// Translate returns r moved by v.
func (r Rect) Translate(v Vector) Rect {
	return Rect{Origin: r.Origin.Add(v), Size: r.Size}
}

// Scale returns r with origin and size multiplied by s.
func (r Rect) Scale(s float32) Rect {
	return Rect{Origin: r.Origin.Scale(s), Size: r.Size.Scale(s)}
}

// RoundOut returns the smallest rectangle with integral edges that contains r.
func (r Rect) RoundOut() Rect {
	x0 := float32(math.Floor(float64(r.MinX())))
	y0 := float32(math.Floor(float64(r.MinY())))
	x1 := float32(math.Ceil(float64(r.MaxX())))
	y1 := float32(math.Ceil(float64(r.MaxY())))
	return NewRect(x0, y0, x1-x0, y1-y0)
}

// RoundIn returns the largest rectangle with integral edges contained in r.
// A rectangle narrower than one unit rounds to an empty one.
func (r Rect) RoundIn() Rect {
	x0 := float32(math.Ceil(float64(r.MinX())))
	y0 := float32(math.Ceil(float64(r.MinY())))
	x1 := float32(math.Floor(float64(r.MaxX())))
	y1 := float32(math.Floor(float64(r.MaxY())))
	return NewRect(x0, y0, max(x1-x0, 0), max(y1-y0, 0))
}

// String returns a human-readable representation of the rectangle.
func (r Rect) String() string {
	return fmt.Sprintf("Rect(%g,%g %gx%g)", r.Origin.X, r.Origin.Y, r.Size.Width, r.Size.Height)
}

// DeviceIntPoint is a pixel position in device space.
type DeviceIntPoint struct {
	X, Y int32
}

// DeviceIntSize is a pixel size in device space.
type DeviceIntSize struct {
	Width, Height int32
}

// DeviceIntRect is an axis-aligned pixel rectangle in device space.
type DeviceIntRect struct {
	Origin DeviceIntPoint
	Size   DeviceIntSize
}

// NewDeviceIntRect creates a DeviceIntRect from position and size.
func NewDeviceIntRect(x, y, w, h int32) DeviceIntRect {
	return DeviceIntRect{Origin: DeviceIntPoint{X: x, Y: y}, Size: DeviceIntSize{Width: w, Height: h}}
}

// MaxDeviceIntRect returns the largest device rectangle whose edges do not
// overflow int32.
func MaxDeviceIntRect() DeviceIntRect {
	return DeviceIntRect{
		Origin: DeviceIntPoint{X: math.MinInt32 / 2, Y: math.MinInt32 / 2},
		Size:   DeviceIntSize{Width: math.MaxInt32, Height: math.MaxInt32},
	}
}

func (r DeviceIntRect) MinX() int32 { return r.Origin.X }
func (r DeviceIntRect) MinY() int32 { return r.Origin.Y }
func (r DeviceIntRect) MaxX() int32 { return r.Origin.X + r.Size.Width }
func (r DeviceIntRect) MaxY() int32 { return r.Origin.Y + r.Size.Height }

// IsEmpty reports whether the rectangle covers no pixels.
func (r DeviceIntRect) IsEmpty() bool {
	return r.Size.Width <= 0 || r.Size.Height <= 0
}

// ContainsRect reports whether o lies entirely within r. An empty o is
// contained by every rectangle.
func (r DeviceIntRect) ContainsRect(o DeviceIntRect) bool {
	if o.IsEmpty() {
		return true
	}
	return containsSpan(r.MinX(), r.MaxX(), o.MinX(), o.MaxX()) &&
		containsSpan(r.MinY(), r.MaxY(), o.MinY(), o.MaxY())
}

// Intersection returns the overlap of r and o. ok is false when they do not
// overlap with a positive area.
func (r DeviceIntRect) Intersection(o DeviceIntRect) (DeviceIntRect, bool) {
	x0, x1, okX := intersectSpan(r.MinX(), r.MaxX(), o.MinX(), o.MaxX())
	y0, y1, okY := intersectSpan(r.MinY(), r.MaxY(), o.MinY(), o.MaxY())
	if !okX || !okY {
		return DeviceIntRect{}, false
	}
	return NewDeviceIntRect(x0, y0, x1-x0, y1-y0), true
}

// IntersectOrZero is Intersection with an empty result collapsed to the zero
// rectangle.
func (r DeviceIntRect) IntersectOrZero(o DeviceIntRect) DeviceIntRect {
	res, _ := r.Intersection(o)
	return res
}

// ToRect converts r to a float rectangle.
func (r DeviceIntRect) ToRect() Rect {
	return NewRect(float32(r.Origin.X), float32(r.Origin.Y), float32(r.Size.Width), float32(r.Size.Height))
}

// String returns a human-readable representation of the rectangle.
func (r DeviceIntRect) String() string {
	return fmt.Sprintf("DeviceIntRect(%d,%d %dx%d)", r.Origin.X, r.Origin.Y, r.Size.Width, r.Size.Height)
}

// DevicePixelScale is the number of device pixels per layout unit.
type DevicePixelScale float32

// ToCacheSize converts a device-space size into the integral size of a
// render-task cache entry. Both dimensions are at least one pixel.
func ToCacheSize(s Size) DeviceIntSize {
	return DeviceIntSize{
		Width:  max(1, int32(math.Ceil(float64(s.Width)))),
		Height: max(1, int32(math.Ceil(float64(s.Height)))),
	}
}

// clampToInt32 converts v to int32, saturating at the range used by
// MaxDeviceIntRect.
func clampToInt32(v float32) int32 {
	const lo, hi = math.MinInt32 / 2, math.MaxInt32 / 2
	switch {
	case math.IsNaN(float64(v)):
		return 0
	case v <= lo:
		return lo
	case v >= hi:
		return hi
	}
	return int32(v)
}
