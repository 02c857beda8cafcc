package geom

import "math"

// BorderRadius holds the elliptical radii of the four corners of a rounded
// rectangle.
type BorderRadius struct {
	TopLeft     Size
	TopRight    Size
	BottomLeft  Size
	BottomRight Size
}

// UniformRadius returns a BorderRadius with all four corners set to r.
func UniformRadius(r float32) BorderRadius {
	s := Size{Width: r, Height: r}
	return BorderRadius{TopLeft: s, TopRight: s, BottomLeft: s, BottomRight: s}
}

// UniformSize returns a BorderRadius with all four corners set to s.
func UniformSize(s Size) BorderRadius {
	return BorderRadius{TopLeft: s, TopRight: s, BottomLeft: s, BottomRight: s}
}

// IsZero reports whether every corner has a zero radius.
func (b BorderRadius) IsZero() bool {
	return b.TopLeft.IsZero() && b.TopRight.IsZero() && b.BottomLeft.IsZero() && b.BottomRight.IsZero()
}

// Scale returns b with every radius multiplied by f.
func (b BorderRadius) Scale(f float32) BorderRadius {
	return BorderRadius{
		TopLeft:     b.TopLeft.Scale(f),
		TopRight:    b.TopRight.Scale(f),
		BottomLeft:  b.BottomLeft.Scale(f),
		BottomRight: b.BottomRight.Scale(f),
	}
}

// MaxCorner returns the largest corner width and the largest corner height.
func (b BorderRadius) MaxCorner() Size {
	return Size{
		Width:  max(b.TopLeft.Width, b.TopRight.Width, b.BottomLeft.Width, b.BottomRight.Width),
		Height: max(b.TopLeft.Height, b.TopRight.Height, b.BottomLeft.Height, b.BottomRight.Height),
	}
}

// EnsureNoCornerOverlap scales the radii down uniformly so that adjacent
// corners never overlap along any edge of size.
func EnsureNoCornerOverlap(b BorderRadius, size Size) BorderRadius {
	ratio := float32(1)
	shrink := func(sum, available float32) {
		if sum > available && sum > 0 {
			ratio = min(ratio, available/sum)
		}
	}
	shrink(b.TopLeft.Width+b.TopRight.Width, size.Width)
	shrink(b.BottomLeft.Width+b.BottomRight.Width, size.Width)
	shrink(b.TopLeft.Height+b.BottomLeft.Height, size.Height)
	shrink(b.TopRight.Height+b.BottomRight.Height, size.Height)

	if ratio < 1 {
		return b.Scale(ratio)
	}
	return b
}

// ExtractInnerRectSafe returns the largest axis-aligned rectangle that is
// guaranteed to lie inside the rounded rectangle (rect, radii). The edges
// are snapped inwards to whole units relative to the rectangle origin. ok is
// false when the corners leave no such rectangle.
func ExtractInnerRectSafe(rect Rect, radii BorderRadius) (Rect, bool) {
	xl := ceil32(max(radii.TopLeft.Width, radii.BottomLeft.Width))
	xr := floor32(rect.Size.Width - max(radii.TopRight.Width, radii.BottomRight.Width))
	yt := ceil32(max(radii.TopLeft.Height, radii.TopRight.Height))
	yb := floor32(rect.Size.Height - max(radii.BottomLeft.Height, radii.BottomRight.Height))

	if xl > xr || yt > yb {
		return Rect{}, false
	}
	return NewRect(rect.MinX()+xl, rect.MinY()+yt, xr-xl, yb-yt), true
}

// Ellipse is an axis-aligned ellipse centered at the origin.
type Ellipse struct {
	Radius Size
}

// Contains reports whether p lies inside or on the ellipse. A degenerate
// ellipse contains only points on its collapsed axis.
func (e Ellipse) Contains(p Point) bool {
	rx, ry := float64(e.Radius.Width), float64(e.Radius.Height)
	x, y := float64(p.X), float64(p.Y)
	switch {
	case rx <= 0 && ry <= 0:
		return x == 0 && y == 0
	case rx <= 0:
		return x == 0 && math.Abs(y) <= ry
	case ry <= 0:
		return y == 0 && math.Abs(x) <= rx
	}
	nx, ny := x/rx, y/ry
	return nx*nx+ny*ny <= 1
}

// RoundedRectContainsPoint reports whether p lies inside the rectangle rect
// with corners rounded by radii. Points outside rect are never contained.
// Inside rect, a point in a corner quadrant must also lie inside that
// corner's ellipse.
func RoundedRectContainsPoint(p Point, rect Rect, radii BorderRadius) bool {
	if !rect.Contains(p) {
		return false
	}

	tl := rect.Origin.Add(radii.TopLeft.ToVector())
	if tl.X > p.X && tl.Y > p.Y && !(Ellipse{radii.TopLeft}).Contains(Point(p.Sub(tl))) {
		return false
	}

	br := rect.BottomRight().Add(radii.BottomRight.ToVector().Neg())
	if br.X < p.X && br.Y < p.Y && !(Ellipse{radii.BottomRight}).Contains(Point(p.Sub(br))) {
		return false
	}

	tr := rect.TopRight().Add(Vector{X: -radii.TopRight.Width, Y: radii.TopRight.Height})
	if tr.X < p.X && tr.Y > p.Y && !(Ellipse{radii.TopRight}).Contains(Point(p.Sub(tr))) {
		return false
	}

	bl := rect.BottomLeft().Add(Vector{X: radii.BottomLeft.Width, Y: -radii.BottomLeft.Height})
	if bl.X > p.X && bl.Y < p.Y && !(Ellipse{radii.BottomLeft}).Contains(Point(p.Sub(bl))) {
		return false
	}

	return true
}

func ceil32(v float32) float32  { return float32(math.Ceil(float64(v))) }
func floor32(v float32) float32 { return float32(math.Floor(float64(v))) }
