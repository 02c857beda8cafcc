package geom

import "honnef.co/go/curve"

// PointFromCurve converts a curve point to a layout point.
func PointFromCurve(p curve.Point) Point {
	return Point{X: float32(p.X), Y: float32(p.Y)}
}

// VectorFromCurve converts a curve vector to a layout vector.
func VectorFromCurve(v curve.Vec2) Vector {
	return Vector{X: float32(v.X), Y: float32(v.Y)}
}

// TransformFromAffine converts a 2D affine transform to a FastTransform.
// Pure translations take the offset fast path.
func TransformFromAffine(a curve.Affine) FastTransform {
	c := a.Coefficients()
	m := Identity()
	m.M11, m.M12 = float32(c[0]), float32(c[1])
	m.M21, m.M22 = float32(c[2]), float32(c[3])
	m.M41, m.M42 = float32(c[4]), float32(c[5])
	return MatrixTransform(m)
}
