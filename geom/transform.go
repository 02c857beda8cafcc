package geom

import "math"

// axisEpsilon is the magnitude below which a 2D matrix entry is treated as
// zero when classifying axis alignment.
const axisEpsilon = 1e-4

// Transform3D is a 4x4 matrix using the row-vector convention: a point p is
// transformed as p * M, so the translation lives in M41..M43.
type Transform3D struct {
	M11, M12, M13, M14 float32
	M21, M22, M23, M24 float32
	M31, M32, M33, M34 float32
	M41, M42, M43, M44 float32
}

// Identity returns the identity transform.
func Identity() Transform3D {
	return Transform3D{M11: 1, M22: 1, M33: 1, M44: 1}
}

// Translation returns a transform that translates by (x, y, z).
func Translation(x, y, z float32) Transform3D {
	t := Identity()
	t.M41, t.M42, t.M43 = x, y, z
	return t
}

// ScaleTransform returns a transform that scales by (x, y, z).
func ScaleTransform(x, y, z float32) Transform3D {
	return Transform3D{M11: x, M22: y, M33: z, M44: 1}
}

// RotationZ returns a rotation of angle radians in the XY plane.
func RotationZ(angle float64) Transform3D {
	s, c := math.Sincos(angle)
	t := Identity()
	t.M11, t.M12 = float32(c), float32(s)
	t.M21, t.M22 = float32(-s), float32(c)
	return t
}

// RotationY returns a rotation of angle radians around the Y axis.
func RotationY(angle float64) Transform3D {
	s, c := math.Sincos(angle)
	t := Identity()
	t.M11, t.M13 = float32(c), float32(-s)
	t.M31, t.M33 = float32(s), float32(c)
	return t
}

// Perspective returns a perspective projection with the eye at distance d.
func Perspective(d float32) Transform3D {
	t := Identity()
	t.M34 = -1 / d
	return t
}

// Then returns the transform that applies t first and o second.
func (t Transform3D) Then(o Transform3D) Transform3D {
	a := t.rows()
	b := o.rows()
	var r [4][4]float32
	for i := range 4 {
		for j := range 4 {
			r[i][j] = a[i][0]*b[0][j] + a[i][1]*b[1][j] + a[i][2]*b[2][j] + a[i][3]*b[3][j]
		}
	}
	return fromRows(r)
}

func (t Transform3D) rows() [4][4]float32 {
	return [4][4]float32{
		{t.M11, t.M12, t.M13, t.M14},
		{t.M21, t.M22, t.M23, t.M24},
		{t.M31, t.M32, t.M33, t.M34},
		{t.M41, t.M42, t.M43, t.M44},
	}
}

func fromRows(r [4][4]float32) Transform3D {
	return Transform3D{
		M11: r[0][0], M12: r[0][1], M13: r[0][2], M14: r[0][3],
		M21: r[1][0], M22: r[1][1], M23: r[1][2], M24: r[1][3],
		M31: r[2][0], M32: r[2][1], M33: r[2][2], M34: r[2][3],
		M41: r[3][0], M42: r[3][1], M43: r[3][2], M44: r[3][3],
	}
}

// HasPerspectiveComponent reports whether the projective column differs
// from (0, 0, 0, 1).
func (t Transform3D) HasPerspectiveComponent() bool {
	return t.M14 != 0 || t.M24 != 0 || t.M34 != 0 || t.M44 != 1
}

// Preserves2DAxisAlignment reports whether axis-aligned rectangles in the
// XY plane stay axis-aligned after the transform.
func (t Transform3D) Preserves2DAxisAlignment() bool {
	if t.M14 != 0 || t.M24 != 0 {
		return false
	}
	nonZero := func(v float32) int {
		if math.Abs(float64(v)) > axisEpsilon {
			return 1
		}
		return 0
	}
	c11, c12 := nonZero(t.M11), nonZero(t.M12)
	c21, c22 := nonZero(t.M21), nonZero(t.M22)
	return c11+c12 < 2 && c21+c22 < 2 && c11+c21 < 2 && c12+c22 < 2
}

// HomogeneousVector is a transformed point before the perspective divide.
type HomogeneousVector struct {
	X, Y, Z, W float32
}

// ToPoint2D performs the perspective divide. ok is false when W is not
// positive, that is when the point lies behind the viewer.
func (h HomogeneousVector) ToPoint2D() (Point, bool) {
	if h.W <= 0 {
		return Point{}, false
	}
	return Point{X: h.X / h.W, Y: h.Y / h.W}, true
}

// TransformPoint2DHomogeneous transforms the point (p.X, p.Y, 0, 1).
func (t Transform3D) TransformPoint2DHomogeneous(p Point) HomogeneousVector {
	return HomogeneousVector{
		X: p.X*t.M11 + p.Y*t.M21 + t.M41,
		Y: p.X*t.M12 + p.Y*t.M22 + t.M42,
		Z: p.X*t.M13 + p.Y*t.M23 + t.M43,
		W: p.X*t.M14 + p.Y*t.M24 + t.M44,
	}
}

// TransformKind classifies how a transform maps rectangles.
type TransformKind uint8

const (
	// TransformAxisAligned maps axis-aligned rectangles to axis-aligned
	// rectangles.
	TransformAxisAligned TransformKind = iota
	// TransformComplex rotates, skews or projects.
	TransformComplex
)

// String returns the name of the kind.
func (k TransformKind) String() string {
	switch k {
	case TransformAxisAligned:
		return "AxisAligned"
	case TransformComplex:
		return "Complex"
	default:
		return "Unknown"
	}
}

// FastTransform is a transform with a fast path for pure 2D offsets, which
// make up the vast majority of transforms in a scene.
type FastTransform struct {
	offset   Vector
	matrix   Transform3D
	isOffset bool
}

// OffsetTransform returns a FastTransform that translates by v.
func OffsetTransform(v Vector) FastTransform {
	return FastTransform{offset: v, isOffset: true}
}

// IdentityTransform returns the identity FastTransform.
func IdentityTransform() FastTransform {
	return OffsetTransform(Vector{})
}

// MatrixTransform returns a FastTransform for m. A matrix that is a pure 2D
// translation is stored as an offset.
func MatrixTransform(m Transform3D) FastTransform {
	if m.isOffset2D() {
		return OffsetTransform(Vector{X: m.M41, Y: m.M42})
	}
	return FastTransform{matrix: m}
}

func (t Transform3D) isOffset2D() bool {
	return t.M11 == 1 && t.M12 == 0 && t.M13 == 0 && t.M14 == 0 &&
		t.M21 == 0 && t.M22 == 1 && t.M23 == 0 && t.M24 == 0 &&
		t.M31 == 0 && t.M32 == 0 && t.M33 == 1 && t.M34 == 0 &&
		t.M43 == 0 && t.M44 == 1
}

// Offset returns the translation when f is a pure offset.
func (f FastTransform) Offset() (Vector, bool) {
	return f.offset, f.isOffset
}

// Matrix returns f as a full 4x4 matrix.
func (f FastTransform) Matrix() Transform3D {
	if f.isOffset {
		return Translation(f.offset.X, f.offset.Y, 0)
	}
	return f.matrix
}

// Kind classifies f.
func (f FastTransform) Kind() TransformKind {
	if f.isOffset || f.matrix.Preserves2DAxisAlignment() {
		return TransformAxisAligned
	}
	return TransformComplex
}

// HasPerspectiveComponent reports whether f applies a projection.
func (f FastTransform) HasPerspectiveComponent() bool {
	return !f.isOffset && f.matrix.HasPerspectiveComponent()
}

// Then returns the transform that applies f first and o second.
func (f FastTransform) Then(o FastTransform) FastTransform {
	if f.isOffset && o.isOffset {
		return OffsetTransform(Vector{X: f.offset.X + o.offset.X, Y: f.offset.Y + o.offset.Y})
	}
	return MatrixTransform(f.Matrix().Then(o.Matrix()))
}

// TransformPoint2DHomogeneous transforms p without the perspective divide.
func (f FastTransform) TransformPoint2DHomogeneous(p Point) HomogeneousVector {
	if f.isOffset {
		q := p.Add(f.offset)
		return HomogeneousVector{X: q.X, Y: q.Y, W: 1}
	}
	return f.matrix.TransformPoint2DHomogeneous(p)
}

// TransformRect returns the bounding box of the transformed corners of r.
// ok is false when a corner lands behind the viewer.
func (f FastTransform) TransformRect(r Rect) (Rect, bool) {
	if f.isOffset {
		return r.Translate(f.offset), true
	}
	corners := [4]Point{r.Origin, r.TopRight(), r.BottomLeft(), r.BottomRight()}
	var lo, hi Point
	for i, c := range corners {
		p, ok := f.matrix.TransformPoint2DHomogeneous(c).ToPoint2D()
		if !ok {
			return Rect{}, false
		}
		if i == 0 {
			lo, hi = p, p
			continue
		}
		lo = Point{X: min(lo.X, p.X), Y: min(lo.Y, p.Y)}
		hi = Point{X: max(hi.X, p.X), Y: max(hi.Y, p.Y)}
	}
	return RectFromPoints(lo, hi), true
}
