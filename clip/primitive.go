// Package clip computes the clip regions of a scene: clip primitives, the
// per-node collections of primitives (Sources), the arena that owns them
// (Store) and the persistent, pruned clip chains the renderer walks when
// applying masks.
//
// Geometry is total: empty rectangles and empty intersections are ordinary
// values. Bounds that cannot be computed are reported through an explicit
// ok flag, never through a sentinel rectangle.
package clip

import (
	"fmt"

	"github.com/gogpu/clipchain/geom"
	"github.com/gogpu/clipchain/gpucache"
	"github.com/gogpu/clipchain/resource"
)

// Mode selects whether a primitive keeps what is inside or outside its
// shape.
type Mode uint8

const (
	// ModeClip keeps the area inside the shape.
	ModeClip Mode = iota
	// ModeClipOut keeps the area outside the shape.
	ModeClipOut
)

// String returns the name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeClip:
		return "Clip"
	case ModeClipOut:
		return "ClipOut"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Kind identifies the variant of a Primitive.
type Kind uint8

const (
	KindRectangle Kind = iota
	KindRoundedRectangle
	KindImageMask
	KindBoxShadow
	KindLineDecoration
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindRectangle:
		return "Rectangle"
	case KindRoundedRectangle:
		return "RoundedRectangle"
	case KindImageMask:
		return "ImageMask"
	case KindBoxShadow:
		return "BoxShadow"
	case KindLineDecoration:
		return "LineDecoration"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Primitive is one atomic mask shape. The set of implementations is closed:
// Rectangle, RoundedRectangle, ImageMask, *BoxShadow and LineDecoration.
// Every variant implements bounds accumulation, GPU block serialization and
// per-frame derived work.
type Primitive interface {
	Kind() Kind

	accumulate(acc *boundsAccumulator)
	writeBlocks(req *gpucache.Request)
	prepare(ctx *updateContext)
}

// Rectangle is an axis-aligned rectangular clip.
type Rectangle struct {
	Rect geom.Rect
	Mode Mode
}

// NewRectangle creates a rectangular clip.
func NewRectangle(rect geom.Rect, mode Mode) Rectangle {
	return Rectangle{Rect: rect, Mode: mode}
}

func (Rectangle) Kind() Kind { return KindRectangle }

// RoundedRectangle is a rectangle with elliptical corners. Its radii never
// overlap along an edge.
type RoundedRectangle struct {
	Rect  geom.Rect
	Radii geom.BorderRadius
	Mode  Mode
}

// NewRoundedRectangle creates a rounded-rectangle clip. Radii are scaled
// down so that adjacent corners do not overlap; all-zero radii produce a
// plain Rectangle.
func NewRoundedRectangle(rect geom.Rect, radii geom.BorderRadius, mode Mode) Primitive {
	if radii.IsZero() {
		return Rectangle{Rect: rect, Mode: mode}
	}
	return RoundedRectangle{
		Rect:  rect,
		Radii: geom.EnsureNoCornerOverlap(radii, rect.Size),
		Mode:  mode,
	}
}

func (RoundedRectangle) Kind() Kind { return KindRoundedRectangle }

// ImageMask clips by the alpha channel of an image stretched over Rect.
// A repeating mask tiles the image and so never bounds the clip.
type ImageMask struct {
	Rect   geom.Rect
	Image  resource.ImageKey
	Repeat bool
}

// NewImageMask creates an image-mask clip.
func NewImageMask(rect geom.Rect, image resource.ImageKey, repeat bool) ImageMask {
	return ImageMask{Rect: rect, Image: image, Repeat: repeat}
}

func (ImageMask) Kind() Kind { return KindImageMask }

// LineStyle is the dash pattern of a line decoration.
type LineStyle uint8

const (
	LineStyleSolid LineStyle = iota
	LineStyleDotted
	LineStyleDashed
	LineStyleWavy
)

// LineOrientation is the direction of a line decoration.
type LineOrientation uint8

const (
	LineOrientationVertical LineOrientation = iota
	LineOrientationHorizontal
)

// LineDecoration masks the pattern of an underline, overline or
// strike-through.
type LineDecoration struct {
	Rect              geom.Rect
	Style             LineStyle
	Orientation       LineOrientation
	WavyLineThickness float32
}

// NewLineDecoration creates a line-decoration clip.
func NewLineDecoration(rect geom.Rect, style LineStyle, orientation LineOrientation, wavyLineThickness float32) LineDecoration {
	return LineDecoration{
		Rect:              rect,
		Style:             style,
		Orientation:       orientation,
		WavyLineThickness: wavyLineThickness,
	}
}

func (LineDecoration) Kind() Kind { return KindLineDecoration }

// IsRect reports whether p is a plain Rectangle.
func IsRect(p Primitive) bool {
	return p.Kind() == KindRectangle
}

// IsImageOrLineDecoration reports whether p is an image mask or a line
// decoration.
func IsImageOrLineDecoration(p Primitive) bool {
	k := p.Kind()
	return k == KindImageMask || k == KindLineDecoration
}

// Offset returns a copy of p translated by v in local space. Only line
// decorations can be translated; any other kind panics.
func Offset(p Primitive, v geom.Vector) Primitive {
	if ld, ok := p.(LineDecoration); ok {
		ld.Rect = ld.Rect.Translate(v)
		return ld
	}
	panic(fmt.Sprintf("clip: bug: Offset not supported for %v primitives", p.Kind()))
}
