package clip

import (
	"structs"
	"unsafe"

	"github.com/gogpu/clipchain/geom"
	"github.com/gogpu/clipchain/gpucache"
	"honnef.co/go/safeish"
)

// The layouts below are read by the clip-mask shaders and must keep their
// size and field order.

// ClipRect is the bounding rectangle of a rectangle or rounded-rectangle
// clip: the rect block, then {mode, 0, 0, 0}.
type ClipRect struct {
	_    structs.HostLayout
	Rect geom.Rect
	Mode float32
	_    [3]float32
}

// ClipCorner is one corner of a rounded-rectangle clip: the rectangle
// covered by the corner, then {outer rx, outer ry, inner rx, inner ry}.
type ClipCorner struct {
	_            structs.HostLayout
	Rect         geom.Rect
	OuterRadiusX float32
	OuterRadiusY float32
	InnerRadiusX float32
	InnerRadiusY float32
}

func uniformCorner(x, y, r float32) ClipCorner {
	return ClipCorner{Rect: geom.NewRect(x, y, r, r), OuterRadiusX: r, OuterRadiusY: r}
}

func corner(x, y float32, radius geom.Size) ClipCorner {
	return ClipCorner{
		Rect:         geom.NewRect(x, y, radius.Width, radius.Height),
		OuterRadiusX: radius.Width,
		OuterRadiusY: radius.Height,
	}
}

// ClipData is the shader input for rectangle and rounded-rectangle clips.
// Corners are stored top-left, top-right, bottom-left, bottom-right.
type ClipData struct {
	_           structs.HostLayout
	Rect        ClipRect
	TopLeft     ClipCorner
	TopRight    ClipCorner
	BottomLeft  ClipCorner
	BottomRight ClipCorner
}

// UniformClipData describes rect with every corner rounded by radius.
func UniformClipData(rect geom.Rect, radius float32, mode Mode) ClipData {
	return ClipData{
		Rect:        ClipRect{Rect: rect, Mode: float32(mode)},
		TopLeft:     uniformCorner(rect.MinX(), rect.MinY(), radius),
		TopRight:    uniformCorner(rect.MaxX()-radius, rect.MinY(), radius),
		BottomLeft:  uniformCorner(rect.MinX(), rect.MaxY()-radius, radius),
		BottomRight: uniformCorner(rect.MaxX()-radius, rect.MaxY()-radius, radius),
	}
}

// RoundedRectClipData describes rect with per-corner radii.
func RoundedRectClipData(rect geom.Rect, radii geom.BorderRadius, mode Mode) ClipData {
	return ClipData{
		Rect:       ClipRect{Rect: rect, Mode: float32(mode)},
		TopLeft:    corner(rect.MinX(), rect.MinY(), radii.TopLeft),
		TopRight:   corner(rect.MaxX()-radii.TopRight.Width, rect.MinY(), radii.TopRight),
		BottomLeft: corner(rect.MinX(), rect.MaxY()-radii.BottomLeft.Height, radii.BottomLeft),
		BottomRight: corner(
			rect.MaxX()-radii.BottomRight.Width,
			rect.MaxY()-radii.BottomRight.Height,
			radii.BottomRight,
		),
	}
}

// ImageMaskData is the shader input for an image-mask clip.
type ImageMaskData struct {
	_         structs.HostLayout
	LocalRect geom.Rect
}

// BoxShadowData is the shader input for a box-shadow clip.
type BoxShadowData struct {
	_              structs.HostLayout
	AllocSize      geom.Size
	ClipMode       float32
	_              float32
	StretchModeX   float32
	StretchModeY   float32
	_              [2]float32
	PrimShadowRect geom.Rect
}

// LineDecorationData is the shader input for a line-decoration clip. Style
// and orientation are packed with PackAsFloat.
type LineDecorationData struct {
	_                 structs.HostLayout
	LocalRect         geom.Rect
	WavyLineThickness float32
	Style             float32
	Orientation       float32
	_                 float32
}

var (
	_ [2 * gpucache.BlockSize]byte  = [unsafe.Sizeof(ClipRect{})]byte{}
	_ [2 * gpucache.BlockSize]byte  = [unsafe.Sizeof(ClipCorner{})]byte{}
	_ [10 * gpucache.BlockSize]byte = [unsafe.Sizeof(ClipData{})]byte{}
	_ [1 * gpucache.BlockSize]byte  = [unsafe.Sizeof(ImageMaskData{})]byte{}
	_ [3 * gpucache.BlockSize]byte  = [unsafe.Sizeof(BoxShadowData{})]byte{}
	_ [2 * gpucache.BlockSize]byte  = [unsafe.Sizeof(LineDecorationData{})]byte{}
)

// PackAsFloat encodes a small enum value as a float that survives
// truncation back to an integer in the shader.
func PackAsFloat(v uint32) float32 {
	return float32(v) + 0.5
}

// blocksOf reinterprets a fixed GPU layout as cache blocks.
func blocksOf[T any](v *T) []gpucache.Block {
	return safeish.SliceCast[[]gpucache.Block](safeish.AsBytes(v))
}

// Write pushes d into req.
func (d *ClipData) Write(req *gpucache.Request) {
	req.PushBlocks(blocksOf(d)...)
}
