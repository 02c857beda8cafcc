package clip

import (
	"math"

	"github.com/gogpu/clipchain/geom"
	"github.com/gogpu/clipchain/gpucache"
)

// BlurSampleScale is the number of blur radii a Gaussian blur visibly
// reaches.
const BlurSampleScale = 3.0

// BoxShadowClipMode selects which side of the shadow shape is kept.
type BoxShadowClipMode uint8

const (
	BoxShadowOutset BoxShadowClipMode = iota
	BoxShadowInset
)

// BoxShadowStretchMode selects how the rasterized minimal shadow is mapped
// onto the full shadow along one axis.
type BoxShadowStretchMode uint8

const (
	// StretchModeStretch stretches the middle of the nine-patch.
	StretchModeStretch BoxShadowStretchMode = iota
	// StretchModeSimple blits the whole blurred shadow unchanged.
	StretchModeSimple
)

// BoxShadowCacheKey identifies a rasterized box-shadow mask at a given
// device scale. Two shadows with equal keys can share one render task.
type BoxShadowCacheKey struct {
	BlurRadiusDP int32
	ClipMode     BoxShadowClipMode
	RectSize     geom.DeviceIntSize
	TopLeft      geom.DeviceIntSize
	TopRight     geom.DeviceIntSize
	BottomRight  geom.DeviceIntSize
	BottomLeft   geom.DeviceIntSize
}

// BoxShadow is a blurred rounded-rectangle mask. Only a minimal nine-patch
// of the shadow is rasterized and blurred; the renderer stretches it over
// the full shadow.
type BoxShadow struct {
	AllocSize      geom.Size
	Radii          geom.BorderRadius
	PrimShadowRect geom.Rect
	BlurRadius     float32
	ClipMode       BoxShadowClipMode
	StretchModeX   BoxShadowStretchMode
	StretchModeY   BoxShadowStretchMode

	minimalShadowRect geom.Rect
	cacheKey          BoxShadowCacheKey
	cacheSize         geom.DeviceIntSize
	hasCacheKey       bool
	clipDataHandle    gpucache.Handle
}

// NewBoxShadow derives the minimal nine-patch for a shadow of shadowRect
// with the given corner radii and blur radius. primShadowRect is the
// rectangle of the primitive casting the shadow.
//
// The minimal rect holds two corners plus one blur region per axis, keeps
// the sub-pixel fraction of shadowRect, and is clamped to the shadow size
// along an axis where it would be larger; that axis is then drawn as a
// simple blit instead of a stretch. The allocation adds one blur region of
// padding on each side.
func NewBoxShadow(shadowRect geom.Rect, radii geom.BorderRadius, primShadowRect geom.Rect, blurRadius float32, clipMode BoxShadowClipMode) *BoxShadow {
	fractOffset := geom.Pt(fract(shadowRect.Origin.X), fract(shadowRect.Origin.Y))
	fractSize := geom.Sz(fract(shadowRect.Size.Width), fract(shadowRect.Size.Height))

	blurRegion := float32(math.Ceil(float64(BlurSampleScale * blurRadius)))

	maxCorner := radii.MaxCorner()
	cornerW := max(maxCorner.Width, blurRegion)
	cornerH := max(maxCorner.Height, blurRegion)

	minimal := geom.NewRect(
		blurRegion+fractOffset.X,
		blurRegion+fractOffset.Y,
		2*cornerW+blurRegion+fractSize.Width,
		2*cornerH+blurRegion+fractSize.Height,
	)

	stretchX := StretchModeStretch
	if shadowRect.Size.Width < minimal.Size.Width {
		minimal.Size.Width = shadowRect.Size.Width
		stretchX = StretchModeSimple
	}
	stretchY := StretchModeStretch
	if shadowRect.Size.Height < minimal.Size.Height {
		minimal.Size.Height = shadowRect.Size.Height
		stretchY = StretchModeSimple
	}

	return &BoxShadow{
		AllocSize: geom.Sz(
			2*blurRegion+float32(math.Ceil(float64(minimal.Size.Width))),
			2*blurRegion+float32(math.Ceil(float64(minimal.Size.Height))),
		),
		Radii:             radii,
		PrimShadowRect:    primShadowRect,
		BlurRadius:        blurRadius,
		ClipMode:          clipMode,
		StretchModeX:      stretchX,
		StretchModeY:      stretchY,
		minimalShadowRect: minimal,
	}
}

// fract returns the absolute fractional part of v.
func fract(v float32) float32 {
	_, f := math.Modf(float64(v))
	return float32(math.Abs(f))
}

func (*BoxShadow) Kind() Kind { return KindBoxShadow }

// MinimalShadowRect returns the rectangle rasterized before blurring.
func (b *BoxShadow) MinimalShadowRect() geom.Rect {
	return b.minimalShadowRect
}

// CacheKey returns the render-task cache key and size computed by the last
// Sources.Update. ok is false before the first update.
func (b *BoxShadow) CacheKey() (key BoxShadowCacheKey, size geom.DeviceIntSize, ok bool) {
	return b.cacheKey, b.cacheSize, b.hasCacheKey
}

// ClipDataHandle returns the GPU cache handle of the minimal rounded-rect
// clip data used by the blur pass.
func (b *BoxShadow) ClipDataHandle() gpucache.Handle {
	return b.clipDataHandle
}

// updateCacheKey recomputes the device-space derived fields for scale.
func (b *BoxShadow) updateCacheKey(scale geom.DevicePixelScale) {
	s := float32(scale)
	// The blur standard deviation is half the blur radius.
	blurRadiusDP := math.Round(float64(b.BlurRadius * 0.5 * s))
	alloc := b.AllocSize.Scale(s)

	b.cacheSize = geom.ToCacheSize(alloc)
	b.cacheKey = BoxShadowCacheKey{
		BlurRadiusDP: int32(blurRadiusDP),
		ClipMode:     b.ClipMode,
		RectSize:     alloc.Round(),
		TopLeft:      b.Radii.TopLeft.Scale(s).Round(),
		TopRight:     b.Radii.TopRight.Scale(s).Round(),
		BottomRight:  b.Radii.BottomRight.Scale(s).Round(),
		BottomLeft:   b.Radii.BottomLeft.Scale(s).Round(),
	}
	b.hasCacheKey = true
}
