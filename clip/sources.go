package clip

import (
	"slices"

	"github.com/gogpu/clipchain/geom"
	"github.com/gogpu/clipchain/gpucache"
	"github.com/gogpu/clipchain/resource"
	"github.com/gogpu/clipchain/spatial"
)

// ImageRequester makes images referenced by image masks resident for the
// current frame. *resource.Cache implements it.
type ImageRequester interface {
	RequestImage(req resource.ImageRequest, gpu *gpucache.Cache)
}

type updateContext struct {
	gpu   *gpucache.Cache
	res   ImageRequester
	scale geom.DevicePixelScale
}

// Entry is one primitive of a Sources together with its GPU cache handle.
type Entry struct {
	Primitive Primitive
	Handle    gpucache.Handle
}

// Sources is the ordered list of primitives attached to one clip node,
// with bounds precomputed in the local space of its spatial node.
type Sources struct {
	entries []Entry
	node    spatial.NodeIndex

	localInner   geom.Rect
	localInnerOK bool
	localOuter   geom.Rect
	localOuterOK bool

	onlyRectangular bool
	hasImageOrLine  bool
}

// NewSources creates the sources for prims, positioned by node. The order
// of prims is preserved.
func NewSources(prims []Primitive, node spatial.NodeIndex) *Sources {
	s := &Sources{
		entries:         make([]Entry, len(prims)),
		node:            node,
		onlyRectangular: true,
	}
	acc := newBoundsAccumulator()
	for i, p := range prims {
		s.entries[i] = Entry{Primitive: p}
		acc.add(p)
		if !IsRect(p) {
			s.onlyRectangular = false
		}
		if IsImageOrLineDecoration(p) {
			s.hasImageOrLine = true
		}
	}
	s.localInner, s.localInnerOK, s.localOuter, s.localOuterOK = acc.finish()
	return s
}

// Entries returns a copy of the primitives and their cache handles in
// order. Handles in the copy reflect the last Update.
func (s *Sources) Entries() []Entry { return slices.Clone(s.entries) }

// Len returns the number of primitives.
func (s *Sources) Len() int { return len(s.entries) }

// SpatialNode returns the node positioning the primitives.
func (s *Sources) SpatialNode() spatial.NodeIndex { return s.node }

// LocalInnerRect returns a rect fully inside the visible region of every
// primitive. ok is false when no such rect could be computed.
func (s *Sources) LocalInnerRect() (r geom.Rect, ok bool) {
	return s.localInner, s.localInnerOK
}

// LocalOuterRect returns a rect outside of which every primitive clips
// everything away. ok is false when the primitives do not bound the clip.
func (s *Sources) LocalOuterRect() (r geom.Rect, ok bool) {
	return s.localOuter, s.localOuterOK
}

// OnlyRectangularClips reports whether every primitive is a Rectangle.
func (s *Sources) OnlyRectangularClips() bool { return s.onlyRectangular }

// HasImageOrLineDecorationClip reports whether any primitive is an image
// mask or a line decoration.
func (s *Sources) HasImageOrLineDecorationClip() bool { return s.hasImageOrLine }

// Update refreshes the per-frame state of every primitive: missing GPU
// cache entries are written, box-shadow cache keys are recomputed for scale
// and image masks request their images. res may be nil.
func (s *Sources) Update(gpu *gpucache.Cache, res ImageRequester, scale geom.DevicePixelScale) {
	ctx := &updateContext{gpu: gpu, res: res, scale: scale}
	for i := range s.entries {
		e := &s.entries[i]
		if req := gpu.Request(&e.Handle); req != nil {
			e.Primitive.writeBlocks(req)
		}
		e.Primitive.prepare(ctx)
	}
}

// BlockAddress returns where the blocks of the i-th primitive start in the
// packed GPU cache. Like gpucache.Cache.Address, the result is final only
// after the frame's last write, typically after EndFrame.
func (s *Sources) BlockAddress(gpu *gpucache.Cache, i int) (gpucache.Address, bool) {
	return gpu.Address(s.entries[i].Handle)
}

// ScreenBounds maps the local bounds to device pixels. inner is zero unless
// the local inner rect is known and transform keeps rectangles axis-aligned
// without perspective; it is rounded in so it never covers a partial pixel.
// outer is rounded out. outerOK is false when the local outer rect is
// unknown. screen, when non-nil, limits projections that cross the viewer.
func (s *Sources) ScreenBounds(transform geom.FastTransform, scale geom.DevicePixelScale, screen *geom.DeviceIntRect) (inner, outer geom.DeviceIntRect, outerOK bool) {
	if s.localInnerOK && transform.Kind() == geom.TransformAxisAligned && !transform.HasPerspectiveComponent() {
		inner = geom.CalculateScreenInnerRect(transform, s.localInner, scale, screen)
	}
	if s.localOuterOK {
		outer = geom.CalculateScreenBoundingRect(transform, s.localOuter, scale, screen)
		outerOK = true
	}
	return inner, outer, outerOK
}

func (r Rectangle) writeBlocks(req *gpucache.Request) {
	d := UniformClipData(r.Rect, 0, r.Mode)
	d.Write(req)
}

func (r RoundedRectangle) writeBlocks(req *gpucache.Request) {
	d := RoundedRectClipData(r.Rect, r.Radii, r.Mode)
	d.Write(req)
}

func (m ImageMask) writeBlocks(req *gpucache.Request) {
	d := ImageMaskData{LocalRect: m.Rect}
	req.PushBlocks(blocksOf(&d)...)
}

func (b *BoxShadow) writeBlocks(req *gpucache.Request) {
	d := BoxShadowData{
		AllocSize:      b.AllocSize,
		ClipMode:       float32(b.ClipMode),
		StretchModeX:   float32(b.StretchModeX),
		StretchModeY:   float32(b.StretchModeY),
		PrimShadowRect: b.PrimShadowRect,
	}
	req.PushBlocks(blocksOf(&d)...)
}

func (l LineDecoration) writeBlocks(req *gpucache.Request) {
	d := LineDecorationData{
		LocalRect:         l.Rect,
		WavyLineThickness: l.WavyLineThickness,
		Style:             PackAsFloat(uint32(l.Style)),
		Orientation:       PackAsFloat(uint32(l.Orientation)),
	}
	req.PushBlocks(blocksOf(&d)...)
}

func (Rectangle) prepare(*updateContext)        {}
func (RoundedRectangle) prepare(*updateContext) {}
func (LineDecoration) prepare(*updateContext)   {}

func (m ImageMask) prepare(ctx *updateContext) {
	if ctx.res == nil {
		return
	}
	ctx.res.RequestImage(resource.ImageRequest{
		Key:       m.Image,
		Rendering: resource.RenderingAuto,
	}, ctx.gpu)
}

func (b *BoxShadow) prepare(ctx *updateContext) {
	b.updateCacheKey(ctx.scale)
	if req := ctx.gpu.Request(&b.clipDataHandle); req != nil {
		d := RoundedRectClipData(b.minimalShadowRect, b.Radii, ModeClip)
		d.Write(req)
	}
}
