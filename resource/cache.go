package resource

import (
	"fmt"
	"image"

	"github.com/gogpu/clipchain"
	"github.com/gogpu/clipchain/geom"
	"github.com/gogpu/clipchain/gpucache"
	"github.com/gogpu/clipchain/internal/cache"
	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"
)

// Upload is an alpha mask waiting to be copied into a texture.
type Upload struct {
	Request    ImageRequest
	Mask       *image.Alpha
	Descriptor gputypes.TextureDescriptor

	key residentKey
}

type source struct {
	img        image.Image
	generation uint64
}

// mask is a resident alpha mask and the GPU cache entry holding its texel
// rect.
type mask struct {
	alpha      *image.Alpha
	generation uint64
	handle     gpucache.Handle
}

// Stats contains per-frame request statistics.
type Stats struct {
	// Images is the number of registered source images.
	Images int
	// Resident is the number of converted masks.
	Resident int
	// Requests counts RequestImage calls this frame.
	Requests int
	// Missing counts requests for unknown keys this frame.
	Missing int
	// Conversions counts masks converted this frame.
	Conversions int
	// Pending is the number of uploads not yet flushed.
	Pending int
}

// String returns a human-readable string of the stats.
func (s Stats) String() string {
	return fmt.Sprintf("Resources[%d images, %d resident, %d requests, %d missing, %d converted, %d pending]",
		s.Images, s.Resident, s.Requests, s.Missing, s.Conversions, s.Pending)
}

// Cache owns source images and the alpha masks derived from them.
//
// Cache is not safe for concurrent use.
type Cache struct {
	opts options

	sources    map[ImageKey]source
	generation uint64
	resident   *cache.Cache[residentKey, *mask]

	pending []Upload
	evicted []residentKey

	frame       uint64
	requests    int
	missing     int
	conversions int
}

// NewCache creates an empty image cache.
func NewCache(opts ...Option) *Cache {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Cache{
		opts:    o,
		sources: make(map[ImageKey]source),
	}
	c.resident = cache.New(o.residentLimit, func(k residentKey, _ *mask) {
		c.evicted = append(c.evicted, k)
	})
	return c
}

// AddImage registers img under key, replacing any previous image.
func (c *Cache) AddImage(key ImageKey, img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("%w: key %d", ErrInvalidImage, key)
	}
	c.generation++
	c.sources[key] = source{img: img, generation: c.generation}
	return nil
}

// UpdateImage replaces the image registered under key. Resident masks of
// key are converted again on their next request.
func (c *Cache) UpdateImage(key ImageKey, img image.Image) error {
	if _, ok := c.sources[key]; !ok {
		return fmt.Errorf("%w: key %d", ErrImageNotFound, key)
	}
	return c.AddImage(key, img)
}

// DeleteImage unregisters key and drops its resident masks.
func (c *Cache) DeleteImage(key ImageKey) error {
	if _, ok := c.sources[key]; !ok {
		return fmt.Errorf("%w: key %d", ErrImageNotFound, key)
	}
	delete(c.sources, key)
	c.resident.DeleteFunc(func(k residentKey, _ *mask) bool {
		if k.key == key {
			c.evicted = append(c.evicted, k)
			return true
		}
		return false
	})
	return nil
}

// BeginFrame resets the per-frame statistics.
func (c *Cache) BeginFrame() {
	c.frame++
	c.requests = 0
	c.missing = 0
	c.conversions = 0
}

// EndFrame trims the resident masks to the configured limit.
func (c *Cache) EndFrame() {
	evicted := c.resident.Trim()
	clipchain.Logger().Debug("resource: end frame",
		"frame", c.frame,
		"requests", c.requests,
		"missing", c.missing,
		"converted", c.conversions,
		"evicted", evicted,
		"pending", len(c.pending))
}

// RequestImage makes the mask for req resident and writes its texel rect
// into gpu. Unknown keys are counted and logged but not reported to the
// caller.
func (c *Cache) RequestImage(req ImageRequest, gpu *gpucache.Cache) {
	c.requests++
	src, ok := c.sources[req.Key]
	if !ok {
		c.missing++
		clipchain.Logger().Warn("resource: image requested but never added", "key", req.Key)
		return
	}

	rk := req.residentKey()
	m, ok := c.resident.Get(rk)
	if !ok || m.generation != src.generation {
		alpha, err := c.convert(src.img, req)
		if err != nil {
			clipchain.Logger().Warn("resource: cannot convert image", "request", rk, "err", err)
			return
		}
		if !ok {
			m = &mask{}
			c.resident.Set(rk, m)
		} else {
			gpu.Invalidate(&m.handle)
		}
		m.alpha = alpha
		m.generation = src.generation
		c.conversions++
		c.pending = append(c.pending, Upload{
			Request:    req,
			Mask:       alpha,
			Descriptor: TextureDescriptor(rk.String(), alpha.Bounds().Size()),
			key:        rk,
		})
	}

	if w := gpu.Request(&m.handle); w != nil {
		size := m.alpha.Bounds().Size()
		w.PushRect(geom.NewRect(0, 0, float32(size.X), float32(size.Y)))
	}
}

// Resident reports whether the mask for req is converted and up to date.
func (c *Cache) Resident(req ImageRequest) bool {
	src, ok := c.sources[req.Key]
	if !ok {
		return false
	}
	m, ok := c.resident.Peek(req.residentKey())
	return ok && m.generation == src.generation
}

// Mask returns the resident alpha mask for req.
func (c *Cache) Mask(req ImageRequest) (*image.Alpha, bool) {
	m, ok := c.resident.Peek(req.residentKey())
	if !ok {
		return nil, false
	}
	return m.alpha, true
}

// Handle returns the GPU cache handle of the texel rect for req.
func (c *Cache) Handle(req ImageRequest) (gpucache.Handle, bool) {
	m, ok := c.resident.Peek(req.residentKey())
	if !ok {
		return gpucache.Handle{}, false
	}
	return m.handle, true
}

// PendingUploads returns the masks converted since the last flush. The
// slice is owned by c.
func (c *Cache) PendingUploads() []Upload {
	return c.pending
}

// Stats returns current statistics.
func (c *Cache) Stats() Stats {
	return Stats{
		Images:      len(c.sources),
		Resident:    c.resident.Len(),
		Requests:    c.requests,
		Missing:     c.missing,
		Conversions: c.conversions,
		Pending:     len(c.pending),
	}
}

// takeUploads hands the pending uploads and evicted keys to a flush.
func (c *Cache) takeUploads() ([]Upload, []residentKey) {
	uploads, evicted := c.pending, c.evicted
	c.pending, c.evicted = nil, nil
	return uploads, evicted
}

// requeue puts uploads that failed back in front of the pending list.
func (c *Cache) requeue(uploads []Upload) {
	c.pending = append(uploads[:len(uploads):len(uploads)], c.pending...)
}

// convert renders the requested region of img into an alpha mask no
// larger than the configured maximum size.
func (c *Cache) convert(img image.Image, req ImageRequest) (*image.Alpha, error) {
	bounds := img.Bounds()
	region := bounds
	if req.Tile != nil {
		ts := c.opts.tileSize
		region = image.Rect(0, 0, ts, ts).
			Add(image.Pt(int(req.Tile.X)*ts, int(req.Tile.Y)*ts)).
			Add(bounds.Min).
			Intersect(bounds)
		if region.Empty() {
			return nil, fmt.Errorf("%w: tile (%d,%d) outside %v", ErrInvalidImage, req.Tile.X, req.Tile.Y, bounds)
		}
	}

	w, h := region.Dx(), region.Dy()
	if limit := c.opts.maxMaskSize; w > limit || h > limit {
		s := float64(limit) / float64(max(w, h))
		w = max(1, int(float64(w)*s))
		h = max(1, int(float64(h)*s))
	}

	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	if w == region.Dx() && h == region.Dy() {
		xdraw.Draw(dst, dst.Bounds(), img, region.Min, xdraw.Src)
	} else {
		scaler(req.Rendering).Scale(dst, dst.Bounds(), img, region, xdraw.Src, nil)
	}
	return dst, nil
}

// scaler returns the interpolator for a rendering mode.
func scaler(r ImageRendering) xdraw.Interpolator {
	switch r {
	case RenderingCrispEdges, RenderingPixelated:
		return xdraw.NearestNeighbor
	default:
		return xdraw.ApproxBiLinear
	}
}
