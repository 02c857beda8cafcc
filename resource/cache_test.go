package resource

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/gogpu/clipchain/gpucache"
	"github.com/gogpu/gputypes"
	"github.com/google/go-cmp/cmp"
)

// testImage returns a w×h image that is transparent except for pixel
// (1, 0), which has alpha a.
func testImage(w, h int, a uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.SetRGBA(1, 0, color.RGBA{A: a})
	return img
}

func TestCache_ImageErrors(t *testing.T) {
	c := NewCache()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"add nil", c.AddImage(1, nil), ErrInvalidImage},
		{"add empty", c.AddImage(1, image.NewAlpha(image.Rectangle{})), ErrInvalidImage},
		{"update unknown", c.UpdateImage(2, testImage(1, 1, 0)), ErrImageNotFound},
		{"delete unknown", c.DeleteImage(3), ErrImageNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("error = %v, want %v", tt.err, tt.want)
			}
		})
	}
}

func TestCache_RequestImage(t *testing.T) {
	c := NewCache()
	gpu := gpucache.New()
	if err := c.AddImage(7, testImage(4, 2, 128)); err != nil {
		t.Fatalf("AddImage() error = %v", err)
	}
	req := ImageRequest{Key: 7}

	c.BeginFrame()
	gpu.BeginFrame()
	c.RequestImage(req, gpu)
	c.RequestImage(req, gpu)

	if !c.Resident(req) {
		t.Fatal("Resident() = false after RequestImage()")
	}
	m, _ := c.Mask(req)
	if got := m.AlphaAt(1, 0).A; got != 128 {
		t.Errorf("mask alpha at (1,0) = %d, want 128", got)
	}
	if got := m.AlphaAt(0, 0).A; got != 0 {
		t.Errorf("mask alpha at (0,0) = %d, want 0", got)
	}

	ups := c.PendingUploads()
	if len(ups) != 1 {
		t.Fatalf("len(PendingUploads()) = %d, want 1", len(ups))
	}
	d := ups[0].Descriptor
	if d.Format != gputypes.TextureFormatR8Unorm || d.Dimension != gputypes.TextureDimension2D {
		t.Errorf("descriptor format/dimension = %v/%v", d.Format, d.Dimension)
	}
	if want := (gputypes.Extent3D{Width: 4, Height: 2, DepthOrArrayLayers: 1}); d.Size != want {
		t.Errorf("descriptor size = %+v, want %+v", d.Size, want)
	}
	if d.Usage != gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst {
		t.Errorf("descriptor usage = %v", d.Usage)
	}

	h, ok := c.Handle(req)
	if !ok {
		t.Fatal("Handle() ok = false")
	}
	blocks, ok := gpu.Get(h)
	if !ok {
		t.Fatal("texel rect not written to the GPU cache")
	}
	if diff := cmp.Diff([]gpucache.Block{{0, 0, 4, 2}}, blocks); diff != "" {
		t.Errorf("texel rect mismatch (-want +got):\n%s", diff)
	}

	if st := c.Stats(); st.Requests != 2 || st.Conversions != 1 || st.Pending != 1 {
		t.Errorf("Stats() = %v", st)
	}
}

func TestCache_UpdateImageReconverts(t *testing.T) {
	c := NewCache()
	gpu := gpucache.New()
	c.AddImage(1, testImage(2, 2, 10))
	req := ImageRequest{Key: 1, Rendering: RenderingPixelated}
	c.RequestImage(req, gpu)
	old, _ := c.Handle(req)

	if err := c.UpdateImage(1, testImage(3, 1, 200)); err != nil {
		t.Fatalf("UpdateImage() error = %v", err)
	}
	if c.Resident(req) {
		t.Error("Resident() = true for an outdated mask")
	}

	c.RequestImage(req, gpu)
	m, _ := c.Mask(req)
	if got := m.AlphaAt(1, 0).A; got != 200 {
		t.Errorf("mask alpha after update = %d, want 200", got)
	}
	h, _ := c.Handle(req)
	if h == old {
		t.Error("texel rect handle was not invalidated")
	}
	blocks, _ := gpu.Get(h)
	if diff := cmp.Diff([]gpucache.Block{{0, 0, 3, 1}}, blocks); diff != "" {
		t.Errorf("texel rect mismatch (-want +got):\n%s", diff)
	}
	if got := len(c.PendingUploads()); got != 2 {
		t.Errorf("len(PendingUploads()) = %d, want 2", got)
	}
}

func TestCache_MissingImage(t *testing.T) {
	c := NewCache()
	gpu := gpucache.New()
	c.BeginFrame()
	c.RequestImage(ImageRequest{Key: 42}, gpu)

	if st := c.Stats(); st.Missing != 1 || st.Resident != 0 {
		t.Errorf("Stats() = %v, want 1 missing, 0 resident", st)
	}
	if gpu.Stats().Entries != 0 {
		t.Error("missing image wrote into the GPU cache")
	}
}

func TestCache_Tiles(t *testing.T) {
	c := NewCache(WithTileSize(4))
	gpu := gpucache.New()
	c.AddImage(1, testImage(10, 10, 255))

	tests := []struct {
		name     string
		tile     TileOffset
		wantSize image.Point
		resident bool
	}{
		{"first tile", TileOffset{0, 0}, image.Pt(4, 4), true},
		{"edge tile is cropped", TileOffset{2, 2}, image.Pt(2, 2), true},
		{"tile outside image", TileOffset{3, 0}, image.Point{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tile := tt.tile
			req := ImageRequest{Key: 1, Tile: &tile}
			c.RequestImage(req, gpu)
			if got := c.Resident(req); got != tt.resident {
				t.Fatalf("Resident() = %v, want %v", got, tt.resident)
			}
			if !tt.resident {
				return
			}
			m, _ := c.Mask(req)
			if got := m.Bounds().Size(); got != tt.wantSize {
				t.Errorf("mask size = %v, want %v", got, tt.wantSize)
			}
		})
	}
}

func TestCache_ScalesLargeImages(t *testing.T) {
	for _, r := range []ImageRendering{RenderingAuto, RenderingCrispEdges} {
		t.Run(r.String(), func(t *testing.T) {
			c := NewCache(WithMaxMaskSize(4))
			c.AddImage(1, testImage(8, 4, 255))
			req := ImageRequest{Key: 1, Rendering: r}
			c.RequestImage(req, gpucache.New())

			m, ok := c.Mask(req)
			if !ok {
				t.Fatal("Mask() ok = false")
			}
			if got, want := m.Bounds().Size(), image.Pt(4, 2); got != want {
				t.Errorf("mask size = %v, want %v", got, want)
			}
		})
	}
}

func TestCache_ResidentLimit(t *testing.T) {
	c := NewCache(WithResidentLimit(1))
	gpu := gpucache.New()
	c.AddImage(1, testImage(2, 2, 1))
	c.AddImage(2, testImage(2, 2, 2))
	a, b := ImageRequest{Key: 1}, ImageRequest{Key: 2}

	c.BeginFrame()
	c.RequestImage(a, gpu)
	c.RequestImage(b, gpu)
	if !c.Resident(a) {
		t.Error("mask evicted before EndFrame()")
	}
	c.EndFrame()

	if c.Resident(a) {
		t.Error("least recently used mask survived EndFrame()")
	}
	if !c.Resident(b) {
		t.Error("most recently used mask was evicted")
	}

	if err := c.DeleteImage(2); err != nil {
		t.Fatalf("DeleteImage() error = %v", err)
	}
	if c.Resident(b) {
		t.Error("mask of a deleted image is still resident")
	}
	_, evicted := c.takeUploads()
	if len(evicted) != 2 {
		t.Errorf("evicted keys = %d, want 2", len(evicted))
	}
}

func TestStats_String(t *testing.T) {
	s := Stats{Images: 2, Resident: 1, Missing: 3}
	got := s.String()
	for _, want := range []string{"2 images", "1 resident", "3 missing"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, want it to contain %q", got, want)
		}
	}
}

func TestImageRendering_String(t *testing.T) {
	tests := []struct {
		r    ImageRendering
		want string
	}{
		{RenderingAuto, "Auto"},
		{RenderingCrispEdges, "CrispEdges"},
		{RenderingPixelated, "Pixelated"},
		{ImageRendering(9), "ImageRendering(9)"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
