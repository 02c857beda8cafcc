package clip

import (
	"testing"

	"github.com/gogpu/clipchain/geom"
	"github.com/gogpu/clipchain/gpucache"
	"github.com/google/go-cmp/cmp"
)

func TestNewBoxShadow(t *testing.T) {
	tests := []struct {
		name        string
		shadow      geom.Rect
		radii       geom.BorderRadius
		blur        float32
		wantMinimal geom.Rect
		wantAlloc   geom.Size
		wantX       BoxShadowStretchMode
		wantY       BoxShadowStretchMode
	}{
		{
			name:        "stretch both axes",
			shadow:      geom.NewRect(10.25, 20.5, 200, 100),
			radii:       geom.UniformRadius(8),
			blur:        4,
			wantMinimal: geom.NewRect(12.25, 12.5, 36, 36),
			wantAlloc:   geom.Sz(60, 60),
			wantX:       StretchModeStretch,
			wantY:       StretchModeStretch,
		},
		{
			name:        "corners larger than blur",
			shadow:      geom.NewRect(0, 0, 300, 300),
			radii:       geom.UniformRadius(20),
			blur:        2,
			wantMinimal: geom.NewRect(6, 6, 46, 46),
			wantAlloc:   geom.Sz(58, 58),
			wantX:       StretchModeStretch,
			wantY:       StretchModeStretch,
		},
		{
			name:        "narrow shadow is blitted",
			shadow:      geom.NewRect(0, 0, 10, 50),
			blur:        2,
			wantMinimal: geom.NewRect(6, 6, 10, 18),
			wantAlloc:   geom.Sz(22, 30),
			wantX:       StretchModeSimple,
			wantY:       StretchModeStretch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoxShadow(tt.shadow, tt.radii, tt.shadow, tt.blur, BoxShadowOutset)
			if got := b.MinimalShadowRect(); got != tt.wantMinimal {
				t.Errorf("MinimalShadowRect() = %v, want %v", got, tt.wantMinimal)
			}
			if b.AllocSize != tt.wantAlloc {
				t.Errorf("AllocSize = %v, want %v", b.AllocSize, tt.wantAlloc)
			}
			if b.StretchModeX != tt.wantX || b.StretchModeY != tt.wantY {
				t.Errorf("stretch modes = %v, %v, want %v, %v", b.StretchModeX, b.StretchModeY, tt.wantX, tt.wantY)
			}
			if _, _, ok := b.CacheKey(); ok {
				t.Error("CacheKey() ok = true before any update")
			}
		})
	}
}

func TestBoxShadow_CacheKey(t *testing.T) {
	b := NewBoxShadow(geom.NewRect(10.25, 20.5, 200, 100), geom.UniformRadius(8), geom.NewRect(0, 0, 190, 90), 4, BoxShadowInset)
	gpu := gpucache.New()
	s := NewSources([]Primitive{b}, 0)

	s.Update(gpu, nil, 1)
	key1, size1, ok := b.CacheKey()
	if !ok {
		t.Fatal("CacheKey() ok = false after Update()")
	}
	want := BoxShadowCacheKey{
		BlurRadiusDP: 2,
		ClipMode:     BoxShadowInset,
		RectSize:     geom.DeviceIntSize{Width: 60, Height: 60},
		TopLeft:      geom.DeviceIntSize{Width: 8, Height: 8},
		TopRight:     geom.DeviceIntSize{Width: 8, Height: 8},
		BottomRight:  geom.DeviceIntSize{Width: 8, Height: 8},
		BottomLeft:   geom.DeviceIntSize{Width: 8, Height: 8},
	}
	if diff := cmp.Diff(want, key1); diff != "" {
		t.Errorf("CacheKey() mismatch (-want +got):\n%s", diff)
	}
	if size1 != (geom.DeviceIntSize{Width: 60, Height: 60}) {
		t.Errorf("cache size = %v, want 60x60", size1)
	}

	s.Update(gpu, nil, 1)
	key2, size2, _ := b.CacheKey()
	if key1 != key2 || size1 != size2 {
		t.Errorf("CacheKey() changed between identical updates: %v -> %v", key1, key2)
	}

	// The key follows the device scale even though no entry is rewritten.
	writes := gpu.Stats().Writes
	s.Update(gpu, nil, 2)
	key3, size3, _ := b.CacheKey()
	if key3.BlurRadiusDP != 4 || key3.RectSize != (geom.DeviceIntSize{Width: 120, Height: 120}) || key3.TopLeft.Width != 16 {
		t.Errorf("CacheKey() at scale 2 = %+v", key3)
	}
	if size3 != (geom.DeviceIntSize{Width: 120, Height: 120}) {
		t.Errorf("cache size at scale 2 = %v", size3)
	}
	if got := gpu.Stats().Writes; got != writes {
		t.Errorf("GPU writes after scale change = %d, want %d", got, writes)
	}
}

func TestBoxShadow_ClipData(t *testing.T) {
	b := NewBoxShadow(geom.NewRect(0, 0, 300, 300), geom.UniformRadius(20), geom.NewRect(0, 0, 300, 300), 2, BoxShadowOutset)
	gpu := gpucache.New()
	NewSources([]Primitive{b}, 0).Update(gpu, nil, 1)

	blocks, ok := gpu.Get(b.ClipDataHandle())
	if !ok {
		t.Fatal("minimal clip data was not written")
	}
	want := RoundedRectClipData(b.MinimalShadowRect(), b.Radii, ModeClip)
	if diff := cmp.Diff(blocksOf(&want), blocks); diff != "" {
		t.Errorf("clip data mismatch (-want +got):\n%s", diff)
	}
	if len(blocks) != 10 {
		t.Errorf("len(clip data) = %d, want 10", len(blocks))
	}
}
