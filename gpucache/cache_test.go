package gpucache

import (
	"strings"
	"testing"

	"github.com/gogpu/clipchain/geom"
	"github.com/google/go-cmp/cmp"
)

func TestBlockSize(t *testing.T) {
	var b Block
	if got := len(packedBytes([]Block{b})); got != BlockSize {
		t.Errorf("block bytes = %d, want %d", got, BlockSize)
	}
}

func packedBytes(blocks []Block) []byte {
	c := New()
	var h Handle
	c.Request(&h).PushBlocks(blocks...)
	return c.Bytes()
}

func TestCache_RequestIdempotent(t *testing.T) {
	c := New()
	var h Handle

	c.BeginFrame()
	req := c.Request(&h)
	if req == nil {
		t.Fatal("Request(zero handle) = nil, want writer")
	}
	req.PushRect(geom.NewRect(1, 2, 3, 4))
	req.Push(Block{5, 0, 0, 0})

	if c.Request(&h) != nil {
		t.Error("second Request() in same frame returned a writer")
	}
	c.EndFrame()

	c.BeginFrame()
	if c.Request(&h) != nil {
		t.Error("Request() in next frame returned a writer for a valid entry")
	}
	c.EndFrame()

	got, ok := c.Get(h)
	want := []Block{{1, 2, 3, 4}, {5, 0, 0, 0}}
	if !ok {
		t.Fatal("Get() ok = false")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}

	st := c.Stats()
	if st.Entries != 1 || st.Blocks != 2 || st.Hits != 1 || st.Writes != 0 {
		t.Errorf("Stats() = %v", st)
	}
}

func TestCache_Invalidate(t *testing.T) {
	c := New()
	var h Handle
	c.BeginFrame()
	c.Request(&h).Push(Block{1})
	old := h

	c.Invalidate(&h)
	if _, ok := c.Address(old); ok {
		t.Error("Address() of invalidated handle reported ok")
	}

	req := c.Request(&h)
	if req == nil {
		t.Fatal("Request() after Invalidate() = nil, want writer")
	}
	if h == old {
		t.Error("Request() reused the stale handle epoch")
	}

	// Stale handles stay harmless.
	c.Invalidate(&old)
	if _, ok := c.Get(h); !ok {
		t.Error("Invalidate(stale handle) discarded the live entry")
	}
}

func TestCache_PushIntoReleasedEntry(t *testing.T) {
	c := New()
	var h Handle
	req := c.Request(&h)
	c.Clear()

	defer func() {
		if recover() == nil {
			t.Error("Push() into a cleared entry did not panic")
		}
	}()
	req.Push(Block{})
}

func TestCache_EvictsIdleEntries(t *testing.T) {
	c := New(WithMaxIdleFrames(2))
	var kept, idle Handle

	c.BeginFrame()
	c.Request(&kept).Push(Block{1})
	c.Request(&idle).Push(Block{2})
	c.EndFrame()

	for range 3 {
		c.BeginFrame()
		c.Request(&kept)
		c.EndFrame()
	}

	if _, ok := c.Get(idle); ok {
		t.Error("idle entry survived past MaxIdleFrames")
	}
	if _, ok := c.Get(kept); !ok {
		t.Error("used entry was evicted")
	}
	if st := c.Stats(); st.Evictions != 1 {
		t.Errorf("Stats().Evictions = %d, want 1", st.Evictions)
	}

	c.BeginFrame()
	if c.Request(&idle) == nil {
		t.Error("Request() for evicted entry returned nil, want writer")
	}
}

func TestCache_PackingRows(t *testing.T) {
	c := New()
	var a, b, d Handle

	c.BeginFrame()
	c.Request(&a).PushBlocks(make([]Block, BlocksPerRow-2)...)
	c.Request(&b).PushBlocks(make([]Block, 4)...)
	c.Request(&d).Push(Block{7, 7, 7, 7})
	c.EndFrame()

	tests := []struct {
		name string
		h    Handle
		want Address
	}{
		{"first entry", a, Address{0, 0}},
		{"does not straddle rows", b, Address{0, 1}},
		{"follows on same row", d, Address{4, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Address(tt.h)
			if !ok || got != tt.want {
				t.Errorf("Address() = %v, %v, want %v, true", got, ok, tt.want)
			}
		})
	}

	blocks := c.Blocks()
	addr, _ := c.Address(d)
	if blocks[addr.Index()] != (Block{7, 7, 7, 7}) {
		t.Errorf("Blocks()[%d] = %v, want {7 7 7 7}", addr.Index(), blocks[addr.Index()])
	}
	if st := c.Stats(); st.Rows != 2 {
		t.Errorf("Stats().Rows = %d, want 2", st.Rows)
	}
	if got, want := len(c.Bytes()), len(blocks)*BlockSize; got != want {
		t.Errorf("len(Bytes()) = %d, want %d", got, want)
	}
}

func TestCache_VersionTracksWrites(t *testing.T) {
	c := New()
	var h Handle
	c.BeginFrame()
	c.Request(&h).Push(Block{1})
	v1 := c.Version()

	c.EndFrame()
	c.BeginFrame()
	c.Request(&h)
	if c.Version() != v1 {
		t.Error("Version() changed without a write")
	}

	c.Invalidate(&h)
	c.Request(&h).Push(Block{2})
	if c.Version() == v1 {
		t.Error("Version() did not change after a rewrite")
	}
}

func TestCache_AddressAfterRepack(t *testing.T) {
	c := New(WithMaxIdleFrames(0))
	var a, b, d Handle

	c.BeginFrame()
	c.Request(&a).PushBlocks(Block{1}, Block{1})
	c.Request(&b).Push(Block{2})
	c.Request(&d).Push(Block{3})
	c.EndFrame()
	version := c.Version()

	// b idles out and its slot is reused by a larger entry.
	c.BeginFrame()
	c.Request(&a)
	c.Request(&d)
	c.EndFrame()
	c.BeginFrame()
	c.Request(&a)
	c.Request(&d)
	var e Handle
	c.Request(&e).PushBlocks(Block{4}, Block{4}, Block{4})
	c.EndFrame()

	if c.Version() == version {
		t.Fatal("Version() unchanged after a release and a write")
	}
	for _, tc := range []struct {
		h    Handle
		want Block
	}{{a, Block{1}}, {d, Block{3}}, {e, Block{4}}} {
		addr, ok := c.Address(tc.h)
		if !ok {
			t.Fatalf("Address() ok = false for a live entry")
		}
		if got := c.Blocks()[addr.Index()]; got != tc.want {
			t.Errorf("Blocks()[%v] = %v, want %v", addr, got, tc.want)
		}
	}
}

func TestStats_String(t *testing.T) {
	s := Stats{Entries: 3, Blocks: 12, Rows: 1, Frame: 7}
	got := s.String()
	for _, want := range []string{"frame 7", "3 entries", "12 blocks"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, want it to contain %q", got, want)
		}
	}
}

func BenchmarkCache_RequestHit(b *testing.B) {
	c := New()
	handles := make([]Handle, 256)
	c.BeginFrame()
	for i := range handles {
		c.Request(&handles[i]).PushRect(geom.NewRect(0, 0, 10, 10))
	}
	c.EndFrame()

	b.ReportAllocs()
	for b.Loop() {
		c.BeginFrame()
		for i := range handles {
			c.Request(&handles[i])
		}
		c.EndFrame()
	}
}
