package gpucache

import (
	"fmt"

	"github.com/gogpu/clipchain"
	"github.com/gogpu/clipchain/geom"
	"honnef.co/go/safeish"
)

// DefaultMaxIdleFrames is the number of frames an entry may go unrequested
// before EndFrame evicts it.
const DefaultMaxIdleFrames = 60

// Stats contains cache usage statistics.
type Stats struct {
	// Entries is the number of live entries.
	Entries int

	// Blocks is the number of blocks held by live entries.
	Blocks int

	// Rows is the number of BlocksPerRow-wide rows after packing.
	Rows int

	// Hits counts requests that found a valid entry this frame.
	Hits int

	// Writes counts requests that returned a writer this frame.
	Writes int

	// Evictions is the total number of entries evicted for being idle.
	Evictions uint64

	// Frame is the current frame number.
	Frame uint64
}

// String returns a human-readable string of cache stats.
func (s Stats) String() string {
	return fmt.Sprintf("GPUCache[frame %d, %d entries, %d blocks, %d rows, %d hits, %d writes, %d evictions]",
		s.Frame, s.Entries, s.Blocks, s.Rows, s.Hits, s.Writes, s.Evictions)
}

type slot struct {
	epoch    uint32
	live     bool
	lastUsed uint64
	blocks   []Block
	addr     Address
}

// Cache stores blocks for the current scene and packs them for upload.
//
// Cache is not safe for concurrent use; it belongs to a single frame-build
// pass.
type Cache struct {
	opts options

	slots []slot
	free  []uint32

	frame     uint64
	dirty     bool
	packed    []Block
	rows      int
	version   uint64
	hits      int
	writes    int
	evictions uint64
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache{opts: o}
}

// Label returns the debug label used for GPU resources backing the cache.
func (c *Cache) Label() string {
	return c.opts.label
}

// BeginFrame starts a new frame. Entries requested from now on count as
// used in this frame.
func (c *Cache) BeginFrame() {
	c.frame++
	c.hits = 0
	c.writes = 0
}

// Request looks up the entry for h. It returns nil when the entry is valid,
// marking it used this frame. Otherwise it points h at a fresh, empty
// entry and returns a Request that fills it.
func (c *Cache) Request(h *Handle) *Request {
	if s := c.lookup(*h); s != nil {
		s.lastUsed = c.frame
		c.hits++
		return nil
	}

	idx := c.alloc()
	s := &c.slots[idx]
	s.live = true
	s.lastUsed = c.frame
	s.blocks = s.blocks[:0]
	*h = Handle{slot: idx + 1, epoch: s.epoch}
	c.dirty = true
	c.writes++
	return &Request{cache: c, handle: *h}
}

func (c *Cache) lookup(h Handle) *slot {
	if h.IsZero() || int(h.slot) > len(c.slots) {
		return nil
	}
	s := &c.slots[h.slot-1]
	if !s.live || s.epoch != h.epoch {
		return nil
	}
	return s
}

func (c *Cache) alloc() uint32 {
	if n := len(c.free); n > 0 {
		idx := c.free[n-1]
		c.free = c.free[:n-1]
		return idx
	}
	c.slots = append(c.slots, slot{})
	return uint32(len(c.slots) - 1)
}

func (c *Cache) release(idx uint32) {
	s := &c.slots[idx]
	s.live = false
	s.epoch++
	s.blocks = s.blocks[:0]
	c.free = append(c.free, idx)
	c.dirty = true
}

// Invalidate discards the entry for h, so the next Request returns a
// writer. Invalidating a stale or zero handle does nothing.
func (c *Cache) Invalidate(h *Handle) {
	if c.lookup(*h) == nil {
		return
	}
	c.release(h.slot - 1)
}

// Clear discards every entry. Outstanding handles become stale.
func (c *Cache) Clear() {
	for i := range c.slots {
		if c.slots[i].live {
			c.release(uint32(i))
		}
	}
}

// EndFrame evicts entries idle for more than the configured number of
// frames and packs the remaining ones.
func (c *Cache) EndFrame() {
	evicted := 0
	for i := range c.slots {
		s := &c.slots[i]
		if s.live && c.frame-s.lastUsed > uint64(c.opts.maxIdleFrames) {
			c.release(uint32(i))
			evicted++
		}
	}
	c.evictions += uint64(evicted)
	c.pack()

	log := clipchain.Logger()
	log.Debug("gpucache: end frame",
		"frame", c.frame,
		"hits", c.hits,
		"writes", c.writes,
		"evicted", evicted,
		"blocks", len(c.packed))
}

// pack lays out live entries row by row in slot order. Packing only runs
// when an entry was written or released since the previous pack.
func (c *Cache) pack() {
	if !c.dirty {
		return
	}
	c.packed = c.packed[:0]
	var u, v int
	for i := range c.slots {
		s := &c.slots[i]
		if !s.live {
			continue
		}
		n := len(s.blocks)
		if u+n > BlocksPerRow {
			c.packed = append(c.packed, make([]Block, BlocksPerRow-u)...)
			u = 0
			v++
		}
		s.addr = Address{U: uint16(u), V: uint16(v)}
		c.packed = append(c.packed, s.blocks...)
		u += n
	}
	c.rows = v
	if u > 0 || v > 0 {
		c.rows = v + 1
	}
	c.dirty = false
	c.version++
}

// Address returns where the entry for h starts in the packed cache.
//
// Packing may move live entries whenever an entry is written or released,
// which also changes Version. An address is stable until the next such
// change, so renderers read addresses after EndFrame, once every entry of
// the frame has been written.
func (c *Cache) Address(h Handle) (Address, bool) {
	s := c.lookup(h)
	if s == nil {
		return Address{}, false
	}
	c.pack()
	return s.addr, true
}

// Get returns the blocks written for h.
func (c *Cache) Get(h Handle) ([]Block, bool) {
	s := c.lookup(h)
	if s == nil {
		return nil, false
	}
	return s.blocks, true
}

// Blocks returns the packed cache contents. The slice is owned by the cache
// and is only valid until the next write.
func (c *Cache) Blocks() []Block {
	c.pack()
	return c.packed
}

// Bytes returns the packed cache contents as raw bytes for upload.
func (c *Cache) Bytes() []byte {
	return safeish.SliceCast[[]byte](c.Blocks())
}

// Version changes every time the packed contents change.
func (c *Cache) Version() uint64 {
	c.pack()
	return c.version
}

// Stats returns current cache statistics.
func (c *Cache) Stats() Stats {
	c.pack()
	st := Stats{
		Rows:      c.rows,
		Hits:      c.hits,
		Writes:    c.writes,
		Evictions: c.evictions,
		Frame:     c.frame,
	}
	for i := range c.slots {
		if c.slots[i].live {
			st.Entries++
			st.Blocks += len(c.slots[i].blocks)
		}
	}
	return st
}

// Request fills a freshly allocated cache entry.
type Request struct {
	cache  *Cache
	handle Handle
}

// Handle returns the handle of the entry being written.
func (r *Request) Handle() Handle {
	return r.handle
}

// Push appends one block to the entry.
func (r *Request) Push(b Block) {
	s := r.cache.lookup(r.handle)
	if s == nil {
		panic("gpucache: push into a released entry")
	}
	if len(s.blocks) >= BlocksPerRow {
		panic(fmt.Sprintf("gpucache: entry exceeds %d blocks", BlocksPerRow))
	}
	s.blocks = append(s.blocks, b)
	r.cache.dirty = true
}

// PushBlocks appends blocks to the entry in order.
func (r *Request) PushBlocks(blocks ...Block) {
	for _, b := range blocks {
		r.Push(b)
	}
}

// PushRect appends a RectBlock.
func (r *Request) PushRect(rect geom.Rect) {
	r.Push(RectBlock(rect))
}
