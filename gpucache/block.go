// Package gpucache implements a write-once-per-invalidation block cache for
// data consumed by GPU shaders.
//
// Callers hold a Handle per cached item. Each frame they call Request with
// the handle: if the item is still valid, Request returns nil and marks it
// used; otherwise it returns a Request that the caller fills with fixed-size
// Blocks. At the end of the frame, items that were not used for a number of
// frames are evicted and the live items are packed into rows of
// BlocksPerRow blocks, ready to be uploaded as one storage buffer.
//
//	var h gpucache.Handle
//	c := gpucache.New()
//	c.BeginFrame()
//	if req := c.Request(&h); req != nil {
//	    req.PushRect(rect)
//	    req.Push(gpucache.Block{1, 0, 0, 0})
//	}
//	c.EndFrame()
//	addr, _ := c.Address(h)
package gpucache

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/clipchain/geom"
)

// Block is the unit of storage: four 32-bit floats, matching a vec4<f32>.
type Block [4]float32

// BlockSize is the size of a Block in bytes.
const BlockSize = 16

var _ [BlockSize]byte = [unsafe.Sizeof(Block{})]byte{}

// BlocksPerRow is the width of the packed cache in blocks. A single entry
// never spans two rows.
const BlocksPerRow = 1024

// RectBlock returns a block holding r as (x, y, width, height).
func RectBlock(r geom.Rect) Block {
	return Block{r.Origin.X, r.Origin.Y, r.Size.Width, r.Size.Height}
}

// Address is the position of an entry's first block in the packed cache.
type Address struct {
	U, V uint16
}

// Index returns the block offset of a in the packed buffer.
func (a Address) Index() int {
	return int(a.V)*BlocksPerRow + int(a.U)
}

// String returns the address as "(u,v)".
func (a Address) String() string {
	return fmt.Sprintf("(%d,%d)", a.U, a.V)
}

// Handle refers to an entry in a Cache. The zero Handle refers to nothing,
// so a Request with a fresh Handle always returns a writer.
type Handle struct {
	slot  uint32 // slot index + 1
	epoch uint32
}

// IsZero reports whether h has never been assigned an entry.
func (h Handle) IsZero() bool {
	return h.slot == 0
}
