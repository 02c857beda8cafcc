// Package frame builds the clip chains of one frame from a clip store and a
// spatial tree.
package frame

import (
	"fmt"

	"github.com/gogpu/clipchain"
	"github.com/gogpu/clipchain/clip"
	"github.com/gogpu/clipchain/geom"
	"github.com/gogpu/clipchain/gpucache"
	"github.com/gogpu/clipchain/resource"
	"github.com/gogpu/clipchain/spatial"
)

// Builder drives a frame: it refreshes the GPU data of every clip
// collection and composes clip chains node by node.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	opts  options
	store *clip.Store
	tree  *spatial.Tree
	gpu   *gpucache.Cache

	chains []clip.Chain
	frame  uint64
}

// NewBuilder creates a builder over store and tree.
func NewBuilder(store *clip.Store, tree *spatial.Tree, opts ...Option) *Builder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	gpu := o.gpu
	if gpu == nil {
		gpu = gpucache.New()
	}
	return &Builder{
		opts:  o,
		store: store,
		tree:  tree,
		gpu:   gpu,
	}
}

// GPUCache returns the cache the builder writes clip data into.
func (b *Builder) GPUCache() *gpucache.Cache {
	return b.gpu
}

// ResourceCache returns the image cache, or nil.
func (b *Builder) ResourceCache() *resource.Cache {
	return b.opts.res
}

// DevicePixelScale returns the scale the frame is built at.
func (b *Builder) DevicePixelScale() geom.DevicePixelScale {
	return b.opts.scale
}

// Begin starts a frame. Chains of the previous frame are discarded and
// world transforms are recomputed.
func (b *Builder) Begin() {
	b.frame++
	b.chains = b.chains[:0]
	b.gpu.BeginFrame()
	if b.opts.res != nil {
		b.opts.res.BeginFrame()
	}
	b.tree.Update()
}

// RefreshSources updates every collection in the store for this frame.
func (b *Builder) RefreshSources() {
	var res clip.ImageRequester
	if b.opts.res != nil {
		res = b.opts.res
	}
	for _, s := range b.store.All() {
		s.Update(b.gpu, res, b.opts.scale)
	}
}

// AddClipNode extends the chain parent (or an empty chain for
// clip.NoChain) by the collection idx, and returns the index of the new
// chain. The collection is positioned by its own spatial node.
func (b *Builder) AddClipNode(parent clip.ChainIndex, idx clip.SourcesIndex) clip.ChainIndex {
	src := b.store.Get(idx)
	node := src.SpatialNode()

	inner, outer, outerOK := src.ScreenBounds(b.tree.WorldTransform(node), b.opts.scale, b.opts.screen)
	n := clip.ChainNode{
		WorkItem: clip.WorkItem{
			SourcesIndex:       idx,
			CoordinateSystemID: b.tree.CoordinateSystem(node),
		},
		LocalClipRect:   b.localClipRect(src, node),
		ScreenOuterRect: outer,
		ScreenInnerRect: inner,
		UnboundedOuter:  !outerOK,
	}

	var base clip.Chain
	if parent == clip.NoChain {
		base = clip.EmptyChain(b.screenRect())
	} else {
		base = b.Chain(parent)
	}
	c := base.WithAddedNode(n)
	c.ParentIndex = parent

	b.chains = append(b.chains, c)
	return clip.ChainIndex(len(b.chains) - 1)
}

// localClipRect maps the outer bound of src into the coordinate system of
// node. Unbounded or unmappable collections get geom.MaxRect.
func (b *Builder) localClipRect(src *clip.Sources, node spatial.NodeIndex) geom.Rect {
	outer, ok := src.LocalOuterRect()
	if !ok {
		return geom.MaxRect()
	}
	r, ok := b.tree.RelativeTransform(node).TransformRect(outer)
	if !ok {
		return geom.MaxRect()
	}
	return r
}

func (b *Builder) screenRect() geom.DeviceIntRect {
	if b.opts.screen != nil {
		return *b.opts.screen
	}
	return geom.MaxDeviceIntRect()
}

// Chain returns the chain at idx. It panics if idx was not returned by
// AddClipNode in the current frame.
func (b *Builder) Chain(idx clip.ChainIndex) clip.Chain {
	if idx < 0 || int(idx) >= len(b.chains) {
		panic(fmt.Sprintf("frame: bug: chain index %d out of range [0, %d)", idx, len(b.chains)))
	}
	return b.chains[idx]
}

// Chains returns the number of chains built this frame.
func (b *Builder) Chains() int {
	return len(b.chains)
}

// End finishes the frame: idle GPU data is evicted and packed, and image
// masks over the resident limit are dropped.
func (b *Builder) End() {
	b.gpu.EndFrame()
	if b.opts.res != nil {
		b.opts.res.EndFrame()
	}
	clipchain.Logger().Debug("frame: built",
		"frame", b.frame,
		"chains", len(b.chains),
		"sources", b.store.Len(),
		"gpu", b.gpu.Stats())
}
