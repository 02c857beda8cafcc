package clip

import (
	"iter"

	"github.com/gogpu/clipchain/geom"
	"github.com/gogpu/clipchain/spatial"
)

// ChainIndex addresses a chain built during the current frame.
type ChainIndex int

// NoChain is the ChainIndex of "no parent chain".
const NoChain ChainIndex = -1

// WorkItem names one clip collection to apply and the coordinate system its
// masks are rasterized in.
type WorkItem struct {
	SourcesIndex       SourcesIndex
	CoordinateSystemID spatial.CoordinateSystemID
}

// ChainNode is one link of a clip chain. Nodes are immutable once linked
// and may be shared by many chains.
type ChainNode struct {
	WorkItem WorkItem

	// LocalClipRect is the outer bound of the collection in the space of
	// its coordinate system.
	LocalClipRect geom.Rect

	ScreenOuterRect geom.DeviceIntRect
	ScreenInnerRect geom.DeviceIntRect

	// UnboundedOuter marks a node whose collection has no outer bound.
	// ScreenOuterRect is ignored for such nodes: they never prune their
	// ancestors and leave the combined outer rect unchanged.
	UnboundedOuter bool

	prev *ChainNode
}

// Prev returns the next node towards the root, or nil.
func (n *ChainNode) Prev() *ChainNode {
	return n.prev
}

// Chain is a persistent list of clip nodes with the running device-space
// bounds of all of them. Copying a Chain is cheap; copies share nodes.
type Chain struct {
	// ParentIndex is the chain this one was derived from, or NoChain.
	ParentIndex ChainIndex

	// CombinedOuterScreenRect bounds everything the chain lets through.
	CombinedOuterScreenRect geom.DeviceIntRect

	// CombinedInnerScreenRect is let through by every node of the chain.
	CombinedInnerScreenRect geom.DeviceIntRect

	// HasNonRootCoordSystem reports whether any node was added in a
	// coordinate system other than the root one.
	HasNonRootCoordSystem bool

	head *ChainNode
}

// EmptyChain returns the chain that clips nothing within screen.
func EmptyChain(screen geom.DeviceIntRect) Chain {
	return Chain{
		ParentIndex:             NoChain,
		CombinedOuterScreenRect: screen,
		CombinedInnerScreenRect: screen,
	}
}

// Parent returns the chain c was derived from.
func (c Chain) Parent() (ChainIndex, bool) {
	return c.ParentIndex, c.ParentIndex != NoChain
}

// Head returns the innermost node, or nil for a chain without nodes.
func (c Chain) Head() *ChainNode {
	return c.head
}

// WithAddedNode returns c extended by node. A node whose inner rect covers
// the whole combined outer rect cannot clip anything and c is returned
// unchanged.
func (c Chain) WithAddedNode(node ChainNode) Chain {
	if node.ScreenInnerRect.ContainsRect(c.CombinedOuterScreenRect) {
		return c
	}
	c.AddNode(node)
	return c
}

// AddNode links node as the new head of c and narrows the combined rects.
//
// When the combined inner rect already contains the node's outer rect, the
// node alone decides what is visible and its ancestors are dropped from the
// list.
func (c *Chain) AddNode(node ChainNode) {
	n := node
	n.prev = c.head
	if !n.UnboundedOuter && c.CombinedInnerScreenRect.ContainsRect(n.ScreenOuterRect) {
		n.prev = nil
	}

	if !n.UnboundedOuter {
		c.CombinedOuterScreenRect = c.CombinedOuterScreenRect.IntersectOrZero(n.ScreenOuterRect)
	}
	c.CombinedInnerScreenRect = c.CombinedInnerScreenRect.IntersectOrZero(n.ScreenInnerRect)
	c.HasNonRootCoordSystem = c.HasNonRootCoordSystem ||
		n.WorkItem.CoordinateSystemID != spatial.RootCoordinateSystem

	c.head = &n
}

// Nodes iterates over the nodes of c from the head towards the root.
func (c Chain) Nodes() iter.Seq[*ChainNode] {
	head := c.head
	return func(yield func(*ChainNode) bool) {
		for n := head; n != nil; n = n.prev {
			if !yield(n) {
				return
			}
		}
	}
}

// Iter returns an iterator positioned at the head of c.
func (c Chain) Iter() NodeIter {
	return NodeIter{current: c.head}
}

// Len returns the number of linked nodes.
func (c Chain) Len() int {
	n := 0
	for node := c.head; node != nil; node = node.prev {
		n++
	}
	return n
}

// NodeIter walks a chain from the head towards the root.
type NodeIter struct {
	current *ChainNode
}

// Next returns the next node, or nil when the walk is over.
func (it *NodeIter) Next() *ChainNode {
	n := it.current
	if n != nil {
		it.current = n.prev
	}
	return n
}
