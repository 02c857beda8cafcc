// Package spatial is a minimal spatial tree: reference frames and scroll
// frames arranged in a hierarchy, each with a world transform and a
// coordinate-system identifier.
//
// A coordinate system groups nodes whose transforms relative to each other
// are axis-aligned 2D offsets and scales. A new coordinate system starts at
// every reference frame that rotates, skews or projects.
package spatial

import (
	"fmt"

	"github.com/gogpu/clipchain/geom"
)

// NodeIndex identifies a node in a Tree.
type NodeIndex uint32

// RootNode is the root reference frame every Tree starts with.
const RootNode NodeIndex = 0

// CoordinateSystemID identifies a coordinate system.
type CoordinateSystemID uint32

// RootCoordinateSystem is the coordinate system of the root reference frame.
const RootCoordinateSystem CoordinateSystemID = 0

type nodeKind uint8

const (
	referenceFrame nodeKind = iota
	scrollFrame
)

type node struct {
	parent NodeIndex
	kind   nodeKind
	local  geom.FastTransform

	world       geom.FastTransform
	relative    geom.FastTransform
	coordSystem CoordinateSystemID
}

// Tree is a hierarchy of spatial nodes. Parents are always added before
// their children, so indices are topologically ordered.
//
// Tree is not safe for concurrent use.
type Tree struct {
	nodes   []node
	systems int
	dirty   bool
}

// NewTree creates a tree holding only the identity root reference frame.
func NewTree() *Tree {
	t := &Tree{
		nodes: make([]node, 1, 16),
		dirty: true,
	}
	t.nodes[RootNode] = node{parent: RootNode, kind: referenceFrame, local: geom.IdentityTransform()}
	return t
}

// Len returns the number of nodes, including the root.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// AddReferenceFrame adds a node transformed by transform relative to parent.
func (t *Tree) AddReferenceFrame(parent NodeIndex, transform geom.FastTransform) NodeIndex {
	return t.add(parent, referenceFrame, transform)
}

// AddScrollFrame adds a node whose content is shifted by offset relative to
// parent. Scrolling content up by 10 units is an offset of (0, -10).
func (t *Tree) AddScrollFrame(parent NodeIndex, offset geom.Vector) NodeIndex {
	return t.add(parent, scrollFrame, geom.OffsetTransform(offset))
}

func (t *Tree) add(parent NodeIndex, kind nodeKind, local geom.FastTransform) NodeIndex {
	t.mustExist(parent)
	t.nodes = append(t.nodes, node{parent: parent, kind: kind, local: local})
	t.dirty = true
	return NodeIndex(len(t.nodes) - 1)
}

// SetScrollOffset changes the offset of a scroll frame.
func (t *Tree) SetScrollOffset(n NodeIndex, offset geom.Vector) {
	t.mustExist(n)
	if t.nodes[n].kind != scrollFrame {
		panic(fmt.Sprintf("spatial: node %d is not a scroll frame", n))
	}
	t.nodes[n].local = geom.OffsetTransform(offset)
	t.dirty = true
}

// Update recomputes world transforms and coordinate systems. Accessors
// call it implicitly when the tree changed.
func (t *Tree) Update() {
	if !t.dirty {
		return
	}
	t.systems = 1
	root := &t.nodes[RootNode]
	root.world = root.local
	root.relative = root.local
	root.coordSystem = RootCoordinateSystem

	for i := 1; i < len(t.nodes); i++ {
		n := &t.nodes[i]
		p := &t.nodes[n.parent]
		n.world = n.local.Then(p.world)

		if n.kind == referenceFrame && startsCoordinateSystem(n.local) {
			n.coordSystem = CoordinateSystemID(t.systems)
			n.relative = geom.IdentityTransform()
			t.systems++
			continue
		}
		n.coordSystem = p.coordSystem
		n.relative = n.local.Then(p.relative)
	}
	t.dirty = false
}

func startsCoordinateSystem(f geom.FastTransform) bool {
	return f.Kind() != geom.TransformAxisAligned || f.HasPerspectiveComponent()
}

// WorldTransform returns the transform from the local space of n to world
// space.
func (t *Tree) WorldTransform(n NodeIndex) geom.FastTransform {
	t.mustExist(n)
	t.Update()
	return t.nodes[n].world
}

// CoordinateSystem returns the coordinate system n belongs to.
func (t *Tree) CoordinateSystem(n NodeIndex) CoordinateSystemID {
	t.mustExist(n)
	t.Update()
	return t.nodes[n].coordSystem
}

// RelativeTransform returns the transform from the local space of n to the
// space of the reference frame that started its coordinate system. The
// result is always axis-aligned.
func (t *Tree) RelativeTransform(n NodeIndex) geom.FastTransform {
	t.mustExist(n)
	t.Update()
	return t.nodes[n].relative
}

// CoordinateSystems returns the number of distinct coordinate systems.
func (t *Tree) CoordinateSystems() int {
	t.Update()
	return t.systems
}

func (t *Tree) mustExist(n NodeIndex) {
	if int(n) >= len(t.nodes) {
		panic(fmt.Sprintf("spatial: node %d out of range (len %d)", n, len(t.nodes)))
	}
}
