// Package clipchain computes hierarchical clip regions for a retained-mode,
// GPU-accelerated scene renderer.
//
// # Overview
//
// Every drawable node in a scene may be clipped by a stack of nested masks:
// rectangles, rounded rectangles, image alpha masks, box-shadow blur masks
// and line-decoration masks. clipchain determines the effective clip of each
// node, expresses it as exact local-space geometry and as conservative
// device-space rectangles, and packs the per-mask numeric data into a
// GPU-resident block cache for the rasterization stage.
//
// clipchain does not rasterize masks, generate shaders or decide final pixel
// coverage.
//
// # Architecture
//
// The module is organized into:
//   - geom: layout/device rectangles, border radii, fast transforms and
//     screen-space projection
//   - clip: clip primitives, clip-source collections, the clip-source store
//     and persistent clip chains with enclosure pruning
//   - gpucache: a write-once-per-invalidation block cache with GPU upload
//   - resource: image-mask residency for image clip primitives
//   - spatial: spatial nodes, coordinate systems and world transforms
//   - frame: a per-frame builder that ties the pieces together
//
// # Quick Start
//
//	store := clip.NewStore()
//	idx := store.Insert(clip.NewSources([]clip.Primitive{
//	    clip.NewRoundedRectangle(geom.NewRect(0, 0, 100, 100), geom.UniformRadius(20), clip.ModeClip),
//	}, spatial.RootNode))
//
//	b := frame.NewBuilder(store, tree, frame.WithDevicePixelScale(2))
//	b.Begin()
//	b.RefreshSources()
//	chain := b.AddClipNode(clip.NoChain, idx)
//	for node := range b.Chain(chain).Nodes() {
//	    _ = node.ScreenOuterRect
//	}
//	b.End()
//
// # Logging
//
// All packages log through [Logger], which is silent until [SetLogger] is
// called.
//
// # Coordinate System
//
// Layout space uses float32 coordinates with the origin at the top-left and
// y increasing downwards. Device space is integer pixels after applying the
// device pixel scale.
package clipchain

// Version is the current version of the module.
const Version = "0.1.0"
