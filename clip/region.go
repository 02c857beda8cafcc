package clip

import (
	"github.com/gogpu/clipchain/geom"
	"github.com/gogpu/clipchain/spatial"
)

// ComplexClipRegion is a rounded-rectangle sub-region of a ClipRegion.
type ComplexClipRegion struct {
	Rect  geom.Rect
	Radii geom.BorderRadius
	Mode  Mode
}

// ClipRegion is the declarative description of a clip node: a main
// rectangle, an optional image mask and any number of rounded sub-regions.
type ClipRegion struct {
	Main         geom.Rect
	ImageMask    *ImageMask
	ComplexClips []ComplexClipRegion
}

// NewClipRegionForClipNode builds the region of a clip node defined
// relative to its reference frame. Every rectangle, including the image
// mask and the complex regions, is translated by offset.
func NewClipRegionForClipNode(rect geom.Rect, complex []ComplexClipRegion, imageMask *ImageMask, offset geom.Vector) ClipRegion {
	region := ClipRegion{Main: rect.Translate(offset)}
	if imageMask != nil {
		m := *imageMask
		m.Rect = m.Rect.Translate(offset)
		region.ImageMask = &m
	}
	if len(complex) > 0 {
		region.ComplexClips = make([]ComplexClipRegion, len(complex))
		for i, c := range complex {
			c.Rect = c.Rect.Translate(offset)
			region.ComplexClips[i] = c
		}
	}
	return region
}

// LocalClip is the clip carried by an individual display item: a rectangle,
// optionally refined by one rounded region.
type LocalClip struct {
	Rect    geom.Rect
	Rounded *ComplexClipRegion
}

// RectLocalClip returns a rectangular local clip.
func RectLocalClip(rect geom.Rect) LocalClip {
	return LocalClip{Rect: rect}
}

// RoundedLocalClip returns a local clip of rect refined by region.
func RoundedLocalClip(rect geom.Rect, region ComplexClipRegion) LocalClip {
	return LocalClip{Rect: rect, Rounded: &region}
}

// ClipRect returns the bounding rectangle of the local clip.
func (c LocalClip) ClipRect() geom.Rect {
	return c.Rect
}

// NewClipRegionFromLocalClip builds the region of a local clip translated
// by offset. A rounded local clip contributes one complex region.
func NewClipRegionFromLocalClip(c LocalClip, offset geom.Vector) ClipRegion {
	region := ClipRegion{Main: c.ClipRect().Translate(offset)}
	if c.Rounded != nil {
		r := *c.Rounded
		r.Rect = r.Rect.Translate(offset)
		region.ComplexClips = []ComplexClipRegion{r}
	}
	return region
}

// SourcesFromRegion creates the sources for region: the main rectangle,
// then the image mask if any, then one rounded rectangle per complex
// region.
func SourcesFromRegion(region ClipRegion, node spatial.NodeIndex) *Sources {
	prims := make([]Primitive, 0, 2+len(region.ComplexClips))
	prims = append(prims, NewRectangle(region.Main, ModeClip))
	if region.ImageMask != nil {
		prims = append(prims, *region.ImageMask)
	}
	for _, c := range region.ComplexClips {
		prims = append(prims, NewRoundedRectangle(c.Rect, c.Radii, c.Mode))
	}
	return NewSources(prims, node)
}
