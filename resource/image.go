// Package resource keeps the images referenced by image-mask clips resident
// as 8-bit alpha masks and describes the texture uploads they need.
//
// Requests are fire-and-forget: a clip asks for its image every frame and
// the cache decides whether anything has to be converted or uploaded.
package resource

import (
	"errors"
	"fmt"
)

// Errors returned by Cache.
var (
	// ErrImageNotFound is returned for operations on a key that was never
	// added or was deleted.
	ErrImageNotFound = errors.New("resource: image not found")

	// ErrInvalidImage is returned for nil or empty images and for tiles
	// outside the image.
	ErrInvalidImage = errors.New("resource: invalid image")
)

// ImageKey identifies an image registered with a Cache.
type ImageKey uint64

// ImageRendering selects how an image is resampled when it has to be
// scaled.
type ImageRendering uint8

const (
	RenderingAuto ImageRendering = iota
	RenderingCrispEdges
	RenderingPixelated
)

// String returns the name of the rendering mode.
func (r ImageRendering) String() string {
	switch r {
	case RenderingAuto:
		return "Auto"
	case RenderingCrispEdges:
		return "CrispEdges"
	case RenderingPixelated:
		return "Pixelated"
	default:
		return fmt.Sprintf("ImageRendering(%d)", uint8(r))
	}
}

// TileOffset addresses one DefaultTileSize square of a tiled image.
type TileOffset struct {
	X, Y uint16
}

// ImageRequest names the image data a clip needs this frame.
type ImageRequest struct {
	Key       ImageKey
	Rendering ImageRendering
	// Tile selects one tile of a large image; nil means the whole image.
	Tile *TileOffset
}

// residentKey is the comparable form of an ImageRequest.
type residentKey struct {
	key       ImageKey
	rendering ImageRendering
	tile      TileOffset
	tiled     bool
}

func (r ImageRequest) residentKey() residentKey {
	k := residentKey{key: r.Key, rendering: r.Rendering}
	if r.Tile != nil {
		k.tile, k.tiled = *r.Tile, true
	}
	return k
}

func (k residentKey) String() string {
	if k.tiled {
		return fmt.Sprintf("image %d/%v tile (%d,%d)", k.key, k.rendering, k.tile.X, k.tile.Y)
	}
	return fmt.Sprintf("image %d/%v", k.key, k.rendering)
}
