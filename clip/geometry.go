package clip

import "github.com/gogpu/clipchain/geom"

// Geometry is a rectangle in local space together with its device-space
// projection.
type Geometry struct {
	LocalRect  geom.Rect
	DeviceRect geom.DeviceIntRect
}

// NewGeometry returns the geometry of localRect with a zero device rect.
func NewGeometry(localRect geom.Rect) Geometry {
	return Geometry{LocalRect: localRect}
}
