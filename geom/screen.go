package geom

// CalculateScreenBoundingRect projects the layout rectangle r through
// transform, scales it to device pixels and returns the rounded-out bounding
// box of its corners, clipped to screen (or to MaxDeviceIntRect when screen
// is nil).
//
// When any corner lands behind the viewer the bounds cannot be computed and
// the whole screen is returned instead. The result is conservative in both
// cases.
func CalculateScreenBoundingRect(transform FastTransform, r Rect, scale DevicePixelScale, screen *DeviceIntRect) DeviceIntRect {
	limit := screenLimit(screen)
	bbox, ok := projectToDevice(transform, r, scale)
	if !ok {
		return limit
	}
	bbox, ok = bbox.Intersection(limit.ToRect())
	if !ok {
		return DeviceIntRect{}
	}
	return bbox.RoundOut().ToDeviceIntRect()
}

// CalculateScreenInnerRect is CalculateScreenBoundingRect for rectangles
// that must never claim partially covered pixels: the projection is rounded
// in, and a corner behind the viewer yields the zero rectangle.
//
// The result is only meaningful for transforms that keep rectangles
// axis-aligned.
func CalculateScreenInnerRect(transform FastTransform, r Rect, scale DevicePixelScale, screen *DeviceIntRect) DeviceIntRect {
	bbox, ok := projectToDevice(transform, r, scale)
	if !ok {
		return DeviceIntRect{}
	}
	bbox, ok = bbox.Intersection(screenLimit(screen).ToRect())
	if !ok {
		return DeviceIntRect{}
	}
	inner := bbox.RoundIn().ToDeviceIntRect()
	if inner.IsEmpty() {
		return DeviceIntRect{}
	}
	return inner
}

func screenLimit(screen *DeviceIntRect) DeviceIntRect {
	if screen != nil {
		return *screen
	}
	return MaxDeviceIntRect()
}

// projectToDevice returns the device-space bounding box of the transformed
// corners of r. ok is false when a corner lands behind the viewer.
func projectToDevice(transform FastTransform, r Rect, scale DevicePixelScale) (Rect, bool) {
	corners := [4]Point{r.Origin, r.TopRight(), r.BottomLeft(), r.BottomRight()}
	var lo, hi Point
	for i, c := range corners {
		p, ok := transform.TransformPoint2DHomogeneous(c).ToPoint2D()
		if !ok {
			return Rect{}, false
		}
		p = p.Scale(float32(scale))
		if i == 0 {
			lo, hi = p, p
			continue
		}
		lo = Point{X: min(lo.X, p.X), Y: min(lo.Y, p.Y)}
		hi = Point{X: max(hi.X, p.X), Y: max(hi.Y, p.Y)}
	}
	return RectFromPoints(lo, hi), true
}

// ToDeviceIntRect converts r to integer pixels by truncation, saturating
// edges that do not fit in int32.
func (r Rect) ToDeviceIntRect() DeviceIntRect {
	x0, y0 := clampToInt32(r.MinX()), clampToInt32(r.MinY())
	x1, y1 := clampToInt32(r.MaxX()), clampToInt32(r.MaxY())
	return NewDeviceIntRect(x0, y0, x1-x0, y1-y0)
}
