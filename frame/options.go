package frame

import (
	"github.com/gogpu/clipchain/geom"
	"github.com/gogpu/clipchain/gpucache"
	"github.com/gogpu/clipchain/resource"
)

// Option configures a Builder during creation.
//
// Example:
//
//	b := frame.NewBuilder(store, tree,
//	    frame.WithDevicePixelScale(2),
//	    frame.WithScreenRect(geom.NewDeviceIntRect(0, 0, 1920, 1080)),
//	)
type Option func(*options)

type options struct {
	scale  geom.DevicePixelScale
	screen *geom.DeviceIntRect
	gpu    *gpucache.Cache
	res    *resource.Cache
}

func defaultOptions() options {
	return options{scale: 1}
}

// WithDevicePixelScale sets the ratio of device pixels to layout units.
func WithDevicePixelScale(s geom.DevicePixelScale) Option {
	return func(o *options) {
		if s > 0 {
			o.scale = s
		}
	}
}

// WithScreenRect limits every chain to r. Without it chains start from
// geom.MaxDeviceIntRect.
func WithScreenRect(r geom.DeviceIntRect) Option {
	return func(o *options) {
		o.screen = &r
	}
}

// WithGPUCache makes the builder write into c instead of a private cache.
func WithGPUCache(c *gpucache.Cache) Option {
	return func(o *options) {
		o.gpu = c
	}
}

// WithResourceCache makes image masks request their images from c. Without
// it image requests are skipped.
func WithResourceCache(c *resource.Cache) Option {
	return func(o *options) {
		o.res = c
	}
}
