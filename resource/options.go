package resource

const (
	// DefaultResidentLimit is the number of alpha masks kept resident after
	// EndFrame.
	DefaultResidentLimit = 256

	// DefaultTileSize is the edge length in pixels of an image tile.
	DefaultTileSize = 512

	// DefaultMaxMaskSize is the largest mask edge in pixels. Larger images
	// are scaled down to fit.
	DefaultMaxMaskSize = 4096
)

// Option configures a Cache during creation.
//
// Example:
//
//	c := resource.NewCache(resource.WithResidentLimit(64))
type Option func(*options)

type options struct {
	residentLimit int
	tileSize      int
	maxMaskSize   int
}

func defaultOptions() options {
	return options{
		residentLimit: DefaultResidentLimit,
		tileSize:      DefaultTileSize,
		maxMaskSize:   DefaultMaxMaskSize,
	}
}

// WithResidentLimit sets how many masks stay resident between frames.
// Zero keeps every mask.
func WithResidentLimit(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.residentLimit = n
		}
	}
}

// WithTileSize sets the tile edge length used for tiled requests.
func WithTileSize(px int) Option {
	return func(o *options) {
		if px > 0 {
			o.tileSize = px
		}
	}
}

// WithMaxMaskSize sets the largest mask edge length.
func WithMaxMaskSize(px int) Option {
	return func(o *options) {
		if px > 0 {
			o.maxMaskSize = px
		}
	}
}
