package gpucache

// Option configures a Cache during creation.
//
// Example:
//
//	c := gpucache.New(gpucache.WithMaxIdleFrames(10), gpucache.WithLabel("clip_cache"))
type Option func(*options)

type options struct {
	maxIdleFrames uint32
	label         string
}

func defaultOptions() options {
	return options{
		maxIdleFrames: DefaultMaxIdleFrames,
		label:         "gpu_cache",
	}
}

// WithMaxIdleFrames sets how many frames an entry may go unrequested before
// it is evicted. Zero evicts everything not requested in the current frame.
func WithMaxIdleFrames(n uint32) Option {
	return func(o *options) {
		o.maxIdleFrames = n
	}
}

// WithLabel sets the debug label of GPU buffers created for the cache.
func WithLabel(label string) Option {
	return func(o *options) {
		if label != "" {
			o.label = label
		}
	}
}
