package mmalloc

type options struct {
	logger *Logger
}

// Option configures Allocator construction.
//
// Today options exist mainly to avoid exploding the constructor surface;
// the allocation behavior itself is fixed by the size-class scheme.
type Option func(*options)

// WithLogger configures the logger used for allocator diagnostics
// (arena lifecycle, mapping failures).
//
// If nil is passed, the no-op logger is used.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}
