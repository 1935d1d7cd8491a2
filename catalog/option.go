package catalog

// Options controls catalog construction.
type Options struct {
	// BatchSize is the number of labels sent per embedder call.
	BatchSize int
	// Model records the embedding model name for diagnostics.
	Model string
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithBatchSize sets the embedding batch size.
func WithBatchSize(size int) Option {
	return func(o *Options) { o.BatchSize = size }
}

// WithModel records the embedding model name.
func WithModel(model string) Option {
	return func(o *Options) { o.Model = model }
}

func newOptions(opts ...Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	if options.BatchSize <= 0 {
		options.BatchSize = 64
	}
	return options
}
