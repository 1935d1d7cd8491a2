package option

// DefaultThreshold is the minimum cosine similarity accepted by the semantic pass.
const DefaultThreshold = 0.6

// Options configures the matcher.
type Options struct {
	// Threshold is the minimum cosine similarity for a semantic match. In
	// configuration zero means DefaultThreshold; -1 accepts any nearest label.
	Threshold float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`

	// SubstringOnly disables the semantic fallback.
	SubstringOnly bool `json:"substringOnly,omitempty" yaml:"substringOnly,omitempty"`
}

// Options returns a slice of Option functions based on the Options fields
func (o *Options) Options() []Option {
	var result []Option
	if o.Threshold != 0 {
		result = append(result, WithThreshold(o.Threshold))
	}
	if o.SubstringOnly {
		result = append(result, WithSubstringOnly())
	}
	return result
}

// NewOptions creates a new Options instance with default values
func NewOptions(opts ...Option) *Options {
	options := &Options{Threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Option is a function that modifies Options
type Option func(*Options)

// WithThreshold sets the semantic acceptance threshold; any value is kept as
// given, so WithThreshold(0) accepts every non-negative score.
func WithThreshold(threshold float64) Option {
	return func(o *Options) {
		o.Threshold = threshold
	}
}

// WithSubstringOnly disables the embedding fallback.
func WithSubstringOnly() Option {
	return func(o *Options) {
		o.SubstringOnly = true
	}
}
