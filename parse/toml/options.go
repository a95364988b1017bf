package toml

// DefaultMaxDepth bounds the nesting of tables and arrays in both directions.
const DefaultMaxDepth = 512

// Options shared by the Decoder and the Encoder.
type Options struct {
	// NullSurrogate, when set, is the string that stands in for null: it
	// decodes to nil and nil encodes to it. When unset, nothing decodes to
	// nil and nil entries are dropped on encode.
	NullSurrogate *string
	MaxDepth      int
	Classifier    TypeClassifier
}

type Option func(*Options)

func WithNullSurrogate(s string) Option {
	return func(o *Options) {
		o.NullSurrogate = &s
	}
}

// WithoutNullSurrogate clears a surrogate set by an earlier option.
func WithoutNullSurrogate() Option {
	return func(o *Options) {
		o.NullSurrogate = nil
	}
}

func WithMaxDepth(n int) Option {
	return func(o *Options) {
		o.MaxDepth = n
	}
}

func WithClassifier(c TypeClassifier) Option {
	return func(o *Options) {
		o.Classifier = c
	}
}

func newOptions(opts []Option) Options {
	o := Options{MaxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Classifier == nil {
		o.Classifier = DefaultClassifier()
	}
	return o
}
