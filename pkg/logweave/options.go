package logweave

type options struct {
	placeholder  string
	lookback     int
	topK         int
	retention    int
	foldBindings bool
	matcher      string
}

// Option configures a Parser.
type Option func(*options)

// WithPlaceholderSyntax sets the placeholder syntax: a regular expression
// with exactly one capture group holding the variable name.
// Default: a word wrapped in braces, `\{(\w+)\}`.
func WithPlaceholderSyntax(pattern string) Option {
	return func(o *options) {
		o.placeholder = pattern
	}
}

// WithLookback sets how many prior records a resolution step may inspect.
// Default: 10.
func WithLookback(n int) Option {
	return func(o *options) {
		o.lookback = n
	}
}

// WithTopK sets how many top-scoring events are retained per record.
// Default: 1.
func WithTopK(k int) Option {
	return func(o *options) {
		o.topK = k
	}
}

// WithRetention sets the history capacity as a multiple of the lookback
// window. Default: 2.
func WithRetention(multiplier int) Option {
	return func(o *options) {
		o.retention = multiplier
	}
}

// WithFoldBindings controls what a resolution returns. When true, each
// dominator event found contributes its own bound values. When false,
// only recursive results are unioned, so a chain ending at a
// dominator-less root resolves to nothing.
// Default: true.
func WithFoldBindings(fold bool) Option {
	return func(o *options) {
		o.foldBindings = fold
	}
}

// WithMatcher selects the candidate-generation engine: "literal" for the
// Aho-Corasick prefilter, "regex" for a per-pattern loop.
// Default: "literal".
func WithMatcher(kind string) Option {
	return func(o *options) {
		o.matcher = kind
	}
}

func defaultOptions() options {
	return options{foldBindings: true}
}
