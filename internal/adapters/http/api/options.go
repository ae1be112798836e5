package api

import "github.com/okian/homespark/pkg/logger"

// Defaults for the API.
const (
	DefaultVersion         = "2.5.0"
	DefaultMaxResults      = 3
	DefaultMaxResultsLimit = 20
	maxBodyBytes           = 64 << 10
)

type options struct {
	version         string
	defaultResults  int
	maxResultsLimit int
	log             logger.Logger
}

func defaultOptions() *options {
	return &options{
		version:         DefaultVersion,
		defaultResults:  DefaultMaxResults,
		maxResultsLimit: DefaultMaxResultsLimit,
	}
}

// Option configures a Server.
type Option func(*options)

// WithVersion sets the service version reported by GET /.
func WithVersion(v string) Option {
	return func(o *options) {
		if v != "" {
			o.version = v
		}
	}
}

// WithDefaultMaxResults sets the result count used when a request omits
// max_results.
func WithDefaultMaxResults(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.defaultResults = n
		}
	}
}

// WithMaxResultsLimit caps max_results.
func WithMaxResultsLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxResultsLimit = n
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}
