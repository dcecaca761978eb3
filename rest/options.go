package rest

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const (
	// DefaultMaxRetries is the number of repeats after a failed attempt.
	DefaultMaxRetries = 3
	// DefaultRetryDelay is the pause between attempts.
	DefaultRetryDelay = 100 * time.Millisecond
	// DefaultAPIVersion is sent in the Api-Version header.
	DefaultAPIVersion = "v1"
	// DefaultUserAgent identifies the client.
	DefaultUserAgent = "recnet-go/1.0"
)

// Option configures a Dispatcher.
type Option func(*options)

type options struct {
	apiKey         string
	apiVersion     string
	userAgent      string
	capacity       int
	window         time.Duration
	maxConnections int
	maxRetries     int
	retryDelay     time.Duration
	timeout        time.Duration
	logger         zerolog.Logger
	registerer     prometheus.Registerer
	httpClient     *http.Client
	clock          Clock
}

func defaultOptions() options {
	return options{
		apiVersion:     DefaultAPIVersion,
		userAgent:      DefaultUserAgent,
		capacity:       DefaultRateCapacity,
		window:         DefaultRateWindow,
		maxConnections: DefaultMaxConnections,
		maxRetries:     DefaultMaxRetries,
		retryDelay:     DefaultRetryDelay,
		timeout:        DefaultTimeout,
		logger:         zerolog.Nop(),
		clock:          SystemClock(),
	}
}

// WithAPIKey sets the subscription key sent with every call.
func WithAPIKey(key string) Option {
	return func(o *options) {
		o.apiKey = key
	}
}

// WithAPIVersion sets the Api-Version header value.
func WithAPIVersion(version string) Option {
	return func(o *options) {
		if version != "" {
			o.apiVersion = version
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *options) {
		o.userAgent = userAgent
	}
}

// WithRateLimit sets the calls admitted per window.
func WithRateLimit(capacity int, window time.Duration) Option {
	return func(o *options) {
		o.capacity = capacity
		o.window = window
	}
}

// WithMaxConnections caps concurrent connections per host.
func WithMaxConnections(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConnections = n
		}
	}
}

// WithMaxRetries sets the maximum number of retry attempts.
func WithMaxRetries(retries int) Option {
	return func(o *options) {
		if retries >= 0 {
			o.maxRetries = retries
		}
	}
}

// WithRetryDelay sets the delay between retry attempts.
func WithRetryDelay(delay time.Duration) Option {
	return func(o *options) {
		if delay >= 0 {
			o.retryDelay = delay
		}
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegisterer registers the dispatcher metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithHTTPClient replaces the pooled client. Timeout and connection
// options are ignored when it is set.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithClock replaces the clock used by the rate budget.
func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}
