package recnet

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/recnetbot/recnet/rest"
)

// DefaultConcurrency bounds the fan-out of FetchEach.
const DefaultConcurrency = 10

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	hosts       rest.Hosts
	concurrency int
	logger      zerolog.Logger
	rest        []rest.Option
}

// WithHosts overrides every base URL.
func WithHosts(hosts rest.Hosts) Option {
	return func(o *clientOptions) {
		o.hosts = hosts
	}
}

// WithBaseURL points every endpoint at one server. Used for tests and proxies.
func WithBaseURL(server string) Option {
	return func(o *clientOptions) {
		o.hosts = rest.HostsAt(server)
	}
}

// WithConcurrency sets the fan-out used by FetchEach.
func WithConcurrency(n int) Option {
	return func(o *clientOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithLogger sets the logger for the client and its dispatcher.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
		o.rest = append(o.rest, rest.WithLogger(logger))
	}
}

// WithAPIVersion sets the Api-Version header value.
func WithAPIVersion(version string) Option {
	return dispatcherOption(rest.WithAPIVersion(version))
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return dispatcherOption(rest.WithUserAgent(userAgent))
}

// WithRateLimit sets the calls admitted per window.
func WithRateLimit(capacity int, window time.Duration) Option {
	return dispatcherOption(rest.WithRateLimit(capacity, window))
}

// WithMaxConnections caps concurrent connections per host.
func WithMaxConnections(n int) Option {
	return dispatcherOption(rest.WithMaxConnections(n))
}

// WithMaxRetries sets the maximum number of retry attempts.
func WithMaxRetries(retries int) Option {
	return dispatcherOption(rest.WithMaxRetries(retries))
}

// WithRetryDelay sets the delay between retry attempts.
func WithRetryDelay(delay time.Duration) Option {
	return dispatcherOption(rest.WithRetryDelay(delay))
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return dispatcherOption(rest.WithTimeout(timeout))
}

// WithRegisterer registers the dispatcher metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return dispatcherOption(rest.WithRegisterer(reg))
}

// WithHTTPClient replaces the pooled HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return dispatcherOption(rest.WithHTTPClient(client))
}

// WithDispatcherOptions passes options straight to the dispatcher.
func WithDispatcherOptions(opts ...rest.Option) Option {
	return func(o *clientOptions) {
		o.rest = append(o.rest, opts...)
	}
}

func dispatcherOption(opt rest.Option) Option {
	return func(o *clientOptions) {
		o.rest = append(o.rest, opt)
	}
}
