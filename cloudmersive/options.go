package cloudmersive

import (
	"maps"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultBasePath is the vendor's hosted endpoint
	DefaultBasePath = "https://api.cloudmersive.com"
	// DefaultTimeout matches the service's documented client default
	DefaultTimeout = 60 * time.Second
	// APIKeyHeader carries the API key on every request
	APIKeyHeader = "Apikey"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	basePath       string
	apiKey         string
	defaultHeaders map[string]string
	timeout        time.Duration
	cache          bool
	enableCookies  bool
	httpClient     *http.Client
	userAgent      string
	maxRetries     int
	retryDelay     time.Duration
	logger         zerolog.Logger
	metrics        *Metrics
}

func defaultOptions() clientOptions {
	return clientOptions{
		basePath:       DefaultBasePath,
		defaultHeaders: map[string]string{},
		timeout:        DefaultTimeout,
		cache:          true,
		retryDelay:     time.Second,
		logger:         zerolog.Nop(),
	}
}

// WithBasePath sets the URL every endpoint path is resolved against.
func WithBasePath(basePath string) Option {
	return func(o *clientOptions) {
		o.basePath = basePath
	}
}

// WithAPIKey sets the key sent in the Apikey header.
func WithAPIKey(apiKey string) Option {
	return func(o *clientOptions) {
		o.apiKey = apiKey
	}
}

// WithDefaultHeader adds a header sent with every request.
func WithDefaultHeader(name, value string) Option {
	return func(o *clientOptions) {
		o.defaultHeaders[name] = value
	}
}

// WithDefaultHeaders adds several headers sent with every request.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(o *clientOptions) {
		maps.Copy(o.defaultHeaders, headers)
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithCache controls caching. When disabled a timestamp parameter is added
// to GET requests.
func WithCache(enabled bool) Option {
	return func(o *clientOptions) {
		o.cache = enabled
	}
}

// WithCookies makes the client store response cookies and replay them.
func WithCookies(enabled bool) Option {
	return func(o *clientOptions) {
		o.enableCookies = enabled
	}
}

// WithHTTPClient replaces the underlying HTTP client. Timeout and cookie
// options are not applied to a custom client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithMaxRetries sets the maximum number of retry attempts.
func WithMaxRetries(retries int) Option {
	return func(o *clientOptions) {
		if retries >= 0 {
			o.maxRetries = retries
		}
	}
}

// WithRetryDelay sets the minimum delay between retry attempts.
func WithRetryDelay(delay time.Duration) Option {
	return func(o *clientOptions) {
		if delay > 0 {
			o.retryDelay = delay
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithMetrics records request counts and latencies.
func WithMetrics(m *Metrics) Option {
	return func(o *clientOptions) {
		o.metrics = m
	}
}
