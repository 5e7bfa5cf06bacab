package shopify

import (
	"net/http"
	"time"
)

const (
	// DefaultAPIVersion is the Admin API version used when none is configured.
	DefaultAPIVersion = "2025-01"
	// DefaultTimeout is the HTTP client timeout used when none is configured.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent identifies the library to Shopify.
	DefaultUserAgent = "shopadmin"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	apiVersion string
	timeout    time.Duration
	retryMax   int
	retryWait  [2]time.Duration
	userAgent  string
	httpClient *http.Client
}

func defaultOptions() clientOptions {
	return clientOptions{
		apiVersion: DefaultAPIVersion,
		timeout:    DefaultTimeout,
		userAgent:  DefaultUserAgent,
	}
}

// WithAPIVersion pins the Admin API version, e.g. "2024-10".
func WithAPIVersion(version string) Option {
	return func(o *clientOptions) {
		if version != "" {
			o.apiVersion = version
		}
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

// WithRetryMax enables retries of failed requests (connection errors, 429 and 5xx)
// through go-retryablehttp. Zero disables retries.
func WithRetryMax(retries int) Option {
	return func(o *clientOptions) {
		if retries >= 0 {
			o.retryMax = retries
		}
	}
}

// WithRetryWait bounds the backoff between retries.
func WithRetryWait(minWait, maxWait time.Duration) Option {
	return func(o *clientOptions) {
		if minWait > 0 && maxWait >= minWait {
			o.retryWait = [2]time.Duration{minWait, maxWait}
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. Timeout and retry options are
// ignored when a client is supplied.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}
