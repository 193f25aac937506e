package resolveref

import (
	"errors"
	"net/http"

	"github.com/grafana/resolveref/log"
)

// Option is a function that configures a Resolver during creation.
type Option func(*Resolver) error

// WithHTTPClient sets a custom HTTP client to use for requests.
// Timeouts, proxies and TLS settings are the caller's to configure here; Resolve imposes none.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(r *Resolver) error {
		if httpClient == nil {
			return errors.New("httpClient is nil")
		}
		r.httpClient = httpClient
		return nil
	}
}

// WithBaseURL resolves repositories against a Git host other than https://github.com,
// such as a GitHub Enterprise instance.
func WithBaseURL(base string) Option {
	return func(r *Resolver) error {
		if base == "" {
			return errors.New("base URL cannot be empty")
		}
		r.baseURL = base
		return nil
	}
}

// WithUserAgent configures a custom User-Agent header for HTTP requests.
func WithUserAgent(agent string) Option {
	return func(r *Resolver) error {
		if agent == "" {
			return errors.New("user agent cannot be empty")
		}
		r.userAgent = agent
		return nil
	}
}

// WithLogger configures the logger used when the context passed to Resolve carries none.
// If not provided, a no-op logger will be used by default.
func WithLogger(logger log.Logger) Option {
	return func(r *Resolver) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		r.logger = logger
		return nil
	}
}

// WithChunkSize sets the size of the buffer the advertisement is read into.
func WithChunkSize(size int) Option {
	return func(r *Resolver) error {
		if size <= 0 {
			return errors.New("chunk size must be positive")
		}
		r.chunkSize = size
		return nil
	}
}
