package client

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	// DefaultBaseURL is the host repositories are resolved against.
	DefaultBaseURL = "https://github.com"
	// DefaultUserAgent is sent when no WithUserAgent option is given.
	DefaultUserAgent = "resolveref/0"
)

type Option func(*RawClient) error

type RawClient struct {
	// Base URL of the Git host
	base *url.URL
	// HTTP client used for making requests
	client *http.Client
	// User-Agent header value for requests
	userAgent string
	// Basic authentication credentials (username/password)
	basicAuth *struct{ Username, Password string }
}

// NewRawClient creates a client for the smart-HTTP discovery endpoint of a Git host.
// Repositories are addressed as <base>/<owner>/<repo>.git. An empty base selects DefaultBaseURL.
//
// Example:
//
//	c, err := client.NewRawClient("",
//	    client.WithToken(os.Getenv("GITHUB_TOKEN")),
//	    client.WithUserAgent("my-tool/1.0"),
//	)
//	if err != nil {
//	    return err
//	}
func NewRawClient(base string, options ...Option) (*RawClient, error) {
	if base == "" {
		base = DefaultBaseURL
	}

	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parsing url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.New("only HTTP and HTTPS URLs are supported")
	}

	u.Path = strings.TrimRight(u.Path, "/")

	c := &RawClient{
		base:      u,
		client:    &http.Client{},
		userAgent: DefaultUserAgent,
	}

	for _, option := range options {
		if option == nil { // allow for easy optional options
			continue
		}
		if err := option(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// HasCredentials reports whether requests carry an Authorization header.
func (c *RawClient) HasCredentials() bool {
	return c.basicAuth != nil
}

// addDefaultHeaders adds the default headers to the request.
// No Git-Protocol header is sent: the version 0 advertisement is the one carrying the HEAD symref
// on its first ref line.
func (c *RawClient) addDefaultHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Encoding", "gzip")

	if c.basicAuth != nil {
		req.SetBasicAuth(c.basicAuth.Username, c.basicAuth.Password)
	}
}

// WithUserAgent configures a custom User-Agent header for HTTP requests.
func WithUserAgent(agent string) Option {
	return func(c *RawClient) error {
		if agent == "" {
			return errors.New("user agent cannot be empty")
		}
		c.userAgent = agent
		return nil
	}
}

// WithHTTPClient configures a custom HTTP client for making requests.
// This allows customization of timeouts, transport settings, proxies, and other HTTP behavior.
// The provided client must not be nil.
func WithHTTPClient(client *http.Client) Option {
	return func(c *RawClient) error {
		if client == nil {
			return errors.New("httpClient is nil")
		}

		c.client = client
		return nil
	}
}
