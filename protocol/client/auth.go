package client

import (
	"errors"
)

// TokenUsername is the placeholder username sent with WithToken. GitHub ignores it, but Basic auth requires one.
const TokenUsername = "x-access-token"

// WithBasicAuth sets the HTTP Basic Auth options.
func WithBasicAuth(username, password string) Option {
	// NOTE: basic auth is a valid authentication method for the Git HTTP protocol.
	// See: https://git-scm.com/docs/http-protocol#_authentication
	return func(c *RawClient) error {
		if username == "" {
			return errors.New("username cannot be empty")
		}
		if c.basicAuth != nil {
			return errors.New("credentials already configured")
		}
		c.basicAuth = &struct{ Username, Password string }{username, password}
		return nil
	}
}

// WithToken authenticates with an access token, sent as the password half of Basic auth.
func WithToken(token string) Option {
	return func(c *RawClient) error {
		if token == "" {
			return errors.New("token cannot be empty")
		}
		return WithBasicAuth(TokenUsername, token)(c)
	}
}
