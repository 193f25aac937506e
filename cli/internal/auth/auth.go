package auth

import (
	"os"
)

// Config holds authentication configuration
type Config struct {
	Token string
}

// FromEnvironment reads authentication from environment variables.
// Priority: RESOLVEREF_TOKEN > GITHUB_TOKEN
func FromEnvironment() *Config {
	token := os.Getenv("RESOLVEREF_TOKEN")
	if token == "" {
		// Fallback to GitHub token
		token = os.Getenv("GITHUB_TOKEN")
	}

	return &Config{Token: token}
}

// Merge combines environment auth with command-line flags.
// Command-line flags take precedence over environment variables.
func (c *Config) Merge(flagToken string) {
	if flagToken != "" {
		c.Token = flagToken
	}
}

// HasAuth returns true if a token is configured
func (c *Config) HasAuth() bool {
	return c.Token != ""
}
