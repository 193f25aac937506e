package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultListen is the address the server listens on when none is configured.
const DefaultListen = ":8080"

// Server is the configuration of the serve command.
//
//	listen: ":8080"
//	baseURL: "https://github.com"
//	userAgent: "resolveref/0"
//	timeout: 10s
type Server struct {
	Listen    string        `yaml:"listen"`
	BaseURL   string        `yaml:"baseURL"`
	UserAgent string        `yaml:"userAgent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Default returns the configuration used without a config file.
func Default() Server {
	return Server{Listen: DefaultListen}
}

// Load reads the config file at path on top of Default.
func Load(path string) (Server, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Server{}, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Server{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default. Unknown keys are rejected.
func Parse(data []byte) (Server, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Server{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be defaulted.
func (s Server) Validate() error {
	if s.Listen == "" {
		return errors.New("listen cannot be empty")
	}
	if s.Timeout < 0 {
		return errors.New("timeout cannot be negative")
	}
	return nil
}
