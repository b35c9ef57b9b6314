// Package config loads the beakersync client and server configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"dario.cat/mergo"
	"github.com/spf13/afero"
	"github.com/wizzomafizzo/beakersync/internal/logging"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvURL   = "BEAKERSYNC_URL"
	EnvToken = "BEAKERSYNC_TOKEN"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Store   StoreConfig   `yaml:"store"`
	Sync    SyncConfig    `yaml:"sync"`
}

// ServerConfig describes the notebook server the client talks to.
type ServerConfig struct {
	URL     string        `yaml:"url"`
	Token   string        `yaml:"token,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// SyncConfig tunes the synchronizer.
type SyncConfig struct {
	// Delay between a completed request and the end-of-sync signal.
	Delay time.Duration `yaml:"delay"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path,omitempty"`
}

// StoreConfig configures the settings store served by "beakersync serve".
type StoreConfig struct {
	Path   string `yaml:"path,omitempty"`
	Listen string `yaml:"listen"`
	Token  string `yaml:"token,omitempty"`
}

// Load reads the YAML config at path. A missing file yields the defaults.
// Environment overrides are applied after defaults are merged in.
func Load(fs afero.Fs, path string) (*Config, error) {
	var cfg Config

	data, err := afero.ReadFile(fs, path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	return finish(&cfg, os.LookupEnv)
}

// LoadFromYAML loads config from YAML bytes - helper for tests
func LoadFromYAML(data []byte, lookup func(string) (string, bool)) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return finish(&cfg, lookup)
}

func finish(cfg *Config, lookup func(string) (string, bool)) (*Config, error) {
	if err := mergo.Merge(cfg, DefaultConfig()); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	cfg.ApplyEnv(lookup)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides the server URL and token from the environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		return
	}
	if value, ok := lookup(EnvURL); ok && value != "" {
		c.Server.URL = value
	}
	if value, ok := lookup(EnvToken); ok && value != "" {
		c.Server.Token = value
	}
}

// Validate checks the values that would otherwise fail later at request time.
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("invalid server url %q: %w", c.Server.URL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid server url %q: scheme must be http or https", c.Server.URL)
	}

	if c.Server.Timeout < 0 {
		return errors.New("server timeout cannot be negative")
	}
	if c.Sync.Delay < 0 {
		return errors.New("sync delay cannot be negative")
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}

	if c.Store.Listen == "" {
		return errors.New("store listen address cannot be empty")
	}

	return nil
}
