package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfig returns the default beakersync configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL: "http://localhost:8888",
		},
		Sync: SyncConfig{
			Delay: time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Store: StoreConfig{
			Listen: "127.0.0.1:8888",
		},
	}
}

// DefaultConfigYAML returns the default configuration as YAML bytes
func DefaultConfigYAML() ([]byte, error) {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal default config to YAML: %w", err)
	}
	return data, nil
}
