package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the service configuration
type Config struct {
	Addr           string `yaml:"addr" json:"addr"`
	MaxBodyBytes   int64  `yaml:"max_body_bytes" json:"max_body_bytes"`
	DefaultProfile string `yaml:"default_profile" json:"default_profile"`
	LogLevel       string `yaml:"log_level" json:"log_level"`
}

// DefaultConfig returns a local-development setup: loopback bind,
// 16 MiB payload ceiling, no profile filtering.
func DefaultConfig() *Config {
	return &Config{
		Addr:           "127.0.0.1:5000",
		MaxBodyBytes:   16 << 20,
		DefaultProfile: "no_profile",
		LogLevel:       "info",
	}
}

// LoadConfig reads a YAML config file over the defaults
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Addr == "" {
		return nil, fmt.Errorf("config %s: addr must not be empty", path)
	}
	if cfg.MaxBodyBytes <= 0 {
		return nil, fmt.Errorf("config %s: max_body_bytes must be positive", path)
	}

	return cfg, nil
}
