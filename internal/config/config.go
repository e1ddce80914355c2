// Package config loads the server configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// TransportConfig selects how the server listens for clients.
type TransportConfig struct {
	// Kind is "stdio" or "tcp".
	Kind string `yaml:"kind"`
	// Addr is the listen address for the tcp transport.
	Addr string `yaml:"addr"`
}

// SessionConfig tunes per-client policy state eviction on the tcp transport.
type SessionConfig struct {
	IdleTTL    time.Duration `yaml:"idle_ttl"`
	SweepEvery time.Duration `yaml:"sweep_every"`
}

// ResourceRoot exposes a directory tree as file:// resources.
type ResourceRoot struct {
	Path     string   `yaml:"path"`
	Patterns []string `yaml:"patterns"`
}

// Config is the full server configuration.
type Config struct {
	Name      string          `yaml:"name"`
	Version   string          `yaml:"version"`
	LogLevel  string          `yaml:"log_level"`
	Transport TransportConfig `yaml:"transport"`
	Session   SessionConfig   `yaml:"session"`
	Resources []ResourceRoot  `yaml:"resources"`
}

func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "beam"
	}
	if c.Version == "" {
		c.Version = "0.0.0"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Transport.Kind == "" {
		c.Transport.Kind = "stdio"
	}
	if c.Transport.Addr == "" {
		c.Transport.Addr = "127.0.0.1:7421"
	}
	if c.Session.IdleTTL == 0 {
		c.Session.IdleTTL = 30 * time.Minute
	}
	if c.Session.SweepEvery == 0 {
		c.Session.SweepEvery = time.Minute
	}
}

// Load reads the configuration at path, expanding ${VAR} references in
// resource paths from the environment. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := &Config{}
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	cfg.Transport.Addr = expandEnvString(cfg.Transport.Addr)
	for i := range cfg.Resources {
		cfg.Resources[i].Path = expandEnvString(cfg.Resources[i].Path)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// expandEnvString replaces ${VAR} references with host environment values.
func expandEnvString(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}
