// Package config provides configuration loading for reflectd.
//
// Configuration is loaded from a YAML file, then overridden by environment
// variables, with hardcoded defaults filling the gaps.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds the complete reflectd configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Storage StorageConfig `koanf:"storage"`
	Memory  MemoryConfig  `koanf:"memory"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"http_port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// StorageConfig holds the durable pattern store configuration.
type StorageConfig struct {
	// Path is the Badger database directory.
	Path string `koanf:"path"`

	// InMemory runs the store without touching disk. For tests and
	// ephemeral deployments.
	InMemory bool `koanf:"in_memory"`

	// SyncWrites makes every write durable before returning.
	SyncWrites bool `koanf:"sync_writes"`
}

// MemoryConfig holds pattern memory tuning.
type MemoryConfig struct {
	CacheTTL            time.Duration `koanf:"cache_ttl"`
	FlushEvery          int           `koanf:"flush_every"`
	SimilarityThreshold float64       `koanf:"similarity_threshold"`
	SimilarityLimit     int           `koanf:"similarity_limit"`
	ConfidenceThreshold float64       `koanf:"confidence_threshold"`
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "127.0.0.1"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8086
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Storage.Path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Storage.Path = filepath.Join(home, ".local", "share", "reflectd", "patterns")
		} else {
			cfg.Storage.Path = "reflectd-patterns"
		}
	}

	if cfg.Memory.CacheTTL == 0 {
		cfg.Memory.CacheTTL = 7 * 24 * time.Hour
	}
	if cfg.Memory.FlushEvery == 0 {
		cfg.Memory.FlushEvery = 10
	}
	if cfg.Memory.SimilarityThreshold == 0 {
		cfg.Memory.SimilarityThreshold = 0.6
	}
	if cfg.Memory.SimilarityLimit == 0 {
		cfg.Memory.SimilarityLimit = 5
	}
	if cfg.Memory.ConfidenceThreshold == 0 {
		cfg.Memory.ConfidenceThreshold = 0.7
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}

	if !c.Storage.InMemory && c.Storage.Path == "" {
		return errors.New("storage path required unless in_memory is set")
	}

	if c.Memory.CacheTTL <= 0 {
		return errors.New("memory cache TTL must be positive")
	}
	if c.Memory.FlushEvery < 1 {
		return errors.New("memory flush cadence must be at least 1")
	}
	if c.Memory.SimilarityThreshold < 0 || c.Memory.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold out of range: %v", c.Memory.SimilarityThreshold)
	}
	if c.Memory.ConfidenceThreshold < 0 || c.Memory.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold out of range: %v", c.Memory.ConfidenceThreshold)
	}
	if c.Memory.SimilarityLimit < 1 {
		return errors.New("similarity limit must be at least 1")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %q", c.Logging.Format)
	}

	return nil
}
