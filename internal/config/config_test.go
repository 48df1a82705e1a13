package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8086, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.NotEmpty(t, cfg.Storage.Path)
	assert.False(t, cfg.Storage.InMemory)
	assert.Equal(t, 7*24*time.Hour, cfg.Memory.CacheTTL)
	assert.Equal(t, 10, cfg.Memory.FlushEvery)
	assert.InDelta(t, 0.6, cfg.Memory.SimilarityThreshold, 1e-9)
	assert.Equal(t, 5, cfg.Memory.SimilarityLimit)
	assert.InDelta(t, 0.7, cfg.Memory.ConfidenceThreshold, 1e-9)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "zero shutdown timeout",
			mutate:  func(c *Config) { c.Server.ShutdownTimeout = 0 },
			wantErr: "shutdown timeout",
		},
		{
			name: "missing storage path",
			mutate: func(c *Config) {
				c.Storage.Path = ""
				c.Storage.InMemory = false
			},
			wantErr: "storage path required",
		},
		{
			name: "in-memory storage needs no path",
			mutate: func(c *Config) {
				c.Storage.Path = ""
				c.Storage.InMemory = true
			},
		},
		{
			name:    "similarity threshold out of range",
			mutate:  func(c *Config) { c.Memory.SimilarityThreshold = 1.5 },
			wantErr: "similarity threshold",
		},
		{
			name:    "confidence threshold out of range",
			mutate:  func(c *Config) { c.Memory.ConfidenceThreshold = -0.1 },
			wantErr: "confidence threshold",
		},
		{
			name:    "zero flush cadence",
			mutate:  func(c *Config) { c.Memory.FlushEvery = 0 },
			wantErr: "flush cadence",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "invalid log level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
