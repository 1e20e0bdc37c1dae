package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) Config {
	return Config{
		Port:            "8081",
		ShutdownTimeout: 30 * time.Second,
		RateLimitRPM:    60,
		DataBackend:     "sqlite",
		SQLiteDBPath:    filepath.Join(t.TempDir(), "valuation.db"),
		DataDirectory:   "data",
		HistoryKey:      "historicoValuation",
		LogLevel:        "info",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid sqlite backend config",
			mutate: func(c *Config) {},
		},
		{
			name:   "valid memory backend config",
			mutate: func(c *Config) { c.DataBackend = "memory"; c.SQLiteDBPath = "" },
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid backend",
			mutate:      func(c *Config) { c.DataBackend = "postgres" },
			wantErr:     true,
			errorString: "invalid data backend 'postgres'",
		},
		{
			name:        "sqlite without path",
			mutate:      func(c *Config) { c.SQLiteDBPath = "" },
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name:        "empty history key",
			mutate:      func(c *Config) { c.HistoryKey = "  " },
			wantErr:     true,
			errorString: "history key cannot be empty",
		},
		{
			name:        "zero rate limit",
			mutate:      func(c *Config) { c.RateLimitRPM = 0 },
			wantErr:     true,
			errorString: "invalid rate limit 0",
		},
		{
			name:        "shutdown timeout too short",
			mutate:      func(c *Config) { c.ShutdownTimeout = 10 * time.Millisecond },
			wantErr:     true,
			errorString: "must be at least 1 second",
		},
		{
			name:        "unknown log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestConfig_ValidateReportsEveryProblem(t *testing.T) {
	cfg := validConfig(t)
	cfg.Port = "0"
	cfg.DataBackend = "postgres"
	cfg.RateLimitRPM = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port 0")
	assert.Contains(t, err.Error(), "invalid data backend 'postgres'")
	assert.Contains(t, err.Error(), "invalid rate limit -1")
}

func TestConfig_ValidateCreatesDatabaseDirectory(t *testing.T) {
	cfg := validConfig(t)
	dir := filepath.Join(t.TempDir(), "a", "b")
	cfg.SQLiteDBPath = filepath.Join(dir, "valuation.db")

	require.NoError(t, cfg.Validate())
	assert.DirExists(t, dir)
}

func TestLoad(t *testing.T) {
	for _, key := range []string{"PORT", "DATA_BACKEND", "SQLITE_DB_PATH", "DATA_DIR", "HISTORY_KEY", "LOG_LEVEL", "RATE_LIMIT_RPM", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
	}

	t.Run("default values", func(t *testing.T) {
		cfg := Load()
		assert.Equal(t, "8081", cfg.Port)
		assert.Equal(t, "sqlite", cfg.DataBackend)
		assert.Equal(t, "./data/valuation.db", cfg.SQLiteDBPath)
		assert.Equal(t, "data", cfg.DataDirectory)
		assert.Equal(t, "historicoValuation", cfg.HistoryKey)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 60, cfg.RateLimitRPM)
		assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("DATA_BACKEND", "memory")
		t.Setenv("HISTORY_KEY", "other")
		t.Setenv("RATE_LIMIT_RPM", "10")
		t.Setenv("SHUTDOWN_TIMEOUT", "5s")

		cfg := Load()
		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, "memory", cfg.DataBackend)
		assert.Equal(t, "other", cfg.HistoryKey)
		assert.Equal(t, 10, cfg.RateLimitRPM)
		assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	})

	t.Run("malformed numbers fall back to defaults", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_RPM", "many")
		t.Setenv("SHUTDOWN_TIMEOUT", "soon")

		cfg := Load()
		assert.Equal(t, 60, cfg.RateLimitRPM)
		assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	})
}
