// Package cli holds the startup steps of cmd/valuation: environment,
// configuration, logging, storage and signal handling.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"valuation/internal/backend"
	"valuation/internal/config"
	"valuation/internal/history"
	applog "valuation/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the application logger at the given level and installs
// it as the slog default.
func SetupLogger(level string) *applog.Logger {
	cfg := applog.DefaultConfig()
	cfg.Level = applog.ParseLevel(level)
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenHistory creates the configured backend and loads the history from it.
// The returned cleanup releases the backend and is never nil.
func OpenHistory(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*history.Store, backend.CleanupFunc, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	result, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).
		CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := result.Cleanup
	if cleanup == nil {
		cleanup = func() error { return nil }
	}

	store := history.NewStore(result.Store, cfg.HistoryKey, logger)
	if err := store.Load(ctx); err != nil {
		_ = cleanup()
		return nil, nil, err
	}
	return store, cleanup, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
