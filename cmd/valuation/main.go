package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"valuation/internal/cli"
	apphttp "valuation/internal/http"
	applog "valuation/internal/log"
	"valuation/internal/services"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.SetupLogger("info").Error("Invalid configuration", applog.FieldError, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg.LogLevel)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	store, cleanup, err := cli.OpenHistory(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open history", applog.FieldError, err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := cleanup(); err != nil {
			logger.Error("Backend cleanup failed", applog.FieldError, err)
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, services.NewValuationService(store), apphttp.Options{
		Logger:       logger,
		RateLimitRPM: cfg.RateLimitRPM,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting valuation server",
			applog.FieldOperation, applog.OpStartup,
			"port", cfg.Port,
			applog.FieldBackend, cfg.DataBackend,
			applog.FieldRecords, len(store.Records()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		_ = cleanup()
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
