// cmd/brand-api/serve.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/api"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/config"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/observability"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/repository"
)

var autoMigrate bool

func runServe(cmd *cobra.Command, args []string) error {
	cfg, zapLog, log, err := setup()
	if err != nil {
		return err
	}
	defer zapLog.Sync()

	zapLog.Info("Starting brand planning API...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.Bool("mockMode", cfg.App.MockMode),
		zap.Bool("demoMode", cfg.App.DemoMode),
	)

	obs := observability.New(cfg.Observability.ServiceName)
	defer obs.Shutdown()

	ctx := context.Background()

	a, err := buildApp(ctx, cfg, zapLog, log, obs, autoMigrate)
	if err != nil {
		return err
	}
	defer a.Close(zapLog)

	srv := api.NewServer(a.svc, cfg, log, obs)
	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      srv.Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	errCh := make(chan error, 1)
	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zapLog.Info("Shutdown signal received, stopping server...", zap.String("signal", sig.String()))
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	srv.Progress().Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error during server shutdown", zap.Error(err))
	}

	zapLog.Info("Brand planning API stopped gracefully", zap.Duration("uptime", time.Since(startedAt)))
	return nil
}

var startedAt = time.Now()

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, zapLog, _, err := setup()
	if err != nil {
		return err
	}
	defer zapLog.Sync()

	if !cfg.Database.Postgres.Enabled() {
		return errors.New("postgres is not configured: set DATABASE_URL or database.postgres.host")
	}

	ctx := cmd.Context()
	pg, err := connectPostgres(ctx, cfg.Database.Postgres, zapLog)
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := repository.Migrate(ctx, pg.DB, cfg.Database.Postgres.Schema); err != nil {
		return err
	}
	zapLog.Info("Schema applied", zap.String("schema", cfg.Database.Postgres.Schema))
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, zapLog, _, err := setup()
	if err != nil {
		return err
	}
	defer zapLog.Sync()

	if !cfg.Database.Postgres.Enabled() {
		return errors.New("postgres is not configured: set DATABASE_URL or database.postgres.host")
	}

	data, err := repository.LoadSeed()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	pg, err := connectPostgres(ctx, cfg.Database.Postgres, zapLog)
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := repository.Migrate(ctx, pg.DB, cfg.Database.Postgres.Schema); err != nil {
		return err
	}
	if err := repository.Seed(ctx, pg.DB, data); err != nil {
		return err
	}

	zapLog.Info("Seed data inserted",
		zap.Int("brands", len(data.Brands)),
		zap.Int("insights", len(data.Insights)),
		zap.Int("plans", len(data.Plans)),
	)
	return nil
}
