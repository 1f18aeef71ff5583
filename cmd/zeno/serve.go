package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/newthinker/zeno/internal/api"
	"github.com/newthinker/zeno/internal/config"
	"github.com/newthinker/zeno/internal/logger"
	"github.com/newthinker/zeno/internal/metrics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the archive HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Initialize logger
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
	}

	rootLocalStorage(cfg, log)

	store, acc, err := openStorage(cfg, log, reg)
	if err != nil {
		return err
	}
	defer acc.Close()

	if cfg.Archive.Path != "" {
		if err := acc.Bind(cmd.Context(), cfg.Archive.Path); err != nil {
			return fmt.Errorf("loading archive %s: %w", cfg.Archive.Path, err)
		}
	} else {
		log.Warn("no archive configured, waiting for POST /api/v1/archive")
	}

	log.Info("starting zeno server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Type),
	)

	server, err := api.NewServer(api.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		APIKey:         cfg.Server.APIKey,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
	}, api.Dependencies{
		Accessor: acc,
		Metrics:  reg,
		Storage:  store,
	}, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	log.Info("shutting down zeno server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}

// rootLocalStorage gives local storage a base directory when none is
// configured, since archive paths arrive over HTTP. The startup archive's
// directory is used when there is one, the working directory otherwise.
func rootLocalStorage(cfg *config.Config, log *zap.Logger) {
	if cfg.Storage.Type != "localfs" || cfg.Storage.Path != "" {
		return
	}
	cfg.Storage.Path = "."
	if cfg.Archive.Path != "" {
		cfg.Storage.Path = filepath.Dir(cfg.Archive.Path)
		cfg.Archive.Path = filepath.Base(cfg.Archive.Path)
	}
	log.Warn("storage.path not set, rooting local storage", zap.String("path", cfg.Storage.Path))
}
