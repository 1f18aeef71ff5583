package main

import (
	"fmt"

	"github.com/newthinker/zeno/internal/accessor"
	"github.com/newthinker/zeno/internal/config"
	"github.com/newthinker/zeno/internal/core"
	"github.com/newthinker/zeno/internal/metrics"
	"github.com/newthinker/zeno/internal/storage/archive"
	"go.uber.org/zap"
)

// loadConfig reads --config if given, otherwise falls back to defaults.
func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	if cfgFile != "" {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Debug("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// openStorage builds the configured backend and an accessor reading from
// it.
func openStorage(cfg *config.Config, log *zap.Logger, reg *metrics.Registry) (archive.Storage, *accessor.Accessor, error) {
	store, err := newStorage(cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("creating storage: %w", err)
	}
	acc, err := newAccessor(cfg, store, log, reg)
	if err != nil {
		return nil, nil, err
	}
	return store, acc, nil
}

// newStorage builds the archive storage backend selected by cfg.
func newStorage(cfg config.StorageConfig) (archive.Storage, error) {
	switch cfg.Type {
	case "s3":
		s3, err := archive.NewS3(archive.S3Config{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,

			ReadTimeout: cfg.S3.ReadTimeout,
		})
		if err != nil {
			return nil, err
		}
		return s3, nil
	default:
		fs, err := archive.NewLocalFS(cfg.Path)
		if err != nil {
			return nil, err
		}
		return fs, nil
	}
}

// newAccessor wires an unbound accessor to store. reg may be nil.
func newAccessor(cfg *config.Config, store archive.Storage, log *zap.Logger, reg *metrics.Registry) (*accessor.Accessor, error) {
	ns, err := core.ParseNamespace(cfg.Archive.Namespace)
	if err != nil {
		return nil, err
	}

	opts := []accessor.Option{
		accessor.WithOpener(accessor.StorageOpener(store)),
		accessor.WithLogger(log),
	}
	if reg != nil {
		opts = append(opts, accessor.WithRecorder(reg))
	}

	return accessor.New(accessor.Config{
		Namespace:    ns,
		MaxRedirects: cfg.Archive.MaxRedirects,
	}, opts...), nil
}
