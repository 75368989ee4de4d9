package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/assistant"
	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/config"
	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/ingest"
	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/insight"
	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/observability"
	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/storage"
)

// runtime is the resolved configuration plus the open store for one command.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *storage.SQLiteStorage
}

// openRuntime loads configuration, builds the logger and initializes the store.
func openRuntime(ctx context.Context, opts *RootOptions) (*runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.DBPath != "" {
		cfg.DatabasePath = opts.DBPath
	}

	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store := storage.NewStorage(cfg.DatabasePath, logger)
	if err := store.Init(ctx); err != nil {
		logger.Sync()
		return nil, fmt.Errorf("failed to open database %s: %w", store.Path(), err)
	}
	logger.Debug("database ready", zap.String("path", store.Path()))

	return &runtime{cfg: cfg, logger: logger, store: store}, nil
}

// Close releases the store and flushes the logger.
func (r *runtime) Close() {
	if err := r.store.Close(); err != nil {
		r.logger.Warn("failed to close database", zap.Error(err))
	}
	_ = r.logger.Sync()
}

func (r *runtime) pipeline() (*ingest.Pipeline, error) {
	fetcher, err := insight.NewClient(r.cfg.Insight, r.logger)
	if err != nil {
		return nil, err
	}
	return ingest.NewPipeline(fetcher, r.store, r.logger), nil
}

func (r *runtime) assistant() (*assistant.Client, error) {
	builder := assistant.NewContextBuilder(r.store, r.logger)
	return assistant.New(r.cfg.Assistant, builder, r.logger)
}
