package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hyperjump/assessly/internal/config"
	"github.com/hyperjump/assessly/internal/embedding"
	"github.com/hyperjump/assessly/internal/indexer"
	"github.com/hyperjump/assessly/internal/storage"
	"github.com/hyperjump/assessly/internal/vector"
	"github.com/hyperjump/assessly/internal/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type indexFlags struct {
	watch  bool
	sqlite bool
}

func newIndexCmd(flags *rootFlags) *cobra.Command {
	f := &indexFlags{}
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Embed the catalog and build the vector index",
		Long: `Embed every catalog record and write the nearest-neighbour index to storage.index_path.

With --watch the index is rebuilt whenever a catalog file changes. With --sqlite the
catalog is also written to storage.database_path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndex(cmd.Context(), flags, f)
		},
	}
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "rebuild when catalog files change")
	cmd.Flags().BoolVar(&f.sqlite, "sqlite", false, "also write the catalog to the SQLite database")
	return cmd
}

func runIndex(ctx context.Context, flags *rootFlags, f *indexFlags) error {
	cfg, logger, err := setup(flags)
	if err != nil {
		return err
	}
	defer logger.Sync()

	embedder, err := embedding.New(cfg.Embedding, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize embedder: %w", err)
	}
	defer embedder.Close()

	opts := []indexer.IndexerOption{
		indexer.WithLogger(logger),
		indexer.WithWorkers(cfg.Indexer.Workers, cfg.Indexer.BatchSize),
	}
	if f.sqlite {
		db, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open catalog database: %w", err)
		}
		defer db.Close()
		opts = append(opts, indexer.WithStorage(db))
	}
	idx := indexer.NewIndexer(embedder, vector.IndexType(cfg.Vector.IndexType), opts...)

	build := func(ctx context.Context) error {
		store, err := loadStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		return idx.BuildAndSave(ctx, store, cfg.Storage.IndexPath)
	}

	if err := build(ctx); err != nil {
		return err
	}
	fmt.Printf("Indexed catalog into %s\n", cfg.Storage.IndexPath)

	if !f.watch {
		return nil
	}
	return watchAndRebuild(ctx, cfg, logger, build)
}

// watchAndRebuild re-runs build on catalog changes until interrupted.
func watchAndRebuild(ctx context.Context, cfg *config.Config, logger *zap.Logger, build func(context.Context) error) error {
	if cfg.Catalog.Source != "json" {
		return fmt.Errorf("--watch needs catalog.source json (got %q)", cfg.Catalog.Source)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watcher.NewWatcher(cfg.Catalog.Paths, func() {
		if err := build(ctx); err != nil {
			logger.Error("index rebuild failed", zap.Error(err))
			return
		}
		logger.Info("index rebuilt", zap.String("path", cfg.Storage.IndexPath))
	}, watcher.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Stop()

	logger.Info("watching catalog for changes", zap.Strings("paths", cfg.Catalog.Paths))
	<-ctx.Done()
	return nil
}
