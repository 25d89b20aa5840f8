package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hyperjump/assessly/internal/catalog"
	"github.com/hyperjump/assessly/internal/config"
	"github.com/hyperjump/assessly/internal/embedding"
	"github.com/hyperjump/assessly/internal/indexer"
	"github.com/hyperjump/assessly/internal/llm/provider"
	"github.com/hyperjump/assessly/internal/ranking"
	"github.com/hyperjump/assessly/internal/recommend"
	"github.com/hyperjump/assessly/internal/retrieval"
	"github.com/hyperjump/assessly/internal/storage"
	"github.com/hyperjump/assessly/internal/vector"
	"github.com/hyperjump/assessly/pkg/utils"
	"go.uber.org/zap"
)

// loadConfig loads config from path. When path is the default, ./config.yaml is
// preferred if present, and when neither exists the built-in defaults are used so
// the service can run from environment variables alone.
// Returns the config and the path that was actually loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, err := os.Getwd(); err == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, err := os.Stat(fallback); err == nil {
				cfg, err := config.Load(fallback)
				if err != nil {
					return nil, "", err
				}
				return cfg, fallback, nil
			}
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			cfg, err := config.Default()
			if err != nil {
				return nil, "", err
			}
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// setup loads config and creates the logger shared by every command.
func setup(flags *rootFlags) (*config.Config, *zap.Logger, error) {
	cfg, resolved, err := loadConfig(flags.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	debug := cfg.Debug || flags.debug
	cfg.Debug = debug
	logger, err := utils.NewLogger(debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logger.Debug("config loaded",
		zap.String("config_path", resolved),
		zap.String("catalog_source", cfg.Catalog.Source),
		zap.String("retrieval_strategy", cfg.Retrieval.Strategy),
		zap.String("ranking_provider", cfg.Ranking.Provider))
	return cfg, logger, nil
}

// loadStore reads the catalog from the configured source.
func loadStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*catalog.Store, error) {
	switch cfg.Catalog.Source {
	case "sqlite":
		db, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog database: %w", err)
		}
		defer db.Close()
		records, err := db.ListAssessments(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog database: %w", err)
		}
		logger.Info("catalog loaded", zap.String("source", "sqlite"), zap.Int("records", len(records)))
		return catalog.NewStore(records)
	default:
		return catalog.Load(logger, cfg.Catalog.Paths...)
	}
}

// Components holds the long-lived collaborators of the recommendation service.
type Components struct {
	Store     *catalog.Store
	Retriever retrieval.Retriever
	Service   *recommend.Service

	closers []func() error
}

// Close releases resources in reverse order of acquisition.
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		_ = c.closers[i]()
	}
}

func (c *Components) onClose(fn func() error) {
	c.closers = append(c.closers, fn)
}

// initializeComponents builds store, retriever, generator chain, ranking engine and
// service from cfg.
func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (_ *Components, err error) {
	c := &Components{}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	c.Store, err = loadStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	c.Retriever, err = buildRetriever(ctx, cfg, c.Store, logger, c)
	if err != nil {
		return nil, err
	}

	gen, closeGen, err := provider.New(ctx, cfg.Ranking, cfg.Cache, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ranking model: %w", err)
	}
	c.onClose(closeGen)

	engine := ranking.NewEngine(gen, ranking.Config{
		MaxResults:   cfg.Ranking.MaxResults,
		Timeout:      cfg.Ranking.Timeout,
		MaxLogLength: cfg.Ranking.MaxLogLength,
	}, logger)

	c.Service = recommend.NewService(c.Retriever, engine, c.Store, recommend.Options{
		TopK:     cfg.Retrieval.TopK,
		Backfill: cfg.Retrieval.BackfillOrDefault(),
		Logger:   logger,
	})
	logger.Info("components initialized",
		zap.Int("catalog_records", c.Store.Len()),
		zap.String("retrieval_strategy", c.Retriever.Name()),
		zap.String("ai_provider", cfg.Ranking.Provider),
		zap.String("ai_model", gen.Model()))
	return c, nil
}

// buildRetriever creates the configured retrieval strategy, registering whatever it
// opens on c.
func buildRetriever(ctx context.Context, cfg *config.Config, store *catalog.Store, logger *zap.Logger, c *Components) (retrieval.Retriever, error) {
	deps := retrieval.Deps{Store: store, Logger: logger}

	switch cfg.Retrieval.Strategy {
	case retrieval.StrategyVector:
		embedder, err := embedding.New(cfg.Embedding, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize embedder: %w", err)
		}
		c.onClose(embedder.Close)

		index, err := openOrBuildIndex(ctx, cfg, store, embedder, logger)
		if err != nil {
			return nil, err
		}
		c.onClose(index.Close)
		deps.Embedder, deps.Index = embedder, index

	case retrieval.StrategyBleve:
		kw, err := retrieval.NewBleveIndex(ctx, store)
		if err != nil {
			return nil, fmt.Errorf("failed to build keyword index: %w", err)
		}
		c.onClose(kw.Close)
		deps.Keyword = kw
	}

	return retrieval.New(cfg.Retrieval.Strategy, deps)
}

// openOrBuildIndex loads the persisted vector index, building it in memory when the
// file does not exist yet.
func openOrBuildIndex(ctx context.Context, cfg *config.Config, store *catalog.Store, embedder embedding.Embedder, logger *zap.Logger) (vector.VectorIndex, error) {
	index, err := vector.Open(cfg.Vector.IndexType, embedder.Dimensions(), cfg.Storage.IndexPath)
	if err == nil {
		if index.Size() != store.Len() {
			logger.Warn("vector index size differs from catalog; run `assessly index` to rebuild",
				zap.Int("index_size", index.Size()),
				zap.Int("catalog_records", store.Len()))
		}
		logger.Info("vector index loaded",
			zap.String("path", cfg.Storage.IndexPath),
			zap.String("type", cfg.Vector.IndexType),
			zap.Int("vectors", index.Size()))
		return index, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	logger.Warn("vector index not found, building in memory",
		zap.String("path", cfg.Storage.IndexPath),
		zap.Bool("faiss_available", vector.IsFAISSAvailable()))
	idx := indexer.NewIndexer(embedder, vector.IndexType(cfg.Vector.IndexType),
		indexer.WithLogger(logger),
		indexer.WithWorkers(cfg.Indexer.Workers, cfg.Indexer.BatchSize))
	return idx.Build(ctx, store)
}
