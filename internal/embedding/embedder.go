// Package embedding turns assessment text into dense vectors.
package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/assessly/internal/config"
	"github.com/hyperjump/assessly/pkg/utils"
	"go.uber.org/zap"
)

// ErrDimensionMismatch is returned when a backend returns vectors of an unexpected size.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// New builds the embedder selected by cfg.Provider, wrapped in an LRU cache when cfg.CacheSize > 0.
func New(cfg config.EmbeddingConfig, logger *zap.Logger) (Embedder, error) {
	logger = utils.OrNop(logger)

	var (
		e   Embedder
		err error
	)
	switch cfg.Provider {
	case "onnx", "":
		e, err = NewONNXEmbedder(cfg.ModelPath, cfg.Dimensions, cfg.MaxTokens)
	case "openai":
		e, err = NewOpenAIEmbedder(OpenAIConfig{
			Host:       cfg.Host,
			Model:      cfg.Model,
			APIKey:     cfg.APIKey,
			Dimensions: cfg.Dimensions,
		}, logger)
	case "mock":
		e = NewMockEmbedder(cfg.Dimensions)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("embedder ready",
		zap.String("provider", cfg.Provider),
		zap.Int("dimensions", e.Dimensions()),
		zap.Int("cache_size", cfg.CacheSize))

	if cfg.CacheSize > 0 {
		return NewCachedEmbedder(e, cfg.CacheSize), nil
	}
	return e, nil
}

// embedEach calls embed for every text in order, stopping at the first error or on cancellation.
func embedEach(ctx context.Context, texts []string, embed func(context.Context, string) ([]float32, error)) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
