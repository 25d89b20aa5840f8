package embedding

import (
	"context"
	"fmt"

	"github.com/hyperjump/assessly/pkg/utils"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// OpenAIConfig configures an OpenAI-compatible embeddings endpoint.
type OpenAIConfig struct {
	// Host is the API base URL; empty uses the OpenAI default.
	Host  string
	Model string
	// APIKey may be empty for local services that do not authenticate.
	APIKey     string
	Dimensions int
}

// OpenAIEmbedder implements Embedder against an OpenAI-compatible embeddings API.
type OpenAIEmbedder struct {
	embedder   embeddings.Embedder
	dimensions int
	logger     *zap.Logger
}

// NewOpenAIEmbedder creates an embedder backed by langchaingo's OpenAI client.
func NewOpenAIEmbedder(cfg OpenAIConfig, logger *zap.Logger) (*OpenAIEmbedder, error) {
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("openai embedder: dimensions must be positive")
	}
	token := cfg.APIKey
	if token == "" {
		token = "none"
	}
	opts := []openai.Option{openai.WithToken(token)}
	if cfg.Host != "" {
		opts = append(opts, openai.WithBaseURL(cfg.Host))
	}
	if cfg.Model != "" {
		opts = append(opts, openai.WithEmbeddingModel(cfg.Model))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("openai embedder: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("openai embedder: %w", err)
	}
	return &OpenAIEmbedder{
		embedder:   embedder,
		dimensions: cfg.Dimensions,
		logger:     utils.OrNop(logger).With(zap.String("component", "openai-embedder")),
	}, nil
}

// Embed returns the embedding for a single text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vs[0], nil
}

// EmbedBatch embeds texts in one request and checks the returned dimensions.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings", zap.Int("count", len(texts)))
	vs, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed documents: %w", err)
	}
	if len(vs) != len(texts) {
		return nil, fmt.Errorf("embed documents: got %d vectors for %d texts", len(vs), len(texts))
	}
	for _, v := range vs {
		if len(v) != e.dimensions {
			return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(v), e.dimensions)
		}
	}
	return vs, nil
}

// Dimensions returns the configured embedding dimension.
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op; the HTTP client has no resources to release.
func (e *OpenAIEmbedder) Close() error {
	return nil
}
