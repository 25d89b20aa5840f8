package retrieval

import (
	"context"
	"fmt"

	"github.com/hyperjump/assessly/internal/catalog"
	"github.com/hyperjump/assessly/internal/embedding"
	"github.com/hyperjump/assessly/internal/models"
	"github.com/hyperjump/assessly/internal/vector"
	"github.com/hyperjump/assessly/pkg/utils"
	"go.uber.org/zap"
)

// Vector embeds the query and returns the records nearest to it in the vector index.
// An empty query is embedded and searched like any other.
type Vector struct {
	store    *catalog.Store
	embedder embedding.Embedder
	index    vector.VectorIndex
	logger   *zap.Logger
}

// NewVector creates a vector retriever over an index built from store.
func NewVector(store *catalog.Store, embedder embedding.Embedder, index vector.VectorIndex, logger *zap.Logger) *Vector {
	return &Vector{store: store, embedder: embedder, index: index, logger: utils.OrNop(logger)}
}

// Name returns "vector".
func (v *Vector) Name() string { return StrategyVector }

// Retrieve returns up to k records by ascending distance to the query embedding.
func (v *Vector) Retrieve(ctx context.Context, query string, k int) ([]models.Assessment, error) {
	if k <= 0 {
		return nil, nil
	}
	emb, err := v.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := v.index.Search(ctx, emb, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	return resolve(v.store, ids, v.logger), nil
}
