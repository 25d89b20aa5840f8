package retrieval

import (
	"context"
	"fmt"

	"github.com/hyperjump/assessly/internal/catalog"
	"github.com/hyperjump/assessly/internal/keyword"
	"github.com/hyperjump/assessly/internal/models"
	"github.com/hyperjump/assessly/pkg/utils"
	"go.uber.org/zap"
)

// nameBoost favours assessments whose name matches the query.
const nameBoost = 2.0

// Bleve retrieves by BM25 score from a keyword index built over the store.
type Bleve struct {
	store  *catalog.Store
	index  keyword.KeywordIndex
	logger *zap.Logger
}

// NewBleve creates a keyword retriever.
func NewBleve(store *catalog.Store, index keyword.KeywordIndex, logger *zap.Logger) *Bleve {
	return &Bleve{store: store, index: index, logger: utils.OrNop(logger)}
}

// Name returns "bleve".
func (b *Bleve) Name() string { return StrategyBleve }

// Retrieve returns up to k records by descending BM25 score.
func (b *Bleve) Retrieve(ctx context.Context, query string, k int) ([]models.Assessment, error) {
	if k <= 0 {
		return nil, nil
	}
	hits, err := b.index.Search(ctx, query, k, &keyword.SearchOptions{NameBoost: nameBoost})
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	return resolve(b.store, ids, b.logger), nil
}

// NewBleveIndex builds an in-memory keyword index over every record in store.
func NewBleveIndex(ctx context.Context, store *catalog.Store) (*keyword.BleveIndex, error) {
	idx, err := keyword.NewBleveIndex()
	if err != nil {
		return nil, err
	}
	if err := idx.IndexAll(ctx, store.All()); err != nil {
		_ = idx.Close()
		return nil, err
	}
	return idx, nil
}
