// Package retrieval selects candidate assessments for a query before ranking.
package retrieval

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/assessly/internal/catalog"
	"github.com/hyperjump/assessly/internal/embedding"
	"github.com/hyperjump/assessly/internal/keyword"
	"github.com/hyperjump/assessly/internal/models"
	"github.com/hyperjump/assessly/internal/vector"
	"github.com/hyperjump/assessly/pkg/utils"
	"go.uber.org/zap"
)

// Retriever returns up to k catalog records for query, most relevant first.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]models.Assessment, error)
	Name() string
}

// Strategy names accepted by New.
const (
	StrategyLexical = "lexical"
	StrategyVector  = "vector"
	StrategyBleve   = "bleve"
)

// ErrMissingDependency is returned by New when the chosen strategy lacks a collaborator.
var ErrMissingDependency = errors.New("retrieval: missing dependency")

// Deps are the collaborators a strategy may need. Only Store is required by all of them.
type Deps struct {
	Store    *catalog.Store
	Embedder embedding.Embedder
	Index    vector.VectorIndex
	Keyword  keyword.KeywordIndex
	Logger   *zap.Logger
}

// New builds the retriever for strategy.
func New(strategy string, deps Deps) (Retriever, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("%w: store", ErrMissingDependency)
	}
	logger := utils.OrNop(deps.Logger)
	switch strategy {
	case StrategyLexical, "":
		return NewLexical(deps.Store), nil
	case StrategyVector:
		if deps.Embedder == nil || deps.Index == nil {
			return nil, fmt.Errorf("%w: vector strategy needs an embedder and a vector index", ErrMissingDependency)
		}
		if deps.Embedder.Dimensions() != deps.Index.Dimensions() {
			return nil, fmt.Errorf("embedder produces %d dimensions but index holds %d",
				deps.Embedder.Dimensions(), deps.Index.Dimensions())
		}
		return NewVector(deps.Store, deps.Embedder, deps.Index, logger), nil
	case StrategyBleve:
		if deps.Keyword == nil {
			return nil, fmt.Errorf("%w: bleve strategy needs a keyword index", ErrMissingDependency)
		}
		return NewBleve(deps.Store, deps.Keyword, logger), nil
	default:
		return nil, fmt.Errorf("unknown retrieval strategy %q (supported: lexical, vector, bleve)", strategy)
	}
}

// resolve maps hit IDs back to store records in hit order, skipping and logging unknown IDs.
func resolve(store *catalog.Store, ids []string, logger *zap.Logger) []models.Assessment {
	out := make([]models.Assessment, 0, len(ids))
	for _, id := range ids {
		a, ok := store.ByID(id)
		if !ok {
			logger.Warn("index hit not in catalog", zap.String("id", id))
			continue
		}
		out = append(out, a)
	}
	return out
}
