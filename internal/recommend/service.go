// Package recommend wires retrieval and ranking into the recommendation use case.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hyperjump/assessly/internal/metrics"
	"github.com/hyperjump/assessly/internal/models"
	"github.com/hyperjump/assessly/internal/ranking"
	"github.com/hyperjump/assessly/internal/retrieval"
	"github.com/hyperjump/assessly/pkg/utils"
	"go.uber.org/zap"
)

// ErrRetrieval wraps failures of the retrieval stage.
var ErrRetrieval = errors.New("retrieval failed")

// Ranker orders candidates for a query. *ranking.Engine implements it.
type Ranker interface {
	Rank(ctx context.Context, query string, candidates []models.Assessment) ranking.Result
}

// Catalog supplies backfill candidates when retrieval finds nothing.
type Catalog interface {
	Head(k int) []models.Assessment
}

// Options configures a Service.
type Options struct {
	TopK int
	// Backfill replaces an empty retrieval with the first TopK catalog records.
	Backfill bool
	Logger   *zap.Logger
}

// Service answers recommendation queries. It holds no per-request state and is safe
// for concurrent use when its collaborators are.
type Service struct {
	retriever retrieval.Retriever
	ranker    Ranker
	catalog   Catalog
	topK      int
	backfill  bool
	logger    *zap.Logger
}

// NewService creates a Service. catalog may be nil when Backfill is off.
func NewService(retriever retrieval.Retriever, ranker Ranker, catalog Catalog, opts Options) *Service {
	if opts.TopK <= 0 {
		opts.TopK = 10
	}
	return &Service{
		retriever: retriever,
		ranker:    ranker,
		catalog:   catalog,
		topK:      opts.TopK,
		backfill:  opts.Backfill && catalog != nil,
		logger:    utils.OrNop(opts.Logger),
	}
}

// Recommend validates query, retrieves candidates, ranks them and assembles the response.
// It returns models.ErrQueryRequired for blank input and an error wrapping ErrRetrieval
// when candidates could not be retrieved. Ranking problems never surface as errors.
func (s *Service) Recommend(ctx context.Context, query string) (*models.RecommendResponse, error) {
	start := time.Now()
	defer func() {
		metrics.RecommendDuration.Observe(time.Since(start).Seconds())
	}()

	req := models.RecommendRequest{Query: query}
	if err := req.Validate(); err != nil {
		metrics.RecommendRequests.WithLabelValues("invalid").Inc()
		return nil, err
	}

	candidates, err := s.retriever.Retrieve(ctx, req.Query, s.topK)
	if err != nil {
		metrics.RecommendRequests.WithLabelValues("error").Inc()
		s.logger.Error("retrieval failed",
			zap.String("query", req.Query),
			zap.String("strategy", s.retriever.Name()),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}
	metrics.RetrievalCandidates.WithLabelValues(s.retriever.Name()).Observe(float64(len(candidates)))

	if len(candidates) == 0 && s.backfill {
		candidates = s.catalog.Head(s.topK)
		metrics.RetrievalBackfills.Inc()
		s.logger.Debug("no candidates retrieved, backfilling from catalog",
			zap.String("query", req.Query),
			zap.Int("backfilled", len(candidates)))
	}

	result := s.ranker.Rank(ctx, req.Query, candidates)
	resp, err := Assemble(req.Query, result.Ranked, result.Explanations)
	if err != nil {
		metrics.RecommendRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.RecommendRequests.WithLabelValues("ok").Inc()
	s.logger.Info("recommendation served",
		zap.String("query", req.Query),
		zap.Int("candidates", len(candidates)),
		zap.Int("recommendations", len(resp.Recommendations)),
		zap.String("fallback", string(result.Fallback)),
		zap.Duration("took", time.Since(start)))
	return resp, nil
}
