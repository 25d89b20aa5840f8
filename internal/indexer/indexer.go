// Package indexer builds the nearest-neighbour index over the assessment catalog.
package indexer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hyperjump/assessly/internal/catalog"
	"github.com/hyperjump/assessly/internal/embedding"
	"github.com/hyperjump/assessly/internal/metrics"
	"github.com/hyperjump/assessly/internal/storage"
	"github.com/hyperjump/assessly/internal/vector"
	"github.com/hyperjump/assessly/pkg/utils"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// Indexer embeds catalog records and loads them into a vector index.
type Indexer struct {
	embedder  embedding.Embedder
	indexType vector.IndexType
	workers   int
	batchSize int
	storage   storage.CatalogStorage // optional; when set, BuildAndSave persists the catalog
	logger    *zap.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for progress output.
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// WithStorage makes BuildAndSave also write the catalog to s.
func WithStorage(s storage.CatalogStorage) IndexerOption {
	return func(idx *Indexer) { idx.storage = s }
}

// WithWorkers sets the embedding pool size and the number of texts per embedding call.
func WithWorkers(workers, batchSize int) IndexerOption {
	return func(idx *Indexer) {
		idx.workers = workers
		idx.batchSize = batchSize
	}
}

// NewIndexer creates an indexer producing indexes of indexType.
func NewIndexer(embedder embedding.Embedder, indexType vector.IndexType, opts ...IndexerOption) *Indexer {
	idx := &Indexer{
		embedder:  embedder,
		indexType: indexType,
		workers:   1,
		batchSize: 32,
	}
	for _, opt := range opts {
		opt(idx)
	}
	idx.workers = max(idx.workers, 1)
	idx.batchSize = max(idx.batchSize, 1)
	idx.logger = utils.OrNop(idx.logger)
	return idx
}

// Build embeds every record of store and returns an index holding one vector per record,
// added in store order under the record's ID. Batches are embedded concurrently.
func (idx *Indexer) Build(ctx context.Context, store *catalog.Store) (vector.VectorIndex, error) {
	if store == nil || store.Len() == 0 {
		return nil, catalog.ErrEmptyCatalog
	}
	start := time.Now()

	records := store.All()
	texts := make([]string, len(records))
	ids := make([]string, len(records))
	for i, a := range records {
		texts[i] = catalog.EmbeddingText(a)
		ids[i] = a.ID
	}

	vectors, err := idx.embedAll(ctx, texts)
	if err != nil {
		return nil, err
	}

	index, err := vector.NewVectorIndex(string(idx.indexType), idx.embedder.Dimensions())
	if err != nil {
		return nil, fmt.Errorf("create vector index: %w", err)
	}
	if err := index.Add(ctx, ids, vectors); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("add vectors: %w", err)
	}

	metrics.IndexedAssessments.Set(float64(index.Size()))
	idx.logger.Info("vector index built",
		zap.Int("records", len(records)),
		zap.Int("dimensions", index.Dimensions()),
		zap.String("index_type", string(idx.indexType)),
		zap.Int("workers", idx.workers),
		zap.Duration("took", time.Since(start)))
	return index, nil
}

// BuildAndSave builds the index for store and writes it to path. When the indexer has
// storage, the catalog is saved there as well.
func (idx *Indexer) BuildAndSave(ctx context.Context, store *catalog.Store, path string) error {
	index, err := idx.Build(ctx, store)
	if err != nil {
		return err
	}
	defer index.Close()

	if err := index.Save(path); err != nil {
		return fmt.Errorf("save vector index: %w", err)
	}
	idx.logger.Info("vector index saved", zap.String("path", path), zap.Int("vectors", index.Size()))

	if idx.storage != nil {
		if err := idx.storage.SaveAssessments(ctx, store.All()); err != nil {
			return fmt.Errorf("save catalog: %w", err)
		}
		idx.logger.Info("catalog saved to storage", zap.Int("records", store.Len()))
	}
	return nil
}

// embedAll embeds texts in batches on a worker pool, keeping input order.
func (idx *Indexer) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	pool, err := ants.NewPool(idx.workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	vectors := make([][]float32, len(texts))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	for lo := 0; lo < len(texts); lo += idx.batchSize {
		hi := min(lo+idx.batchSize, len(texts))
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			batch, err := idx.embedder.EmbedBatch(ctx, texts[lo:hi])
			if err != nil {
				fail(fmt.Errorf("embed records %d-%d: %w", lo, hi-1, err))
				return
			}
			if len(batch) != hi-lo {
				fail(fmt.Errorf("embed records %d-%d: got %d vectors", lo, hi-1, len(batch)))
				return
			}
			copy(vectors[lo:hi], batch)
			idx.logger.Debug("embedded batch", zap.Int("from", lo), zap.Int("to", hi-1))
		})
		if submitErr != nil {
			wg.Done()
			fail(fmt.Errorf("submit batch: %w", submitErr))
			break
		}
	}
	wg.Wait()

	if err := parent.Err(); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return vectors, nil
}
