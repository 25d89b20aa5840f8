// Package vector provides exact nearest-neighbour search over assessment embeddings.
package vector

import "context"

// VectorIndex stores vectors under string IDs and returns the nearest ones by squared
// Euclidean distance.
type VectorIndex interface {
	Add(ctx context.Context, ids []string, vectors [][]float32) error
	// Search returns up to k hits ordered by ascending distance; ties keep insertion order.
	Search(ctx context.Context, query []float32, k int) ([]VectorResult, error)
	Save(path string) error
	Load(path string) error
	Size() int
	Dimensions() int
	Close() error
}

// VectorResult is a single search hit.
type VectorResult struct {
	ID string
	// Distance is the squared L2 distance to the query; smaller is closer.
	Distance float64
}
