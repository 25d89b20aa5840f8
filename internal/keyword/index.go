// Package keyword provides BM25 keyword search over the assessment catalog.
package keyword

import (
	"context"

	"github.com/hyperjump/assessly/internal/models"
)

// SearchOptions tunes a keyword search. Nil means defaults.
type SearchOptions struct {
	// NameBoost multiplies the score of matches in the assessment name. Values <= 0 mean 1.
	NameBoost float64
	// Fuzziness is the maximum edit distance per term (0 disables fuzzy matching, max 2).
	Fuzziness int
}

// KeywordIndex indexes assessments and searches them by free text.
type KeywordIndex interface {
	Index(ctx context.Context, a models.Assessment) error
	IndexAll(ctx context.Context, records []models.Assessment) error
	Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]KeywordResult, error)
	DocCount() (uint64, error)
	Close() error
}

// KeywordResult is a single keyword search hit; ID is the assessment ID.
type KeywordResult struct {
	ID    string
	Score float64
}
