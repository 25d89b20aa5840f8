package retrieval

import (
	"context"
	"slices"
	"strings"

	"github.com/hyperjump/assessly/internal/catalog"
	"github.com/hyperjump/assessly/internal/models"
)

// Lexical scores each record by the number of distinct lowercase words its description
// shares with the query. Records with no shared word are dropped; equal scores keep
// catalog order.
type Lexical struct {
	store *catalog.Store
	// words holds each record's description word set, computed once.
	words []map[string]struct{}
}

// NewLexical precomputes description word sets for store.
func NewLexical(store *catalog.Store) *Lexical {
	words := make([]map[string]struct{}, store.Len())
	for i, a := range store.All() {
		words[i] = wordSet(a.Description)
	}
	return &Lexical{store: store, words: words}
}

// Name returns "lexical".
func (l *Lexical) Name() string { return StrategyLexical }

// Retrieve returns up to k records by descending overlap score.
func (l *Lexical) Retrieve(ctx context.Context, query string, k int) ([]models.Assessment, error) {
	if k <= 0 {
		return nil, nil
	}
	q := wordSet(query)
	if len(q) == 0 {
		return nil, nil
	}

	type scored struct {
		pos   int
		score int
	}
	var hits []scored
	for i, desc := range l.words {
		score := 0
		for w := range q {
			if _, ok := desc[w]; ok {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{pos: i, score: score})
		}
	}
	slices.SortStableFunc(hits, func(a, b scored) int { return b.score - a.score })

	out := make([]models.Assessment, 0, min(k, len(hits)))
	for _, h := range hits[:min(k, len(hits))] {
		out = append(out, l.store.At(h.pos))
	}
	return out, nil
}

func wordSet(text string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
