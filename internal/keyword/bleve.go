package keyword

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/hyperjump/assessly/internal/models"
)

// Indexed fields. Duration, URL and languages carry no useful terms for matching a job query.
const (
	fieldName        = "name"
	fieldDescription = "description"
	fieldTestType    = "test_type"
	fieldJobLevels   = "job_levels"
)

var searchFields = []string{fieldName, fieldDescription, fieldTestType, fieldJobLevels}

// BleveIndex implements KeywordIndex with an in-memory Bleve index.
type BleveIndex struct {
	index bleve.Index
}

// NewBleveIndex creates an empty in-memory index. The catalog is small and rebuilt at
// startup, so nothing is persisted.
func NewBleveIndex() (*BleveIndex, error) {
	index, err := bleve.NewMemOnly(newMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

func newMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so "java" matches "Java" exactly.
	text := bleve.NewTextFieldMapping()
	text.Analyzer = standard.Name
	for _, f := range searchFields {
		docMapping.AddFieldMappingsAt(f, text)
	}
	im.AddDocumentMapping("assessment", docMapping)
	im.DefaultType = "assessment"
	im.DefaultMapping = docMapping
	return im
}

func document(a models.Assessment) map[string]any {
	return map[string]any{
		fieldName:        a.Name,
		fieldDescription: a.Description,
		fieldTestType:    a.TestType,
		fieldJobLevels:   a.JobLevels,
	}
}

// Index adds or replaces a by its ID.
func (b *BleveIndex) Index(ctx context.Context, a models.Assessment) error {
	if a.ID == "" {
		return fmt.Errorf("assessment %q has no ID", a.Name)
	}
	return b.index.Index(a.ID, document(a))
}

// IndexAll indexes records in one batch.
func (b *BleveIndex) IndexAll(ctx context.Context, records []models.Assessment) error {
	batch := b.index.NewBatch()
	for _, a := range records {
		if a.ID == "" {
			return fmt.Errorf("assessment %q has no ID", a.Name)
		}
		if err := batch.Index(a.ID, document(a)); err != nil {
			return fmt.Errorf("batch index %q: %w", a.Name, err)
		}
	}
	if err := b.index.Batch(batch); err != nil {
		return fmt.Errorf("Bleve batch failed: %w", err)
	}
	return nil
}

// Search runs a match query over the indexed fields and returns up to limit hits by
// descending score. A blank query returns no hits.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]KeywordResult, error) {
	if strings.TrimSpace(query) == "" || limit <= 0 {
		return nil, nil
	}
	nameBoost, fuzziness := 1.0, 0
	if opts != nil {
		if opts.NameBoost > 0 {
			nameBoost = opts.NameBoost
		}
		fuzziness = min(max(opts.Fuzziness, 0), 2)
	}

	queries := make([]blevequery.Query, 0, len(searchFields))
	for _, f := range searchFields {
		mq := bleve.NewMatchQuery(query)
		mq.SetField(f)
		if fuzziness > 0 {
			mq.SetFuzziness(fuzziness)
		}
		if f == fieldName && nameBoost != 1 {
			mq.SetBoost(nameBoost)
		}
		queries = append(queries, mq)
	}

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(queries...))
	req.Size = limit
	results, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]KeywordResult, len(results.Hits))
	for i, hit := range results.Hits {
		out[i] = KeywordResult{ID: hit.ID, Score: hit.Score}
	}
	return out, nil
}

// DocCount returns the number of indexed assessments.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}
