// Package catalog holds the in-memory assessment store and the loaders that build it.
package catalog

import (
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/hyperjump/assessly/internal/models"
)

// ErrEmptyCatalog is returned when a catalog has no records.
var ErrEmptyCatalog = errors.New("catalog is empty")

// idNamespace is the UUIDv5 namespace for record IDs. Changing it invalidates saved indexes.
var idNamespace = uuid.MustParse("6f1c2a8e-3d4b-5e6f-9a0b-1c2d3e4f5a6b")

// RecordID returns a deterministic ID for a, derived from its URL (or its name when the URL is empty).
func RecordID(a models.Assessment) string {
	key := strings.TrimSpace(a.URL)
	if key == "" {
		key = "name:" + strings.TrimSpace(a.Name)
	}
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

// EmbeddingText is the text embedded for a when building the vector index.
func EmbeddingText(a models.Assessment) string {
	var b strings.Builder
	b.WriteString(a.Name)
	b.WriteString(" - Description: ")
	b.WriteString(a.Description)
	b.WriteString(" - Job Levels: ")
	b.WriteString(a.JobLevels)
	b.WriteString(" - Languages: ")
	b.WriteString(a.Languages)
	b.WriteString(" - Duration: ")
	b.WriteString(a.Duration)
	b.WriteString(" - Test Type: ")
	b.WriteString(a.TestType)
	return b.String()
}

// Store is the ordered, read-only assessment catalog. It is safe for concurrent reads.
type Store struct {
	records []models.Assessment
	byID    map[string]int
}

// NewStore builds a Store from records in order. Records without an ID get RecordID;
// colliding IDs are made unique by position.
func NewStore(records []models.Assessment) (*Store, error) {
	if len(records) == 0 {
		return nil, ErrEmptyCatalog
	}
	s := &Store{
		records: make([]models.Assessment, len(records)),
		byID:    make(map[string]int, len(records)),
	}
	copy(s.records, records)
	for i := range s.records {
		a := &s.records[i]
		if a.ID == "" {
			a.ID = RecordID(*a)
		}
		if _, dup := s.byID[a.ID]; dup {
			a.ID = uuid.NewSHA1(idNamespace, []byte(a.ID+"#"+strconv.Itoa(i))).String()
		}
		s.byID[a.ID] = i
	}
	return s, nil
}

// All returns the records in load order. Callers must not modify the slice.
func (s *Store) All() []models.Assessment {
	return s.records
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// At returns the record at position i.
func (s *Store) At(i int) models.Assessment {
	return s.records[i]
}

// ByID looks up a record by ID.
func (s *Store) ByID(id string) (models.Assessment, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Assessment{}, false
	}
	return s.records[i], true
}

// Head returns up to k records from the start of the catalog.
func (s *Store) Head(k int) []models.Assessment {
	if k <= 0 {
		return nil
	}
	k = min(k, len(s.records))
	out := make([]models.Assessment, k)
	copy(out, s.records[:k])
	return out
}
