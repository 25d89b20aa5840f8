package keyword

import (
	"context"
	"testing"

	"github.com/hyperjump/assessly/internal/models"
)

func newTestIndex(t *testing.T, records ...models.Assessment) *BleveIndex {
	t.Helper()
	idx, err := NewBleveIndex()
	if err != nil {
		t.Fatalf("NewBleveIndex: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	if err := idx.IndexAll(context.Background(), records); err != nil {
		t.Fatalf("IndexAll: %v", err)
	}
	return idx
}

var catalog = []models.Assessment{
	{ID: "java", Name: "Core Java (Advanced Level)", Description: "Multi-choice test of Java programming knowledge", TestType: "Knowledge & Skills", JobLevels: "Mid-Professional"},
	{ID: "python", Name: "Python (New)", Description: "Measures knowledge of Python programming", TestType: "Knowledge & Skills", JobLevels: "Entry-Level"},
	{ID: "opq", Name: "Occupational Personality Questionnaire", Description: "Personality assessment for workplace behaviour", TestType: "Personality & Behavior", JobLevels: "Manager"},
}

func TestBleveIndex_SearchFindsDescription(t *testing.T) {
	idx := newTestIndex(t, catalog...)
	results, err := idx.Search(context.Background(), "personality", 10, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) == 0 || results[0].ID != "opq" {
		t.Fatalf("expected opq first, got %+v", results)
	}
}

func TestBleveIndex_SearchCaseInsensitive(t *testing.T) {
	idx := newTestIndex(t, catalog...)
	results, err := idx.Search(context.Background(), "JAVA", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != "java" {
		t.Errorf("expected only java, got %+v", results)
	}
}

func TestBleveIndex_SearchLimit(t *testing.T) {
	idx := newTestIndex(t, catalog...)
	results, err := idx.Search(context.Background(), "programming knowledge", 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}

func TestBleveIndex_BlankQuery(t *testing.T) {
	idx := newTestIndex(t, catalog...)
	for _, q := range []string{"", "   "} {
		results, err := idx.Search(context.Background(), q, 10, nil)
		if err != nil || len(results) != 0 {
			t.Errorf("Search(%q) = %v, %v; want no hits", q, results, err)
		}
	}
}

func TestBleveIndex_Fuzzy(t *testing.T) {
	idx := newTestIndex(t, catalog...)
	exact, err := idx.Search(context.Background(), "pyhton", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(exact) != 0 {
		t.Fatalf("misspelling should not match without fuzziness, got %+v", exact)
	}
	fuzzy, err := idx.Search(context.Background(), "pyhton", 10, &SearchOptions{Fuzziness: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(fuzzy) == 0 || fuzzy[0].ID != "python" {
		t.Errorf("fuzzy search should find python, got %+v", fuzzy)
	}
}

func TestBleveIndex_NameBoost(t *testing.T) {
	idx := newTestIndex(t,
		models.Assessment{ID: "desc", Name: "Coding Essentials", Description: "covers sales scenarios and sales calls"},
		models.Assessment{ID: "name", Name: "Sales Interview", Description: "structured interview"},
	)
	results, err := idx.Search(context.Background(), "sales", 10, &SearchOptions{NameBoost: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].ID != "name" {
		t.Errorf("name match should rank first with boost, got %+v", results)
	}
}

func TestBleveIndex_IndexAndDocCount(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()
	if err := idx.Index(ctx, catalog[0]); err != nil {
		t.Fatal(err)
	}
	if err := idx.Index(ctx, catalog[0]); err != nil {
		t.Fatal(err)
	}
	n, err := idx.DocCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("DocCount() = %d, want 1 (re-index replaces)", n)
	}
	if err := idx.Index(ctx, models.Assessment{Name: "no id"}); err == nil {
		t.Error("expected error for record without ID")
	}
}
