//go:build faiss && cgo

package vector

import (
	"context"
	"path/filepath"
	"testing"
)

func TestFAISSIndex_AddSearch(t *testing.T) {
	idx, err := NewFAISSIndex(3)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	ctx := context.Background()

	vecs := [][]float32{
		{1, 0, 0},
		{0.9, 0.1, 0},
		{0, 1, 0},
	}
	if err := idx.Add(ctx, []string{"a", "b", "c"}, vecs); err != nil {
		t.Fatal(err)
	}
	if idx.Size() != 3 {
		t.Errorf("Size=%d, want 3", idx.Size())
	}

	results, err := idx.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "a" || results[1].ID != "b" {
		t.Errorf("unexpected order: %+v", results)
	}
	if results[0].Distance > results[1].Distance {
		t.Error("distances should ascend")
	}
}

func TestFAISSIndex_MatchesMemoryIndex(t *testing.T) {
	ctx := context.Background()
	f, err := NewFAISSIndex(2)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	m, _ := NewMemoryIndex(2)

	ids := []string{"far", "near", "mid"}
	vecs := [][]float32{{10, 0}, {1, 0.1}, {2, 2}}
	_ = f.Add(ctx, ids, vecs)
	_ = m.Add(ctx, ids, vecs)

	fr, _ := f.Search(ctx, []float32{1, 0}, 3)
	mr, _ := m.Search(ctx, []float32{1, 0}, 3)
	for i := range mr {
		if fr[i].ID != mr[i].ID {
			t.Errorf("rank %d: faiss %s, memory %s", i, fr[i].ID, mr[i].ID)
		}
	}
}

func TestFAISSIndex_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idx")
	ctx := context.Background()
	idx, err := NewFAISSIndex(2)
	if err != nil {
		t.Fatal(err)
	}
	_ = idx.Add(ctx, []string{"x", "y"}, [][]float32{{1, 0}, {0, 1}})
	if err := idx.Save(path); err != nil {
		t.Fatal(err)
	}
	idx.Close()

	loaded, _ := NewFAISSIndex(2)
	defer loaded.Close()
	if err := loaded.Load(path); err != nil {
		t.Fatal(err)
	}
	r, err := loaded.Search(ctx, []float32{0, 1}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if r[0].ID != "y" {
		t.Errorf("got %s, want y", r[0].ID)
	}

	wrong, _ := NewFAISSIndex(3)
	defer wrong.Close()
	if err := wrong.Load(path); err == nil {
		t.Error("expected dimension mismatch")
	}
}

func TestFAISSIndex_Validation(t *testing.T) {
	if _, err := NewFAISSIndex(0); err == nil {
		t.Error("expected error for zero dimension")
	}
	idx, _ := NewFAISSIndex(2)
	defer idx.Close()
	ctx := context.Background()
	if err := idx.Add(ctx, []string{"a"}, nil); err == nil {
		t.Error("expected length mismatch")
	}
	if err := idx.Add(ctx, nil, nil); err != nil {
		t.Errorf("empty add: %v", err)
	}
	if r, err := idx.Search(ctx, []float32{1, 0}, 5); err != nil || len(r) != 0 {
		t.Errorf("empty search: %v, %v", r, err)
	}
}
