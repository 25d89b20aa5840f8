package vector

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// indexMagic prefixes memory index files.
var indexMagic = [4]byte{'A', 'S', 'V', '1'}

// ErrCorruptIndex is returned when an index file cannot be decoded.
var ErrCorruptIndex = errors.New("corrupt vector index")

// MemoryIndex is an exact flat L2 index. Every search scans all vectors, which is
// fine for catalogs of a few thousand records.
type MemoryIndex struct {
	dimensions int
	ids        []string
	vectors    [][]float32
	mu         sync.RWMutex
}

// NewMemoryIndex creates an empty index for vectors of the given dimension.
func NewMemoryIndex(dimensions int) (*MemoryIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	return &MemoryIndex{dimensions: dimensions}, nil
}

// Add appends vectors with the given IDs. On a dimension mismatch nothing is added.
func (m *MemoryIndex) Add(ctx context.Context, ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("ids and vectors length mismatch")
	}
	for _, v := range vectors {
		if len(v) != m.dimensions {
			return fmt.Errorf("vector dimension mismatch: got %d, expected %d", len(v), m.dimensions)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, id := range ids {
		m.ids = append(m.ids, id)
		m.vectors = append(m.vectors, slices.Clone(vectors[i]))
	}
	return nil
}

// Search returns the k vectors closest to query.
func (m *MemoryIndex) Search(ctx context.Context, query []float32, k int) ([]VectorResult, error) {
	if len(query) != m.dimensions {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(query), m.dimensions)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if k <= 0 || len(m.ids) == 0 {
		return nil, nil
	}

	hits := make([]VectorResult, len(m.ids))
	for i, vec := range m.vectors {
		hits[i] = VectorResult{ID: m.ids[i], Distance: L2Distance(query, vec)}
	}
	slices.SortStableFunc(hits, func(a, b VectorResult) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})
	return hits[:min(k, len(hits))], nil
}

// Save writes the index to path atomically. Format: magic (4), dimensions (4), n (4),
// then per vector: idLen (4), id bytes, vector (dimensions*4 bytes), little-endian.
func (m *MemoryIndex) Save(path string) error {
	if path == "" {
		return errors.New("index path is empty")
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := m.encode(w); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close index file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename index file: %w", err)
	}
	return nil
}

func (m *MemoryIndex) encode(w io.Writer) error {
	header := []any{indexMagic, uint32(m.dimensions), uint32(len(m.ids))}
	for _, v := range header {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for i, id := range m.ids {
		if err := binary.Write(w, binary.LittleEndian, uint32(len(id))); err != nil {
			return fmt.Errorf("write id len: %w", err)
		}
		if _, err := io.WriteString(w, id); err != nil {
			return fmt.Errorf("write id: %w", err)
		}
		if err := binary.Write(w, binary.LittleEndian, m.vectors[i]); err != nil {
			return fmt.Errorf("write vector: %w", err)
		}
	}
	return nil
}

// Load replaces the index contents with the file at path. The file's dimensions must
// match. A missing file is an error satisfying errors.Is(err, os.ErrNotExist).
func (m *MemoryIndex) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()
	r := bufio.NewReader(f)

	var (
		magic [4]byte
		dim   uint32
		n     uint32
	)
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil || magic != indexMagic {
		return fmt.Errorf("%w: bad header", ErrCorruptIndex)
	}
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return fmt.Errorf("%w: read dimensions: %v", ErrCorruptIndex, err)
	}
	if int(dim) != m.dimensions {
		return fmt.Errorf("dimension mismatch: file has %d, index expects %d", dim, m.dimensions)
	}
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return fmt.Errorf("%w: read count: %v", ErrCorruptIndex, err)
	}

	ids := make([]string, 0, n)
	vectors := make([][]float32, 0, n)
	for range n {
		var idLen uint32
		if err := binary.Read(r, binary.LittleEndian, &idLen); err != nil {
			return fmt.Errorf("%w: read id len: %v", ErrCorruptIndex, err)
		}
		id := make([]byte, idLen)
		if _, err := io.ReadFull(r, id); err != nil {
			return fmt.Errorf("%w: read id: %v", ErrCorruptIndex, err)
		}
		vec := make([]float32, m.dimensions)
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			return fmt.Errorf("%w: read vector: %v", ErrCorruptIndex, err)
		}
		for _, v := range vec {
			if math.IsNaN(float64(v)) {
				return fmt.Errorf("%w: NaN in vector %q", ErrCorruptIndex, id)
			}
		}
		ids = append(ids, string(id))
		vectors = append(vectors, vec)
	}

	m.mu.Lock()
	m.ids, m.vectors = ids, vectors
	m.mu.Unlock()
	return nil
}

// Size returns the number of vectors in the index.
func (m *MemoryIndex) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ids)
}

// Dimensions returns the vector dimension.
func (m *MemoryIndex) Dimensions() int {
	return m.dimensions
}

// Close is a no-op for MemoryIndex.
func (m *MemoryIndex) Close() error {
	return nil
}
