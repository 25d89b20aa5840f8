package vector

import "fmt"

// IndexType names a VectorIndex implementation.
type IndexType string

const (
	// IndexTypeMemory is the pure-Go flat L2 index.
	IndexTypeMemory IndexType = "memory"
	// IndexTypeFAISS is IndexFlatL2 through the FAISS C API. Requires -tags=faiss and cgo.
	IndexTypeFAISS IndexType = "faiss"
)

// NewVectorIndex creates an empty index of the given type ("memory" when empty).
func NewVectorIndex(indexType string, dimensions int) (VectorIndex, error) {
	switch IndexType(indexType) {
	case IndexTypeMemory, "":
		return NewMemoryIndex(dimensions)
	case IndexTypeFAISS:
		return NewFAISSIndex(dimensions)
	default:
		return nil, fmt.Errorf("unknown index type: %s (supported: memory, faiss)", indexType)
	}
}

// Open creates an index of the given type and loads it from path.
func Open(indexType string, dimensions int, path string) (VectorIndex, error) {
	idx, err := NewVectorIndex(indexType, dimensions)
	if err != nil {
		return nil, err
	}
	if err := idx.Load(path); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("load vector index %s: %w", path, err)
	}
	return idx, nil
}

// IsFAISSAvailable reports whether FAISS support is compiled in.
func IsFAISSAvailable() bool {
	idx, err := NewFAISSIndex(1)
	if err != nil {
		return false
	}
	_ = idx.Close()
	return true
}
