//go:build !faiss || !cgo

package vector

import (
	"context"
	"errors"
)

var errFAISSUnavailable = errors.New("FAISS not available: build with -tags=faiss and install the FAISS C library")

// FAISSIndex is unavailable without the faiss build tag; NewFAISSIndex always fails.
type FAISSIndex struct{}

// NewFAISSIndex returns an error because FAISS is not compiled in.
func NewFAISSIndex(dimensions int) (*FAISSIndex, error) {
	return nil, errFAISSUnavailable
}

func (f *FAISSIndex) Add(context.Context, []string, [][]float32) error { return errFAISSUnavailable }

func (f *FAISSIndex) Search(context.Context, []float32, int) ([]VectorResult, error) {
	return nil, errFAISSUnavailable
}

func (f *FAISSIndex) Save(string) error { return errFAISSUnavailable }

func (f *FAISSIndex) Load(string) error { return errFAISSUnavailable }

func (f *FAISSIndex) Size() int { return 0 }

func (f *FAISSIndex) Dimensions() int { return 0 }

func (f *FAISSIndex) Close() error { return nil }
