// Package llm defines the text-generation collaborator used to rank assessments and
// the wrappers that make calls to it resilient.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when a model call succeeds without any text.
var ErrEmptyResponse = errors.New("model returned empty response")

// Generator completes a single prompt.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	// Model names the underlying model; used for logging and cache keys.
	Model() string
}

// Unavailable is a Generator that fails every call with err. It stands in for a
// provider that could not be configured so ranking falls back instead of the
// process refusing to start.
type Unavailable struct {
	model string
	err   error
}

// NewUnavailable returns a generator named model whose calls all fail with err.
func NewUnavailable(model string, err error) *Unavailable {
	return &Unavailable{model: model, err: err}
}

func (u *Unavailable) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return "", fmt.Errorf("%s unavailable: %w", u.model, u.err)
}

func (u *Unavailable) Model() string { return u.model }
