// Package storage persists the assessment catalog.
package storage

import (
	"context"

	"github.com/hyperjump/assessly/internal/models"
)

// CatalogStorage persists an ordered assessment catalog.
type CatalogStorage interface {
	// SaveAssessments replaces the stored catalog with records, preserving their order.
	SaveAssessments(ctx context.Context, records []models.Assessment) error
	// ListAssessments returns the stored catalog in saved order.
	ListAssessments(ctx context.Context) ([]models.Assessment, error)
	CountAssessments(ctx context.Context) (int64, error)
	Close() error
}
