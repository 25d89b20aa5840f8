package recommend

import (
	"fmt"

	"github.com/hyperjump/assessly/internal/models"
)

// Assemble builds the response for query, pairing ranked[i] with explanations[i].
// explanations must be at least as long as ranked; Assemble never pads.
func Assemble(query string, ranked []models.Assessment, explanations []string) (*models.RecommendResponse, error) {
	if len(explanations) < len(ranked) {
		return nil, fmt.Errorf("assemble: %d explanations for %d ranked records", len(explanations), len(ranked))
	}

	recs := make([]models.Recommendation, 0, len(ranked))
	for i, a := range ranked {
		recs = append(recs, models.Recommendation{
			Name:        a.Name,
			TestType:    a.TestType,
			Duration:    a.Duration,
			URL:         a.URL,
			Description: a.Description,
			JobLevels:   a.JobLevels,
			Languages:   a.Languages,
			Explanation: explanations[i],
		})
	}
	return &models.RecommendResponse{Query: query, Recommendations: recs}, nil
}
