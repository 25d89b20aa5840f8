package models

import (
	"errors"
	"strings"
)

// ErrQueryRequired is returned when a recommendation request has no query text.
var ErrQueryRequired = errors.New("query is required")

// RecommendRequest is the body of POST /recommend.
type RecommendRequest struct {
	Query string `json:"query"`
}

// Validate trims the query and returns ErrQueryRequired if nothing is left.
func (r *RecommendRequest) Validate() error {
	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		return ErrQueryRequired
	}
	return nil
}

// Recommendation is one ranked assessment with the explanation attached.
type Recommendation struct {
	Name        string `json:"name"`
	TestType    string `json:"test_type"`
	Duration    string `json:"duration"`
	URL         string `json:"url"`
	Description string `json:"description"`
	JobLevels   string `json:"job_levels"`
	Languages   string `json:"languages"`
	Explanation string `json:"explanation"`
}

// RecommendResponse is the successful response of POST /recommend.
type RecommendResponse struct {
	Query           string           `json:"query"`
	Recommendations []Recommendation `json:"recommendations"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
