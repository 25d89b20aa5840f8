// Package models defines core data structures for assessments, recommendation requests, and responses.
package models

// Unknown is the placeholder the catalog uses for fields the enrichment step could not fill.
const Unknown = "Unknown"

// Assessment is one catalog entry. Every field is present (possibly "Unknown") once the
// catalog has been enriched; the service never mutates an Assessment after loading.
type Assessment struct {
	ID          string `json:"id,omitempty" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	TestType    string `json:"test_type" db:"test_type"`
	Duration    string `json:"duration" db:"duration"`
	URL         string `json:"url" db:"url"`
	JobLevels   string `json:"job_levels" db:"job_levels"`
	Languages   string `json:"languages" db:"languages"`
	Remote      string `json:"remote,omitempty" db:"remote"`
	Adaptive    string `json:"adaptive,omitempty" db:"adaptive"`
}
