package ranking

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/hyperjump/assessly/internal/models"
)

const promptTemplate = `You are an expert in talent assessment. Given the query: "%s",
rank these assessments from most to least relevant based on their attributes (description, test type, job levels, duration, languages).
Provide a numbered list of assessment names followed by a concise explanation of why each is relevant to the query. Avoid Markdown formatting (e.g., no ** or *); use plain text only.

Assessments:
%s
`

// BuildPrompt renders the ranking instruction for query with every candidate serialized
// as indented JSON. Store-assigned IDs are left out; the model ranks by name.
func BuildPrompt(query string, candidates []models.Assessment) (string, error) {
	records := make([]models.Assessment, len(candidates))
	for i, c := range candidates {
		c.ID = ""
		records[i] = c
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal candidates: %w", err)
	}
	return fmt.Sprintf(promptTemplate, query, data), nil
}
