package ranking

import (
	"strings"

	"github.com/hyperjump/assessly/internal/models"
)

// Match resolves parsed entries to candidates by case-insensitive name equality, taking
// the first candidate with that name. Entries that match nothing are dropped together
// with their explanation, so the returned explanations stay aligned with the records.
// A matched entry without an explanation gets an empty string at its position, and a
// name repeated later in the response is ignored.
func Match(entries []Entry, candidates []models.Assessment) ([]models.Assessment, []string) {
	index := make(map[string]int, len(candidates))
	for i, c := range candidates {
		key := strings.ToLower(c.Name)
		if _, ok := index[key]; !ok {
			index[key] = i
		}
	}

	var (
		ranked       []models.Assessment
		explanations []string
		used         = make(map[int]bool, len(entries))
	)
	for _, e := range entries {
		i, ok := index[strings.ToLower(e.Name)]
		if !ok || used[i] {
			continue
		}
		used[i] = true
		ranked = append(ranked, candidates[i])
		explanations = append(explanations, e.Explanation)
	}
	return ranked, explanations
}
