// Package cli formats command output for assessly.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/hyperjump/assessly/internal/models"
	"github.com/hyperjump/assessly/pkg/utils"
)

// OutputFormat is the format for recommendation output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is the HTTP response body, indented.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case OutputText, "":
		return OutputText, nil
	case OutputJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// WriteRecommendations writes resp to w in the given format.
func WriteRecommendations(w io.Writer, resp *models.RecommendResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	default:
		writeRecommendationsText(w, resp)
		return nil
	}
}

func writeRecommendationsText(w io.Writer, resp *models.RecommendResponse) {
	fmt.Fprintf(w, "\n%d recommendations for %q\n\n", len(resp.Recommendations), resp.Query)
	for i, rec := range resp.Recommendations {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "%d. %s\n", i+1, rec.Name)
		fmt.Fprintf(w, "   Type: %s | Duration: %s | Levels: %s\n", rec.TestType, rec.Duration, TruncateWords(rec.JobLevels, 8))
		if rec.URL != "" {
			fmt.Fprintf(w, "   %s\n", rec.URL)
		}
		fmt.Fprintf(w, "\n   %s\n", utils.Truncate(rec.Description, 200))
		fmt.Fprintf(w, "   Why: %s\n", rec.Explanation)
		fmt.Fprintln(w)
	}
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
