package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/hyperjump/assessly/internal/models"
)

func sampleResponse() *models.RecommendResponse {
	return &models.RecommendResponse{
		Query: "java developer",
		Recommendations: []models.Recommendation{
			{
				Name:        "Java Skills Test",
				TestType:    "Knowledge & Skills",
				Duration:    "30 minutes",
				URL:         "https://example.com/java",
				Description: strings.Repeat("java ", 60),
				JobLevels:   "Mid-Professional, Professional Individual Contributor",
				Languages:   "English (USA)",
				Explanation: "Directly measures Java knowledge.",
			},
		},
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputText, false},
		{"text", OutputText, false},
		{"JSON", OutputJSON, false},
		{" json ", OutputJSON, false},
		{"compact", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOutputFormat(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteRecommendations_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecommendations(&buf, sampleResponse(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		`1 recommendations for "java developer"`,
		"1. Java Skills Test",
		"Type: Knowledge & Skills | Duration: 30 minutes",
		"https://example.com/java",
		"Why: Directly measures Java knowledge.",
		"...",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteRecommendations_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecommendations(&buf, sampleResponse(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var got models.RecommendResponse
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if got.Query != "java developer" || len(got.Recommendations) != 1 {
		t.Errorf("decoded = %+v", got)
	}
	if !strings.Contains(buf.String(), "\n  \"query\"") {
		t.Errorf("expected indented output:\n%s", buf.String())
	}
}

func TestWriteRecommendations_Empty(t *testing.T) {
	var buf bytes.Buffer
	resp := &models.RecommendResponse{Query: "q", Recommendations: []models.Recommendation{}}
	if err := WriteRecommendations(&buf, resp, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `0 recommendations for "q"`) {
		t.Errorf("got %q", buf.String())
	}
}

func TestTruncateWords(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"one two three", 5, "one two three"},
		{"one two three", 2, "one two..."},
		{"", 3, ""},
	}
	for _, tt := range tests {
		if got := TruncateWords(tt.in, tt.max); got != tt.want {
			t.Errorf("TruncateWords(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
