package models

import (
	"errors"
	"testing"
)

func TestRecommendRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantErr   bool
		wantQuery string
	}{
		{"empty query", "", true, ""},
		{"whitespace only", "   \t\n", true, ""},
		{"valid query", "java developer", false, "java developer"},
		{"trims surrounding space", "  sales lead  ", false, "sales lead"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &RecommendRequest{Query: tt.query}
			err := req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrQueryRequired) {
				t.Errorf("expected ErrQueryRequired, got %v", err)
			}
			if !tt.wantErr && req.Query != tt.wantQuery {
				t.Errorf("Query = %q, want %q", req.Query, tt.wantQuery)
			}
		})
	}
}
