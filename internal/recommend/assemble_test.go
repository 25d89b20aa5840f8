package recommend

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/hyperjump/assessly/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble(t *testing.T) {
	ranked := []models.Assessment{
		{ID: "x", Name: "Foo", URL: "u/foo", Remote: "Yes"},
		{ID: "y", Name: "Bar", URL: "u/bar"},
	}
	resp, err := Assemble("q", ranked, []string{"a", "b", "extra"})
	require.NoError(t, err)

	require.Len(t, resp.Recommendations, 2)
	assert.Equal(t, "Foo", resp.Recommendations[0].Name)
	assert.Equal(t, "a", resp.Recommendations[0].Explanation)
	assert.Equal(t, "b", resp.Recommendations[1].Explanation)
}

func TestAssemble_TooFewExplanations(t *testing.T) {
	_, err := Assemble("q", []models.Assessment{{Name: "Foo"}}, nil)
	assert.Error(t, err)
}

func TestAssemble_EmptyEncodesAsArray(t *testing.T) {
	resp, err := Assemble("q", nil, nil)
	require.NoError(t, err)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":"q","recommendations":[]}`, string(data))
}

func TestAssemble_WireFields(t *testing.T) {
	resp, err := Assemble("q", []models.Assessment{{ID: "x", Name: "Foo", Remote: "Yes", Adaptive: "No"}}, []string{"e"})
	require.NoError(t, err)

	data, err := json.Marshal(resp.Recommendations[0])
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.ElementsMatch(t,
		[]string{"name", "test_type", "duration", "url", "description", "job_levels", "languages", "explanation"},
		keys(fields))
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
