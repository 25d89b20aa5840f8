package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hyperjump/assessly/internal/catalog"
	"github.com/hyperjump/assessly/internal/models"
	"github.com/hyperjump/assessly/internal/ranking"
	"github.com/hyperjump/assessly/internal/retrieval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubGenerator struct {
	response string
	err      error
	calls    int
}

func (g *stubGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	g.calls++
	return g.response, g.err
}

func (g *stubGenerator) Model() string { return "stub" }

type failingRetriever struct{ err error }

func (f failingRetriever) Retrieve(ctx context.Context, query string, k int) ([]models.Assessment, error) {
	return nil, f.err
}

func (f failingRetriever) Name() string { return "failing" }

func testStore(t *testing.T, n int) *catalog.Store {
	t.Helper()
	records := []models.Assessment{
		{Name: "Java Skills Test", URL: "u/java", TestType: "Knowledge", Duration: "30", JobLevels: "Mid", Languages: "English",
			Description: "java programming and teamwork for a developer"},
		{Name: "OPQ", URL: "u/opq", Description: "personality questionnaire measuring teamwork"},
	}
	for i := len(records); i < n; i++ {
		records = append(records, models.Assessment{
			Name:        fmt.Sprintf("Filler %02d", i),
			URL:         fmt.Sprintf("u/filler-%d", i),
			Description: "teamwork filler",
		})
	}
	s, err := catalog.NewStore(records)
	require.NoError(t, err)
	return s
}

func newService(t *testing.T, store *catalog.Store, gen *stubGenerator, backfill bool) *Service {
	t.Helper()
	logger := zaptest.NewLogger(t)
	engine := ranking.NewEngine(gen, ranking.Config{}, logger)
	return NewService(retrieval.NewLexical(store), engine, store, Options{TopK: 10, Backfill: backfill, Logger: logger})
}

func TestService_ModelRanking(t *testing.T) {
	gen := &stubGenerator{response: "1. OPQ\nPersonality fit.\n2. java skills test\nCore Java."}
	resp, err := newService(t, testStore(t, 2), gen, true).Recommend(context.Background(), "  Java developer with teamwork ")
	require.NoError(t, err)

	assert.Equal(t, "Java developer with teamwork", resp.Query)
	require.Len(t, resp.Recommendations, 2)
	assert.Equal(t, "OPQ", resp.Recommendations[0].Name)
	assert.Equal(t, "Personality fit.", resp.Recommendations[0].Explanation)
	java := resp.Recommendations[1]
	assert.Equal(t, models.Recommendation{
		Name: "Java Skills Test", TestType: "Knowledge", Duration: "30", URL: "u/java",
		Description: "java programming and teamwork for a developer", JobLevels: "Mid", Languages: "English",
		Explanation: "Core Java.",
	}, java)
}

func TestService_ModelUnreachable(t *testing.T) {
	gen := &stubGenerator{err: errors.New("dial tcp: connection refused")}
	resp, err := newService(t, testStore(t, 15), gen, true).Recommend(context.Background(), "teamwork")
	require.NoError(t, err)

	require.Len(t, resp.Recommendations, 10)
	for _, r := range resp.Recommendations {
		assert.Contains(t, r.Explanation, "teamwork")
		assert.Contains(t, r.Explanation, "error")
	}
}

func TestService_EmptyQuery(t *testing.T) {
	gen := &stubGenerator{}
	_, err := newService(t, testStore(t, 2), gen, true).Recommend(context.Background(), "   ")
	assert.ErrorIs(t, err, models.ErrQueryRequired)
	assert.Zero(t, gen.calls)
}

func TestService_RetrievalError(t *testing.T) {
	boom := errors.New("embedding server down")
	store := testStore(t, 2)
	gen := &stubGenerator{}
	svc := NewService(failingRetriever{err: boom}, ranking.NewEngine(gen, ranking.Config{}, nil), store, Options{Backfill: true})

	_, err := svc.Recommend(context.Background(), "java")
	assert.ErrorIs(t, err, ErrRetrieval)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, gen.calls)
}

func TestService_Backfill(t *testing.T) {
	gen := &stubGenerator{response: "nothing useful"}
	resp, err := newService(t, testStore(t, 12), gen, true).Recommend(context.Background(), "astrophysics")
	require.NoError(t, err)

	require.Len(t, resp.Recommendations, 10)
	assert.Equal(t, "Java Skills Test", resp.Recommendations[0].Name)
	assert.Contains(t, resp.Recommendations[0].Explanation, "model ranking unavailable")
	assert.Equal(t, 1, gen.calls)
}

func TestService_NoBackfill(t *testing.T) {
	gen := &stubGenerator{response: "1. OPQ"}
	resp, err := newService(t, testStore(t, 12), gen, false).Recommend(context.Background(), "astrophysics")
	require.NoError(t, err)

	assert.NotNil(t, resp.Recommendations)
	assert.Empty(t, resp.Recommendations)
	assert.Zero(t, gen.calls)
}
