package ranking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/assessly/internal/models"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeGenerator struct {
	response string
	err      error
	delay    time.Duration
	calls    int
	prompt   string
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.response, f.err
}

func (f *fakeGenerator) Model() string { return "fake" }

func newTestEngine(t *testing.T, gen *fakeGenerator, cfg Config) *Engine {
	t.Helper()
	return NewEngine(gen, cfg, zaptest.NewLogger(t))
}

func manyCandidates(n int) []models.Assessment {
	ns := make([]string, n)
	for i := range ns {
		ns[i] = fmt.Sprintf("Assessment %02d", i)
	}
	return candidatesNamed(ns...)
}

func assertAligned(t *testing.T, r Result) {
	t.Helper()
	assert.Equal(t, len(r.Ranked), len(r.Explanations))
	assert.LessOrEqual(t, len(r.Ranked), 10)
}

func TestEngine_ParsesModelRanking(t *testing.T) {
	gen := &fakeGenerator{response: "1. Foo\nGood fit.\n2. Bar\nAlso fits."}
	r := newTestEngine(t, gen, Config{}).Rank(context.Background(), "q", candidatesNamed("Foo", "Bar", "Baz"))

	assertAligned(t, r)
	assert.Equal(t, []string{"Foo", "Bar"}, names(r.Ranked))
	assert.Equal(t, []string{"Good fit.", "Also fits."}, r.Explanations)
	assert.Equal(t, FallbackNone, r.Fallback)
	assert.Equal(t, 1, gen.calls)
}

func TestEngine_PadsMissingExplanations(t *testing.T) {
	gen := &fakeGenerator{response: "1. Foo\n2. bar\nBar fits."}
	r := newTestEngine(t, gen, Config{}).Rank(context.Background(), "java dev", candidatesNamed("Foo", "Bar"))

	assertAligned(t, r)
	assert.Equal(t, []string{"Foo", "Bar"}, names(r.Ranked))
	assert.Equal(t, []string{"Ranked by model for 'java dev'", "Bar fits."}, r.Explanations)
}

func TestEngine_CallFailureFallsBack(t *testing.T) {
	for name, err := range map[string]error{
		"api_error":    errors.New("403 permission denied"),
		"breaker_open": gobreaker.ErrOpenState,
	} {
		t.Run(name, func(t *testing.T) {
			gen := &fakeGenerator{err: err}
			cands := manyCandidates(15)
			r := newTestEngine(t, gen, Config{}).Rank(context.Background(), "java dev", cands)

			assertAligned(t, r)
			assert.Equal(t, names(cands[:10]), names(r.Ranked))
			assert.Equal(t, FallbackCallError, r.Fallback)
			for _, exp := range r.Explanations {
				assert.Equal(t, "Fallback for 'java dev': no ranking due to API error", exp)
			}
		})
	}
}

func TestEngine_NoMatchFallsBack(t *testing.T) {
	gen := &fakeGenerator{response: "1. Nonexistent\nwhatever\nSome chatter"}
	cands := candidatesNamed("Foo", "Bar", "Baz")
	r := newTestEngine(t, gen, Config{}).Rank(context.Background(), "sales", cands)

	assertAligned(t, r)
	assert.Equal(t, names(cands), names(r.Ranked))
	assert.Equal(t, FallbackNoMatch, r.Fallback)
	for _, exp := range r.Explanations {
		assert.Equal(t, "Ranked by similarity to 'sales' (model ranking unavailable)", exp)
	}
}

func TestEngine_TimeoutFallsBack(t *testing.T) {
	gen := &fakeGenerator{response: "1. Foo", delay: time.Second}
	r := newTestEngine(t, gen, Config{Timeout: 20 * time.Millisecond}).Rank(context.Background(), "q", candidatesNamed("Foo"))

	assert.Equal(t, FallbackCallError, r.Fallback)
	assert.Equal(t, []string{"Foo"}, names(r.Ranked))
}

func TestEngine_TruncatesToMaxResults(t *testing.T) {
	cands := manyCandidates(12)
	var b strings.Builder
	for i := len(cands) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "%d. %s\nreason %d\n", len(cands)-i, cands[i].Name, i)
	}
	gen := &fakeGenerator{response: b.String()}

	r := newTestEngine(t, gen, Config{}).Rank(context.Background(), "q", cands)
	assertAligned(t, r)
	assert.Len(t, r.Ranked, 10)
	assert.Equal(t, "Assessment 11", r.Ranked[0].Name)
	assert.Equal(t, "reason 11", r.Explanations[0])

	r = newTestEngine(t, gen, Config{MaxResults: 3}).Rank(context.Background(), "q", cands)
	assert.Len(t, r.Ranked, 3)
}

func TestEngine_RankedAreCandidates(t *testing.T) {
	gen := &fakeGenerator{response: "1. Baz\nok\n2. Made Up\nnope\n3. Foo\nok"}
	cands := candidatesNamed("Foo", "Bar", "Baz")
	r := newTestEngine(t, gen, Config{}).Rank(context.Background(), "q", cands)

	assertAligned(t, r)
	for _, got := range r.Ranked {
		assert.Contains(t, cands, got)
	}
}

func TestEngine_EmptyCandidatesSkipsModel(t *testing.T) {
	gen := &fakeGenerator{response: "1. Foo"}
	r := newTestEngine(t, gen, Config{}).Rank(context.Background(), "q", nil)

	assert.Empty(t, r.Ranked)
	assert.NotNil(t, r.Ranked)
	assert.Empty(t, r.Explanations)
	assert.Zero(t, gen.calls)
}

func TestBuildPrompt(t *testing.T) {
	cands := []models.Assessment{{ID: "id-1", Name: "Java Skills Test", TestType: "Knowledge", Duration: "30 min"}}
	prompt, err := BuildPrompt("Java developer", cands)
	require.NoError(t, err)

	assert.Contains(t, prompt, `Given the query: "Java developer"`)
	assert.Contains(t, prompt, "numbered list")
	assert.Contains(t, prompt, "\n    \"name\": \"Java Skills Test\"")
	assert.Contains(t, prompt, `"test_type": "Knowledge"`)
	assert.NotContains(t, prompt, "id-1")
	assert.Equal(t, "id-1", cands[0].ID, "candidates must not be modified")
}

func TestEngine_PromptSentToModel(t *testing.T) {
	gen := &fakeGenerator{response: "1. Foo"}
	newTestEngine(t, gen, Config{}).Rank(context.Background(), "leadership", candidatesNamed("Foo"))

	want, err := BuildPrompt("leadership", candidatesNamed("Foo"))
	require.NoError(t, err)
	assert.Equal(t, want, gen.prompt)
}
