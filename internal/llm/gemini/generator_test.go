package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/hyperjump/assessly/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	resp   *genai.GenerateContentResponse
	err    error
	model  string
	prompt string
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: genai.RoleModel}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestGenerator_JoinsTextParts(t *testing.T) {
	fake := &fakeModels{resp: textResponse("1. Foo", "  ", "Good fit.")}
	g := newGenerator(fake, "")

	out, err := g.GenerateContent(context.Background(), "rank these")
	require.NoError(t, err)
	assert.Equal(t, "1. Foo\nGood fit.", out)
	assert.Equal(t, defaultModel, fake.model)
	assert.Equal(t, "rank these", fake.prompt)
	assert.Equal(t, defaultModel, g.Model())
}

func TestGenerator_SkipsThoughtParts(t *testing.T) {
	resp := textResponse("answer")
	resp.Candidates[0].Content.Parts = append([]*genai.Part{{Text: "thinking...", Thought: true}}, resp.Candidates[0].Content.Parts...)
	g := newGenerator(&fakeModels{resp: resp}, "gemini-pro")

	out, err := g.GenerateContent(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "answer", out)
}

func TestGenerator_EmptyResponse(t *testing.T) {
	for name, resp := range map[string]*genai.GenerateContentResponse{
		"nil":        nil,
		"no_parts":   {Candidates: []*genai.Candidate{{}}},
		"blank_text": textResponse("   "),
	} {
		t.Run(name, func(t *testing.T) {
			g := newGenerator(&fakeModels{resp: resp}, "m")
			_, err := g.GenerateContent(context.Background(), "p")
			assert.ErrorIs(t, err, llm.ErrEmptyResponse)
		})
	}
}

func TestGenerator_APIError(t *testing.T) {
	apiErr := errors.New("429 RESOURCE_EXHAUSTED")
	g := newGenerator(&fakeModels{err: apiErr}, "m")
	_, err := g.GenerateContent(context.Background(), "p")
	assert.ErrorIs(t, err, apiErr)
}

func TestGenerator_EmptyPrompt(t *testing.T) {
	fake := &fakeModels{resp: textResponse("x")}
	_, err := newGenerator(fake, "m").GenerateContent(context.Background(), " ")
	assert.Error(t, err)
	assert.Empty(t, fake.model, "no call should be made")
}

func TestNewGenerator_RequiresKey(t *testing.T) {
	_, err := NewGenerator(context.Background(), "", "m", "")
	assert.ErrorContains(t, err, "api key")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
