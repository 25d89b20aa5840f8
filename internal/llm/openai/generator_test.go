package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/hyperjump/assessly/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	reply string
	err   error
	got   string
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if len(messages) > 0 && len(messages[0].Parts) > 0 {
		if tp, ok := messages[0].Parts[0].(llms.TextContent); ok {
			f.got = tp.Text
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestGenerator_GenerateContent(t *testing.T) {
	fake := &fakeModel{reply: "  1. Foo\nGood fit.\n"}
	g := &Generator{model: fake, modelName: "local"}

	out, err := g.GenerateContent(context.Background(), "rank")
	require.NoError(t, err)
	assert.Equal(t, "1. Foo\nGood fit.", out)
	assert.Equal(t, "rank", fake.got)
	assert.Equal(t, "local", g.Model())
}

func TestGenerator_Errors(t *testing.T) {
	g := &Generator{model: &fakeModel{reply: "  "}, modelName: "m"}
	_, err := g.GenerateContent(context.Background(), "p")
	assert.ErrorIs(t, err, llm.ErrEmptyResponse)

	boom := errors.New("connection refused")
	g = &Generator{model: &fakeModel{err: boom}, modelName: "m"}
	_, err = g.GenerateContent(context.Background(), "p")
	assert.ErrorIs(t, err, boom)
}

func TestNewGenerator_DefaultModel(t *testing.T) {
	g, err := NewGenerator("", "", "http://localhost:11434/v1")
	require.NoError(t, err)
	assert.Equal(t, defaultModel, g.Model())
}
