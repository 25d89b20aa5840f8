// Package openai implements llm.Generator against OpenAI-compatible chat endpoints
// through langchaingo.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyperjump/assessly/internal/llm"
	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

const defaultModel = "gpt-4o-mini"

// Generator sends prompts to an OpenAI-compatible model.
type Generator struct {
	model     llms.Model
	modelName string
}

// NewGenerator creates a Generator. baseURL may point at any OpenAI-compatible server;
// an empty apiKey is sent as "none" for local servers that do not authenticate.
func NewGenerator(apiKey, model, baseURL string) (*Generator, error) {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	token := strings.TrimSpace(apiKey)
	if token == "" {
		token = "none"
	}
	opts := []lcopenai.Option{lcopenai.WithToken(token), lcopenai.WithModel(model)}
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		opts = append(opts, lcopenai.WithBaseURL(baseURL))
	}
	client, err := lcopenai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	return &Generator{model: client, modelName: model}, nil
}

// GenerateContent sends prompt as a single user message and returns the reply.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt, llms.WithTemperature(0))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if strings.TrimSpace(out) == "" {
		return "", llm.ErrEmptyResponse
	}
	return strings.TrimSpace(out), nil
}

// Model returns the model name.
func (g *Generator) Model() string {
	return g.modelName
}
