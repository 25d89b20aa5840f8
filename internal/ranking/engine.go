// Package ranking orders retrieved assessments with a generative model and explains each
// choice, falling back to retrieval order whenever the model cannot be used.
package ranking

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperjump/assessly/internal/llm"
	"github.com/hyperjump/assessly/internal/metrics"
	"github.com/hyperjump/assessly/internal/models"
	"github.com/hyperjump/assessly/pkg/utils"
	"go.uber.org/zap"
)

// FallbackReason records why the model ranking was not used.
type FallbackReason string

const (
	FallbackNone      FallbackReason = ""
	FallbackNoMatch   FallbackReason = "no_match"
	FallbackCallError FallbackReason = "call_error"
)

// Result is the outcome of Rank. Ranked and Explanations always have the same length.
type Result struct {
	Ranked       []models.Assessment
	Explanations []string
	Fallback     FallbackReason
}

// Engine ranks candidates through a Generator.
type Engine struct {
	gen    llm.Generator
	config Config
	logger *zap.Logger
}

// NewEngine creates an Engine. Zero config values take defaults.
func NewEngine(gen llm.Generator, cfg Config, logger *zap.Logger) *Engine {
	cfg.ApplyDefaults()
	return &Engine{gen: gen, config: cfg, logger: utils.OrNop(logger)}
}

// Rank orders candidates for query. It never fails: model errors, timeouts, and
// responses naming no candidate all produce the retrieval order with synthetic
// explanations.
func (e *Engine) Rank(ctx context.Context, query string, candidates []models.Assessment) Result {
	if len(candidates) == 0 {
		return Result{Ranked: []models.Assessment{}, Explanations: []string{}}
	}

	text, err := e.generate(ctx, query, candidates)
	if err != nil {
		e.logger.Warn("model ranking failed, using retrieval order",
			zap.String("query", query),
			zap.String("ai_model", e.gen.Model()),
			zap.Error(err))
		return e.fallback(candidates, FallbackCallError, fmt.Sprintf("Fallback for '%s': no ranking due to API error", query))
	}

	entries := ParseResponse(text)
	ranked, explanations := Match(entries, candidates)
	e.logger.Debug("parsed model response",
		zap.Int("entries", len(entries)),
		zap.Int("matched", len(ranked)))

	if len(ranked) == 0 {
		e.logger.Warn("no ranked assessments matched candidates, using retrieval order",
			zap.String("query", query),
			zap.Int("entries", len(entries)))
		return e.fallback(candidates, FallbackNoMatch, fmt.Sprintf("Ranked by similarity to '%s' (model ranking unavailable)", query))
	}

	padding := fmt.Sprintf("Ranked by model for '%s'", query)
	for i, exp := range explanations {
		if exp == "" {
			explanations[i] = padding
		}
	}
	for len(explanations) < len(ranked) {
		explanations = append(explanations, padding)
	}

	n := min(len(ranked), e.config.MaxResults)
	return Result{Ranked: ranked[:n], Explanations: explanations[:n]}
}

func (e *Engine) generate(ctx context.Context, query string, candidates []models.Assessment) (string, error) {
	prompt, err := BuildPrompt(query, candidates)
	if err != nil {
		return "", err
	}

	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	e.logger.Debug("sending prompt to model",
		zap.String("ai_model", e.gen.Model()),
		zap.Int("candidates", len(candidates)),
		zap.String("prompt_preview", utils.Truncate(prompt, e.config.MaxLogLength)))

	start := time.Now()
	text, err := e.gen.GenerateContent(ctx, prompt)
	metrics.RankingDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", err
	}

	e.logger.Debug("model response",
		zap.String("ai_model", e.gen.Model()),
		zap.Duration("latency", time.Since(start)),
		zap.String("response_preview", utils.Truncate(text, e.config.MaxLogLength)))
	return text, nil
}

func (e *Engine) fallback(candidates []models.Assessment, reason FallbackReason, explanation string) Result {
	metrics.RankingFallbacks.WithLabelValues(string(reason)).Inc()

	n := min(len(candidates), e.config.MaxResults)
	ranked := make([]models.Assessment, n)
	copy(ranked, candidates)
	explanations := make([]string, n)
	for i := range explanations {
		explanations[i] = explanation
	}
	return Result{Ranked: ranked, Explanations: explanations, Fallback: reason}
}
