// Package provider assembles the configured llm.Generator chain.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/assessly/internal/config"
	"github.com/hyperjump/assessly/internal/llm"
	"github.com/hyperjump/assessly/internal/llm/gemini"
	"github.com/hyperjump/assessly/internal/llm/openai"
	"github.com/hyperjump/assessly/pkg/utils"
	"go.uber.org/zap"
)

const (
	Gemini = "gemini"
	OpenAI = "openai"
)

// NewBase creates the bare generator for cfg.Provider.
func NewBase(ctx context.Context, cfg config.RankingConfig) (llm.Generator, error) {
	switch cfg.Provider {
	case Gemini, "":
		return gemini.NewGenerator(ctx, cfg.APIKey, cfg.Model, cfg.Host)
	case OpenAI:
		return openai.NewGenerator(cfg.APIKey, cfg.Model, cfg.Host)
	default:
		return nil, fmt.Errorf("unknown ranking provider: %q", cfg.Provider)
	}
}

// New creates the generator for cfg wrapped with the circuit breaker and, when a Redis
// address is configured, the response cache. The returned close function releases the
// cache connection and is never nil.
func New(ctx context.Context, cfg config.RankingConfig, cache config.CacheConfig, logger *zap.Logger) (llm.Generator, func() error, error) {
	logger = utils.OrNop(logger)

	base, err := NewBase(ctx, cfg)
	if errors.Is(err, gemini.ErrMissingAPIKey) {
		logger.Warn("ranking model has no api key; every request will use the fallback ranking",
			zap.String("ai_provider", Gemini), zap.String("ai_model", cfg.Model))
		base, err = llm.NewUnavailable(cfg.Model, err), nil
	}
	if err != nil {
		return nil, nil, err
	}
	return Wrap(ctx, base, cfg.Breaker, cache, logger)
}

// Wrap applies the breaker and cache layers from configuration to base.
func Wrap(ctx context.Context, base llm.Generator, breaker config.BreakerConfig, cache config.CacheConfig, logger *zap.Logger) (llm.Generator, func() error, error) {
	logger = utils.OrNop(logger)
	noop := func() error { return nil }

	gen := base
	if !breaker.Disabled {
		gen = llm.NewBreakerGenerator(gen, llm.BreakerSettings{
			FailureThreshold: breaker.FailureThreshold,
			OpenTimeout:      breaker.OpenTimeout,
			Interval:         breaker.Interval,
		}, logger)
	}

	if cache.RedisAddr == "" {
		logger.Info("generator ready", zap.String("ai_model", base.Model()), zap.Bool("breaker", !breaker.Disabled), zap.Bool("cache", false))
		return gen, noop, nil
	}

	rdb, err := llm.NewRedisClient(ctx, cache)
	if err != nil {
		return nil, nil, fmt.Errorf("connect generator cache: %w", err)
	}
	logger.Info("generator ready",
		zap.String("ai_model", base.Model()),
		zap.Bool("breaker", !breaker.Disabled),
		zap.String("cache_addr", cache.RedisAddr),
		zap.Duration("cache_ttl", cache.TTL))
	return llm.NewCachedGenerator(gen, rdb, cache.TTL, logger), rdb.Close, nil
}
