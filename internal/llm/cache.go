package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/hyperjump/assessly/internal/config"
	"github.com/hyperjump/assessly/internal/metrics"
	"github.com/hyperjump/assessly/pkg/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "assessly:gen:"

// CachedGenerator serves repeated prompts from Redis. Redis failures are logged and the
// call goes through to the wrapped generator; only successful responses are stored.
type CachedGenerator struct {
	inner  Generator
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedGenerator wraps inner with a Redis response cache. ttl <= 0 stores without expiry.
func NewCachedGenerator(inner Generator, rdb redis.Cmdable, ttl time.Duration, logger *zap.Logger) *CachedGenerator {
	return &CachedGenerator{inner: inner, rdb: rdb, ttl: max(ttl, 0), logger: utils.OrNop(logger)}
}

// NewRedisClient connects to the cache configured in cfg and checks it with PING.
func NewRedisClient(ctx context.Context, cfg config.CacheConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// CacheKey returns the Redis key for prompt sent to model.
func CacheKey(model, prompt string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + prompt))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

// GenerateContent returns the cached response for prompt or calls the wrapped generator.
func (c *CachedGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	key := CacheKey(c.inner.Model(), prompt)

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		metrics.GeneratorCache.WithLabelValues("hit").Inc()
		return cached, nil
	case errors.Is(err, redis.Nil):
		metrics.GeneratorCache.WithLabelValues("miss").Inc()
	default:
		metrics.GeneratorCache.WithLabelValues("error").Inc()
		c.logger.Warn("generator cache read failed", zap.Error(err))
	}

	resp, err := c.inner.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}
	if err := c.rdb.Set(ctx, key, resp, c.ttl).Err(); err != nil {
		c.logger.Warn("generator cache write failed", zap.Error(err))
	}
	return resp, nil
}

// Model returns the wrapped generator's model.
func (c *CachedGenerator) Model() string {
	return c.inner.Model()
}
