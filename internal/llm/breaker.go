package llm

import (
	"context"
	"errors"
	"time"

	"github.com/hyperjump/assessly/internal/metrics"
	"github.com/hyperjump/assessly/pkg/utils"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// BreakerSettings configures a BreakerGenerator.
type BreakerSettings struct {
	Name string
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before letting a probe through.
	OpenTimeout time.Duration
	// Interval clears the failure counts while closed; 0 never clears them.
	Interval time.Duration
}

// BreakerGenerator fails fast with gobreaker.ErrOpenState while the wrapped generator
// is failing. Cancellation by the caller does not count as a failure; deadlines do.
type BreakerGenerator struct {
	inner Generator
	cb    *gobreaker.CircuitBreaker[string]
}

// NewBreakerGenerator wraps inner with a circuit breaker.
func NewBreakerGenerator(inner Generator, s BreakerSettings, logger *zap.Logger) *BreakerGenerator {
	logger = utils.OrNop(logger)
	if s.Name == "" {
		s.Name = "llm-" + inner.Model()
	}
	threshold := max(s.FailureThreshold, 1)

	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0)
	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Interval:    s.Interval,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return &BreakerGenerator{inner: inner, cb: cb}
}

// GenerateContent calls the wrapped generator through the breaker.
func (b *BreakerGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return b.cb.Execute(func() (string, error) {
		return b.inner.GenerateContent(ctx, prompt)
	})
}

// Model returns the wrapped generator's model.
func (b *BreakerGenerator) Model() string {
	return b.inner.Model()
}

// State returns the breaker's current state.
func (b *BreakerGenerator) State() gobreaker.State {
	return b.cb.State()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
