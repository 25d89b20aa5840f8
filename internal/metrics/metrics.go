// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessly_recommend_requests_total",
			Help: "Recommendation requests by outcome (ok, invalid, error)",
		},
		[]string{"status"},
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assessly_recommend_duration_seconds",
			Help:    "End-to-end recommendation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RetrievalCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assessly_retrieval_candidates",
			Help:    "Number of candidates returned by the retriever",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
		[]string{"strategy"},
	)

	RetrievalBackfills = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assessly_retrieval_backfills_total",
			Help: "Requests whose empty retrieval was backfilled from the head of the catalog",
		},
	)

	RankingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assessly_ranking_duration_seconds",
			Help:    "Duration of the ranking model call in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)

	RankingFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessly_ranking_fallbacks_total",
			Help: "Rankings that fell back to retrieval order, by reason",
		},
		[]string{"reason"},
	)

	GeneratorCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessly_generator_cache_total",
			Help: "Model response cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "assessly_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assessly_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status code",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	IndexedAssessments = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assessly_indexed_assessments",
			Help: "Number of assessments in the last built vector index",
		},
	)
)
