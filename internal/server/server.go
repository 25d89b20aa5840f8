// Package server provides the HTTP API for assessly.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/hyperjump/assessly/internal/config"
	"github.com/hyperjump/assessly/internal/models"
	"github.com/hyperjump/assessly/pkg/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Recommender answers a recommendation query. *recommend.Service implements it.
type Recommender interface {
	Recommend(ctx context.Context, query string) (*models.RecommendResponse, error)
}

// Server is the HTTP server for the assessly API.
type Server struct {
	recommender Recommender
	config      *config.ServerConfig
	logger      *zap.Logger
	server      *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(recommender Recommender, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	return &Server{
		recommender: recommender,
		config:      cfg,
		logger:      utils.OrNop(logger),
	}
}

// Handler builds the router with its middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.config.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.config.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if rl := s.config.RateLimit; rl.Requests > 0 {
			window := rl.Window
			if window <= 0 {
				window = time.Minute
			}
			r.Use(httprate.Limit(rl.Requests, window,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					s.respondError(w, http.StatusTooManyRequests, "Too many requests")
				})))
		}
		r.Post("/recommend", s.handleRecommend)
		r.Options("/recommend", s.handlePreflight)
	})

	return r
}

func (s *Server) allowedOrigins() []string {
	if len(s.config.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return s.config.CORSAllowedOrigins
}

// Start starts the HTTP server and blocks until it stops. A stop through Stop
// returns nil.
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
