package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/hyperjump/assessly/internal/metrics"
	"github.com/hyperjump/assessly/internal/models"
	"go.uber.org/zap"
)

const (
	msgQueryRequired = "Query is required"
	msgInternal      = "Internal server error"
	maxBodyBytes     = 1 << 20
)

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.logger.Debug("undecodable recommend body", zap.Error(err))
		metrics.RecommendRequests.WithLabelValues("invalid").Inc()
		s.respondError(w, http.StatusBadRequest, msgQueryRequired)
		return
	}

	resp, err := s.recommender.Recommend(r.Context(), req.Query)
	switch {
	case errors.Is(err, models.ErrQueryRequired):
		s.respondError(w, http.StatusBadRequest, msgQueryRequired)
		return
	case err != nil:
		s.logger.Error("recommendation failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// requestLogger logs each request through zap and records its latency.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			elapsed := time.Since(start)
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
			s.logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("took", elapsed),
				zap.String("remote", r.RemoteAddr),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		}()
		next.ServeHTTP(ww, r)
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, models.ErrorResponse{Error: message})
}
