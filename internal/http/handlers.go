package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	applog "valuation/internal/log"
)

type healthStatus struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Requests int64  `json:"requests"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthStatus{
		Status:   "ok",
		Uptime:   time.Since(s.started).Round(time.Second).String(),
		Requests: s.tracer.TotalRequests(),
	})
}

// handleReady checks that templates parsed and the history store answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusServiceUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.valuations.Ping(ctx); err != nil {
		applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", applog.FieldError, err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(),
		"Rate limit exceeded",
		applog.FieldClientIP, clientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)

	ErrorResponse(http.StatusTooManyRequests, "Muitas requisições. Tente novamente em instantes.").
		Header("Retry-After", "60").
		Write(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
