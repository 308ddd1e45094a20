// Package httpapi serves callsign lookups over HTTP in the hamdb response
// shape, alongside health, readiness, and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chriskacerguis/hamqrzdb/internal/domain"
	"github.com/chriskacerguis/hamqrzdb/internal/observability"
	"github.com/chriskacerguis/hamqrzdb/internal/store"
)

// Server exposes the lookup API over a single listener.
type Server struct {
	httpServer *http.Server
	store      store.Store
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates an HTTP server with lookup, health, readiness, and
// metrics routes.
func NewServer(addr string, st store.Store, logger *slog.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		store:   st,
		logger:  logger,
		metrics: metrics,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	// Path shape follows the hamdb.org API: the trailing segment names the
	// calling application and is accepted but unused.
	r.Get("/v1/{callsign}/json/{app}", s.handleLookup)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleLookup serves one callsign document. A callsign with no entity on
// file gets the all-NOT_FOUND envelope with status 200, matching the
// upstream API contract.
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	call := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "callsign")))

	e, found, err := s.store.Get(r.Context(), call)
	if err != nil {
		s.logger.Error("lookup failed", "callsign", call, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !found {
		s.metrics.LookupRequests.WithLabelValues("miss").Inc()
		writeJSON(w, http.StatusOK, domain.NotFoundDocument())
		return
	}

	s.metrics.LookupRequests.WithLabelValues("hit").Inc()
	writeJSON(w, http.StatusOK, domain.BuildDocument(e))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleReady reports ready once the store is reachable and holds at least
// one entity.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	n, err := s.store.Count(ctx)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	if n == 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  "no callsigns loaded",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
