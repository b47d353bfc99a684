// Package router provides HTTP routing configuration for the rules-engine
// API. It sets up routes and applies CORS and metrics middleware.
package router

import (
	"net/http"
	"time"

	"rules-engine/internal/handlers"
	"rules-engine/pkg/metrics"
)

// Router wraps the HTTP mux and provides route configuration.
type Router struct {
	mux      *http.ServeMux
	handlers *handlers.Handlers
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *handlers.Handlers) *Router {
	r := &Router{
		mux:      http.NewServeMux(),
		handlers: h,
	}
	r.setupRoutes()
	return r
}

// setupRoutes configures all HTTP routes for the API.
func (r *Router) setupRoutes() {
	// Rule endpoints
	r.mux.HandleFunc("POST /rules", r.handlers.CreateRule)
	r.mux.HandleFunc("GET /rules", r.handlers.ListRules)
	r.mux.HandleFunc("GET /rules/{id}", r.handlers.GetRule)
	r.mux.HandleFunc("PUT /rules/{id}", r.handlers.UpdateRule)
	r.mux.HandleFunc("PUT /rules/{id}/toggle", r.handlers.ToggleRule)
	r.mux.HandleFunc("DELETE /rules/{id}", r.handlers.DeleteRule)

	// Alert endpoints
	r.mux.HandleFunc("GET /alerts", r.handlers.ListAlerts)
	r.mux.HandleFunc("DELETE /alerts/{id}", r.handlers.DeleteAlert)
	r.mux.HandleFunc("DELETE /alerts", r.handlers.DeleteAlerts)

	// Service metrics endpoint (from Redis)
	r.mux.HandleFunc("GET /api/v1/services/metrics", r.handlers.GetServiceMetrics)

	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// Handler returns the HTTP handler with middleware applied.
func (r *Router) Handler(collector *metrics.Collector) http.Handler {
	return corsMiddleware(metricsMiddleware(collector)(r.mux))
}

// NewServer creates a new HTTP server with the router configured.
func NewServer(port string, h *handlers.Handlers, collector *metrics.Collector) *http.Server {
	router := NewRouter(h)
	return &http.Server{
		Addr:         ":" + port,
		Handler:      router.Handler(collector),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
