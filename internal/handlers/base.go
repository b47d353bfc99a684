// Package handlers provides HTTP handlers for the rules-engine API.
package handlers

import (
	"encoding/json"
	"net/http"

	"rules-engine/internal/database"
	"rules-engine/pkg/metrics"
)

// Handlers wraps dependencies for HTTP handlers.
type Handlers struct {
	db            Repository
	metricsReader *metrics.Reader
}

// NewHandlers creates a new handlers instance. The metrics reader may be nil,
// in which case the service metrics endpoint reports unavailability.
func NewHandlers(db *database.DB, metricsReader *metrics.Reader) *Handlers {
	return &Handlers{
		db:            db,
		metricsReader: metricsReader,
	}
}

// NewHandlersWithDeps creates handlers with an explicit repository. This
// constructor is primarily for testing.
func NewHandlersWithDeps(db Repository) *Handlers {
	return &Handlers{db: db}
}

// decodeJSON decodes the request body as JSON into the provided value.
// Returns true on success, false on error (and writes error response).
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// writeJSON writes the value as JSON with appropriate headers.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// GetServiceMetrics returns the engine's metrics snapshot from Redis.
func (h *Handlers) GetServiceMetrics(w http.ResponseWriter, r *http.Request) {
	if h.metricsReader == nil {
		http.Error(w, "Metrics not available", http.StatusServiceUnavailable)
		return
	}

	snap, err := h.metricsReader.GetServiceMetrics(r.Context(), "rules-engine")
	if err != nil {
		http.Error(w, "Failed to read metrics: "+err.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}
