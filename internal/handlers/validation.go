package handlers

import (
	"net/http"
	"time"

	"rules-engine/internal/database"
)

// Keep validation logic centralized to avoid divergence across endpoints.
// Comparators are validated here, at write time; the evaluation loop never
// sees an unrecognized operator.

// validateOperator parses the comparator symbol, writing a 400 on failure.
func validateOperator(w http.ResponseWriter, op string) (database.Operator, bool) {
	parsed, err := database.ParseOperator(op)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	return parsed, true
}

// validateCooldown rejects negative cooldowns, writing a 400 on failure.
func validateCooldown(w http.ResponseWriter, cooldownSeconds *int) bool {
	if cooldownSeconds != nil && *cooldownSeconds < 0 {
		http.Error(w, "cooldownSeconds cannot be negative", http.StatusBadRequest)
		return false
	}
	return true
}

// parseTimeParam parses an optional RFC 3339 query parameter. Returns nil when
// the parameter is absent; writes a 400 and returns false when it is present
// but malformed.
func parseTimeParam(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		http.Error(w, name+" must be an RFC 3339 timestamp", http.StatusBadRequest)
		return nil, false
	}
	return &t, true
}

// optionalQueryParam returns a pointer to the query parameter value, or nil
// when it is absent.
func optionalQueryParam(r *http.Request, name string) *string {
	if value := r.URL.Query().Get(name); value != "" {
		return &value
	}
	return nil
}
