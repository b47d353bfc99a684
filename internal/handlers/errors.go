package handlers

import (
	"log/slog"
	"net/http"
	"strings"
)

// handleStoreError maps store errors to HTTP responses. Returns true if the
// error was handled.
func handleStoreError(w http.ResponseWriter, err error, resource, resourceID string) bool {
	if err == nil {
		return false
	}

	slog.Error("Store error", "error", err, "resource", resource, "resource_id", resourceID)

	if strings.Contains(err.Error(), "not found") {
		http.Error(w, strings.Title(resource)+" not found", http.StatusNotFound)
		return true
	}

	http.Error(w, "Failed to access "+resource+": "+err.Error(), http.StatusInternalServerError)
	return true
}
