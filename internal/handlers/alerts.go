package handlers

import (
	"net/http"
	"strings"

	"rules-engine/internal/database"
)

// ListAlerts retrieves alerts newest first, capped at 200, with optional
// tenant/device/type/time-range filters.
func (h *Handlers) ListAlerts(w http.ResponseWriter, r *http.Request) {
	from, ok := parseTimeParam(w, r, "from")
	if !ok {
		return
	}
	to, ok := parseTimeParam(w, r, "to")
	if !ok {
		return
	}

	filter := database.AlertFilter{
		TenantID: optionalQueryParam(r, "tenantId"),
		DeviceID: optionalQueryParam(r, "deviceId"),
		Type:     optionalQueryParam(r, "type"),
		From:     from,
		To:       to,
	}

	alerts, err := h.db.ListAlerts(r.Context(), filter)
	if err != nil {
		handleStoreError(w, err, "alert", "")
		return
	}
	if alerts == nil {
		alerts = []*database.Alert{}
	}

	writeJSON(w, http.StatusOK, alerts)
}

// DeleteAlert deletes a single alert by ID.
func (h *Handlers) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	alertID := r.PathValue("id")

	if err := h.db.DeleteAlert(r.Context(), alertID); err != nil {
		handleStoreError(w, err, "alert", alertID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteAlerts deletes a batch of alerts. The body is a JSON array of alert
// IDs; an empty or malformed list is rejected before the store is touched.
// IDs with no matching alert are skipped, but if nothing matched at all the
// response is a 404.
func (h *Handlers) DeleteAlerts(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if !decodeJSON(w, r, &ids) {
		return
	}
	if len(ids) == 0 {
		http.Error(w, "No alert IDs provided", http.StatusBadRequest)
		return
	}
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			http.Error(w, "Alert IDs cannot be empty", http.StatusBadRequest)
			return
		}
	}

	if _, err := h.db.DeleteAlerts(r.Context(), ids); err != nil {
		handleStoreError(w, err, "alert", "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
