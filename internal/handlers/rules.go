package handlers

import (
	"net/http"

	"rules-engine/internal/database"
)

// CreateRuleRequest represents a request to create a rule.
type CreateRuleRequest struct {
	TenantID        string   `json:"tenantId"`
	DeviceID        *string  `json:"deviceId"`
	Type            string   `json:"type"`
	Op              string   `json:"op"`
	Threshold       *float64 `json:"threshold"`
	CooldownSeconds *int     `json:"cooldownSeconds"`
	Enabled         *bool    `json:"enabled"`
	Message         string   `json:"message"`
}

// UpdateRuleRequest represents a request to update a rule. The tenant scope is
// immutable and therefore absent.
type UpdateRuleRequest struct {
	Type            string   `json:"type"`
	Op              string   `json:"op"`
	Threshold       *float64 `json:"threshold"`
	CooldownSeconds *int     `json:"cooldownSeconds"`
	Enabled         *bool    `json:"enabled"`
	Message         string   `json:"message"`
}

// ToggleRuleRequest represents a request to enable or disable a rule.
type ToggleRuleRequest struct {
	IsActive bool `json:"isActive"`
}

// CreateRule creates a new rule.
func (h *Handlers) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req CreateRuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.TenantID == "" {
		http.Error(w, "tenantId is required", http.StatusBadRequest)
		return
	}
	if req.Type == "" {
		http.Error(w, "type is required", http.StatusBadRequest)
		return
	}
	if req.Threshold == nil {
		http.Error(w, "threshold is required", http.StatusBadRequest)
		return
	}
	op, ok := validateOperator(w, req.Op)
	if !ok {
		return
	}
	if !validateCooldown(w, req.CooldownSeconds) {
		return
	}

	rule, err := h.db.CreateRule(r.Context(), database.CreateRuleParams{
		TenantID:        req.TenantID,
		DeviceID:        req.DeviceID,
		Type:            req.Type,
		Op:              op,
		Threshold:       *req.Threshold,
		CooldownSeconds: req.CooldownSeconds,
		Enabled:         req.Enabled,
		Message:         req.Message,
	})
	if err != nil {
		handleStoreError(w, err, "rule", "")
		return
	}

	writeJSON(w, http.StatusCreated, rule)
}

// ListRules retrieves rules newest first, optionally filtered by tenant.
func (h *Handlers) ListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.db.ListRules(r.Context(), optionalQueryParam(r, "tenantId"))
	if err != nil {
		handleStoreError(w, err, "rule", "")
		return
	}
	if rules == nil {
		rules = []*database.Rule{}
	}

	writeJSON(w, http.StatusOK, rules)
}

// GetRule retrieves a rule by ID.
func (h *Handlers) GetRule(w http.ResponseWriter, r *http.Request) {
	ruleID := r.PathValue("id")

	rule, err := h.db.GetRule(r.Context(), ruleID)
	if err != nil {
		handleStoreError(w, err, "rule", ruleID)
		return
	}

	writeJSON(w, http.StatusOK, rule)
}

// UpdateRule updates a rule's definition.
func (h *Handlers) UpdateRule(w http.ResponseWriter, r *http.Request) {
	ruleID := r.PathValue("id")

	var req UpdateRuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Type == "" {
		http.Error(w, "type is required", http.StatusBadRequest)
		return
	}
	if req.Threshold == nil {
		http.Error(w, "threshold is required", http.StatusBadRequest)
		return
	}
	op, ok := validateOperator(w, req.Op)
	if !ok {
		return
	}
	if !validateCooldown(w, req.CooldownSeconds) {
		return
	}

	rule, err := h.db.UpdateRule(r.Context(), ruleID, database.UpdateRuleParams{
		Type:            req.Type,
		Op:              op,
		Threshold:       *req.Threshold,
		CooldownSeconds: req.CooldownSeconds,
		Enabled:         req.Enabled,
		Message:         req.Message,
	})
	if err != nil {
		handleStoreError(w, err, "rule", ruleID)
		return
	}

	writeJSON(w, http.StatusOK, rule)
}

// ToggleRule enables or disables a rule. Disabling takes effect on the next
// evaluation cycle; past alerts are untouched.
func (h *Handlers) ToggleRule(w http.ResponseWriter, r *http.Request) {
	ruleID := r.PathValue("id")

	var req ToggleRuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rule, err := h.db.SetRuleEnabled(r.Context(), ruleID, req.IsActive)
	if err != nil {
		handleStoreError(w, err, "rule", ruleID)
		return
	}

	writeJSON(w, http.StatusOK, rule)
}

// DeleteRule deletes a rule. Its historical alerts remain.
func (h *Handlers) DeleteRule(w http.ResponseWriter, r *http.Request) {
	ruleID := r.PathValue("id")

	if err := h.db.DeleteRule(r.Context(), ruleID); err != nil {
		handleStoreError(w, err, "rule", ruleID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
