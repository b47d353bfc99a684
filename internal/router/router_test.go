package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"rules-engine/internal/database"
	"rules-engine/internal/handlers"
)

// stubRepository satisfies handlers.Repository for routing tests; only the
// operations the tests hit have real behavior.
type stubRepository struct {
	gotRuleID  string
	gotAlertID string
}

func (s *stubRepository) CreateRule(ctx context.Context, p database.CreateRuleParams) (*database.Rule, error) {
	return &database.Rule{RuleID: "rule-1", TenantID: p.TenantID, Type: p.Type, Op: p.Op, Threshold: p.Threshold}, nil
}

func (s *stubRepository) GetRule(ctx context.Context, ruleID string) (*database.Rule, error) {
	s.gotRuleID = ruleID
	return &database.Rule{RuleID: ruleID}, nil
}

func (s *stubRepository) ListRules(ctx context.Context, tenantID *string) ([]*database.Rule, error) {
	return nil, nil
}

func (s *stubRepository) UpdateRule(ctx context.Context, ruleID string, p database.UpdateRuleParams) (*database.Rule, error) {
	s.gotRuleID = ruleID
	return &database.Rule{RuleID: ruleID}, nil
}

func (s *stubRepository) SetRuleEnabled(ctx context.Context, ruleID string, enabled bool) (*database.Rule, error) {
	s.gotRuleID = ruleID
	return &database.Rule{RuleID: ruleID, Enabled: enabled}, nil
}

func (s *stubRepository) DeleteRule(ctx context.Context, ruleID string) error {
	s.gotRuleID = ruleID
	return nil
}

func (s *stubRepository) ListAlerts(ctx context.Context, filter database.AlertFilter) ([]*database.Alert, error) {
	return nil, nil
}

func (s *stubRepository) DeleteAlert(ctx context.Context, alertID string) error {
	s.gotAlertID = alertID
	return nil
}

func (s *stubRepository) DeleteAlerts(ctx context.Context, alertIDs []string) (int64, error) {
	if len(alertIDs) == 0 {
		return 0, errors.New("alerts not found")
	}
	return int64(len(alertIDs)), nil
}

func newTestHandler(repo *stubRepository) http.Handler {
	return NewRouter(handlers.NewHandlersWithDeps(repo)).Handler(nil)
}

func TestRouter_Routes(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"list rules", http.MethodGet, "/rules", http.StatusOK},
		{"get rule by id", http.MethodGet, "/rules/rule-1", http.StatusOK},
		{"delete rule", http.MethodDelete, "/rules/rule-1", http.StatusNoContent},
		{"list alerts", http.MethodGet, "/alerts", http.StatusOK},
		{"delete alert by id", http.MethodDelete, "/alerts/alert-1", http.StatusNoContent},
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"unknown path", http.MethodGet, "/nope", http.StatusNotFound},
		{"wrong method", http.MethodPatch, "/rules", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(&stubRepository{})

			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("%s %s status = %d, want %d", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouter_PathValueWired(t *testing.T) {
	repo := &stubRepository{}
	handler := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/rules/abc-123", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if repo.gotRuleID != "abc-123" {
		t.Errorf("rule id from path = %q, want abc-123", repo.gotRuleID)
	}

	req = httptest.NewRequest(http.MethodDelete, "/alerts/alert-9", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if repo.gotAlertID != "alert-9" {
		t.Errorf("alert id from path = %q, want alert-9", repo.gotAlertID)
	}
}

func TestRouter_CORS(t *testing.T) {
	handler := newTestHandler(&stubRepository{})

	t.Run("headers on normal requests", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
		}
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/rules", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("OPTIONS status = %d, want 200", w.Code)
		}
	})
}
