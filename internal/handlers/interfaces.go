package handlers

import (
	"context"

	"rules-engine/internal/database"
)

// Repository defines the store operations the handlers need. It allows the
// handlers to be tested without a real database.
type Repository interface {
	// Rule operations
	CreateRule(ctx context.Context, p database.CreateRuleParams) (*database.Rule, error)
	GetRule(ctx context.Context, ruleID string) (*database.Rule, error)
	ListRules(ctx context.Context, tenantID *string) ([]*database.Rule, error)
	UpdateRule(ctx context.Context, ruleID string, p database.UpdateRuleParams) (*database.Rule, error)
	SetRuleEnabled(ctx context.Context, ruleID string, enabled bool) (*database.Rule, error)
	DeleteRule(ctx context.Context, ruleID string) error

	// Alert operations
	ListAlerts(ctx context.Context, filter database.AlertFilter) ([]*database.Alert, error)
	DeleteAlert(ctx context.Context, alertID string) error
	DeleteAlerts(ctx context.Context, alertIDs []string) (int64, error)
}
