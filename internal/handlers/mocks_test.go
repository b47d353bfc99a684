package handlers

import (
	"context"
	"errors"

	"rules-engine/internal/database"
)

// mockRepository implements Repository with overridable function fields.
type mockRepository struct {
	CreateRuleFn     func(ctx context.Context, p database.CreateRuleParams) (*database.Rule, error)
	GetRuleFn        func(ctx context.Context, ruleID string) (*database.Rule, error)
	ListRulesFn      func(ctx context.Context, tenantID *string) ([]*database.Rule, error)
	UpdateRuleFn     func(ctx context.Context, ruleID string, p database.UpdateRuleParams) (*database.Rule, error)
	SetRuleEnabledFn func(ctx context.Context, ruleID string, enabled bool) (*database.Rule, error)
	DeleteRuleFn     func(ctx context.Context, ruleID string) error
	ListAlertsFn     func(ctx context.Context, filter database.AlertFilter) ([]*database.Alert, error)
	DeleteAlertFn    func(ctx context.Context, alertID string) error
	DeleteAlertsFn   func(ctx context.Context, alertIDs []string) (int64, error)
}

var errNotImplemented = errors.New("not implemented")

func (m *mockRepository) CreateRule(ctx context.Context, p database.CreateRuleParams) (*database.Rule, error) {
	if m.CreateRuleFn != nil {
		return m.CreateRuleFn(ctx, p)
	}
	return nil, errNotImplemented
}

func (m *mockRepository) GetRule(ctx context.Context, ruleID string) (*database.Rule, error) {
	if m.GetRuleFn != nil {
		return m.GetRuleFn(ctx, ruleID)
	}
	return nil, errNotImplemented
}

func (m *mockRepository) ListRules(ctx context.Context, tenantID *string) ([]*database.Rule, error) {
	if m.ListRulesFn != nil {
		return m.ListRulesFn(ctx, tenantID)
	}
	return nil, errNotImplemented
}

func (m *mockRepository) UpdateRule(ctx context.Context, ruleID string, p database.UpdateRuleParams) (*database.Rule, error) {
	if m.UpdateRuleFn != nil {
		return m.UpdateRuleFn(ctx, ruleID, p)
	}
	return nil, errNotImplemented
}

func (m *mockRepository) SetRuleEnabled(ctx context.Context, ruleID string, enabled bool) (*database.Rule, error) {
	if m.SetRuleEnabledFn != nil {
		return m.SetRuleEnabledFn(ctx, ruleID, enabled)
	}
	return nil, errNotImplemented
}

func (m *mockRepository) DeleteRule(ctx context.Context, ruleID string) error {
	if m.DeleteRuleFn != nil {
		return m.DeleteRuleFn(ctx, ruleID)
	}
	return errNotImplemented
}

func (m *mockRepository) ListAlerts(ctx context.Context, filter database.AlertFilter) ([]*database.Alert, error) {
	if m.ListAlertsFn != nil {
		return m.ListAlertsFn(ctx, filter)
	}
	return nil, errNotImplemented
}

func (m *mockRepository) DeleteAlert(ctx context.Context, alertID string) error {
	if m.DeleteAlertFn != nil {
		return m.DeleteAlertFn(ctx, alertID)
	}
	return errNotImplemented
}

func (m *mockRepository) DeleteAlerts(ctx context.Context, alertIDs []string) (int64, error) {
	if m.DeleteAlertsFn != nil {
		return m.DeleteAlertsFn(ctx, alertIDs)
	}
	return 0, errNotImplemented
}
