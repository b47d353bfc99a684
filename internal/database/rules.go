package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

const ruleColumns = `rule_id, tenant_id, device_id, type, op, threshold, cooldown_seconds, enabled, message, created_at, updated_at`

// CreateRuleParams holds the fields for a new rule. Op must already be
// validated via ParseOperator; CooldownSeconds and Enabled fall back to their
// defaults when nil.
type CreateRuleParams struct {
	TenantID        string
	DeviceID        *string
	Type            string
	Op              Operator
	Threshold       float64
	CooldownSeconds *int
	Enabled         *bool
	Message         string
}

// UpdateRuleParams holds the fields for a rule update. Type, Op, Threshold and
// Message are replaced outright; CooldownSeconds and Enabled keep their stored
// values when nil.
type UpdateRuleParams struct {
	Type            string
	Op              Operator
	Threshold       float64
	CooldownSeconds *int
	Enabled         *bool
	Message         string
}

// scanRule scans a rule row, mapping nullable columns.
func scanRule(row interface{ Scan(...any) error }) (*Rule, error) {
	var (
		rule      Rule
		deviceID  sql.NullString
		message   sql.NullString
		updatedAt sql.NullTime
	)
	err := row.Scan(
		&rule.RuleID,
		&rule.TenantID,
		&deviceID,
		&rule.Type,
		&rule.Op,
		&rule.Threshold,
		&rule.CooldownSeconds,
		&rule.Enabled,
		&message,
		&rule.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if deviceID.Valid {
		rule.DeviceID = &deviceID.String
	}
	if message.Valid {
		rule.Message = message.String
	}
	if updatedAt.Valid {
		rule.UpdatedAt = &updatedAt.Time
	}
	return &rule, nil
}

// nullableString maps "" to SQL NULL.
func nullableString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// CreateRule creates a new rule. Duplicate rules for the same scope are
// allowed and evaluated independently, so no uniqueness is enforced.
func (db *DB) CreateRule(ctx context.Context, p CreateRuleParams) (*Rule, error) {
	cooldown := DefaultCooldownSeconds
	if p.CooldownSeconds != nil {
		cooldown = *p.CooldownSeconds
	}
	enabled := true
	if p.Enabled != nil {
		enabled = *p.Enabled
	}

	query := `
		INSERT INTO rules (rule_id, tenant_id, device_id, type, op, threshold, cooldown_seconds, enabled, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING ` + ruleColumns
	row := db.conn.QueryRowContext(ctx, query,
		uuid.NewString(),
		p.TenantID,
		nullableString(p.DeviceID),
		p.Type,
		string(p.Op),
		p.Threshold,
		cooldown,
		enabled,
		nullableString(&p.Message),
	)
	rule, err := scanRule(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create rule: %w", err)
	}
	return rule, nil
}

// GetRule retrieves a rule by ID.
func (db *DB) GetRule(ctx context.Context, ruleID string) (*Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM rules WHERE rule_id = $1`
	rule, err := scanRule(db.conn.QueryRowContext(ctx, query, ruleID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("rule not found: %s", ruleID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}
	return rule, nil
}

// ListRules retrieves all rules newest first, optionally filtered by tenant.
func (db *DB) ListRules(ctx context.Context, tenantID *string) ([]*Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM rules ORDER BY created_at DESC`
	args := []any{}
	if tenantID != nil {
		query = `SELECT ` + ruleColumns + ` FROM rules WHERE tenant_id = $1 ORDER BY created_at DESC`
		args = append(args, *tenantID)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	var rules []*Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// ListEnabledRules retrieves every enabled rule for an evaluation cycle.
func (db *DB) ListEnabledRules(ctx context.Context) ([]*Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM rules WHERE enabled = TRUE ORDER BY created_at DESC`
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled rules: %w", err)
	}
	defer rows.Close()

	var rules []*Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// UpdateRule updates a rule's definition and stamps updated_at.
func (db *DB) UpdateRule(ctx context.Context, ruleID string, p UpdateRuleParams) (*Rule, error) {
	var cooldown sql.NullInt64
	if p.CooldownSeconds != nil {
		cooldown = sql.NullInt64{Int64: int64(*p.CooldownSeconds), Valid: true}
	}
	var enabled sql.NullBool
	if p.Enabled != nil {
		enabled = sql.NullBool{Bool: *p.Enabled, Valid: true}
	}

	query := `
		UPDATE rules
		SET type = $2,
		    op = $3,
		    threshold = $4,
		    cooldown_seconds = COALESCE($5, cooldown_seconds),
		    enabled = COALESCE($6, enabled),
		    message = $7,
		    updated_at = NOW()
		WHERE rule_id = $1
		RETURNING ` + ruleColumns
	row := db.conn.QueryRowContext(ctx, query,
		ruleID,
		p.Type,
		string(p.Op),
		p.Threshold,
		cooldown,
		enabled,
		nullableString(&p.Message),
	)
	rule, err := scanRule(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("rule not found: %s", ruleID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update rule: %w", err)
	}
	return rule, nil
}

// SetRuleEnabled flips the enabled flag. Past alerts are untouched; only
// future evaluation cycles see the change.
func (db *DB) SetRuleEnabled(ctx context.Context, ruleID string, enabled bool) (*Rule, error) {
	query := `
		UPDATE rules
		SET enabled = $2,
		    updated_at = NOW()
		WHERE rule_id = $1
		RETURNING ` + ruleColumns
	rule, err := scanRule(db.conn.QueryRowContext(ctx, query, ruleID, enabled))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("rule not found: %s", ruleID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set rule enabled: %w", err)
	}
	return rule, nil
}

// DeleteRule deletes a rule by ID. Historical alerts keep their rule_id
// back-reference and are never cascaded.
func (db *DB) DeleteRule(ctx context.Context, ruleID string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM rules WHERE rule_id = $1`, ruleID)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("rule not found: %s", ruleID)
	}
	return nil
}
