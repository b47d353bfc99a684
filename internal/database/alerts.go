package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"
)

const alertColumns = `alert_id, rule_id, tenant_id, device_id, type, value, time, severity, message`

// maxAlertResults caps a single alert listing.
const maxAlertResults = 200

// InsertAlertIfNotRecentlyFired atomically inserts an alert unless one for the
// same (rule, device) pair already exists inside the cooldown window. The
// window is open at its lower edge: an alert fired exactly cooldown seconds
// ago no longer suppresses. The check and the insert are a single statement,
// so two concurrent evaluations of the same scope cannot both write. Returns
// true if the alert was inserted, false if it was suppressed.
func (db *DB) InsertAlertIfNotRecentlyFired(ctx context.Context, alert *Alert, cooldown time.Duration) (bool, error) {
	windowStart := alert.Time.Add(-cooldown)
	query := `
		INSERT INTO alerts (` + alertColumns + `)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9
		WHERE NOT EXISTS (
			SELECT 1 FROM alerts
			WHERE rule_id = $2 AND device_id = $4 AND time > $10
		)`
	result, err := db.conn.ExecContext(ctx, query,
		alert.AlertID,
		alert.RuleID,
		alert.TenantID,
		alert.DeviceID,
		alert.Type,
		alert.Value,
		alert.Time,
		alert.Severity,
		alert.Message,
		windowStart,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert alert: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

// ListAlerts retrieves alerts matching the filter, newest first, capped at
// maxAlertResults.
func (db *DB) ListAlerts(ctx context.Context, filter AlertFilter) ([]*Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts`
	var (
		clauses []string
		args    []any
	)
	addClause := func(column, op string, value any) {
		args = append(args, value)
		clauses = append(clauses, column+" "+op+" $"+strconv.Itoa(len(args)))
	}
	if filter.TenantID != nil {
		addClause("tenant_id", "=", *filter.TenantID)
	}
	if filter.DeviceID != nil {
		addClause("device_id", "=", *filter.DeviceID)
	}
	if filter.Type != nil {
		addClause("type", "=", *filter.Type)
	}
	if filter.From != nil {
		addClause("time", ">=", *filter.From)
	}
	if filter.To != nil {
		addClause("time", "<=", *filter.To)
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += fmt.Sprintf(" ORDER BY time DESC LIMIT %d", maxAlertResults)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*Alert
	for rows.Next() {
		var alert Alert
		if err := rows.Scan(
			&alert.AlertID,
			&alert.RuleID,
			&alert.TenantID,
			&alert.DeviceID,
			&alert.Type,
			&alert.Value,
			&alert.Time,
			&alert.Severity,
			&alert.Message,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, &alert)
	}
	return alerts, rows.Err()
}

// DeleteAlert deletes a single alert by ID.
func (db *DB) DeleteAlert(ctx context.Context, alertID string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM alerts WHERE alert_id = $1`, alertID)
	if err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("alert not found: %s", alertID)
	}
	return nil
}

// DeleteAlerts deletes the alerts whose IDs are in the list and returns the
// number deleted. IDs with no matching alert are skipped; if nothing matched
// at all, a not-found error is returned. Empty lists are rejected by the
// caller before reaching the store.
func (db *DB) DeleteAlerts(ctx context.Context, alertIDs []string) (int64, error) {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM alerts WHERE alert_id = ANY($1)`, pq.Array(alertIDs))
	if err != nil {
		return 0, fmt.Errorf("failed to delete alerts: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return 0, fmt.Errorf("alerts not found")
	}
	return rowsAffected, nil
}
