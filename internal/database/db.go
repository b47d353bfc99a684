package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq" // postgres driver
)

// DB wraps a database connection and provides rule and alert operations.
type DB struct {
	conn *sql.DB
}

// NewDB creates a new database connection using the provided DSN.
func NewDB(dsn string) (*DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Configure connection pool
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Successfully connected to PostgreSQL database")

	return &DB{conn: conn}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn != nil {
		slog.Info("Closing database connection")
		return db.conn.Close()
	}
	return nil
}

// EnsureSchema creates the rules and alerts tables and their indexes if they
// do not exist. The composite indexes keep the per-cycle enabled-rule scan and
// the cooldown probe cheap as volume grows.
func (db *DB) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS rules (
			rule_id          UUID PRIMARY KEY,
			tenant_id        UUID NOT NULL,
			device_id        UUID,
			type             TEXT NOT NULL,
			op               TEXT NOT NULL,
			threshold        DOUBLE PRECISION NOT NULL,
			cooldown_seconds INTEGER NOT NULL DEFAULT 300,
			enabled          BOOLEAN NOT NULL DEFAULT TRUE,
			message          TEXT,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at       TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rules_scope
			ON rules (tenant_id, device_id, type, enabled)`,
		`CREATE TABLE IF NOT EXISTS alerts (
			alert_id  UUID PRIMARY KEY,
			rule_id   UUID NOT NULL,
			tenant_id UUID NOT NULL,
			device_id UUID NOT NULL,
			type      TEXT NOT NULL,
			value     DOUBLE PRECISION NOT NULL,
			time      TIMESTAMPTZ NOT NULL,
			severity  TEXT NOT NULL,
			message   TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_scope
			ON alerts (tenant_id, device_id, type, time)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_cooldown
			ON alerts (rule_id, device_id, time)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
