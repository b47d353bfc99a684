// Package ingest provides read-only access to the telemetry store owned by
// the ingestion service. The engine only ever asks for the single most recent
// measurement for a rule's scope; it never replays history.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq" // postgres driver
)

// Measurement is a single sensor reading as stored by the ingestion service.
type Measurement struct {
	TenantID string    `json:"tenantId"`
	DeviceID string    `json:"deviceId"`
	Type     string    `json:"type"`
	Value    float64   `json:"value"`
	Time     time.Time `json:"time"`
}

// DB is a read-only connection to the ingest database.
type DB struct {
	conn *sql.DB
}

// NewDB opens a read-only connection to the ingest database.
func NewDB(dsn string) (*DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open ingest database connection: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ingest database: %w", err)
	}

	slog.Info("Successfully connected to ingest database")

	return &DB{conn: conn}, nil
}

// Close closes the ingest database connection.
func (db *DB) Close() error {
	if db.conn != nil {
		slog.Info("Closing ingest database connection")
		return db.conn.Close()
	}
	return nil
}

// LatestMeasurement returns the most recent measurement for the given scope.
// A nil deviceID matches any device in the tenant. Returns (nil, nil) when no
// measurement exists; the caller treats that as "skip", not an error.
func (db *DB) LatestMeasurement(ctx context.Context, tenantID, metricType string, deviceID *string) (*Measurement, error) {
	var device sql.NullString
	if deviceID != nil {
		device = sql.NullString{String: *deviceID, Valid: true}
	}

	query := `
		SELECT tenant_id, device_id, type, value, time
		FROM measurements
		WHERE tenant_id = $1
		  AND type = $2
		  AND ($3::uuid IS NULL OR device_id = $3::uuid)
		ORDER BY time DESC
		LIMIT 1`
	var m Measurement
	err := db.conn.QueryRowContext(ctx, query, tenantID, metricType, device).Scan(
		&m.TenantID,
		&m.DeviceID,
		&m.Type,
		&m.Value,
		&m.Time,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest measurement: %w", err)
	}
	return &m, nil
}
