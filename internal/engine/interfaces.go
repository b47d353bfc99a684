package engine

import (
	"context"
	"time"

	"rules-engine/internal/database"
	"rules-engine/internal/events"
	"rules-engine/internal/ingest"
)

// RuleSource fetches the rules to evaluate each cycle.
type RuleSource interface {
	ListEnabledRules(ctx context.Context) ([]*database.Rule, error)
}

// AlertSink persists alerts with cooldown deduplication.
type AlertSink interface {
	// InsertAlertIfNotRecentlyFired writes the alert unless one for the same
	// (rule, device) pair exists inside the cooldown window. Returns whether
	// the alert was written.
	InsertAlertIfNotRecentlyFired(ctx context.Context, alert *database.Alert, cooldown time.Duration) (bool, error)
}

// MeasurementSource answers the "latest value" query against the telemetry
// store. Returns (nil, nil) when no measurement exists for the scope.
type MeasurementSource interface {
	LatestMeasurement(ctx context.Context, tenantID, metricType string, deviceID *string) (*ingest.Measurement, error)
}

// TenantDirectory resolves tenant ids to their human-readable slugs.
type TenantDirectory interface {
	TenantSlug(ctx context.Context, tenantID string) (string, error)
}

// AlertPublisher pushes alert.raised events to the realtime fan-out.
// Best-effort: failures never affect the persisted alert.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, ev *events.AlertRaised) error
}

// MetricsRecorder records evaluation counters. The null object pattern keeps
// the engine free of nil checks.
type MetricsRecorder interface {
	RecordCycle()
	RecordEvaluated(latency time.Duration)
	RecordFired()
	RecordSuppressed()
	RecordError()
}

// NoOpMetrics is a no-op MetricsRecorder.
type NoOpMetrics struct{}

var _ MetricsRecorder = (*NoOpMetrics)(nil)

func (NoOpMetrics) RecordCycle()                    {}
func (NoOpMetrics) RecordEvaluated(_ time.Duration) {}
func (NoOpMetrics) RecordFired()                    {}
func (NoOpMetrics) RecordSuppressed()               {}
func (NoOpMetrics) RecordError()                    {}
