package engine

import (
	"context"
	"sync"
	"time"

	"rules-engine/internal/database"
	"rules-engine/internal/events"
	"rules-engine/internal/ingest"
)

// mockRuleSource implements RuleSource for testing.
type mockRuleSource struct {
	ListEnabledRulesFn func(ctx context.Context) ([]*database.Rule, error)
}

func (m *mockRuleSource) ListEnabledRules(ctx context.Context) ([]*database.Rule, error) {
	if m.ListEnabledRulesFn != nil {
		return m.ListEnabledRulesFn(ctx)
	}
	return nil, nil
}

// mockAlertSink implements AlertSink for testing. It records inserted alerts
// and, unless overridden, applies real cooldown semantics in memory so
// multi-cycle scenarios behave like the store would.
type mockAlertSink struct {
	mu       sync.Mutex
	inserted []*database.Alert

	InsertFn func(ctx context.Context, alert *database.Alert, cooldown time.Duration) (bool, error)
}

func (m *mockAlertSink) InsertAlertIfNotRecentlyFired(ctx context.Context, alert *database.Alert, cooldown time.Duration) (bool, error) {
	if m.InsertFn != nil {
		return m.InsertFn(ctx, alert, cooldown)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, prev := range m.inserted {
		if prev.RuleID == alert.RuleID && prev.DeviceID == alert.DeviceID &&
			prev.Time.After(alert.Time.Add(-cooldown)) {
			return false, nil
		}
	}
	m.inserted = append(m.inserted, alert)
	return true, nil
}

func (m *mockAlertSink) alerts() []*database.Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*database.Alert(nil), m.inserted...)
}

// mockMeasurementSource implements MeasurementSource for testing.
type mockMeasurementSource struct {
	LatestFn func(ctx context.Context, tenantID, metricType string, deviceID *string) (*ingest.Measurement, error)
}

func (m *mockMeasurementSource) LatestMeasurement(ctx context.Context, tenantID, metricType string, deviceID *string) (*ingest.Measurement, error) {
	if m.LatestFn != nil {
		return m.LatestFn(ctx, tenantID, metricType, deviceID)
	}
	return nil, nil
}

// mockDirectory implements TenantDirectory for testing.
type mockDirectory struct {
	TenantSlugFn func(ctx context.Context, tenantID string) (string, error)
}

func (m *mockDirectory) TenantSlug(ctx context.Context, tenantID string) (string, error) {
	if m.TenantSlugFn != nil {
		return m.TenantSlugFn(ctx, tenantID)
	}
	return "acme", nil
}

// mockPublisher implements AlertPublisher for testing.
type mockPublisher struct {
	mu        sync.Mutex
	published []*events.AlertRaised

	PublishFn func(ctx context.Context, ev *events.AlertRaised) error
}

func (m *mockPublisher) PublishAlert(ctx context.Context, ev *events.AlertRaised) error {
	if m.PublishFn != nil {
		return m.PublishFn(ctx, ev)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, ev)
	return nil
}

func (m *mockPublisher) events() []*events.AlertRaised {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*events.AlertRaised(nil), m.published...)
}

// countingMetrics implements MetricsRecorder with plain counters.
type countingMetrics struct {
	mu         sync.Mutex
	cycles     int
	evaluated  int
	fired      int
	suppressed int
	errors     int
}

func (c *countingMetrics) RecordCycle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cycles++
}

func (c *countingMetrics) RecordEvaluated(_ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evaluated++
}

func (c *countingMetrics) RecordFired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fired++
}

func (c *countingMetrics) RecordSuppressed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.suppressed++
}

func (c *countingMetrics) RecordError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors++
}
