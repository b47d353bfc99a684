// Package engine implements the rule evaluation loop. On a fixed cadence it
// fetches every enabled rule, compares each against the latest measurement in
// its scope, and persists a deduplicated alert for each trigger that survives
// the cooldown check. Persisted alerts are pushed to the realtime fan-out,
// best-effort.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"rules-engine/internal/database"
	"rules-engine/internal/events"
)

const (
	// DefaultInterval is the fixed delay between evaluation cycles. The
	// delay is applied after each cycle, so cycle duration adds on top of
	// it; the cadence is not drift-compensated.
	DefaultInterval = 10 * time.Second

	// ruleTimeout bounds the external calls made for one rule so a hung
	// measurement query or broker cannot stall the loop indefinitely.
	ruleTimeout = 15 * time.Second

	// SeverityWarning is the severity assigned to every threshold alert.
	SeverityWarning = "warning"
)

// Engine drives the evaluation loop. All collaborators are passive services;
// the engine is the only caller that creates alerts.
type Engine struct {
	rules        RuleSource
	alerts       AlertSink
	measurements MeasurementSource
	directory    TenantDirectory
	publisher    AlertPublisher
	metrics      MetricsRecorder
	interval     time.Duration

	now func() time.Time
}

// NewEngine creates an evaluation engine. A nil metrics recorder defaults to
// a no-op; a non-positive interval defaults to DefaultInterval.
func NewEngine(rules RuleSource, alerts AlertSink, measurements MeasurementSource, directory TenantDirectory, publisher AlertPublisher, metrics MetricsRecorder, interval time.Duration) *Engine {
	if metrics == nil {
		metrics = NoOpMetrics{}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Engine{
		rules:        rules,
		alerts:       alerts,
		measurements: measurements,
		directory:    directory,
		publisher:    publisher,
		metrics:      metrics,
		interval:     interval,
		now:          time.Now,
	}
}

// Run executes evaluation cycles until the context is cancelled. The loop has
// no terminal state of its own; transient failures are logged and the next
// cycle retries cleanly.
func (e *Engine) Run(ctx context.Context) {
	slog.Info("Rules engine started", "poll_interval", e.interval)

	for {
		e.runCycle(ctx)

		select {
		case <-ctx.Done():
			slog.Info("Rules engine stopped")
			return
		case <-time.After(e.interval):
		}
	}
}

// runCycle evaluates every enabled rule once. A failure to fetch the rules
// aborts the whole cycle; a failure on one rule is isolated to that rule.
func (e *Engine) runCycle(ctx context.Context) {
	rules, err := e.rules.ListEnabledRules(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Error("Failed to fetch enabled rules, skipping cycle", "error", err)
		e.metrics.RecordError()
		return
	}

	for _, rule := range rules {
		if ctx.Err() != nil {
			return
		}

		start := e.now()
		if err := e.evaluateRule(ctx, rule); err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("Rule evaluation failed",
				"rule_id", rule.RuleID,
				"tenant_id", rule.TenantID,
				"type", rule.Type,
				"error", err,
			)
			e.metrics.RecordError()
			continue
		}
		e.metrics.RecordEvaluated(e.now().Sub(start))
	}

	e.metrics.RecordCycle()
}

// evaluateRule runs one rule against the latest measurement in its scope.
func (e *Engine) evaluateRule(ctx context.Context, rule *database.Rule) error {
	ctx, cancel := context.WithTimeout(ctx, ruleTimeout)
	defer cancel()

	latest, err := e.measurements.LatestMeasurement(ctx, rule.TenantID, rule.Type, rule.DeviceID)
	if err != nil {
		return fmt.Errorf("latest measurement lookup failed: %w", err)
	}
	if latest == nil {
		// No measurement for this scope yet; not an error, retry next cycle.
		return nil
	}

	if !Matches(rule.Op, latest.Value, rule.Threshold) {
		return nil
	}

	alert := &database.Alert{
		AlertID:  uuid.NewString(),
		RuleID:   rule.RuleID,
		TenantID: rule.TenantID,
		DeviceID: latest.DeviceID,
		Type:     rule.Type,
		Value:    latest.Value,
		Time:     e.now().UTC(),
		Severity: SeverityWarning,
		Message:  alertMessage(rule, latest.Value),
	}

	inserted, err := e.alerts.InsertAlertIfNotRecentlyFired(ctx, alert, rule.Cooldown())
	if err != nil {
		return fmt.Errorf("alert insert failed: %w", err)
	}
	if !inserted {
		// A previous alert for this (rule, device) is still inside the
		// cooldown window. The trigger is dropped, not deferred.
		e.metrics.RecordSuppressed()
		slog.Debug("Alert suppressed by cooldown",
			"rule_id", rule.RuleID,
			"device_id", latest.DeviceID,
			"cooldown", rule.Cooldown(),
		)
		return nil
	}

	e.metrics.RecordFired()
	slog.Info("Alert fired",
		"alert_id", alert.AlertID,
		"rule_id", rule.RuleID,
		"tenant_id", rule.TenantID,
		"device_id", alert.DeviceID,
		"type", alert.Type,
		"value", alert.Value,
	)

	e.publish(ctx, alert)
	return nil
}

// publish resolves the tenant slug and pushes the alert to the realtime
// channel. Both steps are best-effort: failures are logged and the stored
// alert stands.
func (e *Engine) publish(ctx context.Context, alert *database.Alert) {
	slug, err := e.directory.TenantSlug(ctx, alert.TenantID)
	if err != nil {
		slog.Warn("Failed to resolve tenant slug, alert stored but not pushed",
			"alert_id", alert.AlertID,
			"tenant_id", alert.TenantID,
			"error", err,
		)
		return
	}

	ev := &events.AlertRaised{
		SchemaVersion: events.SchemaVersion,
		AlertID:       alert.AlertID,
		RuleID:        alert.RuleID,
		TenantSlug:    slug,
		DeviceID:      alert.DeviceID,
		Type:          alert.Type,
		Value:         alert.Value,
		Time:          alert.Time,
		Severity:      alert.Severity,
		Message:       alert.Message,
	}
	if err := e.publisher.PublishAlert(ctx, ev); err != nil {
		slog.Warn("Failed to push alert to realtime channel, alert remains stored",
			"alert_id", alert.AlertID,
			"tenant_slug", slug,
			"error", err,
		)
	}
}

// alertMessage returns the rule's custom message or a generated description.
func alertMessage(rule *database.Rule, value float64) string {
	if rule.Message != "" {
		return rule.Message
	}
	return fmt.Sprintf("Rule %s %g hit for %s (value=%g)", rule.Op, rule.Threshold, rule.Type, value)
}
