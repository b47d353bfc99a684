// Package events defines the wire shape of events emitted by the engine.
package events

import "time"

// SchemaVersion is the current alert.raised payload version.
const SchemaVersion = 1

// AlertRaised is published once per persisted alert. The realtime hub fans it
// out to subscribers grouped by tenant slug; delivery is best-effort and the
// stored alert is the source of truth.
type AlertRaised struct {
	SchemaVersion int       `json:"schemaVersion"`
	AlertID       string    `json:"alertId"`
	RuleID        string    `json:"ruleId"`
	TenantSlug    string    `json:"tenantSlug"`
	DeviceID      string    `json:"deviceId"`
	Type          string    `json:"type"`
	Value         float64   `json:"value"`
	Time          time.Time `json:"time"`
	Severity      string    `json:"severity"`
	Message       string    `json:"message"`
}
