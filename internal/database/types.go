// Package database provides Postgres-backed storage for rules and alerts.
package database

import (
	"fmt"
	"time"
)

// Operator is a threshold comparator. The set is closed: anything outside the
// six recognized symbols is rejected when a rule is written, never at
// evaluation time.
type Operator string

const (
	OpGreater        Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpLess           Operator = "<"
	OpLessOrEqual    Operator = "<="
	OpEqual          Operator = "=="
	OpNotEqual       Operator = "!="
)

// Operators lists the recognized comparators in display order.
var Operators = []Operator{OpGreater, OpGreaterOrEqual, OpLess, OpLessOrEqual, OpEqual, OpNotEqual}

// ParseOperator validates a comparator symbol.
func ParseOperator(s string) (Operator, error) {
	switch op := Operator(s); op {
	case OpGreater, OpGreaterOrEqual, OpLess, OpLessOrEqual, OpEqual, OpNotEqual:
		return op, nil
	}
	return "", fmt.Errorf("unknown operator %q (must be one of >, >=, <, <=, ==, !=)", s)
}

// DefaultCooldownSeconds is the suppression window applied when a rule omits one.
const DefaultCooldownSeconds = 300

// Rule is a persisted threshold definition. A nil DeviceID scopes the rule to
// every device in the tenant.
type Rule struct {
	RuleID          string     `json:"id"`
	TenantID        string     `json:"tenantId"`
	DeviceID        *string    `json:"deviceId,omitempty"`
	Type            string     `json:"type"`
	Op              Operator   `json:"op"`
	Threshold       float64    `json:"threshold"`
	CooldownSeconds int        `json:"cooldownSeconds"`
	Enabled         bool       `json:"enabled"`
	Message         string     `json:"message,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// Cooldown returns the rule's suppression window as a duration.
func (r *Rule) Cooldown() time.Duration {
	secs := r.CooldownSeconds
	if secs <= 0 {
		secs = DefaultCooldownSeconds
	}
	return time.Duration(secs) * time.Second
}

// Alert is an immutable record of a rule firing. Alerts are only ever
// inserted and deleted, never updated.
type Alert struct {
	AlertID  string    `json:"id"`
	RuleID   string    `json:"ruleId"`
	TenantID string    `json:"tenantId"`
	DeviceID string    `json:"deviceId"`
	Type     string    `json:"type"`
	Value    float64   `json:"value"`
	Time     time.Time `json:"time"`
	Severity string    `json:"severity"`
	Message  string    `json:"message"`
}

// AlertFilter narrows an alert listing. Nil fields are ignored.
type AlertFilter struct {
	TenantID *string
	DeviceID *string
	Type     *string
	From     *time.Time
	To       *time.Time
}
