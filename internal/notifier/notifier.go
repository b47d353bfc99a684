// Package notifier publishes alert.raised events to Kafka for the realtime
// fan-out. Publishing is fire-and-forget from the engine's point of view: a
// failed publish is logged and the persisted alert stands.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"rules-engine/internal/events"
	pkgkafka "rules-engine/pkg/kafka"
)

const (
	// writeTimeout is the maximum time to wait for a Kafka write operation.
	// It also bounds how long a single rule evaluation can stall on a slow
	// broker.
	writeTimeout = 10 * time.Second
)

// Notifier wraps a Kafka writer for the alert.raised topic.
type Notifier struct {
	writer *kafka.Writer
	topic  string
}

// NewNotifier creates a Kafka producer for alert.raised events. The
// connection is established lazily by the writer, so a broker that is down at
// startup degrades to "alerts stored but not pushed" rather than failing the
// process.
func NewNotifier(brokers string, topic string) (*Notifier, error) {
	if err := pkgkafka.ValidateProducerParams(brokers, topic); err != nil {
		return nil, err
	}

	brokerList := pkgkafka.ParseBrokers(brokers)

	slog.Info("Initializing alert notifier",
		"brokers", brokerList,
		"topic", topic,
	)

	// Key by tenant slug so one tenant's alerts stay ordered on a partition.
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokerList...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: writeTimeout,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &Notifier{
		writer: writer,
		topic:  topic,
	}, nil
}

// PublishAlert serializes an alert.raised event and publishes it, keyed by
// tenant slug.
func (n *Notifier) PublishAlert(ctx context.Context, ev *events.AlertRaised) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal alert.raised event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(ev.TenantSlug),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "schema_version", Value: []byte(fmt.Sprintf("%d", ev.SchemaVersion))},
			{Key: "tenant_slug", Value: []byte(ev.TenantSlug)},
			{Key: "rule_id", Value: []byte(ev.RuleID)},
		},
		Time: ev.Time,
	}

	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write alert.raised event: %w", err)
	}

	slog.Debug("Published alert.raised event",
		"alert_id", ev.AlertID,
		"tenant_slug", ev.TenantSlug,
		"rule_id", ev.RuleID,
	)

	return nil
}

// Close gracefully closes the Kafka writer.
func (n *Notifier) Close() error {
	slog.Info("Closing alert notifier", "topic", n.topic)
	if err := n.writer.Close(); err != nil {
		slog.Error("Error closing alert notifier", "error", err)
		return err
	}
	return nil
}
