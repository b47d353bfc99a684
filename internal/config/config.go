// Package config provides configuration parsing and validation for the
// rules-engine service.
package config

import (
	"fmt"
	"time"
)

// Config holds all configuration parameters for the rules-engine.
type Config struct {
	HTTPPort         string
	RulesDSN         string
	IngestDSN        string
	RedisAddr        string
	KafkaBrokers     string
	AlertRaisedTopic string
	RegistryURL      string
	PollInterval     time.Duration
}

// Validate checks that all required configuration fields are set and have
// valid values.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("http-port cannot be empty")
	}
	if c.RulesDSN == "" {
		return fmt.Errorf("rules-dsn cannot be empty")
	}
	if c.IngestDSN == "" {
		return fmt.Errorf("ingest-dsn cannot be empty")
	}
	if c.KafkaBrokers == "" {
		return fmt.Errorf("kafka-brokers cannot be empty")
	}
	if c.AlertRaisedTopic == "" {
		return fmt.Errorf("alert-raised-topic cannot be empty")
	}
	if c.RegistryURL == "" {
		return fmt.Errorf("registry-url cannot be empty")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll-interval must be positive")
	}
	return nil
}
