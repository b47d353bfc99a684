// Package metrics provides a Redis-backed metrics collector. The service
// writes a JSON snapshot of its counters on an interval; the snapshot expires
// if the service stops refreshing it, which doubles as a liveness signal.
package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// KeyPrefix is the Redis key prefix for service metrics.
	KeyPrefix = "metrics:"
	// TTL is how long a snapshot stays in Redis if not refreshed.
	TTL = 2 * time.Minute
	// DefaultReportInterval is the default interval between snapshot writes.
	DefaultReportInterval = 30 * time.Second
)

// Snapshot is the serialized form of a service's counters.
type Snapshot struct {
	ServiceName string    `json:"service_name"`
	StartedAt   time.Time `json:"started_at"`
	LastUpdated time.Time `json:"last_updated"`
	Status      string    `json:"status"` // "healthy" or "unhealthy"

	// Counters (monotonically increasing since start)
	CyclesCompleted  uint64 `json:"cycles_completed"`
	RulesEvaluated   uint64 `json:"rules_evaluated"`
	AlertsFired      uint64 `json:"alerts_fired"`
	AlertsSuppressed uint64 `json:"alerts_suppressed"`
	EvaluationErrors uint64 `json:"evaluation_errors"`

	// Average rule evaluation latency in nanoseconds.
	AvgEvaluationLatencyNs float64 `json:"avg_evaluation_latency_ns"`

	// Service-specific counters (flexible map)
	CustomCounters map[string]uint64 `json:"custom_counters,omitempty"`
}

// Collector accumulates counters and periodically reports them to Redis.
type Collector struct {
	serviceName    string
	redis          *redis.Client
	startedAt      time.Time
	reportInterval time.Duration

	cyclesCompleted  atomic.Uint64
	rulesEvaluated   atomic.Uint64
	alertsFired      atomic.Uint64
	alertsSuppressed atomic.Uint64
	evaluationErrors atomic.Uint64

	totalLatencyNs atomic.Uint64
	latencyCount   atomic.Uint64

	customMu       sync.RWMutex
	customCounters map[string]*atomic.Uint64

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewCollector creates a metrics collector for a service. The Redis client may
// be nil, in which case snapshots are kept in memory only.
func NewCollector(serviceName string, redisClient *redis.Client) *Collector {
	return &Collector{
		serviceName:    serviceName,
		redis:          redisClient,
		startedAt:      time.Now().UTC(),
		reportInterval: DefaultReportInterval,
		customCounters: make(map[string]*atomic.Uint64),
		stopCh:         make(chan struct{}),
	}
}

// SetReportInterval overrides the interval between snapshot writes.
func (c *Collector) SetReportInterval(interval time.Duration) {
	c.reportInterval = interval
}

// Start begins periodic reporting to Redis until the context is cancelled or
// Stop is called. A final snapshot is written on the way out.
func (c *Collector) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.reportInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				c.write(context.Background())
				return
			case <-c.stopCh:
				c.write(context.Background())
				return
			case <-ticker.C:
				c.write(ctx)
			}
		}
	}()
}

// Stop stops the reporting goroutine and waits for the final write.
func (c *Collector) Stop() {
	close(c.stopCh)
	c.wg.Wait()
}

// RecordCycle increments the completed evaluation cycle counter.
func (c *Collector) RecordCycle() {
	c.cyclesCompleted.Add(1)
}

// RecordEvaluated increments the evaluated rule counter with latency.
func (c *Collector) RecordEvaluated(latency time.Duration) {
	c.rulesEvaluated.Add(1)
	c.totalLatencyNs.Add(uint64(latency.Nanoseconds()))
	c.latencyCount.Add(1)
}

// RecordFired increments the fired alert counter.
func (c *Collector) RecordFired() {
	c.alertsFired.Add(1)
}

// RecordSuppressed increments the cooldown suppression counter.
func (c *Collector) RecordSuppressed() {
	c.alertsSuppressed.Add(1)
}

// RecordError increments the evaluation error counter.
func (c *Collector) RecordError() {
	c.evaluationErrors.Add(1)
}

// IncrementCustom increments a custom counter by name.
func (c *Collector) IncrementCustom(name string) {
	c.customMu.RLock()
	counter, exists := c.customCounters[name]
	c.customMu.RUnlock()

	if !exists {
		c.customMu.Lock()
		if counter, exists = c.customCounters[name]; !exists {
			counter = &atomic.Uint64{}
			c.customCounters[name] = counter
		}
		c.customMu.Unlock()
	}
	counter.Add(1)
}

// GetSnapshot returns the current counters without writing to Redis.
func (c *Collector) GetSnapshot() *Snapshot {
	var avgLatencyNs float64
	if n := c.latencyCount.Load(); n > 0 {
		avgLatencyNs = float64(c.totalLatencyNs.Load()) / float64(n)
	}

	c.customMu.RLock()
	customCounters := make(map[string]uint64, len(c.customCounters))
	for name, counter := range c.customCounters {
		customCounters[name] = counter.Load()
	}
	c.customMu.RUnlock()

	return &Snapshot{
		ServiceName:            c.serviceName,
		StartedAt:              c.startedAt,
		LastUpdated:            time.Now().UTC(),
		Status:                 "healthy",
		CyclesCompleted:        c.cyclesCompleted.Load(),
		RulesEvaluated:         c.rulesEvaluated.Load(),
		AlertsFired:            c.alertsFired.Load(),
		AlertsSuppressed:       c.alertsSuppressed.Load(),
		EvaluationErrors:       c.evaluationErrors.Load(),
		AvgEvaluationLatencyNs: avgLatencyNs,
		CustomCounters:         customCounters,
	}
}

// write serializes the current counters to Redis.
func (c *Collector) write(ctx context.Context) {
	if c.redis == nil {
		return
	}

	snap := c.GetSnapshot()
	data, err := json.Marshal(snap)
	if err != nil {
		slog.Error("Failed to marshal metrics", "service", c.serviceName, "error", err)
		return
	}

	key := KeyPrefix + c.serviceName
	if err := c.redis.Set(ctx, key, data, TTL).Err(); err != nil {
		slog.Error("Failed to write metrics to Redis", "service", c.serviceName, "error", err)
		return
	}

	slog.Debug("Metrics written to Redis", "service", c.serviceName, "key", key)
}

// Reader reads service metrics snapshots from Redis.
type Reader struct {
	redis *redis.Client
}

// NewReader creates a metrics reader.
func NewReader(redisClient *redis.Client) *Reader {
	return &Reader{redis: redisClient}
}

// GetServiceMetrics retrieves the snapshot for a specific service. A snapshot
// older than the TTL is reported with status "unhealthy".
func (r *Reader) GetServiceMetrics(ctx context.Context, serviceName string) (*Snapshot, error) {
	key := KeyPrefix + serviceName
	data, err := r.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("no metrics found for service: %s", serviceName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metrics: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metrics: %w", err)
	}

	if time.Since(snap.LastUpdated) > TTL {
		snap.Status = "unhealthy"
	}

	return &snap, nil
}
