// Package registry provides a client for the device/tenant directory service.
// The engine only consumes one thing from it: resolving a tenant id to its
// human-readable slug, which keys the realtime fan-out groups. Lookups are
// cached in Redis because the same handful of tenants recurs every cycle.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// slugKeyPrefix is the Redis key prefix for cached tenant slugs.
	slugKeyPrefix = "tenant_slug:"
	// slugCacheTTL bounds how long a rename takes to propagate.
	slugCacheTTL = 5 * time.Minute
	// requestTimeout bounds a single directory lookup.
	requestTimeout = 5 * time.Second
)

// Tenant is the directory's view of a tenant.
type Tenant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Client resolves tenant metadata against the directory service.
type Client struct {
	baseURL string
	http    *http.Client
	redis   *redis.Client
}

// NewClient creates a directory client. The Redis client is optional; without
// it every lookup goes to the directory service.
func NewClient(baseURL string, redisClient *redis.Client) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
		redis:   redisClient,
	}
}

// GetTenant fetches a tenant by id from the directory service.
func (c *Client) GetTenant(ctx context.Context, tenantID string) (*Tenant, error) {
	url := fmt.Sprintf("%s/api/tenants/%s", c.baseURL, tenantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tenant request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenant directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("tenant not found: %s", tenantID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tenant directory returned status %d", resp.StatusCode)
	}

	var tenant Tenant
	if err := json.NewDecoder(resp.Body).Decode(&tenant); err != nil {
		return nil, fmt.Errorf("failed to decode tenant response: %w", err)
	}
	return &tenant, nil
}

// TenantSlug resolves a tenant id to its slug, consulting the Redis cache
// first. Cache failures are logged and fall through to the directory.
func (c *Client) TenantSlug(ctx context.Context, tenantID string) (string, error) {
	key := slugKeyPrefix + tenantID

	if c.redis != nil {
		slug, err := c.redis.Get(ctx, key).Result()
		if err == nil && slug != "" {
			return slug, nil
		}
		if err != nil && err != redis.Nil {
			slog.Warn("Tenant slug cache read failed", "tenant_id", tenantID, "error", err)
		}
	}

	tenant, err := c.GetTenant(ctx, tenantID)
	if err != nil {
		return "", err
	}

	if c.redis != nil {
		if err := c.redis.Set(ctx, key, tenant.Slug, slugCacheTTL).Err(); err != nil {
			slog.Warn("Tenant slug cache write failed", "tenant_id", tenantID, "error", err)
		}
	}

	return tenant.Slug, nil
}
