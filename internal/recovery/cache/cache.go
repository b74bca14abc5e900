// Package cache stores each organization's active template selection in
// Redis so the hot path avoids a database read. Misses and Redis failures
// both fall through to the repository; the cache is never authoritative.
package cache

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stageflow_backend/platform/config"
)

const keyPrefix = "pipeline:active-template:"

// TemplateCache caches active template ids per organization.
type TemplateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis using the cache configuration.
func New(cfg config.CacheConfig) (*TemplateCache, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.GetRedisTLSInsecure() {
		if opt.TLSConfig == nil {
			opt.TLSConfig = &tls.Config{}
		}
		opt.TLSConfig.InsecureSkipVerify = true
	}

	return NewFromClient(redis.NewClient(opt), cfg.GetTemplateCacheTTL()), nil
}

// NewFromClient wraps an existing Redis client. Used by tests.
func NewFromClient(client *redis.Client, ttl time.Duration) *TemplateCache {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &TemplateCache{client: client, ttl: ttl}
}

// Key returns the Redis key for an organization's selection.
func Key(organizationID string) string {
	return keyPrefix + organizationID
}

// Get returns the cached template id. found is false on a miss.
func (c *TemplateCache) Get(ctx context.Context, organizationID string) (string, bool, error) {
	value, err := c.client.Get(ctx, Key(organizationID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get cached template: %w", err)
	}
	return value, true, nil
}

// Set stores the template id with the configured TTL.
func (c *TemplateCache) Set(ctx context.Context, organizationID, templateID string) error {
	if err := c.client.Set(ctx, Key(organizationID), templateID, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache template: %w", err)
	}
	return nil
}

// Invalidate drops the cached selection.
func (c *TemplateCache) Invalidate(ctx context.Context, organizationID string) error {
	if err := c.client.Del(ctx, Key(organizationID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached template: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (c *TemplateCache) Close() error {
	return c.client.Close()
}
