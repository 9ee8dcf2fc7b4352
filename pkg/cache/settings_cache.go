package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultSettingsTTL bounds staleness when an invalidation event is lost.
	DefaultSettingsTTL = 10 * time.Minute

	settingsNamespace = "settings"
)

// SettingsCache stores raw setting values as JSON strings.
// Key format: "{prefix}:settings:{name}"
type SettingsCache struct {
	client *RedisClient
	ttl    time.Duration
}

// NewSettingsCache creates a SettingsCache backed by the given RedisClient.
// A non-positive ttl selects DefaultSettingsTTL.
func NewSettingsCache(r *RedisClient, ttl time.Duration) *SettingsCache {
	if ttl <= 0 {
		ttl = DefaultSettingsTTL
	}
	return &SettingsCache{client: r, ttl: ttl}
}

// Get returns the cached value. Returns redis.Nil when the key does not exist or has expired.
func (c *SettingsCache) Get(ctx context.Context, name string) (json.RawMessage, error) {
	val, err := c.client.Client().Get(ctx, c.key(name)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, redis.Nil
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if !json.Valid(val) {
		return nil, fmt.Errorf("cache get %s: stored value is not JSON", name)
	}
	return val, nil
}

// Set writes a setting value with the cache TTL.
func (c *SettingsCache) Set(ctx context.Context, name string, value json.RawMessage) error {
	if err := c.client.Client().Set(ctx, c.key(name), []byte(value), c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete evicts a setting.
func (c *SettingsCache) Delete(ctx context.Context, name string) error {
	if err := c.client.Client().Del(ctx, c.key(name)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func (c *SettingsCache) key(name string) string {
	return c.client.Key(settingsNamespace, name)
}
