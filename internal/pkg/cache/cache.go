package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// JSONCache stores JSON encoded values in Redis with a fixed TTL.
// A nil *JSONCache, a nil client or a zero TTL turns every call into a no-op miss.
type JSONCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates JSON cache
func New(client *redis.Client, ttl time.Duration) *JSONCache {
	return &JSONCache{client: client, ttl: ttl}
}

// Enabled reports whether values are actually stored
func (c *JSONCache) Enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// GetJSON decodes the value under key into dst. It reports false on a miss.
func (c *JSONCache) GetJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON encodes v and stores it under key
func (c *JSONCache) SetJSON(ctx context.Context, key string, v interface{}) error {
	if !c.Enabled() {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}
