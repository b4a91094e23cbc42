package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/tripbound/travel-booking-backend/internal/config"
)

// SearchCache is a read-through cache for catalog search responses.
// A nil *SearchCache is valid and disables caching, so callers never
// branch on whether Redis is configured. Capacity counters cached here
// may be stale; bookings always re-verify against the database.
type SearchCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSearchCache connects to Redis per config. Returns (nil, nil) when
// caching is disabled.
func NewSearchCache(cfg config.RedisConfig) (*SearchCache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &SearchCache{client: client, ttl: cfg.SearchTTL}, nil
}

// NewSearchCacheWithClient wraps an existing client, used by tests
func NewSearchCacheWithClient(client *redis.Client, ttl time.Duration) *SearchCache {
	return &SearchCache{client: client, ttl: ttl}
}

// Get loads a cached response into dest. Returns false on miss, on a
// disabled cache, or on a Redis error; cache errors are logged, never
// propagated.
func (c *SearchCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil {
		return false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logrus.WithError(err).WithField("key", key).Warn("Cache read failed")
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Cache entry corrupt")
		return false
	}
	return true
}

// Set stores a response under key with the configured TTL. Best effort.
func (c *SearchCache) Set(ctx context.Context, key string, value interface{}) {
	if c == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Cache marshal failed")
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
}

// Close releases the Redis connection pool
func (c *SearchCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// Key derives a deterministic cache key from the search inputs
func Key(prefix string, inputs ...interface{}) string {
	h := sha256.New()
	for _, in := range inputs {
		data, _ := json.Marshal(in)
		h.Write(data)
	}
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))[:32]
}
