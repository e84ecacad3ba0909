package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTLs per content class. Portal content changes rarely; event feeds more often.
const (
	TTLGuide     = 10 * time.Minute
	TTLDirectory = 10 * time.Minute
	TTLEvents    = 2 * time.Minute
	TTLDefault   = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixGuide     = "guide:"
	PrefixDirectory = "directory:"
	PrefixEvents    = "events:"
	PrefixDenied    = "denied:"
)

// Service is the Redis cache service interface.
type Service interface {
	// Guide page cache. A guide can be cached under both its slug and its
	// record id, so invalidation flushes the whole class.
	GetGuide(ctx context.Context, key string) ([]byte, error)
	SetGuide(ctx context.Context, key string, data interface{}) error
	InvalidateAllGuides(ctx context.Context) error

	// Directory listing cache (positions, units); TTL-bounded only, the
	// directory has no online write path.
	GetDirectory(ctx context.Context, kind string) ([]byte, error)
	SetDirectory(ctx context.Context, kind string, data interface{}) error

	// Community events cache
	GetEvents(ctx context.Context, communityID string) ([]byte, error)
	SetEvents(ctx context.Context, communityID string, data interface{}) error
	InvalidateEvents(ctx context.Context, communityID string) error

	// Token denylist (logout)
	DenyToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenDenied(ctx context.Context, tokenID string) (bool, error)

	// Utilities
	IsAvailable() bool
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a new cache service backed by the given Redis client.
// A nil client yields an inert service: reads miss, writes are no-ops.
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

// get returns the raw cached bytes for a key.
func (c *redisCache) get(ctx context.Context, key string) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, key).Bytes()
}

// set marshals a value and stores it with the given TTL.
func (c *redisCache) set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil // no Redis, silently skip
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// ========================================
// Guide page cache
// ========================================

func (c *redisCache) GetGuide(ctx context.Context, key string) ([]byte, error) {
	return c.get(ctx, PrefixGuide+key)
}

func (c *redisCache) SetGuide(ctx context.Context, key string, data interface{}) error {
	return c.set(ctx, PrefixGuide+key, data, TTLGuide)
}

func (c *redisCache) InvalidateAllGuides(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.deleteByPattern(ctx, PrefixGuide+"*")
}

// ========================================
// Directory listing cache
// ========================================

func (c *redisCache) GetDirectory(ctx context.Context, kind string) ([]byte, error) {
	return c.get(ctx, PrefixDirectory+kind)
}

func (c *redisCache) SetDirectory(ctx context.Context, kind string, data interface{}) error {
	return c.set(ctx, PrefixDirectory+kind, data, TTLDirectory)
}

// ========================================
// Community events cache
// ========================================

func (c *redisCache) GetEvents(ctx context.Context, communityID string) ([]byte, error) {
	return c.get(ctx, PrefixEvents+communityID)
}

func (c *redisCache) SetEvents(ctx context.Context, communityID string, data interface{}) error {
	return c.set(ctx, PrefixEvents+communityID, data, TTLEvents)
}

func (c *redisCache) InvalidateEvents(ctx context.Context, communityID string) error {
	return c.delete(ctx, PrefixEvents+communityID)
}

// ========================================
// Token denylist
// ========================================

// DenyToken marks a token ID as revoked until its natural expiry.
func (c *redisCache) DenyToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = TTLDefault
	}
	return c.client.Set(ctx, PrefixDenied+tokenID, "1", ttl).Err()
}

// IsTokenDenied reports whether a token ID has been revoked. Without Redis
// the denylist degrades to "never denied" rather than blocking logins.
func (c *redisCache) IsTokenDenied(ctx context.Context, tokenID string) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	n, err := c.client.Exists(ctx, PrefixDenied+tokenID).Result()
	return n > 0, err
}

// ========================================
// Internal utilities
// ========================================

func (c *redisCache) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
