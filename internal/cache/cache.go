// Package cache is the Redis-backed durable fallback store. It holds
// exactly two kinds of records: the local-rate snapshot (write-through on
// every successful replace, read when the remote store is unreachable) and
// the admin session. Cities and routes are never cached here so the cache
// cannot diverge from the remote store for them.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/metro-cabs/service-booking/internal/domain/pricing"
)

const (
	localRatesKeyPrefix = "pricing:local_rates:%s"
	adminSessionKey     = "admin:session"
)

// Session is the persisted admin login record. No expiry.
type Session struct {
	Username   string    `json:"username"`
	Token      string    `json:"token"`
	LoggedInAt time.Time `json:"logged_in_at"`
}

// Cache wraps the Redis client.
type Cache struct {
	redis *redis.Client
}

// New creates a Cache on top of an existing Redis client.
func New(client *redis.Client) *Cache {
	return &Cache{redis: client}
}

// SaveLocalRates stores the rate-card snapshot for its service area.
func (c *Cache) SaveLocalRates(ctx context.Context, rates *pricing.LocalFareRate) error {
	data, err := json.Marshal(rates)
	if err != nil {
		return fmt.Errorf("failed to marshal local rates: %w", err)
	}
	return c.redis.Set(ctx, localRatesKey(rates.ServiceArea), data, 0).Err()
}

// LoadLocalRates returns the cached rate card for a service area, or nil
// when no snapshot exists.
func (c *Cache) LoadLocalRates(ctx context.Context, serviceArea string) (*pricing.LocalFareRate, error) {
	val, err := c.redis.Get(ctx, localRatesKey(serviceArea)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rates pricing.LocalFareRate
	if err := json.Unmarshal([]byte(val), &rates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached local rates: %w", err)
	}
	return &rates, nil
}

// SaveSession stores the admin session record.
func (c *Cache) SaveSession(ctx context.Context, s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return c.redis.Set(ctx, adminSessionKey, data, 0).Err()
}

// LoadSession returns the stored admin session, or nil when logged out.
func (c *Cache) LoadSession(ctx context.Context) (*Session, error) {
	val, err := c.redis.Get(ctx, adminSessionKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

// DeleteSession removes the admin session record.
func (c *Cache) DeleteSession(ctx context.Context) error {
	return c.redis.Del(ctx, adminSessionKey).Err()
}

func localRatesKey(serviceArea string) string {
	return fmt.Sprintf(localRatesKeyPrefix, serviceArea)
}
