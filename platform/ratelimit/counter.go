// Package ratelimit provides a keyed counter store with TTL for request
// quota enforcement. The store is injected into engine code so it can be
// swapped for a different backend without touching business logic.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CounterStore tracks how many times a key was hit inside a rolling window.
type CounterStore interface {
	// Increment bumps the counter for key and returns the new count.
	// The first increment for a key starts a window of the given TTL;
	// the counter resets once the window expires.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// RedisCounter is a CounterStore backed by Redis INCR + EXPIRE,
// shared across all instances of the service.
type RedisCounter struct {
	client redis.UniversalClient
}

// NewRedisCounter creates a Redis-backed counter store.
func NewRedisCounter(client redis.UniversalClient) *RedisCounter {
	return &RedisCounter{client: client}
}

// Increment bumps the counter for key, setting the TTL on first hit.
func (c *RedisCounter) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := c.client.Expire(ctx, key, ttl).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// MemoryCounter is a process-local CounterStore for tests and for running
// without Redis. Windows are tracked per key with lazy expiry.
type MemoryCounter struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

type memoryEntry struct {
	count     int64
	expiresAt time.Time
}

// NewMemoryCounter creates an in-memory counter store.
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{entries: make(map[string]*memoryEntry)}
}

// Increment bumps the counter for key, resetting it if the window expired.
func (c *MemoryCounter) Increment(_ context.Context, key string, ttl time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry, ok := c.entries[key]
	if !ok || now.After(entry.expiresAt) {
		entry = &memoryEntry{expiresAt: now.Add(ttl)}
		c.entries[key] = entry
	}
	entry.count++
	return entry.count, nil
}

var (
	_ CounterStore = (*RedisCounter)(nil)
	_ CounterStore = (*MemoryCounter)(nil)
)
