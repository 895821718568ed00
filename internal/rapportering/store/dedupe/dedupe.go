// Package dedupe implements the duplicate-event registry. The Redis
// implementation is shared across instances; the memory implementation
// backs tests and single-instance runs.
package dedupe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// Redis key prefix for processed event ids
	processedEventKeyPrefix = "rapportering:event:"

	// DefaultRetention is how long processed event ids are remembered.
	// Producers retry well inside this window.
	DefaultRetention = 7 * 24 * time.Hour
)

// RedisRegistry tracks processed event ids in Redis, shared across
// instances. The caller serializes Seen/Register per subject, so the two
// calls do not need to be atomic together.
type RedisRegistry struct {
	client    *redis.Client
	retention time.Duration
}

// RedisRegistryOption configures a RedisRegistry instance.
type RedisRegistryOption func(*RedisRegistry)

// WithRetention overrides how long event ids are remembered.
func WithRetention(retention time.Duration) RedisRegistryOption {
	return func(r *RedisRegistry) {
		r.retention = retention
	}
}

// NewRedisRegistry constructs a Redis-backed duplicate registry.
func NewRedisRegistry(client *redis.Client, opts ...RedisRegistryOption) *RedisRegistry {
	registry := &RedisRegistry{
		client:    client,
		retention: DefaultRetention,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(registry)
		}
	}
	return registry
}

// Seen reports whether the event id was registered inside the retention
// window.
func (r *RedisRegistry) Seen(ctx context.Context, eventID uuid.UUID) (bool, error) {
	key := processedEventKeyPrefix + eventID.String()
	count, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("check event id: %w", err)
	}
	return count > 0, nil
}

// Register marks the event id as processed for the retention window.
func (r *RedisRegistry) Register(ctx context.Context, eventID uuid.UUID) error {
	key := processedEventKeyPrefix + eventID.String()
	if err := r.client.Set(ctx, key, "1", r.retention).Err(); err != nil {
		return fmt.Errorf("register event id: %w", err)
	}
	return nil
}

// InMemoryRegistry tracks processed event ids in process memory.
type InMemoryRegistry struct {
	mu        sync.Mutex
	seen      map[uuid.UUID]time.Time
	retention time.Duration
	now       func() time.Time
}

// NewInMemoryRegistry constructs an in-memory duplicate registry.
func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{
		seen:      make(map[uuid.UUID]time.Time),
		retention: DefaultRetention,
		now:       time.Now,
	}
}

func (r *InMemoryRegistry) Seen(_ context.Context, eventID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	expires, ok := r.seen[eventID]
	return ok && expires.After(r.now()), nil
}

func (r *InMemoryRegistry) Register(_ context.Context, eventID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	// Opportunistic sweep keeps the map from growing unbounded.
	for id, expires := range r.seen {
		if !expires.After(now) {
			delete(r.seen, id)
		}
	}

	r.seen[eventID] = now.Add(r.retention)
	return nil
}
