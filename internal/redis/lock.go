package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
//
// Booking creation takes a per-space lock so the overlap check and the spot
// reservation cannot interleave with a concurrent create on the same space.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireSpaceLock attempts to acquire the booking lock for a space.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireSpaceLock(ctx context.Context, spaceID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:space:%s", spaceID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseSpaceLock releases the booking lock for a space.
func (s *LockStore) ReleaseSpaceLock(ctx context.Context, spaceID string) error {
	key := fmt.Sprintf("lock:space:%s", spaceID)

	return s.client.Del(ctx, key).Err()
}
