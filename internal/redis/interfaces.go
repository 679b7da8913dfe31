package redis

import (
	"context"
	"time"
)

// LocationStoreInterface defines the interface for the space geo index.
type LocationStoreInterface interface {
	UpsertLocation(ctx context.Context, spaceID string, lat, lng float64) error
	FindNearbySpaces(ctx context.Context, lat, lng, radiusKm float64) ([]SpaceLocation, error)
	RemoveLocation(ctx context.Context, spaceID string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireSpaceLock(ctx context.Context, spaceID string, ttl time.Duration) (bool, error)
	ReleaseSpaceLock(ctx context.Context, spaceID string) error
}

// CacheStoreInterface defines the interface for the space cache.
type CacheStoreInterface interface {
	GetSpace(ctx context.Context, spaceID string) (*CachedSpace, error)
	SetSpace(ctx context.Context, space *CachedSpace) error
	InvalidateSpace(ctx context.Context, spaceID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LocationStoreInterface = (*LocationStore)(nil)
	_ LockStoreInterface     = (*LockStore)(nil)
	_ CacheStoreInterface    = (*CacheStore)(nil)
)
