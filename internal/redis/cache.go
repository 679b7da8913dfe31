package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles parking-space caching in Redis. Cached entries serve
// browse traffic only; booking paths always read through to postgres.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// SpaceCacheTTL bounds staleness of browse reads; the spot counter moves
// through postgres, so the cache is also invalidated on every ledger write.
const SpaceCacheTTL = 30 * time.Second

const spaceCachePrefix = "cache:space:"

// CachedSpace represents a cached parking space entity.
type CachedSpace struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	Capacity       int     `json:"capacity"`
	AvailableSpots int     `json:"available_spots"`
	PricePerHour   float64 `json:"price_per_hour"`
	IsAvailable    bool    `json:"is_available"`
}

// GetSpace retrieves a space from cache. Returns nil on a cache miss.
func (s *CacheStore) GetSpace(ctx context.Context, spaceID string) (*CachedSpace, error) {
	key := spaceCachePrefix + spaceID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var space CachedSpace
	if err := json.Unmarshal(data, &space); err != nil {
		return nil, err
	}
	return &space, nil
}

// SetSpace stores a space in cache.
func (s *CacheStore) SetSpace(ctx context.Context, space *CachedSpace) error {
	key := spaceCachePrefix + space.ID
	data, err := json.Marshal(space)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, SpaceCacheTTL).Err()
}

// InvalidateSpace removes a space from cache.
func (s *CacheStore) InvalidateSpace(ctx context.Context, spaceID string) error {
	key := spaceCachePrefix + spaceID
	return s.client.Del(ctx, key).Err()
}
