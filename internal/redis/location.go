package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const spaceLocationKey = "spaces:locations"

// SpaceLocation represents a parking space's position.
type SpaceLocation struct {
	SpaceID    string
	Lat        float64
	Lng        float64
	DistanceKm float64
}

// LocationStore maintains the parking-space geo index in Redis.
type LocationStore struct {
	client *redis.Client
}

// NewLocationStore creates a new LocationStore.
func NewLocationStore(client *redis.Client) *LocationStore {
	return &LocationStore{client: client}
}

// UpsertLocation stores a space's location using GEOADD.
func (s *LocationStore) UpsertLocation(ctx context.Context, spaceID string, lat, lng float64) error {
	return s.client.GeoAdd(ctx, spaceLocationKey, &redis.GeoLocation{
		Name:      spaceID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

// FindNearbySpaces returns space IDs within the given radius in kilometers,
// nearest first.
func (s *LocationStore) FindNearbySpaces(ctx context.Context, lat, lng, radiusKm float64) ([]SpaceLocation, error) {
	results, err := s.client.GeoRadius(ctx, spaceLocationKey, lng, lat, &redis.GeoRadiusQuery{
		Radius:   radiusKm,
		Unit:     "km",
		WithDist: true,
		Sort:     "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	locations := make([]SpaceLocation, 0, len(results))
	for _, r := range results {
		locations = append(locations, SpaceLocation{
			SpaceID:    r.Name,
			Lat:        r.Latitude,
			Lng:        r.Longitude,
			DistanceKm: r.Dist,
		})
	}

	return locations, nil
}

// RemoveLocation removes a space's location from the geo index.
func (s *LocationStore) RemoveLocation(ctx context.Context, spaceID string) error {
	return s.client.ZRem(ctx, spaceLocationKey, spaceID).Err()
}
