package service

import (
	"context"
	"errors"

	"parkspot/internal/redis"
	"parkspot/internal/repository"
)

// LedgerService is the sole write path for a space's spot counter. Every
// mutation is a conditional single-statement update in the repository, so
// the 0 <= availableSpots <= capacity invariant holds under concurrency.
type LedgerService struct {
	spaceRepo     repository.SpaceRepository
	locationStore redis.LocationStoreInterface
	cacheStore    redis.CacheStoreInterface
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(
	spaceRepo repository.SpaceRepository,
	locationStore redis.LocationStoreInterface,
	cacheStore redis.CacheStoreInterface,
) *LedgerService {
	return &LedgerService{
		spaceRepo:     spaceRepo,
		locationStore: locationStore,
		cacheStore:    cacheStore,
	}
}

// Reserve takes one spot from the space. Fails with ErrNoCapacity when the
// space is full.
func (s *LedgerService) Reserve(ctx context.Context, spaceID string) error {
	if spaceID == "" {
		return ErrInvalidSpaceID
	}

	if err := s.spaceRepo.ReserveSpot(ctx, spaceID); err != nil {
		if errors.Is(err, repository.ErrNoCapacity) {
			return ErrNoCapacity
		}
		return err
	}

	s.Invalidate(ctx, spaceID)
	return nil
}

// Release returns one spot to the space, clamped to capacity.
func (s *LedgerService) Release(ctx context.Context, spaceID string) error {
	if spaceID == "" {
		return ErrInvalidSpaceID
	}

	if err := s.spaceRepo.ReleaseSpot(ctx, spaceID); err != nil {
		return err
	}

	s.Invalidate(ctx, spaceID)
	return nil
}

// SetAvailableSpots sets the counter, clamped to [0, capacity], and returns
// the stored value.
func (s *LedgerService) SetAvailableSpots(ctx context.Context, spaceID string, n int) (int, error) {
	if spaceID == "" {
		return 0, ErrInvalidSpaceID
	}

	stored, err := s.spaceRepo.SetAvailableSpots(ctx, spaceID, n)
	if err != nil {
		return 0, err
	}

	s.Invalidate(ctx, spaceID)
	return stored, nil
}

// UpdateCoordinates moves the space and refreshes the geo index.
func (s *LedgerService) UpdateCoordinates(ctx context.Context, spaceID string, lat, lng float64) error {
	if !isValidLatitude(lat) || !isValidLongitude(lng) {
		return ErrInvalidLocation
	}

	if err := s.spaceRepo.UpdateCoordinates(ctx, spaceID, lat, lng); err != nil {
		return err
	}

	if s.locationStore != nil {
		_ = s.locationStore.UpsertLocation(ctx, spaceID, lat, lng)
	}
	s.Invalidate(ctx, spaceID)
	return nil
}

// Invalidate drops the space's cache entry after a counter mutation that
// bypassed this service (in-transaction reserves during booking creation).
func (s *LedgerService) Invalidate(ctx context.Context, spaceID string) {
	if s.cacheStore == nil {
		return
	}
	_ = s.cacheStore.InvalidateSpace(ctx, spaceID)
}

func isValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func isValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}
