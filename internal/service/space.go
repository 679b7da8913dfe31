package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"parkspot/internal/domain"
	"parkspot/internal/redis"
	"parkspot/internal/repository"
)

const earthRadiusKm = 6371.0

// SpaceService handles parking-space listings and owner updates. Spot
// counter mutations go through the ledger.
type SpaceService struct {
	spaceRepo     repository.SpaceRepository
	ledger        *LedgerService
	locationStore redis.LocationStoreInterface
	cacheStore    redis.CacheStoreInterface
}

// NewSpaceService creates a new SpaceService.
func NewSpaceService(
	spaceRepo repository.SpaceRepository,
	ledger *LedgerService,
	locationStore redis.LocationStoreInterface,
	cacheStore redis.CacheStoreInterface,
) *SpaceService {
	return &SpaceService{
		spaceRepo:     spaceRepo,
		ledger:        ledger,
		locationStore: locationStore,
		cacheStore:    cacheStore,
	}
}

// CreateSpaceRequest contains the parameters for listing a parking space.
type CreateSpaceRequest struct {
	OwnerID      string
	Name         string
	Address      string
	Lat          float64
	Lng          float64
	Capacity     int
	PricePerHour float64
}

// CreateSpace lists a new parking space with all spots available.
func (s *SpaceService) CreateSpace(ctx context.Context, req CreateSpaceRequest) (*domain.ParkingSpace, error) {
	if req.OwnerID == "" {
		return nil, ErrInvalidUserID
	}
	if !isValidLatitude(req.Lat) || !isValidLongitude(req.Lng) {
		return nil, ErrInvalidLocation
	}
	if req.Capacity < 0 {
		return nil, ErrInvalidCapacity
	}
	if req.PricePerHour < 0 {
		return nil, ErrInvalidPrice
	}

	space := &domain.ParkingSpace{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Address:        req.Address,
		Lat:            req.Lat,
		Lng:            req.Lng,
		Capacity:       req.Capacity,
		AvailableSpots: req.Capacity,
		PricePerHour:   req.PricePerHour,
		IsAvailable:    req.Capacity > 0,
		OwnerID:        req.OwnerID,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := s.spaceRepo.Create(ctx, space); err != nil {
		return nil, err
	}

	if s.locationStore != nil {
		_ = s.locationStore.UpsertLocation(ctx, space.ID, space.Lat, space.Lng)
	}
	return space, nil
}

// GetSpace retrieves a space, served from cache when fresh.
func (s *SpaceService) GetSpace(ctx context.Context, spaceID string) (*domain.ParkingSpace, error) {
	if spaceID == "" {
		return nil, ErrInvalidSpaceID
	}

	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetSpace(ctx, spaceID); err == nil && cached != nil {
			return cachedToDomain(cached), nil
		}
	}

	space, err := s.spaceRepo.GetByID(ctx, spaceID)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetSpace(ctx, domainToCached(space))
	}
	return space, nil
}

// ListSpaces retrieves all spaces, newest first.
func (s *SpaceService) ListSpaces(ctx context.Context) ([]*domain.ParkingSpace, error) {
	return s.spaceRepo.GetAll(ctx)
}

// ListAvailable retrieves spaces with at least one free spot.
func (s *SpaceService) ListAvailable(ctx context.Context) ([]*domain.ParkingSpace, error) {
	return s.spaceRepo.GetAvailable(ctx)
}

// SpaceWithDistance pairs a space with its distance from a search point.
type SpaceWithDistance struct {
	Space      *domain.ParkingSpace
	DistanceKm float64
}

// FindNearby returns available spaces within radiusKm of the point,
// closest first. The geo index drives the search; without one the full
// available list is filtered by haversine distance.
func (s *SpaceService) FindNearby(ctx context.Context, lat, lng, radiusKm float64) ([]SpaceWithDistance, error) {
	if !isValidLatitude(lat) || !isValidLongitude(lng) {
		return nil, ErrInvalidLocation
	}
	if radiusKm <= 0 {
		radiusKm = 5
	}

	if s.locationStore != nil {
		locations, err := s.locationStore.FindNearbySpaces(ctx, lat, lng, radiusKm)
		if err == nil {
			results := make([]SpaceWithDistance, 0, len(locations))
			for _, loc := range locations {
				space, err := s.spaceRepo.GetByID(ctx, loc.SpaceID)
				if err != nil {
					continue
				}
				if !space.IsAvailable {
					continue
				}
				results = append(results, SpaceWithDistance{Space: space, DistanceKm: loc.DistanceKm})
			}
			return results, nil
		}
	}

	spaces, err := s.spaceRepo.GetAvailable(ctx)
	if err != nil {
		return nil, err
	}

	var results []SpaceWithDistance
	for _, space := range spaces {
		d := Haversine(lat, lng, space.Lat, space.Lng)
		if d <= radiusKm {
			results = append(results, SpaceWithDistance{Space: space, DistanceKm: d})
		}
	}
	sortByDistance(results)
	return results, nil
}

// UpdateSpaceRequest contains the owner-editable descriptive fields.
// Nil fields are left unchanged.
type UpdateSpaceRequest struct {
	SpaceID      string
	OwnerID      string
	Name         *string
	Address      *string
	PricePerHour *float64
}

// UpdateSpace modifies a space's descriptive fields. Only the owner may
// update a space.
func (s *SpaceService) UpdateSpace(ctx context.Context, req UpdateSpaceRequest) (*domain.ParkingSpace, error) {
	space, err := s.getOwnedSpace(ctx, req.SpaceID, req.OwnerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		space.Name = *req.Name
	}
	if req.Address != nil {
		space.Address = *req.Address
	}
	if req.PricePerHour != nil {
		if *req.PricePerHour < 0 {
			return nil, ErrInvalidPrice
		}
		space.PricePerHour = *req.PricePerHour
	}

	space.UpdatedAt = time.Now()
	if err := s.spaceRepo.Update(ctx, space); err != nil {
		return nil, err
	}

	s.ledger.Invalidate(ctx, space.ID)
	return space, nil
}

// AvailabilityUpdateRequest sets the spot counter and/or coordinates of a
// space. Nil fields are left unchanged.
type AvailabilityUpdateRequest struct {
	SpaceID        string
	OwnerID        string
	AvailableSpots *int
	Lat            *float64
	Lng            *float64
}

// UpdateAvailability applies an owner's availability update. The spot
// count is clamped to [0, capacity].
func (s *SpaceService) UpdateAvailability(ctx context.Context, req AvailabilityUpdateRequest) (*domain.ParkingSpace, error) {
	space, err := s.getOwnedSpace(ctx, req.SpaceID, req.OwnerID)
	if err != nil {
		return nil, err
	}

	if req.AvailableSpots != nil {
		stored, err := s.ledger.SetAvailableSpots(ctx, req.SpaceID, *req.AvailableSpots)
		if err != nil {
			return nil, err
		}
		space.AvailableSpots = stored
		space.IsAvailable = stored > 0
	}

	if req.Lat != nil || req.Lng != nil {
		lat := space.Lat
		lng := space.Lng
		if req.Lat != nil {
			lat = *req.Lat
		}
		if req.Lng != nil {
			lng = *req.Lng
		}
		if err := s.ledger.UpdateCoordinates(ctx, req.SpaceID, lat, lng); err != nil {
			return nil, err
		}
		space.Lat = lat
		space.Lng = lng
	}

	space.UpdatedAt = time.Now()
	return space, nil
}

// BulkAvailabilityResult reports the outcome of one item in a bulk update.
type BulkAvailabilityResult struct {
	SpaceID string
	Space   *domain.ParkingSpace
	Err     error
}

// BulkUpdateAvailability applies several availability updates. Items fail
// independently; one bad space does not abort the batch.
func (s *SpaceService) BulkUpdateAvailability(ctx context.Context, reqs []AvailabilityUpdateRequest) []BulkAvailabilityResult {
	results := make([]BulkAvailabilityResult, 0, len(reqs))
	for _, req := range reqs {
		space, err := s.UpdateAvailability(ctx, req)
		results = append(results, BulkAvailabilityResult{
			SpaceID: req.SpaceID,
			Space:   space,
			Err:     err,
		})
	}
	return results
}

func (s *SpaceService) getOwnedSpace(ctx context.Context, spaceID, ownerID string) (*domain.ParkingSpace, error) {
	if spaceID == "" {
		return nil, ErrInvalidSpaceID
	}

	space, err := s.spaceRepo.GetByID(ctx, spaceID)
	if err != nil {
		return nil, err
	}

	if ownerID != "" && space.OwnerID != ownerID {
		return nil, ErrNotSpaceOwner
	}
	return space, nil
}

// Haversine returns the great-circle distance in kilometers between two
// coordinates.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func sortByDistance(results []SpaceWithDistance) {
	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})
}

func domainToCached(space *domain.ParkingSpace) *redis.CachedSpace {
	return &redis.CachedSpace{
		ID:             space.ID,
		Name:           space.Name,
		Address:        space.Address,
		Lat:            space.Lat,
		Lng:            space.Lng,
		Capacity:       space.Capacity,
		AvailableSpots: space.AvailableSpots,
		PricePerHour:   space.PricePerHour,
		IsAvailable:    space.IsAvailable,
	}
}

func cachedToDomain(cached *redis.CachedSpace) *domain.ParkingSpace {
	return &domain.ParkingSpace{
		ID:             cached.ID,
		Name:           cached.Name,
		Address:        cached.Address,
		Lat:            cached.Lat,
		Lng:            cached.Lng,
		Capacity:       cached.Capacity,
		AvailableSpots: cached.AvailableSpots,
		PricePerHour:   cached.PricePerHour,
		IsAvailable:    cached.IsAvailable,
	}
}
