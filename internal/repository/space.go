package repository

import (
	"context"

	"parkspot/internal/domain"
)

// SpaceRepository defines the persistence operations for parking spaces.
//
// ReserveSpot, ReleaseSpot and SetAvailableSpots are the only write paths
// for the spot counter, and each is a single conditional UPDATE so the
// capacity invariant holds under concurrent callers.
type SpaceRepository interface {
	// Create persists a new parking space.
	Create(ctx context.Context, space *domain.ParkingSpace) error

	// GetByID retrieves a parking space by ID.
	GetByID(ctx context.Context, id string) (*domain.ParkingSpace, error)

	// GetAll retrieves all parking spaces, newest first.
	GetAll(ctx context.Context) ([]*domain.ParkingSpace, error)

	// GetAvailable retrieves spaces with at least one free spot.
	GetAvailable(ctx context.Context) ([]*domain.ParkingSpace, error)

	// Update updates a parking space's descriptive fields.
	Update(ctx context.Context, space *domain.ParkingSpace) error

	// ReserveSpot atomically decrements the available-spot count.
	// Returns ErrNoCapacity when no spots remain, ErrNotFound when the
	// space does not exist.
	ReserveSpot(ctx context.Context, id string) error

	// ReleaseSpot atomically increments the available-spot count,
	// clamped to capacity.
	ReleaseSpot(ctx context.Context, id string) error

	// SetAvailableSpots sets the count, clamped to [0, capacity], and
	// returns the stored value.
	SetAvailableSpots(ctx context.Context, id string, n int) (int, error)

	// UpdateCoordinates updates the space's location.
	UpdateCoordinates(ctx context.Context, id string, lat, lng float64) error
}
