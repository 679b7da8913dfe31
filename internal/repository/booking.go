package repository

import (
	"context"
	"time"

	"parkspot/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetByUser retrieves a user's bookings, newest first.
	GetByUser(ctx context.Context, userID string) ([]*domain.Booking, error)

	// Update updates an existing booking.
	Update(ctx context.Context, booking *domain.Booking) error

	// UpdateStatus sets only the booking status.
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error

	// FindOverlapping returns a CONFIRMED or ACTIVE booking on the space
	// whose [start, end) range intersects the given range, excluding
	// excludeID when non-empty. Returns nil when no conflict exists.
	FindOverlapping(ctx context.Context, spaceID string, start, end time.Time, excludeID string) (*domain.Booking, error)

	// GetExpired returns non-terminal bookings whose end time has passed.
	GetExpired(ctx context.Context, now time.Time) ([]*domain.Booking, error)

	// SetReferralApplied marks the booking's referral reward as granted.
	SetReferralApplied(ctx context.Context, id string) error

	// Delete removes a booking record. Only cancelled bookings may be
	// deleted; the caller enforces that.
	Delete(ctx context.Context, id string) error
}
