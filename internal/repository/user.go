package repository

import (
	"context"

	"parkspot/internal/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetAll retrieves all users.
	GetAll(ctx context.Context) ([]*domain.User, error)

	// SetHasBookedParking marks the user as having completed a booking.
	SetHasBookedParking(ctx context.Context, id string) error

	// AddReferrerReward atomically increments the user's reward total and
	// referral count.
	AddReferrerReward(ctx context.Context, id string, reward float64) error

	// AddReferralSavings atomically increments the user's savings total.
	AddReferralSavings(ctx context.Context, id string, amount float64) error
}
