package repository

import (
	"context"

	"parkspot/internal/domain"
)

// ReferralRepository defines the persistence operations for referrals.
type ReferralRepository interface {
	// Create persists a new referral. Returns ErrDuplicate when the code
	// is already taken.
	Create(ctx context.Context, referral *domain.Referral) error

	// GetByCode retrieves an active referral by its uppercase code,
	// with redemptions loaded.
	GetByCode(ctx context.Context, code string) (*domain.Referral, error)

	// GetByReferrer retrieves a user's referral, with redemptions loaded.
	GetByReferrer(ctx context.Context, userID string) (*domain.Referral, error)

	// CodeExists reports whether any referral uses the code.
	CodeExists(ctx context.Context, code string) (bool, error)

	// AddRedemption records a redemption and increments the referral's
	// counters by one referral and the given reward. Returns ErrDuplicate
	// when a redemption for the same booking already exists.
	AddRedemption(ctx context.Context, referralID string, entry domain.ReferredUser, reward float64) error

	// GetLeaderboard returns active referrals ordered by total referrals,
	// then total rewards, descending.
	GetLeaderboard(ctx context.Context, limit int) ([]*domain.Referral, error)

	// GetAll retrieves all referrals with redemptions loaded.
	GetAll(ctx context.Context) ([]*domain.Referral, error)
}
