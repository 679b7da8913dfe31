package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"parkspot/internal/domain"
	"parkspot/internal/repository"
)

// ReferralRepository is a PostgreSQL implementation of repository.ReferralRepository.
type ReferralRepository struct {
	q Querier
}

// NewReferralRepository creates a new PostgreSQL referral repository.
func NewReferralRepository(db *sql.DB) *ReferralRepository {
	return &ReferralRepository{q: db}
}

// NewReferralRepositoryWithTx creates a referral repository using a transaction.
func NewReferralRepositoryWithTx(tx *sql.Tx) *ReferralRepository {
	return &ReferralRepository{q: tx}
}

const referralColumns = `id, referrer_id, referral_code, total_rewards, total_referrals, is_active, created_at`

// Create persists a new referral.
func (r *ReferralRepository) Create(ctx context.Context, referral *domain.Referral) error {
	query := `
		INSERT INTO referrals (` + referralColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		referral.ID,
		referral.ReferrerID,
		referral.ReferralCode,
		referral.TotalRewards,
		referral.TotalReferrals,
		referral.IsActive,
		referral.CreatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}

	return err
}

// GetByCode retrieves an active referral by its uppercase code.
func (r *ReferralRepository) GetByCode(ctx context.Context, code string) (*domain.Referral, error) {
	query := `SELECT ` + referralColumns + ` FROM referrals WHERE referral_code = $1 AND is_active = TRUE`
	return r.getOne(ctx, query, code)
}

// GetByReferrer retrieves a user's referral.
func (r *ReferralRepository) GetByReferrer(ctx context.Context, userID string) (*domain.Referral, error) {
	query := `SELECT ` + referralColumns + ` FROM referrals WHERE referrer_id = $1`
	return r.getOne(ctx, query, userID)
}

// CodeExists reports whether any referral uses the code, active or not.
func (r *ReferralRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var one int
	err := r.q.QueryRowContext(ctx, `SELECT 1 FROM referrals WHERE referral_code = $1`, code).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AddRedemption records a redemption and bumps the referral's counters.
// The unique index on (referral_id, booking_id) makes re-application for
// the same booking fail with ErrDuplicate, which callers treat as a no-op.
func (r *ReferralRepository) AddRedemption(ctx context.Context, referralID string, entry domain.ReferredUser, reward float64) error {
	insert := `
		INSERT INTO referral_redemptions (referral_id, user_id, booking_id, discount_amount, referred_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(ctx, insert,
		referralID,
		entry.UserID,
		entry.BookingID,
		entry.DiscountAmount,
		entry.ReferredAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	if err != nil {
		return err
	}

	bump := `
		UPDATE referrals
		SET total_referrals = total_referrals + 1,
		    total_rewards = total_rewards + $2
		WHERE id = $1
	`

	result, err := r.q.ExecContext(ctx, bump, referralID, reward)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// GetLeaderboard returns active referrals ordered by referrals, then rewards.
func (r *ReferralRepository) GetLeaderboard(ctx context.Context, limit int) ([]*domain.Referral, error) {
	query := `
		SELECT ` + referralColumns + ` FROM referrals
		WHERE is_active = TRUE
		ORDER BY total_referrals DESC, total_rewards DESC
		LIMIT $1
	`

	rows, err := r.q.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collect(ctx, rows, false)
}

// GetAll retrieves all referrals with redemptions loaded.
func (r *ReferralRepository) GetAll(ctx context.Context) ([]*domain.Referral, error) {
	query := `SELECT ` + referralColumns + ` FROM referrals ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collect(ctx, rows, true)
}

func (r *ReferralRepository) getOne(ctx context.Context, query string, arg any) (*domain.Referral, error) {
	referral, err := scanReferral(r.q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if err := r.loadRedemptions(ctx, referral); err != nil {
		return nil, err
	}

	return referral, nil
}

func (r *ReferralRepository) collect(ctx context.Context, rows *sql.Rows, withRedemptions bool) ([]*domain.Referral, error) {
	var referrals []*domain.Referral
	for rows.Next() {
		referral, err := scanReferral(rows)
		if err != nil {
			return nil, err
		}
		referrals = append(referrals, referral)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if withRedemptions {
		for _, referral := range referrals {
			if err := r.loadRedemptions(ctx, referral); err != nil {
				return nil, err
			}
		}
	}

	return referrals, nil
}

func (r *ReferralRepository) loadRedemptions(ctx context.Context, referral *domain.Referral) error {
	query := `
		SELECT user_id, booking_id, discount_amount, referred_at
		FROM referral_redemptions
		WHERE referral_id = $1
		ORDER BY referred_at ASC
	`

	rows, err := r.q.QueryContext(ctx, query, referral.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var entry domain.ReferredUser
		if err := rows.Scan(&entry.UserID, &entry.BookingID, &entry.DiscountAmount, &entry.ReferredAt); err != nil {
			return err
		}
		referral.ReferredUsers = append(referral.ReferredUsers, entry)
	}
	return rows.Err()
}

func scanReferral(row rowScanner) (*domain.Referral, error) {
	var referral domain.Referral
	err := row.Scan(
		&referral.ID,
		&referral.ReferrerID,
		&referral.ReferralCode,
		&referral.TotalRewards,
		&referral.TotalReferrals,
		&referral.IsActive,
		&referral.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &referral, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
