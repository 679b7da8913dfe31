package postgres

import (
	"context"
	"database/sql"
	"errors"

	"parkspot/internal/domain"
	"parkspot/internal/repository"
)

// UserRepository is a PostgreSQL implementation of repository.UserRepository.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

// NewUserRepositoryWithTx creates a user repository using a transaction.
func NewUserRepositoryWithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{q: tx}
}

const userColumns = `id, name, email, phone, role, has_booked_parking, total_rewards, total_referrals, total_savings, created_at`

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Phone,
		user.Role,
		user.HasBookedParking,
		user.ReferralStats.TotalRewards,
		user.ReferralStats.TotalReferrals,
		user.ReferralStats.TotalSavings,
		user.CreatedAt,
	)

	return err
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return user, nil
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.q.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return user, nil
}

// GetAll retrieves all users.
func (r *UserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// SetHasBookedParking marks the user as having completed a booking.
func (r *UserRepository) SetHasBookedParking(ctx context.Context, id string) error {
	query := `UPDATE users SET has_booked_parking = TRUE WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// AddReferrerReward atomically increments the user's reward total and
// referral count.
func (r *UserRepository) AddReferrerReward(ctx context.Context, id string, reward float64) error {
	query := `
		UPDATE users
		SET total_rewards = total_rewards + $2,
		    total_referrals = total_referrals + 1
		WHERE id = $1
	`

	result, err := r.q.ExecContext(ctx, query, id, reward)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// AddReferralSavings atomically increments the user's savings total.
func (r *UserRepository) AddReferralSavings(ctx context.Context, id string, amount float64) error {
	query := `UPDATE users SET total_savings = total_savings + $2 WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id, amount)
	if err != nil {
		return err
	}

	return requireRow(result)
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.Role,
		&user.HasBookedParking,
		&user.ReferralStats.TotalRewards,
		&user.ReferralStats.TotalReferrals,
		&user.ReferralStats.TotalSavings,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
