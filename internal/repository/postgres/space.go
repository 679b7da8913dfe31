package postgres

import (
	"context"
	"database/sql"
	"errors"

	"parkspot/internal/domain"
	"parkspot/internal/repository"
)

// SpaceRepository is a PostgreSQL implementation of repository.SpaceRepository.
type SpaceRepository struct {
	q Querier
}

// NewSpaceRepository creates a new PostgreSQL space repository.
func NewSpaceRepository(db *sql.DB) *SpaceRepository {
	return &SpaceRepository{q: db}
}

// NewSpaceRepositoryWithTx creates a space repository using a transaction.
func NewSpaceRepositoryWithTx(tx *sql.Tx) *SpaceRepository {
	return &SpaceRepository{q: tx}
}

const spaceColumns = `id, name, address, lat, lng, capacity, available_spots, price_per_hour, is_available, owner_id, created_at, updated_at`

// Create persists a new parking space.
func (r *SpaceRepository) Create(ctx context.Context, space *domain.ParkingSpace) error {
	query := `
		INSERT INTO parking_spaces (` + spaceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.q.ExecContext(ctx, query,
		space.ID,
		space.Name,
		space.Address,
		space.Lat,
		space.Lng,
		space.Capacity,
		space.AvailableSpots,
		space.PricePerHour,
		space.AvailableSpots > 0,
		space.OwnerID,
		space.CreatedAt,
		space.UpdatedAt,
	)

	return err
}

// GetByID retrieves a parking space by ID.
func (r *SpaceRepository) GetByID(ctx context.Context, id string) (*domain.ParkingSpace, error) {
	query := `SELECT ` + spaceColumns + ` FROM parking_spaces WHERE id = $1`

	space, err := scanSpace(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return space, nil
}

// GetAll retrieves all parking spaces, newest first.
func (r *SpaceRepository) GetAll(ctx context.Context) ([]*domain.ParkingSpace, error) {
	query := `SELECT ` + spaceColumns + ` FROM parking_spaces ORDER BY created_at DESC`
	return r.querySpaces(ctx, query)
}

// GetAvailable retrieves spaces with at least one free spot.
func (r *SpaceRepository) GetAvailable(ctx context.Context) ([]*domain.ParkingSpace, error) {
	query := `
		SELECT ` + spaceColumns + ` FROM parking_spaces
		WHERE is_available = TRUE AND available_spots > 0
		ORDER BY created_at DESC
	`
	return r.querySpaces(ctx, query)
}

// Update updates a parking space's descriptive fields. The spot counter is
// deliberately excluded; it only moves through the conditional updates below.
func (r *SpaceRepository) Update(ctx context.Context, space *domain.ParkingSpace) error {
	query := `
		UPDATE parking_spaces
		SET name = $1, address = $2, lat = $3, lng = $4, price_per_hour = $5, updated_at = NOW()
		WHERE id = $6
	`

	result, err := r.q.ExecContext(ctx, query,
		space.Name,
		space.Address,
		space.Lat,
		space.Lng,
		space.PricePerHour,
		space.ID,
	)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// ReserveSpot atomically decrements the available-spot count. The guard in
// the WHERE clause makes this a compare-and-swap: two racing callers on the
// last spot cannot both succeed.
func (r *SpaceRepository) ReserveSpot(ctx context.Context, id string) error {
	query := `
		UPDATE parking_spaces
		SET available_spots = available_spots - 1,
		    is_available = available_spots - 1 > 0,
		    updated_at = NOW()
		WHERE id = $1 AND available_spots > 0
	`

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		exists, err := r.exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return repository.ErrNotFound
		}
		return repository.ErrNoCapacity
	}

	return nil
}

// ReleaseSpot atomically increments the available-spot count, clamped to
// capacity.
func (r *SpaceRepository) ReleaseSpot(ctx context.Context, id string) error {
	query := `
		UPDATE parking_spaces
		SET available_spots = LEAST(available_spots + 1, capacity),
		    is_available = LEAST(available_spots + 1, capacity) > 0,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// SetAvailableSpots sets the count, clamped to [0, capacity], and returns
// the stored value.
func (r *SpaceRepository) SetAvailableSpots(ctx context.Context, id string, n int) (int, error) {
	query := `
		UPDATE parking_spaces
		SET available_spots = GREATEST(0, LEAST($2, capacity)),
		    is_available = GREATEST(0, LEAST($2, capacity)) > 0,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING available_spots
	`

	var stored int
	err := r.q.QueryRowContext(ctx, query, id, n).Scan(&stored)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		return 0, err
	}

	return stored, nil
}

// UpdateCoordinates updates the space's location.
func (r *SpaceRepository) UpdateCoordinates(ctx context.Context, id string, lat, lng float64) error {
	query := `UPDATE parking_spaces SET lat = $2, lng = $3, updated_at = NOW() WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id, lat, lng)
	if err != nil {
		return err
	}

	return requireRow(result)
}

func (r *SpaceRepository) exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.q.QueryRowContext(ctx, `SELECT 1 FROM parking_spaces WHERE id = $1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *SpaceRepository) querySpaces(ctx context.Context, query string, args ...any) ([]*domain.ParkingSpace, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spaces []*domain.ParkingSpace
	for rows.Next() {
		space, err := scanSpace(rows)
		if err != nil {
			return nil, err
		}
		spaces = append(spaces, space)
	}
	return spaces, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSpace(row rowScanner) (*domain.ParkingSpace, error) {
	var space domain.ParkingSpace
	err := row.Scan(
		&space.ID,
		&space.Name,
		&space.Address,
		&space.Lat,
		&space.Lng,
		&space.Capacity,
		&space.AvailableSpots,
		&space.PricePerHour,
		&space.IsAvailable,
		&space.OwnerID,
		&space.CreatedAt,
		&space.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &space, nil
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
