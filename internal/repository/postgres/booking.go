package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"parkspot/internal/domain"
	"parkspot/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `id, user_id, space_id, start_time, end_time, duration_hours, total_amount,
	status, payment_status, vehicle_number, notes,
	is_peak_hour, surcharge_amount, surcharge_percentage,
	referral_code, referrer_id, discount_amount, referral_applied,
	created_at, updated_at`

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	var code, referrer sql.NullString
	var discount sql.NullFloat64
	if booking.Referral != nil {
		code = sql.NullString{String: booking.Referral.ReferralCode, Valid: true}
		referrer = sql.NullString{String: booking.Referral.ReferrerID, Valid: true}
		discount = sql.NullFloat64{Float64: booking.Referral.DiscountAmount, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.UserID,
		booking.SpaceID,
		booking.StartTime,
		booking.EndTime,
		booking.DurationHours,
		booking.TotalAmount,
		booking.Status,
		booking.PaymentStatus,
		booking.VehicleNumber,
		booking.Notes,
		booking.Surcharge.IsPeakHour,
		booking.Surcharge.SurchargeAmount,
		booking.Surcharge.SurchargePercentage,
		code,
		referrer,
		discount,
		booking.ReferralApplied,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return booking, nil
}

// GetByUser retrieves a user's bookings, newest first.
func (r *BookingRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryBookings(ctx, query, userID)
}

// Update updates an existing booking.
func (r *BookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	query := `
		UPDATE bookings
		SET start_time = $1, end_time = $2, duration_hours = $3, total_amount = $4,
		    status = $5, payment_status = $6, vehicle_number = $7, notes = $8,
		    is_peak_hour = $9, surcharge_amount = $10, surcharge_percentage = $11,
		    referral_code = $12, referrer_id = $13, discount_amount = $14,
		    referral_applied = $15, updated_at = NOW()
		WHERE id = $16
	`

	var code, referrer sql.NullString
	var discount sql.NullFloat64
	if booking.Referral != nil {
		code = sql.NullString{String: booking.Referral.ReferralCode, Valid: true}
		referrer = sql.NullString{String: booking.Referral.ReferrerID, Valid: true}
		discount = sql.NullFloat64{Float64: booking.Referral.DiscountAmount, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query,
		booking.StartTime,
		booking.EndTime,
		booking.DurationHours,
		booking.TotalAmount,
		booking.Status,
		booking.PaymentStatus,
		booking.VehicleNumber,
		booking.Notes,
		booking.Surcharge.IsPeakHour,
		booking.Surcharge.SurchargeAmount,
		booking.Surcharge.SurchargePercentage,
		code,
		referrer,
		discount,
		booking.ReferralApplied,
		booking.ID,
	)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// UpdateStatus sets only the booking status.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// FindOverlapping returns a CONFIRMED or ACTIVE booking on the space whose
// [start, end) range intersects the given range. A single interval test
// covers partial overlaps and full containment symmetrically.
func (r *BookingRepository) FindOverlapping(ctx context.Context, spaceID string, start, end time.Time, excludeID string) (*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + ` FROM bookings
		WHERE space_id = $1
		  AND status IN ($2, $3)
		  AND start_time < $4 AND end_time > $5
		  AND ($6 = '' OR id <> $6)
		LIMIT 1
	`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query,
		spaceID,
		domain.BookingStatusConfirmed,
		domain.BookingStatusActive,
		end,
		start,
		excludeID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return booking, nil
}

// GetExpired returns non-terminal bookings whose end time has passed.
func (r *BookingRepository) GetExpired(ctx context.Context, now time.Time) ([]*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + ` FROM bookings
		WHERE status IN ($1, $2, $3) AND end_time <= $4
		ORDER BY end_time ASC
	`

	return r.queryBookings(ctx, query,
		domain.BookingStatusPending,
		domain.BookingStatusConfirmed,
		domain.BookingStatusActive,
		now,
	)
}

// SetReferralApplied marks the booking's referral reward as granted.
func (r *BookingRepository) SetReferralApplied(ctx context.Context, id string) error {
	query := `UPDATE bookings SET referral_applied = TRUE, updated_at = NOW() WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// Delete removes a booking record.
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return requireRow(result)
}

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]*domain.Booking, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var code, referrer sql.NullString
	var discount sql.NullFloat64

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.SpaceID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.DurationHours,
		&booking.TotalAmount,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.VehicleNumber,
		&booking.Notes,
		&booking.Surcharge.IsPeakHour,
		&booking.Surcharge.SurchargeAmount,
		&booking.Surcharge.SurchargePercentage,
		&code,
		&referrer,
		&discount,
		&booking.ReferralApplied,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if code.Valid {
		booking.Referral = &domain.ReferralInfo{
			ReferralCode:   code.String,
			ReferrerID:     referrer.String,
			DiscountAmount: discount.Float64,
		}
	}

	return &booking, nil
}
