package repository

import (
	"context"

	"parkspot/internal/domain"
)

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// Create persists a new payment.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID.
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// GetByBooking retrieves all payments for a booking, newest first.
	GetByBooking(ctx context.Context, bookingID string) ([]*domain.Payment, error)

	// GetByUser retrieves a user's payments, newest first.
	GetByUser(ctx context.Context, userID string) ([]*domain.Payment, error)

	// GetCompletedByBooking returns the completed payment for a booking,
	// or nil when none exists.
	GetCompletedByBooking(ctx context.Context, bookingID string) (*domain.Payment, error)

	// UpdateStatus sets only the payment status.
	UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error

	// MarkRefunded records the refund outcome on the payment.
	MarkRefunded(ctx context.Context, id, refundID string, amount float64, reason string) error
}
