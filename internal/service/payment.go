package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"parkspot/internal/domain"
	"parkspot/internal/repository"
	"parkspot/internal/repository/postgres"
)

// PaymentService handles charging and refunding bookings.
type PaymentService struct {
	db          *sql.DB
	paymentRepo repository.PaymentRepository
	bookingRepo repository.BookingRepository
	gateway     PaymentGateway
	ledger      *LedgerService
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	db *sql.DB,
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	gateway PaymentGateway,
	ledger *LedgerService,
) *PaymentService {
	return &PaymentService{
		db:          db,
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		gateway:     gateway,
		ledger:      ledger,
	}
}

// ProcessPaymentRequest contains the parameters for paying a booking.
type ProcessPaymentRequest struct {
	BookingID string
	UserID    string
	Method    domain.PaymentMethod
}

// ProcessPayment charges the booking's total amount. A declined charge is
// recorded as a FAILED payment and returned without an error; the booking
// stays payable.
func (s *PaymentService) ProcessPayment(ctx context.Context, req ProcessPaymentRequest) (*domain.Payment, error) {
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}
	if !validPaymentMethod(req.Method) {
		return nil, ErrInvalidPaymentMethod
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != req.UserID {
		return nil, repository.ErrNotFound
	}
	if booking.Status == domain.BookingStatusCancelled {
		return nil, ErrBookingCancelled
	}
	if booking.PaymentStatus == domain.BookingPaymentPaid {
		return nil, ErrAlreadyPaid
	}

	// Retried requests after a crash between charge and bookkeeping.
	existing, err := s.paymentRepo.GetCompletedByBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyPaid
	}

	payment := &domain.Payment{
		ID:        uuid.New().String(),
		BookingID: req.BookingID,
		UserID:    req.UserID,
		Amount:    booking.TotalAmount,
		Currency:  "USD",
		Method:    req.Method,
		Status:    domain.PaymentStatusPending,
		CreatedAt: time.Now(),
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	result, err := s.gateway.Charge(ctx, payment.Amount, req.BookingID)
	if err != nil {
		_ = s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentStatusFailed)
		payment.Status = domain.PaymentStatusFailed
		return payment, err
	}

	if !result.Success {
		payment.Status = domain.PaymentStatusFailed
		payment.GatewayDetail = result.Detail
		if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentStatusFailed); err != nil {
			return nil, err
		}

		booking.PaymentStatus = domain.BookingPaymentFailed
		booking.UpdatedAt = time.Now()
		if err := s.bookingRepo.Update(ctx, booking); err != nil {
			return nil, err
		}
		return payment, nil
	}

	payment.Status = domain.PaymentStatusCompleted
	payment.TransactionID = result.TransactionID

	booking.PaymentStatus = domain.BookingPaymentPaid
	if booking.Status == domain.BookingStatusPending {
		booking.Status = domain.BookingStatusConfirmed
	}
	booking.UpdatedAt = time.Now()

	err = s.runInTx(ctx, func(paymentRepo repository.PaymentRepository, bookingRepo repository.BookingRepository) error {
		if err := paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentStatusCompleted); err != nil {
			return err
		}
		return bookingRepo.Update(ctx, booking)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// RefundRequest contains the parameters for refunding a payment.
type RefundRequest struct {
	PaymentID string
	UserID    string
	Amount    float64 // zero means a full refund
	Reason    string
}

// Refund reverses a completed payment, cancels the booking and returns
// its spot to the space.
func (s *PaymentService) Refund(ctx context.Context, req RefundRequest) (*domain.Payment, error) {
	if req.PaymentID == "" {
		return nil, ErrInvalidPaymentID
	}

	payment, err := s.paymentRepo.GetByID(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}

	if req.UserID != "" && payment.UserID != req.UserID {
		return nil, repository.ErrNotFound
	}
	if payment.Status != domain.PaymentStatusCompleted {
		return nil, ErrPaymentNotRefundable
	}

	amount := req.Amount
	if amount == 0 {
		amount = payment.Amount
	}
	if amount < 0 || amount > payment.Amount {
		return nil, ErrInvalidRefundAmount
	}

	result, err := s.gateway.Refund(ctx, payment.TransactionID, amount)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		payment.GatewayDetail = result.Detail
		return payment, ErrRefundFailed
	}

	booking, err := s.bookingRepo.GetByID(ctx, payment.BookingID)
	if err != nil {
		return nil, err
	}

	booking.PaymentStatus = domain.BookingPaymentRefunded
	booking.Status = domain.BookingStatusCancelled
	booking.UpdatedAt = time.Now()

	err = s.runInTx(ctx, func(paymentRepo repository.PaymentRepository, bookingRepo repository.BookingRepository) error {
		if err := paymentRepo.MarkRefunded(ctx, payment.ID, result.RefundID, amount, req.Reason); err != nil {
			return err
		}
		return bookingRepo.Update(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Release(ctx, booking.SpaceID); err != nil {
		return nil, err
	}

	payment.Status = domain.PaymentStatusRefunded
	payment.RefundID = result.RefundID
	payment.RefundAmount = amount
	payment.RefundReason = req.Reason
	return payment, nil
}

// GetPayment retrieves a payment, scoped to the user when userID is set.
func (s *PaymentService) GetPayment(ctx context.Context, paymentID, userID string) (*domain.Payment, error) {
	if paymentID == "" {
		return nil, ErrInvalidPaymentID
	}

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if userID != "" && payment.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return payment, nil
}

// GetBookingPayments retrieves all payment attempts for a booking.
func (s *PaymentService) GetBookingPayments(ctx context.Context, bookingID string) ([]*domain.Payment, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	return s.paymentRepo.GetByBooking(ctx, bookingID)
}

// GetUserPayments retrieves a user's payment history, newest first.
func (s *PaymentService) GetUserPayments(ctx context.Context, userID string) ([]*domain.Payment, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.paymentRepo.GetByUser(ctx, userID)
}

func validPaymentMethod(m domain.PaymentMethod) bool {
	switch m {
	case domain.PaymentMethodCreditCard, domain.PaymentMethodDebitCard,
		domain.PaymentMethodPaypal, domain.PaymentMethodCash:
		return true
	}
	return false
}

func (s *PaymentService) runInTx(ctx context.Context, fn func(repository.PaymentRepository, repository.BookingRepository) error) error {
	if s.db == nil {
		return fn(s.paymentRepo, s.bookingRepo)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = fn(
		postgres.NewPaymentRepositoryWithTx(tx),
		postgres.NewBookingRepositoryWithTx(tx),
	)
	if err != nil {
		return err
	}

	err = tx.Commit()
	return err
}
