package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"parkspot/internal/domain"
	"parkspot/internal/pricing"
	"parkspot/internal/redis"
	"parkspot/internal/repository"
	"parkspot/internal/repository/postgres"
)

// spaceLockTTL bounds how long a crashed booking attempt can hold a space.
const spaceLockTTL = 10 * time.Second

// BookingService handles the booking lifecycle.
type BookingService struct {
	db              *sql.DB
	bookingRepo     repository.BookingRepository
	spaceRepo       repository.SpaceRepository
	userRepo        repository.UserRepository
	referralService *ReferralService
	ledger          *LedgerService
	lockStore       redis.LockStoreInterface
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	db *sql.DB,
	bookingRepo repository.BookingRepository,
	spaceRepo repository.SpaceRepository,
	userRepo repository.UserRepository,
	referralService *ReferralService,
	ledger *LedgerService,
	lockStore redis.LockStoreInterface,
) *BookingService {
	return &BookingService{
		db:              db,
		bookingRepo:     bookingRepo,
		spaceRepo:       spaceRepo,
		userRepo:        userRepo,
		referralService: referralService,
		ledger:          ledger,
		lockStore:       lockStore,
	}
}

// CreateBookingRequest contains the parameters for creating a booking.
type CreateBookingRequest struct {
	UserID        string
	SpaceID       string
	StartTime     time.Time
	EndTime       time.Time
	VehicleNumber string
	Notes         string
	ReferralCode  string
}

// CreateBooking reserves one spot on the space for the requested range.
//
// The referral code degrades silently: an invalid, self-owned or already
// used code produces a booking without a discount, never an error.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}
	if req.SpaceID == "" {
		return nil, ErrInvalidSpaceID
	}
	if req.VehicleNumber == "" {
		return nil, ErrMissingVehicleNumber
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}
	if req.StartTime.Before(time.Now()) {
		return nil, ErrPastStartTime
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	space, err := s.spaceRepo.GetByID(ctx, req.SpaceID)
	if err != nil {
		return nil, err
	}

	// Serialize booking attempts per space. The spot counter itself is
	// guarded by a conditional UPDATE, the lock only keeps the overlap
	// check and the reserve from interleaving.
	if s.lockStore != nil {
		locked, lockErr := s.lockStore.AcquireSpaceLock(ctx, req.SpaceID, spaceLockTTL)
		if lockErr != nil {
			return nil, lockErr
		}
		if !locked {
			return nil, ErrSpaceBusy
		}
		defer func() {
			_ = s.lockStore.ReleaseSpaceLock(ctx, req.SpaceID)
		}()
	}

	if space.AvailableSpots <= 0 {
		return nil, ErrNoCapacity
	}

	conflict, err := s.bookingRepo.FindOverlapping(ctx, req.SpaceID, req.StartTime, req.EndTime, "")
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, ErrSlotConflict
	}

	durationHours, err := pricing.Duration(req.StartTime, req.EndTime)
	if err != nil {
		return nil, ErrInvalidTimeRange
	}

	baseAmount := float64(durationHours) * space.PricePerHour
	isPeak := pricing.IsPeakHour(req.StartTime)
	surcharge := pricing.Surcharge(baseAmount, isPeak)

	var referralInfo *domain.ReferralInfo
	hasReferral := false
	if req.ReferralCode != "" {
		referral, refErr := s.referralService.Validate(ctx, req.ReferralCode, req.UserID)
		switch {
		case refErr == nil:
			referralInfo = &domain.ReferralInfo{
				ReferralCode:   referral.ReferralCode,
				ReferrerID:     referral.ReferrerID,
				DiscountAmount: pricing.ReferralDiscount(baseAmount + surcharge),
			}
			hasReferral = true
		case errors.Is(refErr, ErrReferralNotFound),
			errors.Is(refErr, ErrSelfReferral),
			errors.Is(refErr, ErrReferralAlreadyUsed):
			// Booking proceeds without the discount.
		default:
			return nil, refErr
		}
	}

	booking := &domain.Booking{
		ID:            uuid.New().String(),
		UserID:        req.UserID,
		SpaceID:       req.SpaceID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		DurationHours: durationHours,
		TotalAmount:   pricing.TotalAmount(durationHours, space.PricePerHour, isPeak, hasReferral),
		Status:        domain.BookingStatusPending,
		PaymentStatus: domain.BookingPaymentPending,
		VehicleNumber: req.VehicleNumber,
		Notes:         req.Notes,
		Surcharge: domain.SurchargeInfo{
			IsPeakHour:          isPeak,
			SurchargeAmount:     surcharge,
			SurchargePercentage: pricing.SurchargePercentage(isPeak),
		},
		Referral:  referralInfo,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err = s.runInTx(ctx, func(bookingRepo repository.BookingRepository, spaceRepo repository.SpaceRepository, userRepo repository.UserRepository) error {
		if err := bookingRepo.Create(ctx, booking); err != nil {
			return err
		}

		if err := spaceRepo.ReserveSpot(ctx, req.SpaceID); err != nil {
			if errors.Is(err, repository.ErrNoCapacity) {
				return ErrNoCapacity
			}
			return err
		}

		if !user.HasBookedParking {
			if err := userRepo.SetHasBookedParking(ctx, req.UserID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.ledger.Invalidate(ctx, req.SpaceID)
	return booking, nil
}

// UpdateBookingRequest contains the parameters for updating a booking.
// Nil fields are left unchanged.
type UpdateBookingRequest struct {
	BookingID     string
	UserID        string
	StartTime     *time.Time
	EndTime       *time.Time
	VehicleNumber *string
	Notes         *string
}

// UpdateBooking modifies a non-terminal booking. Changing the time range
// recomputes the full price, including the surcharge and the referral
// discount snapshot.
func (s *BookingService) UpdateBooking(ctx context.Context, req UpdateBookingRequest) (*domain.Booking, error) {
	booking, err := s.getOwnedBooking(ctx, req.BookingID, req.UserID)
	if err != nil {
		return nil, err
	}

	if booking.Status.IsTerminal() {
		return nil, ErrBookingNotModifiable
	}

	if req.StartTime != nil || req.EndTime != nil {
		start := booking.StartTime
		end := booking.EndTime
		if req.StartTime != nil {
			start = *req.StartTime
		}
		if req.EndTime != nil {
			end = *req.EndTime
		}

		if !end.After(start) {
			return nil, ErrInvalidTimeRange
		}
		if req.StartTime != nil && start.Before(time.Now()) {
			return nil, ErrPastStartTime
		}

		conflict, err := s.bookingRepo.FindOverlapping(ctx, booking.SpaceID, start, end, booking.ID)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			return nil, ErrSlotConflict
		}

		space, err := s.spaceRepo.GetByID(ctx, booking.SpaceID)
		if err != nil {
			return nil, err
		}

		durationHours, err := pricing.Duration(start, end)
		if err != nil {
			return nil, ErrInvalidTimeRange
		}

		baseAmount := float64(durationHours) * space.PricePerHour
		isPeak := pricing.IsPeakHour(start)
		surcharge := pricing.Surcharge(baseAmount, isPeak)

		booking.StartTime = start
		booking.EndTime = end
		booking.DurationHours = durationHours
		booking.Surcharge = domain.SurchargeInfo{
			IsPeakHour:          isPeak,
			SurchargeAmount:     surcharge,
			SurchargePercentage: pricing.SurchargePercentage(isPeak),
		}
		if booking.Referral != nil {
			booking.Referral.DiscountAmount = pricing.ReferralDiscount(baseAmount + surcharge)
		}
		booking.TotalAmount = pricing.TotalAmount(durationHours, space.PricePerHour, isPeak, booking.Referral != nil)
	}

	if req.VehicleNumber != nil {
		if *req.VehicleNumber == "" {
			return nil, ErrMissingVehicleNumber
		}
		booking.VehicleNumber = *req.VehicleNumber
	}
	if req.Notes != nil {
		booking.Notes = *req.Notes
	}

	booking.UpdatedAt = time.Now()
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// CancelBooking cancels a booking and returns its spot to the space.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
	booking, err := s.getOwnedBooking(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}

	switch booking.Status {
	case domain.BookingStatusCompleted:
		return nil, ErrBookingCompleted
	case domain.BookingStatusCancelled:
		return nil, ErrBookingAlreadyCancelled
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.BookingStatusCancelled); err != nil {
		return nil, err
	}
	booking.Status = domain.BookingStatusCancelled

	if err := s.ledger.Release(ctx, booking.SpaceID); err != nil {
		return nil, err
	}
	return booking, nil
}

// DeleteBooking removes a cancelled booking record.
func (s *BookingService) DeleteBooking(ctx context.Context, bookingID, userID string) error {
	booking, err := s.getOwnedBooking(ctx, bookingID, userID)
	if err != nil {
		return err
	}

	if booking.Status != domain.BookingStatusCancelled {
		return ErrBookingNotCancelled
	}
	return s.bookingRepo.Delete(ctx, bookingID)
}

// UpdateStatus applies an explicit status transition. Terminal bookings
// are immutable.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID string, status domain.BookingStatus) (*domain.Booking, error) {
	switch status {
	case domain.BookingStatusPending, domain.BookingStatusConfirmed,
		domain.BookingStatusActive, domain.BookingStatusCompleted,
		domain.BookingStatusCancelled:
	default:
		return nil, ErrInvalidStatus
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status.IsTerminal() {
		return nil, ErrBookingNotModifiable
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}
	booking.Status = status
	return booking, nil
}

// GetBooking retrieves a booking. A non-empty userID scopes the lookup to
// that user's bookings.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
	return s.getOwnedBooking(ctx, bookingID, userID)
}

// GetUserBookings retrieves a user's bookings, newest first.
func (s *BookingService) GetUserBookings(ctx context.Context, userID string) ([]*domain.Booking, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.bookingRepo.GetByUser(ctx, userID)
}

func (s *BookingService) getOwnedBooking(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// Lookups are scoped per user, so a foreign booking is indistinguishable
	// from a missing one.
	if userID != "" && booking.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return booking, nil
}

// runInTx executes fn with transaction-scoped repositories. Without a
// database handle the injected repositories are used directly, which keeps
// the flow testable against in-memory implementations.
func (s *BookingService) runInTx(ctx context.Context, fn func(repository.BookingRepository, repository.SpaceRepository, repository.UserRepository) error) error {
	if s.db == nil {
		return fn(s.bookingRepo, s.spaceRepo, s.userRepo)
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
		postgres.NewBookingRepositoryWithTx(tx),
		postgres.NewSpaceRepositoryWithTx(tx),
		postgres.NewUserRepositoryWithTx(tx),
	)
	if err != nil {
		return err
	}

	err = tx.Commit()
	return err
}
