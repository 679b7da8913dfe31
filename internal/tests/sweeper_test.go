package tests

import (
	"context"
	"testing"
	"time"

	"parkspot/internal/domain"
	"parkspot/internal/service"
)

// ──────────────────────────────────────────────
// 5. EXPIRATION SWEEP
// ──────────────────────────────────────────────

func newSweeperFixture() (*service.SweeperService, *MockBookingRepository, *MockSpaceRepository, *MockUserRepository, *MockReferralRepository) {
	bookingRepo := NewMockBookingRepository()
	spaceRepo := NewMockSpaceRepository()
	userRepo := NewMockUserRepository()
	referralRepo := NewMockReferralRepository()

	ledger := service.NewLedgerService(spaceRepo, nil, nil)
	referralService := service.NewReferralService(nil, referralRepo, userRepo, bookingRepo)
	sweeper := service.NewSweeperService(bookingRepo, referralService, ledger)

	return sweeper, bookingRepo, spaceRepo, userRepo, referralRepo
}

func expiredBooking(id string, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:            id,
		UserID:        "user-1",
		SpaceID:       "space-1",
		StartTime:     time.Now().Add(-3 * time.Hour),
		EndTime:       time.Now().Add(-time.Hour),
		DurationHours: 2,
		TotalAmount:   100,
		Status:        status,
		PaymentStatus: domain.BookingPaymentPaid,
	}
}

func TestSweep_CompletesExpiredAndReleasesSpot(t *testing.T) {
	t.Parallel()

	sweeper, bookingRepo, spaceRepo, userRepo, _ := newSweeperFixture()
	spaceRepo.AddSpace(&domain.ParkingSpace{ID: "space-1", Capacity: 3, AvailableSpots: 2})
	userRepo.AddUser(&domain.User{ID: "user-1", Name: "Alice"})
	bookingRepo.AddBooking(expiredBooking("booking-1", domain.BookingStatusConfirmed))

	result, err := sweeper.Sweep(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Completed != 1 {
		t.Errorf("expected 1 completion, got %d", result.Completed)
	}
	if status := bookingRepo.GetBooking("booking-1").Status; status != domain.BookingStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", status)
	}
	if spots := spaceRepo.GetSpace("space-1").AvailableSpots; spots != 3 {
		t.Errorf("expected spot released, got %d", spots)
	}
}

func TestSweep_SkipsTerminalAndFutureBookings(t *testing.T) {
	t.Parallel()

	sweeper, bookingRepo, spaceRepo, userRepo, _ := newSweeperFixture()
	spaceRepo.AddSpace(&domain.ParkingSpace{ID: "space-1", Capacity: 5, AvailableSpots: 2})
	userRepo.AddUser(&domain.User{ID: "user-1", Name: "Alice"})

	bookingRepo.AddBooking(expiredBooking("cancelled", domain.BookingStatusCancelled))
	future := expiredBooking("future", domain.BookingStatusConfirmed)
	future.EndTime = time.Now().Add(2 * time.Hour)
	bookingRepo.AddBooking(future)

	result, err := sweeper.Sweep(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Completed != 0 {
		t.Errorf("expected no completions, got %d", result.Completed)
	}
	if status := bookingRepo.GetBooking("future").Status; status != domain.BookingStatusConfirmed {
		t.Errorf("future booking must be untouched, got %s", status)
	}
	if spots := spaceRepo.GetSpace("space-1").AvailableSpots; spots != 2 {
		t.Errorf("no spot should be released, got %d", spots)
	}
}

func TestSweep_AppliesReferralRewardExactlyOnce(t *testing.T) {
	t.Parallel()

	sweeper, bookingRepo, spaceRepo, userRepo, referralRepo := newSweeperFixture()
	spaceRepo.AddSpace(&domain.ParkingSpace{ID: "space-1", Capacity: 3, AvailableSpots: 2})
	userRepo.AddUser(&domain.User{ID: "user-1", Name: "Alice"})
	userRepo.AddUser(&domain.User{ID: "referrer", Name: "Bob", HasBookedParking: true})
	referralRepo.AddReferral(&domain.Referral{
		ID:           "ref-1",
		ReferrerID:   "referrer",
		ReferralCode: "BOBX123456",
		IsActive:     true,
	})

	booking := expiredBooking("booking-1", domain.BookingStatusConfirmed)
	booking.TotalAmount = 104
	booking.Surcharge = domain.SurchargeInfo{IsPeakHour: true, SurchargeAmount: 10}
	booking.Referral = &domain.ReferralInfo{
		ReferralCode:   "BOBX123456",
		ReferrerID:     "referrer",
		DiscountAmount: 6,
	}
	bookingRepo.AddBooking(booking)

	// Run the sweep twice; the second pass must be a no-op.
	for i := 0; i < 2; i++ {
		if _, err := sweeper.Sweep(context.Background()); err != nil {
			t.Fatalf("sweep %d failed: %v", i, err)
		}
	}

	referral := referralRepo.GetReferral("ref-1")
	if referral.TotalReferrals != 1 {
		t.Errorf("expected a single redemption, got %d", referral.TotalReferrals)
	}
	if referral.TotalRewards != 5 {
		t.Errorf("expected reward 5 credited once, got %v", referral.TotalRewards)
	}
	if spots := spaceRepo.GetSpace("space-1").AvailableSpots; spots != 3 {
		t.Errorf("spot must be released exactly once, got %d", spots)
	}
	if !bookingRepo.GetBooking("booking-1").ReferralApplied {
		t.Error("booking should be marked referral applied")
	}
}

func TestSweep_PendingUnpaidBookingStillCompletes(t *testing.T) {
	t.Parallel()

	sweeper, bookingRepo, spaceRepo, userRepo, _ := newSweeperFixture()
	spaceRepo.AddSpace(&domain.ParkingSpace{ID: "space-1", Capacity: 3, AvailableSpots: 2})
	userRepo.AddUser(&domain.User{ID: "user-1", Name: "Alice"})

	booking := expiredBooking("booking-1", domain.BookingStatusPending)
	booking.PaymentStatus = domain.BookingPaymentPending
	bookingRepo.AddBooking(booking)

	result, err := sweeper.Sweep(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Completed != 1 {
		t.Errorf("expected completion, got %d", result.Completed)
	}
}
