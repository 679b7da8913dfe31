package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"parkspot/internal/domain"
	"parkspot/internal/service"
)

// ──────────────────────────────────────────────
// 1. BOOKING CREATION
// ──────────────────────────────────────────────

func newBookingFixture() (*service.BookingService, *MockBookingRepository, *MockSpaceRepository, *MockUserRepository, *MockReferralRepository) {
	bookingRepo := NewMockBookingRepository()
	spaceRepo := NewMockSpaceRepository()
	userRepo := NewMockUserRepository()
	referralRepo := NewMockReferralRepository()

	ledger := service.NewLedgerService(spaceRepo, nil, nil)
	referralService := service.NewReferralService(nil, referralRepo, userRepo, bookingRepo)
	bookingService := service.NewBookingService(nil, bookingRepo, spaceRepo, userRepo, referralService, ledger, nil)

	return bookingService, bookingRepo, spaceRepo, userRepo, referralRepo
}

func testSpace(id string, spots int) *domain.ParkingSpace {
	return &domain.ParkingSpace{
		ID:             id,
		Name:           "Central Garage",
		Lat:            25.03,
		Lng:            121.56,
		Capacity:       spots,
		AvailableSpots: spots,
		PricePerHour:   50,
		IsAvailable:    spots > 0,
		OwnerID:        "owner-1",
	}
}

// offPeakRange returns a future range that starts outside the surcharge
// window.
func offPeakRange(hours int) (time.Time, time.Time) {
	start := time.Date(2030, 5, 12, 14, 0, 0, 0, time.Local)
	return start, start.Add(time.Duration(hours) * time.Hour)
}

func TestCreateBooking_HappyPath(t *testing.T) {
	t.Parallel()

	bookingService, _, spaceRepo, userRepo, _ := newBookingFixture()
	spaceRepo.AddSpace(testSpace("space-1", 3))
	userRepo.AddUser(&domain.User{ID: "user-1", Name: "Alice"})

	start, end := offPeakRange(2)
	booking, err := bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		UserID:        "user-1",
		SpaceID:       "space-1",
		StartTime:     start,
		EndTime:       end,
		VehicleNumber: "ABC-123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != domain.BookingStatusPending {
		t.Errorf("expected status PENDING, got %s", booking.Status)
	}
	if booking.PaymentStatus != domain.BookingPaymentPending {
		t.Errorf("expected payment status PENDING, got %s", booking.PaymentStatus)
	}
	if booking.DurationHours != 2 {
		t.Errorf("expected 2 billable hours, got %d", booking.DurationHours)
	}
	if booking.TotalAmount != 100 {
		t.Errorf("expected total 100, got %v", booking.TotalAmount)
	}
	if booking.Surcharge.IsPeakHour {
		t.Error("14:00 start should not be peak hour")
	}

	space := spaceRepo.GetSpace("space-1")
	if space.AvailableSpots != 2 {
		t.Errorf("expected 2 spots left, got %d", space.AvailableSpots)
	}

	user := userRepo.GetUser("user-1")
	if !user.HasBookedParking {
		t.Error("first booking should mark the user as having booked")
	}
}

func TestCreateBooking_PartialHourBillsFullHour(t *testing.T) {
	t.Parallel()

	bookingService, _, spaceRepo, userRepo, _ := newBookingFixture()
	spaceRepo.AddSpace(testSpace("space-1", 1))
	userRepo.AddUser(&domain.User{ID: "user-1", Name: "Alice"})

	start, _ := offPeakRange(1)
	booking, err := bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		UserID:        "user-1",
		SpaceID:       "space-1",
		StartTime:     start,
		EndTime:       start.Add(90 * time.Minute),
		VehicleNumber: "ABC-123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.DurationHours != 2 {
		t.Errorf("90 minutes should bill 2 hours, got %d", booking.DurationHours)
	}
	if booking.TotalAmount != 100 {
		t.Errorf("expected total 100, got %v", booking.TotalAmount)
	}
}

func TestCreateBooking_PeakHourSurcharge(t *testing.T) {
	t.Parallel()

	bookingService, _, spaceRepo, userRepo, _ := newBookingFixture()
	spaceRepo.AddSpace(testSpace("space-1", 1))
	userRepo.AddUser(&domain.User{ID: "user-1", Name: "Alice"})

	start := time.Date(2030, 5, 12, 8, 30, 0, 0, time.Local)
	booking, err := bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		UserID:        "user-1",
		SpaceID:       "space-1",
		StartTime:     start,
		EndTime:       start.Add(2 * time.Hour),
		VehicleNumber: "ABC-123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !booking.Surcharge.IsPeakHour {
		t.Error("08:30 start should be peak hour")
	}
	if booking.Surcharge.SurchargeAmount != 10 {
		t.Errorf("expected surcharge 10, got %v", booking.Surcharge.SurchargeAmount)
	}
	if booking.TotalAmount != 110 {
		t.Errorf("expected total 110, got %v", booking.TotalAmount)
	}
}

func TestCreateBooking_ValidationErrors(t *testing.T) {
	t.Parallel()

	bookingService, _, spaceRepo, userRepo, _ := newBookingFixture()
	spaceRepo.AddSpace(testSpace("space-1", 1))
	userRepo.AddUser(&domain.User{ID: "user-1", Name: "Alice"})

	start, end := offPeakRange(2)

	cases := []struct {
		name    string
		req     service.CreateBookingRequest
		wantErr error
	}{
		{
			name:    "missing user",
			req:     service.CreateBookingRequest{SpaceID: "space-1", StartTime: start, EndTime: end, VehicleNumber: "A"},
			wantErr: service.ErrInvalidUserID,
		},
		{
			name:    "missing space",
			req:     service.CreateBookingRequest{UserID: "user-1", StartTime: start, EndTime: end, VehicleNumber: "A"},
			wantErr: service.ErrInvalidSpaceID,
		},
		{
			name:    "missing vehicle",
			req:     service.CreateBookingRequest{UserID: "user-1", SpaceID: "space-1", StartTime: start, EndTime: end},
			wantErr: service.ErrMissingVehicleNumber,
		},
		{
			name:    "end before start",
			req:     service.CreateBookingRequest{UserID: "user-1", SpaceID: "space-1", StartTime: end, EndTime: start, VehicleNumber: "A"},
			wantErr: service.ErrInvalidTimeRange,
		},
		{
			name: "start in the past",
			req: service.CreateBookingRequest{
				UserID: "user-1", SpaceID: "space-1",
				StartTime: time.Now().Add(-time.Hour), EndTime: time.Now().Add(time.Hour),
				VehicleNumber: "A",
			},
			wantErr: service.ErrPastStartTime,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := bookingService.CreateBooking(context.Background(), tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCreateBooking_SlotConflict(t *testing.T) {
	t.Parallel()

	bookingService, bookingRepo, spaceRepo, userRepo, _ := newBookingFixture()
	spaceRepo.AddSpace(testSpace("space-1", 5))
	userRepo.AddUser(&domain.User{ID: "user-1", Name: "Alice"})

	start, end := offPeakRange(2)
	bookingRepo.AddBooking(&domain.Booking{
		ID:        "existing",
		UserID:    "user-2",
		SpaceID:   "space-1",
		StartTime: start,
		EndTime:   end,
		Status:    domain.BookingStatusConfirmed,
	})

	// Overlapping by one hour.
	_, err := bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		UserID:        "user-1",
		SpaceID:       "space-1",
		StartTime:     start.Add(time.Hour),
		EndTime:       end.Add(time.Hour),
		VehicleNumber: "ABC-123",
	})
	if !errors.Is(err, service.ErrSlotConflict) {
		t.Errorf("expected slot conflict, got %v", err)
	}

	// Back-to-back is allowed: the previous end equals the new start.
	_, err = bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		UserID:        "user-1",
		SpaceID:       "space-1",
		StartTime:     end,
		EndTime:       end.Add(time.Hour),
		VehicleNumber: "ABC-123",
	})
	if err != nil {
		t.Errorf("back-to-back booking should succeed, got %v", err)
	}
}

func TestCreateBooking_NoCapacity(t *testing.T) {
	t.Parallel()

	bookingService, _, spaceRepo, userRepo, _ := newBookingFixture()
	spaceRepo.AddSpace(testSpace("space-1", 0))
	userRepo.AddUser(&domain.User{ID: "user-1", Name: "Alice"})

	start, end := offPeakRange(2)
	_, err := bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		UserID:        "user-1",
		SpaceID:       "space-1",
		StartTime:     start,
		EndTime:       end,
		VehicleNumber: "ABC-123",
	})
	if !errors.Is(err, service.ErrNoCapacity) {
		t.Errorf("expected no capacity, got %v", err)
	}
}

func TestCreateBooking_InvalidReferralDegradesSilently(t *testing.T) {
	t.Parallel()

	bookingService, _, spaceRepo, userRepo, _ := newBookingFixture()
	spaceRepo.AddSpace(testSpace("space-1", 1))
	userRepo.AddUser(&domain.User{ID: "user-1", Name: "Alice"})

	start, end := offPeakRange(2)
	booking, err := bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		UserID:        "user-1",
		SpaceID:       "space-1",
		StartTime:     start,
		EndTime:       end,
		VehicleNumber: "ABC-123",
		ReferralCode:  "NOSUCHCODE",
	})
	if err != nil {
		t.Fatalf("invalid code must not fail the booking: %v", err)
	}

	if booking.Referral != nil {
		t.Error("booking should carry no referral snapshot")
	}
	if booking.TotalAmount != 100 {
		t.Errorf("expected undiscounted total 100, got %v", booking.TotalAmount)
	}
}

func TestCreateBooking_ValidReferralDiscount(t *testing.T) {
	t.Parallel()

	bookingService, _, spaceRepo, userRepo, referralRepo := newBookingFixture()
	spaceRepo.AddSpace(testSpace("space-1", 1))
	userRepo.AddUser(&domain.User{ID: "referrer", Name: "Bob", HasBookedParking: true})
	userRepo.AddUser(&domain.User{ID: "user-1", Name: "Alice"})
	referralRepo.AddReferral(&domain.Referral{
		ID:           "ref-1",
		ReferrerID:   "referrer",
		ReferralCode: "BOBX123456",
		IsActive:     true,
	})

	// Peak start so the discount applies to the surcharged amount.
	start := time.Date(2030, 5, 12, 8, 0, 0, 0, time.Local)
	booking, err := bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		UserID:        "user-1",
		SpaceID:       "space-1",
		StartTime:     start,
		EndTime:       start.Add(2 * time.Hour),
		VehicleNumber: "ABC-123",
		ReferralCode:  "BOBX123456",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Referral == nil {
		t.Fatal("expected a referral snapshot")
	}
	if booking.Referral.ReferrerID != "referrer" {
		t.Errorf("expected referrer id, got %s", booking.Referral.ReferrerID)
	}
	// base 100, surcharge 10, discount round(110*0.05) = 6.
	if booking.Referral.DiscountAmount != 6 {
		t.Errorf("expected discount 6, got %v", booking.Referral.DiscountAmount)
	}
	if booking.TotalAmount != 104 {
		t.Errorf("expected total 104, got %v", booking.TotalAmount)
	}
	if booking.ReferralApplied {
		t.Error("reward must not be applied at creation time")
	}
}

func TestCreateBooking_OwnCodeDegradesSilently(t *testing.T) {
	t.Parallel()

	bookingService, _, spaceRepo, userRepo, referralRepo := newBookingFixture()
	spaceRepo.AddSpace(testSpace("space-1", 1))
	userRepo.AddUser(&domain.User{ID: "user-1", Name: "Alice", HasBookedParking: true})
	referralRepo.AddReferral(&domain.Referral{
		ID:           "ref-1",
		ReferrerID:   "user-1",
		ReferralCode: "ALIX123456",
		IsActive:     true,
	})

	start, end := offPeakRange(2)
	booking, err := bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		UserID:        "user-1",
		SpaceID:       "space-1",
		StartTime:     start,
		EndTime:       end,
		VehicleNumber: "ABC-123",
		ReferralCode:  "ALIX123456",
	})
	if err != nil {
		t.Fatalf("own code must not fail the booking: %v", err)
	}
	if booking.Referral != nil {
		t.Error("own code must not produce a discount")
	}
}

func TestCreateBooking_ParallelCreatesOneSpot(t *testing.T) {
	t.Parallel()

	bookingService, _, spaceRepo, userRepo, _ := newBookingFixture()
	spaceRepo.AddSpace(testSpace("space-1", 1))

	const attempts = 50
	for i := 0; i < attempts; i++ {
		userRepo.AddUser(&domain.User{ID: userID(i), Name: "User"})
	}

	base, _ := offPeakRange(1)

	var wg sync.WaitGroup
	var successes int32
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Disjoint ranges: the only contention is the spot counter.
			start := base.Add(time.Duration(i*2) * time.Hour)
			_, err := bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
				UserID:        userID(i),
				SpaceID:       "space-1",
				StartTime:     start,
				EndTime:       start.Add(time.Hour),
				VehicleNumber: "ABC-123",
			})
			if err == nil {
				atomic.AddInt32(&successes, 1)
			} else if !errors.Is(err, service.ErrNoCapacity) {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("expected exactly 1 successful booking, got %d", successes)
	}
	if spots := spaceRepo.GetSpace("space-1").AvailableSpots; spots != 0 {
		t.Errorf("expected 0 spots left, got %d", spots)
	}
}

func userID(i int) string {
	return "user-" + string(rune('A'+i/26)) + string(rune('A'+i%26))
}
