package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"parkspot/internal/domain"
	"parkspot/internal/service"
)

// ──────────────────────────────────────────────
// 2. BOOKING LIFECYCLE
// ──────────────────────────────────────────────

func createTestBooking(t *testing.T, bookingService *service.BookingService, userID string) *domain.Booking {
	t.Helper()

	start, end := offPeakRange(2)
	booking, err := bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		UserID:        userID,
		SpaceID:       "space-1",
		StartTime:     start,
		EndTime:       end,
		VehicleNumber: "ABC-123",
	})
	if err != nil {
		t.Fatalf("failed to create booking: %v", err)
	}
	return booking
}

func TestUpdateBooking_TimeChangeRecomputesPrice(t *testing.T) {
	t.Parallel()

	bookingService, _, spaceRepo, userRepo, _ := newBookingFixture()
	spaceRepo.AddSpace(testSpace("space-1", 2))
	userRepo.AddUser(&domain.User{ID: "user-1", Name: "Alice"})

	booking := createTestBooking(t, bookingService, "user-1")

	// Move into the peak window and extend to 3 hours.
	newStart := time.Date(2030, 5, 13, 9, 0, 0, 0, time.Local)
	newEnd := newStart.Add(3 * time.Hour)
	updated, err := bookingService.UpdateBooking(context.Background(), service.UpdateBookingRequest{
		BookingID: booking.ID,
		UserID:    "user-1",
		StartTime: &newStart,
		EndTime:   &newEnd,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.DurationHours != 3 {
		t.Errorf("expected 3 hours, got %d", updated.DurationHours)
	}
	if !updated.Surcharge.IsPeakHour {
		t.Error("09:00 start should be peak hour")
	}
	// base 150, surcharge round(15) = 15.
	if updated.TotalAmount != 165 {
		t.Errorf("expected total 165, got %v", updated.TotalAmount)
	}
}

func TestUpdateBooking_TerminalIsImmutable(t *testing.T) {
	t.Parallel()

	bookingService, bookingRepo, spaceRepo, userRepo, _ := newBookingFixture()
	spaceRepo.AddSpace(testSpace("space-1", 2))
	userRepo.AddUser(&domain.User{ID: "user-1", Name: "Alice"})

	booking := createTestBooking(t, bookingService, "user-1")
	if err := bookingRepo.UpdateStatus(context.Background(), booking.ID, domain.BookingStatusCompleted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	notes := "late arrival"
	_, err := bookingService.UpdateBooking(context.Background(), service.UpdateBookingRequest{
		BookingID: booking.ID,
		UserID:    "user-1",
		Notes:     &notes,
	})
	if !errors.Is(err, service.ErrBookingNotModifiable) {
		t.Errorf("expected not modifiable, got %v", err)
	}
}

func TestCancelBooking_ReleasesSpot(t *testing.T) {
	t.Parallel()

	bookingService, _, spaceRepo, userRepo, _ := newBookingFixture()
	spaceRepo.AddSpace(testSpace("space-1", 2))
	userRepo.AddUser(&domain.User{ID: "user-1", Name: "Alice"})

	booking := createTestBooking(t, bookingService, "user-1")
	if spaceRepo.GetSpace("space-1").AvailableSpots != 1 {
		t.Fatal("booking should have reserved a spot")
	}

	cancelled, err := bookingService.CancelBooking(context.Background(), booking.ID, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cancelled.Status != domain.BookingStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", cancelled.Status)
	}
	if spots := spaceRepo.GetSpace("space-1").AvailableSpots; spots != 2 {
		t.Errorf("expected spot returned, got %d", spots)
	}
}

func TestCancelBooking_TwiceFails(t *testing.T) {
	t.Parallel()

	bookingService, _, spaceRepo, userRepo, _ := newBookingFixture()
	spaceRepo.AddSpace(testSpace("space-1", 2))
	userRepo.AddUser(&domain.User{ID: "user-1", Name: "Alice"})

	booking := createTestBooking(t, bookingService, "user-1")
	if _, err := bookingService.CancelBooking(context.Background(), booking.ID, "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := bookingService.CancelBooking(context.Background(), booking.ID, "user-1")
	if !errors.Is(err, service.ErrBookingAlreadyCancelled) {
		t.Errorf("expected already cancelled, got %v", err)
	}

	// The spot must not be released twice.
	if spots := spaceRepo.GetSpace("space-1").AvailableSpots; spots != 2 {
		t.Errorf("expected 2 spots, got %d", spots)
	}
}

func TestCancelBooking_CompletedFails(t *testing.T) {
	t.Parallel()

	bookingService, bookingRepo, spaceRepo, userRepo, _ := newBookingFixture()
	spaceRepo.AddSpace(testSpace("space-1", 2))
	userRepo.AddUser(&domain.User{ID: "user-1", Name: "Alice"})

	booking := createTestBooking(t, bookingService, "user-1")
	if err := bookingRepo.UpdateStatus(context.Background(), booking.ID, domain.BookingStatusCompleted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := bookingService.CancelBooking(context.Background(), booking.ID, "user-1")
	if !errors.Is(err, service.ErrBookingCompleted) {
		t.Errorf("expected completed error, got %v", err)
	}
}

func TestDeleteBooking_OnlyCancelled(t *testing.T) {
	t.Parallel()

	bookingService, bookingRepo, spaceRepo, userRepo, _ := newBookingFixture()
	spaceRepo.AddSpace(testSpace("space-1", 2))
	userRepo.AddUser(&domain.User{ID: "user-1", Name: "Alice"})

	booking := createTestBooking(t, bookingService, "user-1")

	err := bookingService.DeleteBooking(context.Background(), booking.ID, "user-1")
	if !errors.Is(err, service.ErrBookingNotCancelled) {
		t.Errorf("expected not cancelled error, got %v", err)
	}

	if _, err := bookingService.CancelBooking(context.Background(), booking.ID, "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := bookingService.DeleteBooking(context.Background(), booking.ID, "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if bookingRepo.CountBookings() != 0 {
		t.Error("cancelled booking should be deleted")
	}
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	bookingService, _, spaceRepo, userRepo, _ := newBookingFixture()
	spaceRepo.AddSpace(testSpace("space-1", 2))
	userRepo.AddUser(&domain.User{ID: "user-1", Name: "Alice"})

	booking := createTestBooking(t, bookingService, "user-1")

	_, err := bookingService.UpdateStatus(context.Background(), booking.ID, domain.BookingStatus("PARKED"))
	if !errors.Is(err, service.ErrInvalidStatus) {
		t.Errorf("expected invalid status, got %v", err)
	}

	updated, err := bookingService.UpdateStatus(context.Background(), booking.ID, domain.BookingStatusActive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.BookingStatusActive {
		t.Errorf("expected ACTIVE, got %s", updated.Status)
	}
}

func TestGetBooking_ScopedToOwner(t *testing.T) {
	t.Parallel()

	bookingService, _, spaceRepo, userRepo, _ := newBookingFixture()
	spaceRepo.AddSpace(testSpace("space-1", 2))
	userRepo.AddUser(&domain.User{ID: "user-1", Name: "Alice"})

	booking := createTestBooking(t, bookingService, "user-1")

	if _, err := bookingService.GetBooking(context.Background(), booking.ID, "user-1"); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}

	_, err := bookingService.GetBooking(context.Background(), booking.ID, "someone-else")
	if err == nil {
		t.Error("foreign booking should not be visible")
	}
}
