package tests

import (
	"context"
	"strings"
	"testing"

	"parkspot/internal/domain"
	"parkspot/internal/service"
)

// ──────────────────────────────────────────────
// 8. AVAILABILITY NOTIFICATIONS
// ──────────────────────────────────────────────

func newNotificationFixture() (*service.NotificationService, *MockNotificationRepository, *MockSpaceRepository) {
	notificationRepo := NewMockNotificationRepository()
	spaceRepo := NewMockSpaceRepository()
	ledger := service.NewLedgerService(spaceRepo, nil, nil)
	spaceService := service.NewSpaceService(spaceRepo, ledger, nil, nil)
	notificationService := service.NewNotificationService(notificationRepo, spaceService)
	return notificationService, notificationRepo, spaceRepo
}

func TestNotifyAvailability_OnePerNearbySpace(t *testing.T) {
	t.Parallel()

	notificationService, notificationRepo, spaceRepo := newNotificationFixture()
	spaceRepo.AddSpace(&domain.ParkingSpace{
		ID: "near", Name: "Mission Garage", Lat: sfLat + 0.009, Lng: sfLng,
		Capacity: 2, AvailableSpots: 2, PricePerHour: 3.5, IsAvailable: true,
	})
	spaceRepo.AddSpace(&domain.ParkingSpace{
		ID: "far", Name: "LA Lot", Lat: 34.0522, Lng: -118.2437,
		Capacity: 2, AvailableSpots: 2, IsAvailable: true,
	})

	notifications, err := notificationService.NotifyAvailability(context.Background(), service.SubscribeRequest{
		UserID:   "user-1",
		Lat:      sfLat,
		Lng:      sfLng,
		RadiusKm: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifications))
	}
	n := notifications[0]
	if n.SpaceID != "near" {
		t.Errorf("expected the nearby space, got %s", n.SpaceID)
	}
	if n.Type != domain.NotificationAvailability {
		t.Errorf("expected availability type, got %s", n.Type)
	}
	if !strings.Contains(n.Message, "Mission Garage") || !strings.Contains(n.Message, "$3.50/hour") {
		t.Errorf("unexpected message: %s", n.Message)
	}
	if notificationRepo.CountNotifications() != 1 {
		t.Errorf("expected 1 stored notification, got %d", notificationRepo.CountNotifications())
	}
}

func TestNotifyAvailability_NoNearbySpaces(t *testing.T) {
	t.Parallel()

	notificationService, notificationRepo, _ := newNotificationFixture()

	notifications, err := notificationService.NotifyAvailability(context.Background(), service.SubscribeRequest{
		UserID: "user-1",
		Lat:    sfLat,
		Lng:    sfLng,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifications) != 0 {
		t.Errorf("expected no notifications, got %d", len(notifications))
	}
	if notificationRepo.CountNotifications() != 0 {
		t.Errorf("nothing should be stored, got %d", notificationRepo.CountNotifications())
	}
}

func TestNotifications_ListAndMarkRead(t *testing.T) {
	t.Parallel()

	notificationService, notificationRepo, _ := newNotificationFixture()
	seed := []*domain.Notification{
		{ID: "n1", UserID: "user-1", Type: domain.NotificationAvailability, Message: "a"},
		{ID: "n2", UserID: "user-1", Type: domain.NotificationAvailability, Message: "b"},
		{ID: "n3", UserID: "user-2", Type: domain.NotificationAvailability, Message: "c"},
	}
	if err := notificationRepo.CreateBatch(context.Background(), seed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, err := notificationService.List(context.Background(), "user-1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Notifications) != 2 || list.UnreadCount != 2 {
		t.Errorf("expected 2 unread for user-1, got %d/%d", len(list.Notifications), list.UnreadCount)
	}

	if err := notificationService.MarkRead(context.Background(), "n1", "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	unread, err := notificationService.List(context.Background(), "user-1", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(unread.Notifications) != 1 || unread.UnreadCount != 1 {
		t.Errorf("expected 1 unread left, got %d/%d", len(unread.Notifications), unread.UnreadCount)
	}

	if err := notificationService.MarkAllRead(context.Background(), "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	final, err := notificationService.List(context.Background(), "user-1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if final.UnreadCount != 0 {
		t.Errorf("expected all read, got %d unread", final.UnreadCount)
	}

	// Another user's notification must not be touched.
	if err := notificationService.MarkRead(context.Background(), "n3", "user-1"); err == nil {
		t.Error("marking a foreign notification should fail")
	}
}
