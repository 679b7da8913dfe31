package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"parkspot/internal/domain"
	"parkspot/internal/repository"
)

const defaultNotificationLimit = 50

// NotificationService tells users about available parking near a point of
// interest.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	spaceService     *SpaceService
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	spaceService *SpaceService,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		spaceService:     spaceService,
	}
}

// SubscribeRequest asks for availability notifications around a location.
type SubscribeRequest struct {
	UserID   string
	Lat      float64
	Lng      float64
	RadiusKm float64
}

// NotifyAvailability creates one availability notification per open space
// within the radius and returns them, closest first.
func (s *NotificationService) NotifyAvailability(ctx context.Context, req SubscribeRequest) ([]*domain.Notification, error) {
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}

	nearby, err := s.spaceService.FindNearby(ctx, req.Lat, req.Lng, req.RadiusKm)
	if err != nil {
		return nil, err
	}

	notifications := make([]*domain.Notification, 0, len(nearby))
	for _, item := range nearby {
		notifications = append(notifications, &domain.Notification{
			ID:      uuid.New().String(),
			UserID:  req.UserID,
			SpaceID: item.Space.ID,
			Type:    domain.NotificationAvailability,
			Message: fmt.Sprintf("%s has %d spot(s) available %.1f km away at $%.2f/hour",
				item.Space.Name, item.Space.AvailableSpots, item.DistanceKm, item.Space.PricePerHour),
			DistanceKm: item.DistanceKm,
			CreatedAt:  time.Now(),
		})
	}

	if len(notifications) > 0 {
		if err := s.notificationRepo.CreateBatch(ctx, notifications); err != nil {
			return nil, err
		}
	}
	return notifications, nil
}

// NotificationList is a user's notifications plus the unread count.
type NotificationList struct {
	Notifications []*domain.Notification
	UnreadCount   int
}

// List retrieves a user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) (*NotificationList, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	notifications, err := s.notificationRepo.GetByUser(ctx, userID, unreadOnly, defaultNotificationLimit)
	if err != nil {
		return nil, err
	}

	unread, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &NotificationList{
		Notifications: notifications,
		UnreadCount:   unread,
	}, nil
}

// MarkRead marks one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	if userID == "" {
		return ErrInvalidUserID
	}
	return s.notificationRepo.MarkRead(ctx, notificationID, userID)
}

// MarkAllRead marks all of the user's notifications as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrInvalidUserID
	}
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
