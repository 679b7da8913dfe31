package repository

import (
	"context"

	"parkspot/internal/domain"
)

// NotificationRepository defines the persistence operations for notifications.
type NotificationRepository interface {
	// CreateBatch persists a batch of notifications.
	CreateBatch(ctx context.Context, notifications []*domain.Notification) error

	// GetByUser retrieves a user's notifications, newest first, limited.
	GetByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*domain.Notification, error)

	// CountUnread returns the user's unread notification count.
	CountUnread(ctx context.Context, userID string) (int, error)

	// MarkRead marks one of the user's notifications as read.
	MarkRead(ctx context.Context, id, userID string) error

	// MarkAllRead marks all of the user's notifications as read.
	MarkAllRead(ctx context.Context, userID string) error
}
