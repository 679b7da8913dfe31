package domain

import "time"

// NotificationType represents the kind of notification.
type NotificationType string

const (
	NotificationAvailability    NotificationType = "AVAILABILITY"
	NotificationBookingReminder NotificationType = "BOOKING_REMINDER"
	NotificationPaymentReminder NotificationType = "PAYMENT_REMINDER"
)

// Notification is a persisted message for a user about a parking space.
type Notification struct {
	ID         string
	UserID     string
	SpaceID    string
	Type       NotificationType
	Message    string
	DistanceKm float64 // distance from the subscriber at creation time
	IsRead     bool
	CreatedAt  time.Time
}
