package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// IsTerminal reports whether the status admits no further transitions.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// BookingPaymentStatus represents the payment state of a booking.
type BookingPaymentStatus string

const (
	BookingPaymentPending  BookingPaymentStatus = "PENDING"
	BookingPaymentPaid     BookingPaymentStatus = "PAID"
	BookingPaymentFailed   BookingPaymentStatus = "FAILED"
	BookingPaymentRefunded BookingPaymentStatus = "REFUNDED"
)

// SurchargeInfo is the peak-hour surcharge snapshot taken at pricing time.
type SurchargeInfo struct {
	IsPeakHour          bool
	SurchargeAmount     float64
	SurchargePercentage float64
}

// ReferralInfo is the referral snapshot embedded in a booking when a valid
// code was supplied at creation. It is immutable after creation; later
// changes to the live referral never alter past bookings.
type ReferralInfo struct {
	ReferralCode   string
	ReferrerID     string
	DiscountAmount float64
}

// Booking represents a time-bounded reservation of one spot at a space.
type Booking struct {
	ID              string
	UserID          string
	SpaceID         string
	StartTime       time.Time
	EndTime         time.Time
	DurationHours   int
	TotalAmount     float64
	Status          BookingStatus
	PaymentStatus   BookingPaymentStatus
	VehicleNumber   string
	Notes           string
	Surcharge       SurchargeInfo
	Referral        *ReferralInfo // nil when no referral code was applied
	ReferralApplied bool          // reward granted by the expiration sweep
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
