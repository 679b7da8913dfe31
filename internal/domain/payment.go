package domain

import "time"

// PaymentStatus represents the current status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// PaymentMethod represents the payment method for a booking.
type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentMethodPaypal     PaymentMethod = "PAYPAL"
	PaymentMethodCash       PaymentMethod = "CASH"
)

// Payment represents a payment attempt against a booking.
type Payment struct {
	ID            string
	BookingID     string
	UserID        string
	Amount        float64
	Currency      string
	Method        PaymentMethod
	Status        PaymentStatus
	TransactionID string
	GatewayDetail string // failure reason or gateway metadata
	RefundID      string
	RefundAmount  float64
	RefundReason  string
	CreatedAt     time.Time
}
