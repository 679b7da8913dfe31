package tests

import (
	"context"
	"errors"
	"testing"

	"parkspot/internal/domain"
	"parkspot/internal/service"
)

// ──────────────────────────────────────────────
// 4. PAYMENTS AND REFUNDS
// ──────────────────────────────────────────────

func newPaymentFixture() (*service.PaymentService, *MockGateway, *MockPaymentRepository, *MockBookingRepository, *MockSpaceRepository) {
	paymentRepo := NewMockPaymentRepository()
	bookingRepo := NewMockBookingRepository()
	spaceRepo := NewMockSpaceRepository()
	gateway := NewMockGateway()
	ledger := service.NewLedgerService(spaceRepo, nil, nil)
	paymentService := service.NewPaymentService(nil, paymentRepo, bookingRepo, gateway, ledger)
	return paymentService, gateway, paymentRepo, bookingRepo, spaceRepo
}

func payableBooking() *domain.Booking {
	return &domain.Booking{
		ID:            "booking-1",
		UserID:        "user-1",
		SpaceID:       "space-1",
		TotalAmount:   100,
		Status:        domain.BookingStatusPending,
		PaymentStatus: domain.BookingPaymentPending,
	}
}

func TestProcessPayment_ConfirmsBooking(t *testing.T) {
	t.Parallel()

	paymentService, _, _, bookingRepo, _ := newPaymentFixture()
	bookingRepo.AddBooking(payableBooking())

	payment, err := paymentService.ProcessPayment(context.Background(), service.ProcessPaymentRequest{
		BookingID: "booking-1",
		UserID:    "user-1",
		Method:    domain.PaymentMethodCreditCard,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payment.Status != domain.PaymentStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", payment.Status)
	}
	if payment.Amount != 100 {
		t.Errorf("expected amount 100, got %v", payment.Amount)
	}
	if payment.TransactionID == "" {
		t.Error("expected a transaction id")
	}

	booking := bookingRepo.GetBooking("booking-1")
	if booking.Status != domain.BookingStatusConfirmed {
		t.Errorf("expected CONFIRMED, got %s", booking.Status)
	}
	if booking.PaymentStatus != domain.BookingPaymentPaid {
		t.Errorf("expected PAID, got %s", booking.PaymentStatus)
	}
}

func TestProcessPayment_DoublePayRejected(t *testing.T) {
	t.Parallel()

	paymentService, _, _, bookingRepo, _ := newPaymentFixture()
	bookingRepo.AddBooking(payableBooking())

	if _, err := paymentService.ProcessPayment(context.Background(), service.ProcessPaymentRequest{
		BookingID: "booking-1", UserID: "user-1", Method: domain.PaymentMethodCreditCard,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := paymentService.ProcessPayment(context.Background(), service.ProcessPaymentRequest{
		BookingID: "booking-1", UserID: "user-1", Method: domain.PaymentMethodCreditCard,
	})
	if !errors.Is(err, service.ErrAlreadyPaid) {
		t.Errorf("expected already paid, got %v", err)
	}
}

func TestProcessPayment_DeclinedKeepsBookingPayable(t *testing.T) {
	t.Parallel()

	paymentService, gateway, _, bookingRepo, _ := newPaymentFixture()
	gateway.ChargeSucceeds = false
	bookingRepo.AddBooking(payableBooking())

	payment, err := paymentService.ProcessPayment(context.Background(), service.ProcessPaymentRequest{
		BookingID: "booking-1", UserID: "user-1", Method: domain.PaymentMethodCreditCard,
	})
	if err != nil {
		t.Fatalf("a declined charge is a recorded outcome, got error: %v", err)
	}

	if payment.Status != domain.PaymentStatusFailed {
		t.Errorf("expected FAILED, got %s", payment.Status)
	}
	if payment.GatewayDetail == "" {
		t.Error("expected a gateway detail")
	}

	booking := bookingRepo.GetBooking("booking-1")
	if booking.Status != domain.BookingStatusPending {
		t.Errorf("booking must stay PENDING, got %s", booking.Status)
	}
	if booking.PaymentStatus != domain.BookingPaymentFailed {
		t.Errorf("expected FAILED, got %s", booking.PaymentStatus)
	}

	// Retry succeeds.
	gateway.ChargeSucceeds = true
	retry, err := paymentService.ProcessPayment(context.Background(), service.ProcessPaymentRequest{
		BookingID: "booking-1", UserID: "user-1", Method: domain.PaymentMethodCreditCard,
	})
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if retry.Status != domain.PaymentStatusCompleted {
		t.Errorf("expected retry COMPLETED, got %s", retry.Status)
	}
}

func TestProcessPayment_Guards(t *testing.T) {
	t.Parallel()

	paymentService, _, _, bookingRepo, _ := newPaymentFixture()
	cancelled := payableBooking()
	cancelled.Status = domain.BookingStatusCancelled
	bookingRepo.AddBooking(cancelled)

	_, err := paymentService.ProcessPayment(context.Background(), service.ProcessPaymentRequest{
		BookingID: "booking-1", UserID: "user-1", Method: domain.PaymentMethodCreditCard,
	})
	if !errors.Is(err, service.ErrBookingCancelled) {
		t.Errorf("expected cancelled guard, got %v", err)
	}

	_, err = paymentService.ProcessPayment(context.Background(), service.ProcessPaymentRequest{
		BookingID: "booking-1", UserID: "user-1", Method: domain.PaymentMethod("BARTER"),
	})
	if !errors.Is(err, service.ErrInvalidPaymentMethod) {
		t.Errorf("expected invalid method, got %v", err)
	}

	_, err = paymentService.ProcessPayment(context.Background(), service.ProcessPaymentRequest{
		BookingID: "booking-1", UserID: "intruder", Method: domain.PaymentMethodCreditCard,
	})
	if err == nil {
		t.Error("foreign booking must not be payable")
	}
}

func TestRefund_CancelsBookingAndReleasesSpot(t *testing.T) {
	t.Parallel()

	paymentService, _, paymentRepo, bookingRepo, spaceRepo := newPaymentFixture()
	spaceRepo.AddSpace(&domain.ParkingSpace{ID: "space-1", Capacity: 3, AvailableSpots: 2})

	booking := payableBooking()
	booking.Status = domain.BookingStatusConfirmed
	booking.PaymentStatus = domain.BookingPaymentPaid
	bookingRepo.AddBooking(booking)
	paymentRepo.AddPayment(&domain.Payment{
		ID:            "payment-1",
		BookingID:     "booking-1",
		UserID:        "user-1",
		Amount:        100,
		Status:        domain.PaymentStatusCompleted,
		TransactionID: "TXN_TEST",
	})

	refunded, err := paymentService.Refund(context.Background(), service.RefundRequest{
		PaymentID: "payment-1",
		UserID:    "user-1",
		Reason:    "plans changed",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if refunded.Status != domain.PaymentStatusRefunded {
		t.Errorf("expected REFUNDED, got %s", refunded.Status)
	}
	if refunded.RefundAmount != 100 {
		t.Errorf("expected full refund, got %v", refunded.RefundAmount)
	}
	if refunded.RefundID == "" {
		t.Error("expected a refund id")
	}

	updated := bookingRepo.GetBooking("booking-1")
	if updated.Status != domain.BookingStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", updated.Status)
	}
	if updated.PaymentStatus != domain.BookingPaymentRefunded {
		t.Errorf("expected REFUNDED, got %s", updated.PaymentStatus)
	}
	if spots := spaceRepo.GetSpace("space-1").AvailableSpots; spots != 3 {
		t.Errorf("expected spot released, got %d", spots)
	}
}

func TestRefund_Guards(t *testing.T) {
	t.Parallel()

	paymentService, _, paymentRepo, bookingRepo, _ := newPaymentFixture()
	bookingRepo.AddBooking(payableBooking())
	paymentRepo.AddPayment(&domain.Payment{
		ID: "pending-payment", BookingID: "booking-1", UserID: "user-1",
		Amount: 100, Status: domain.PaymentStatusPending,
	})
	paymentRepo.AddPayment(&domain.Payment{
		ID: "completed-payment", BookingID: "booking-1", UserID: "user-1",
		Amount: 100, Status: domain.PaymentStatusCompleted, TransactionID: "TXN_TEST",
	})

	_, err := paymentService.Refund(context.Background(), service.RefundRequest{
		PaymentID: "pending-payment", UserID: "user-1",
	})
	if !errors.Is(err, service.ErrPaymentNotRefundable) {
		t.Errorf("expected not refundable, got %v", err)
	}

	_, err = paymentService.Refund(context.Background(), service.RefundRequest{
		PaymentID: "completed-payment", UserID: "user-1", Amount: 150,
	})
	if !errors.Is(err, service.ErrInvalidRefundAmount) {
		t.Errorf("expected invalid amount, got %v", err)
	}
}

func TestRefund_GatewayRejectionLeavesPaymentIntact(t *testing.T) {
	t.Parallel()

	paymentService, gateway, paymentRepo, bookingRepo, spaceRepo := newPaymentFixture()
	gateway.RefundSucceeds = false
	spaceRepo.AddSpace(&domain.ParkingSpace{ID: "space-1", Capacity: 3, AvailableSpots: 2})

	booking := payableBooking()
	booking.PaymentStatus = domain.BookingPaymentPaid
	bookingRepo.AddBooking(booking)
	paymentRepo.AddPayment(&domain.Payment{
		ID: "payment-1", BookingID: "booking-1", UserID: "user-1",
		Amount: 100, Status: domain.PaymentStatusCompleted, TransactionID: "TXN_TEST",
	})

	_, err := paymentService.Refund(context.Background(), service.RefundRequest{
		PaymentID: "payment-1", UserID: "user-1",
	})
	if !errors.Is(err, service.ErrRefundFailed) {
		t.Errorf("expected refund failed, got %v", err)
	}

	if paymentRepo.GetPayment("payment-1").Status != domain.PaymentStatusCompleted {
		t.Error("payment must stay COMPLETED after a rejected refund")
	}
	if spots := spaceRepo.GetSpace("space-1").AvailableSpots; spots != 2 {
		t.Errorf("spot must not be released, got %d", spots)
	}
}
