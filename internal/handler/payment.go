package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"parkspot/internal/domain"
	"parkspot/internal/service"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// ProcessPaymentRequest is the HTTP request body for paying a booking.
type ProcessPaymentRequest struct {
	BookingID string `json:"booking_id"`
	UserID    string `json:"user_id"`
	Method    string `json:"method"`
}

// RefundPaymentRequest is the HTTP request body for refunding a payment.
type RefundPaymentRequest struct {
	UserID string  `json:"user_id"`
	Amount float64 `json:"amount,omitempty"`
	Reason string  `json:"reason,omitempty"`
}

// PaymentResponse is the HTTP representation of a payment.
type PaymentResponse struct {
	ID            string    `json:"id"`
	BookingID     string    `json:"booking_id"`
	UserID        string    `json:"user_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	TransactionID string    `json:"transaction_id,omitempty"`
	GatewayDetail string    `json:"gateway_detail,omitempty"`
	RefundID      string    `json:"refund_id,omitempty"`
	RefundAmount  float64   `json:"refund_amount,omitempty"`
	RefundReason  string    `json:"refund_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		BookingID:     p.BookingID,
		UserID:        p.UserID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Method:        string(p.Method),
		Status:        string(p.Status),
		TransactionID: p.TransactionID,
		GatewayDetail: p.GatewayDetail,
		RefundID:      p.RefundID,
		RefundAmount:  p.RefundAmount,
		RefundReason:  p.RefundReason,
		CreatedAt:     p.CreatedAt,
	}
}

// ProcessPayment handles POST /v1/payments
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	var req ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	payment, err := h.paymentService.ProcessPayment(c.Request.Context(), service.ProcessPaymentRequest{
		BookingID: req.BookingID,
		UserID:    req.UserID,
		Method:    domain.PaymentMethod(req.Method),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	// A declined charge is a recorded outcome, not a transport error.
	if payment.Status == domain.PaymentStatusFailed {
		c.JSON(http.StatusPaymentRequired, gin.H{
			"payment": toPaymentResponse(payment),
			"error":   "payment declined",
			"detail":  payment.GatewayDetail,
		})
		return
	}

	respondJSON(c, http.StatusCreated, toPaymentResponse(payment))
}

// RefundPayment handles POST /v1/payments/:id/refund
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	var req RefundPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	payment, err := h.paymentService.Refund(c.Request.Context(), service.RefundRequest{
		PaymentID: c.Param("id"),
		UserID:    req.UserID,
		Amount:    req.Amount,
		Reason:    req.Reason,
	})
	if err != nil {
		if errors.Is(err, service.ErrRefundFailed) && payment != nil {
			c.JSON(http.StatusPaymentRequired, gin.H{
				"payment": toPaymentResponse(payment),
				"error":   err.Error(),
				"detail":  payment.GatewayDetail,
			})
			return
		}
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponse(payment))
}

// GetPayment handles GET /v1/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	payment, err := h.paymentService.GetPayment(c.Request.Context(), c.Param("id"), c.Query("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponse(payment))
}

// GetBookingPayments handles GET /v1/bookings/:id/payments
func (h *PaymentHandler) GetBookingPayments(c *gin.Context) {
	payments, err := h.paymentService.GetBookingPayments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, toPaymentResponse(p))
	}
	respondJSON(c, http.StatusOK, gin.H{"payments": responses, "count": len(responses)})
}

// GetUserPayments handles GET /v1/users/:id/payments
func (h *PaymentHandler) GetUserPayments(c *gin.Context) {
	payments, err := h.paymentService.GetUserPayments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, toPaymentResponse(p))
	}
	respondJSON(c, http.StatusOK, gin.H{"payments": responses, "count": len(responses)})
}
