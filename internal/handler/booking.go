package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"parkspot/internal/domain"
	"parkspot/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBookingRequest is the HTTP request body for creating a booking.
type CreateBookingRequest struct {
	UserID        string    `json:"user_id"`
	SpaceID       string    `json:"space_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	VehicleNumber string    `json:"vehicle_number"`
	Notes         string    `json:"notes,omitempty"`
	ReferralCode  string    `json:"referral_code,omitempty"`
}

// UpdateBookingRequest is the HTTP request body for updating a booking.
type UpdateBookingRequest struct {
	StartTime     *time.Time `json:"start_time,omitempty"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	VehicleNumber *string    `json:"vehicle_number,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

// UpdateBookingStatusRequest is the HTTP request body for a status change.
type UpdateBookingStatusRequest struct {
	Status string `json:"status"`
}

// SurchargeResponse is the peak-hour surcharge part of a booking response.
type SurchargeResponse struct {
	IsPeakHour          bool    `json:"is_peak_hour"`
	SurchargeAmount     float64 `json:"surcharge_amount"`
	SurchargePercentage float64 `json:"surcharge_percentage"`
}

// ReferralInfoResponse is the referral part of a booking response.
type ReferralInfoResponse struct {
	ReferralCode   string  `json:"referral_code"`
	ReferrerID     string  `json:"referrer_id"`
	DiscountAmount float64 `json:"discount_amount"`
}

// BookingResponse is the HTTP representation of a booking.
type BookingResponse struct {
	ID              string                `json:"id"`
	UserID          string                `json:"user_id"`
	SpaceID         string                `json:"space_id"`
	StartTime       time.Time             `json:"start_time"`
	EndTime         time.Time             `json:"end_time"`
	DurationHours   int                   `json:"duration_hours"`
	TotalAmount     float64               `json:"total_amount"`
	Status          string                `json:"status"`
	PaymentStatus   string                `json:"payment_status"`
	VehicleNumber   string                `json:"vehicle_number"`
	Notes           string                `json:"notes,omitempty"`
	Surcharge       SurchargeResponse     `json:"surcharge"`
	Referral        *ReferralInfoResponse `json:"referral,omitempty"`
	ReferralApplied bool                  `json:"referral_applied"`
	CreatedAt       time.Time             `json:"created_at"`
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	resp := BookingResponse{
		ID:            b.ID,
		UserID:        b.UserID,
		SpaceID:       b.SpaceID,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		DurationHours: b.DurationHours,
		TotalAmount:   b.TotalAmount,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		VehicleNumber: b.VehicleNumber,
		Notes:         b.Notes,
		Surcharge: SurchargeResponse{
			IsPeakHour:          b.Surcharge.IsPeakHour,
			SurchargeAmount:     b.Surcharge.SurchargeAmount,
			SurchargePercentage: b.Surcharge.SurchargePercentage,
		},
		ReferralApplied: b.ReferralApplied,
		CreatedAt:       b.CreatedAt,
	}
	if b.Referral != nil {
		resp.Referral = &ReferralInfoResponse{
			ReferralCode:   b.Referral.ReferralCode,
			ReferrerID:     b.Referral.ReferrerID,
			DiscountAmount: b.Referral.DiscountAmount,
		}
	}
	return resp
}

// CreateBooking handles POST /v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		UserID:        req.UserID,
		SpaceID:       req.SpaceID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		VehicleNumber: req.VehicleNumber,
		Notes:         req.Notes,
		ReferralCode:  req.ReferralCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBookingResponse(booking))
}

// GetBooking handles GET /v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"), c.Query("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// GetUserBookings handles GET /v1/users/:id/bookings
func (h *BookingHandler) GetUserBookings(c *gin.Context) {
	bookings, err := h.bookingService.GetUserBookings(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		responses = append(responses, toBookingResponse(b))
	}
	respondJSON(c, http.StatusOK, gin.H{"bookings": responses, "count": len(responses)})
}

// UpdateBooking handles PUT /v1/bookings/:id
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.UpdateBooking(c.Request.Context(), service.UpdateBookingRequest{
		BookingID:     c.Param("id"),
		UserID:        c.Query("user_id"),
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		VehicleNumber: req.VehicleNumber,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// CancelBooking handles POST /v1/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	booking, err := h.bookingService.CancelBooking(c.Request.Context(), c.Param("id"), c.Query("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// DeleteBooking handles DELETE /v1/bookings/:id
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	err := h.bookingService.DeleteBooking(c.Request.Context(), c.Param("id"), c.Query("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"deleted": true})
}

// UpdateBookingStatus handles PUT /v1/bookings/:id/status
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.UpdateStatus(c.Request.Context(), c.Param("id"), domain.BookingStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}
