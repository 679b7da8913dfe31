package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"parkspot/internal/repository"
	"parkspot/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrReferralNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidSpaceID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidPaymentID),
		errors.Is(err, service.ErrMissingVehicleNumber),
		errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrPastStartTime),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidCapacity),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidRefundAmount):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrNoCapacity),
		errors.Is(err, service.ErrSlotConflict),
		errors.Is(err, service.ErrSpaceBusy),
		errors.Is(err, service.ErrBookingNotModifiable),
		errors.Is(err, service.ErrBookingCompleted),
		errors.Is(err, service.ErrBookingAlreadyCancelled),
		errors.Is(err, service.ErrBookingNotCancelled),
		errors.Is(err, service.ErrBookingCancelled),
		errors.Is(err, service.ErrAlreadyPaid),
		errors.Is(err, service.ErrPaymentNotRefundable),
		errors.Is(err, service.ErrReferralAlreadyUsed),
		errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrNotEligibleForReferral),
		errors.Is(err, service.ErrSelfReferral),
		errors.Is(err, service.ErrAdminRequired),
		errors.Is(err, service.ErrNotSpaceOwner):
		return http.StatusForbidden

	// Gateway failures
	case errors.Is(err, service.ErrPaymentDeclined),
		errors.Is(err, service.ErrRefundFailed):
		return http.StatusPaymentRequired

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
