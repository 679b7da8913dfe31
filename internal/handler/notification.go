package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"parkspot/internal/domain"
	"parkspot/internal/service"
)

// NotificationHandler handles HTTP requests for notifications.
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// SubscribeRequest is the HTTP request body for an availability check.
type SubscribeRequest struct {
	UserID   string  `json:"user_id"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	RadiusKm float64 `json:"radius_km,omitempty"`
}

// NotificationResponse is the HTTP representation of a notification.
type NotificationResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	SpaceID    string    `json:"space_id"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	DistanceKm float64   `json:"distance_km,omitempty"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

func toNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		UserID:     n.UserID,
		SpaceID:    n.SpaceID,
		Type:       string(n.Type),
		Message:    n.Message,
		DistanceKm: n.DistanceKm,
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt,
	}
}

// Subscribe handles POST /v1/notifications/availability
func (h *NotificationHandler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	notifications, err := h.notificationService.NotifyAvailability(c.Request.Context(), service.SubscribeRequest{
		UserID:   req.UserID,
		Lat:      req.Lat,
		Lng:      req.Lng,
		RadiusKm: req.RadiusKm,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, toNotificationResponse(n))
	}
	respondJSON(c, http.StatusCreated, gin.H{"notifications": responses, "count": len(responses)})
}

// List handles GET /v1/users/:id/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"

	list, err := h.notificationService.List(c.Request.Context(), c.Param("id"), unreadOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]NotificationResponse, 0, len(list.Notifications))
	for _, n := range list.Notifications {
		responses = append(responses, toNotificationResponse(n))
	}
	respondJSON(c, http.StatusOK, gin.H{
		"notifications": responses,
		"unread_count":  list.UnreadCount,
	})
}

// MarkRead handles PUT /v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.notificationService.MarkRead(c.Request.Context(), c.Param("id"), c.Query("user_id")); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"read": true})
}

// MarkAllRead handles PUT /v1/users/:id/notifications/read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notificationService.MarkAllRead(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"read": true})
}
