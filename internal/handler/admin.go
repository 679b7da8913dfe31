package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parkspot/internal/service"
)

// AdminHandler handles HTTP requests for operational tasks.
type AdminHandler struct {
	sweeperService *service.SweeperService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(sweeperService *service.SweeperService) *AdminHandler {
	return &AdminHandler{sweeperService: sweeperService}
}

// Sweep handles POST /v1/admin/sweep
//
// Runs an expiration sweep on demand, in addition to the scheduled one.
// The sweep is idempotent so overlapping runs are harmless.
func (h *AdminHandler) Sweep(c *gin.Context) {
	result, err := h.sweeperService.Sweep(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"expired":         result.Expired,
		"completed":       result.Completed,
		"rewards_applied": result.RewardsApplied,
	})
}
