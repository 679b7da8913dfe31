package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"parkspot/internal/domain"
	"parkspot/internal/service"
)

// ReferralHandler handles HTTP requests for referrals.
type ReferralHandler struct {
	referralService *service.ReferralService
}

// NewReferralHandler creates a new ReferralHandler.
func NewReferralHandler(referralService *service.ReferralService) *ReferralHandler {
	return &ReferralHandler{referralService: referralService}
}

// ValidateReferralRequest is the HTTP request body for validating a code.
type ValidateReferralRequest struct {
	ReferralCode string `json:"referral_code"`
	UserID       string `json:"user_id"`
}

// ReferredUserResponse is one redemption in a referral response.
type ReferredUserResponse struct {
	UserID         string    `json:"user_id"`
	BookingID      string    `json:"booking_id"`
	DiscountAmount float64   `json:"discount_amount"`
	ReferredAt     time.Time `json:"referred_at"`
}

// ReferralResponse is the HTTP representation of a referral.
type ReferralResponse struct {
	ID             string                 `json:"id"`
	ReferrerID     string                 `json:"referrer_id"`
	ReferralCode   string                 `json:"referral_code"`
	TotalRewards   float64                `json:"total_rewards"`
	TotalReferrals int                    `json:"total_referrals"`
	IsActive       bool                   `json:"is_active"`
	ReferredUsers  []ReferredUserResponse `json:"referred_users"`
}

func toReferralResponse(r *domain.Referral) ReferralResponse {
	resp := ReferralResponse{
		ID:             r.ID,
		ReferrerID:     r.ReferrerID,
		ReferralCode:   r.ReferralCode,
		TotalRewards:   r.TotalRewards,
		TotalReferrals: r.TotalReferrals,
		IsActive:       r.IsActive,
		ReferredUsers:  make([]ReferredUserResponse, 0, len(r.ReferredUsers)),
	}
	for _, ru := range r.ReferredUsers {
		resp.ReferredUsers = append(resp.ReferredUsers, ReferredUserResponse{
			UserID:         ru.UserID,
			BookingID:      ru.BookingID,
			DiscountAmount: ru.DiscountAmount,
			ReferredAt:     ru.ReferredAt,
		})
	}
	return resp
}

// GetCode handles POST /v1/users/:id/referral-code
func (h *ReferralHandler) GetCode(c *gin.Context) {
	referral, err := h.referralService.IssueOrGet(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toReferralResponse(referral))
}

// Validate handles POST /v1/referrals/validate
func (h *ReferralHandler) Validate(c *gin.Context) {
	var req ValidateReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	referral, err := h.referralService.Validate(c.Request.Context(), req.ReferralCode, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"valid":               true,
		"referral_code":       referral.ReferralCode,
		"referrer_id":         referral.ReferrerID,
		"discount_percentage": 5,
	})
}

// GetStats handles GET /v1/users/:id/referral-stats
func (h *ReferralHandler) GetStats(c *gin.Context) {
	stats, err := h.referralService.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	referredUsers := make([]ReferredUserResponse, 0, len(stats.ReferredUsers))
	for _, ru := range stats.ReferredUsers {
		referredUsers = append(referredUsers, ReferredUserResponse{
			UserID:         ru.UserID,
			BookingID:      ru.BookingID,
			DiscountAmount: ru.DiscountAmount,
			ReferredAt:     ru.ReferredAt,
		})
	}

	respondJSON(c, http.StatusOK, gin.H{
		"referral_code":   stats.ReferralCode,
		"is_active":       stats.IsActive,
		"total_referrals": stats.TotalReferrals,
		"total_rewards":   stats.TotalRewards,
		"total_savings":   stats.TotalSavings,
		"referred_users":  referredUsers,
	})
}

// Leaderboard handles GET /v1/referrals/leaderboard
func (h *ReferralHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := h.referralService.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	type entryResponse struct {
		Rank           int     `json:"rank"`
		ReferrerID     string  `json:"referrer_id"`
		ReferrerName   string  `json:"referrer_name,omitempty"`
		ReferralCode   string  `json:"referral_code"`
		TotalReferrals int     `json:"total_referrals"`
		TotalRewards   float64 `json:"total_rewards"`
	}

	responses := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, entryResponse{
			Rank:           e.Rank,
			ReferrerID:     e.ReferrerID,
			ReferrerName:   e.ReferrerName,
			ReferralCode:   e.ReferralCode,
			TotalReferrals: e.TotalReferrals,
			TotalRewards:   e.TotalRewards,
		})
	}
	respondJSON(c, http.StatusOK, gin.H{"leaderboard": responses})
}

// Summary handles GET /v1/admin/referrals
func (h *ReferralHandler) Summary(c *gin.Context) {
	summary, err := h.referralService.Summary(c.Request.Context(), c.Query("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	referrals := make([]ReferralResponse, 0, len(summary.Referrals))
	for _, r := range summary.Referrals {
		referrals = append(referrals, toReferralResponse(r))
	}

	respondJSON(c, http.StatusOK, gin.H{
		"total_codes":       summary.TotalCodes,
		"active_codes":      summary.ActiveCodes,
		"total_redemptions": summary.TotalRedemptions,
		"total_rewards":     summary.TotalRewards,
		"referrals":         referrals,
	})
}
