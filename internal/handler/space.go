package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"parkspot/internal/domain"
	"parkspot/internal/service"
)

// SpaceHandler handles HTTP requests for parking spaces.
type SpaceHandler struct {
	spaceService *service.SpaceService
}

// NewSpaceHandler creates a new SpaceHandler.
func NewSpaceHandler(spaceService *service.SpaceService) *SpaceHandler {
	return &SpaceHandler{spaceService: spaceService}
}

// CreateSpaceRequest is the HTTP request body for listing a space.
type CreateSpaceRequest struct {
	OwnerID      string  `json:"owner_id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Capacity     int     `json:"capacity"`
	PricePerHour float64 `json:"price_per_hour"`
}

// UpdateSpaceRequest is the HTTP request body for updating a space.
type UpdateSpaceRequest struct {
	Name         *string  `json:"name,omitempty"`
	Address      *string  `json:"address,omitempty"`
	PricePerHour *float64 `json:"price_per_hour,omitempty"`
}

// AvailabilityRequest is the HTTP request body for an availability update.
type AvailabilityRequest struct {
	AvailableSpots *int     `json:"available_spots,omitempty"`
	Lat            *float64 `json:"lat,omitempty"`
	Lng            *float64 `json:"lng,omitempty"`
}

// BulkAvailabilityRequest is the HTTP request body for a bulk update.
type BulkAvailabilityRequest struct {
	OwnerID string `json:"owner_id"`
	Updates []struct {
		SpaceID string `json:"space_id"`
		AvailabilityRequest
	} `json:"updates"`
}

// SpaceResponse is the HTTP representation of a parking space.
type SpaceResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	Lat            float64   `json:"lat"`
	Lng            float64   `json:"lng"`
	Capacity       int       `json:"capacity"`
	AvailableSpots int       `json:"available_spots"`
	PricePerHour   float64   `json:"price_per_hour"`
	IsAvailable    bool      `json:"is_available"`
	OwnerID        string    `json:"owner_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// NearbySpaceResponse is a space with its distance from the search point.
type NearbySpaceResponse struct {
	SpaceResponse
	DistanceKm float64 `json:"distance_km"`
}

func toSpaceResponse(s *domain.ParkingSpace) SpaceResponse {
	return SpaceResponse{
		ID:             s.ID,
		Name:           s.Name,
		Address:        s.Address,
		Lat:            s.Lat,
		Lng:            s.Lng,
		Capacity:       s.Capacity,
		AvailableSpots: s.AvailableSpots,
		PricePerHour:   s.PricePerHour,
		IsAvailable:    s.IsAvailable,
		OwnerID:        s.OwnerID,
		CreatedAt:      s.CreatedAt,
	}
}

// CreateSpace handles POST /v1/spaces
func (h *SpaceHandler) CreateSpace(c *gin.Context) {
	var req CreateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	space, err := h.spaceService.CreateSpace(c.Request.Context(), service.CreateSpaceRequest{
		OwnerID:      req.OwnerID,
		Name:         req.Name,
		Address:      req.Address,
		Lat:          req.Lat,
		Lng:          req.Lng,
		Capacity:     req.Capacity,
		PricePerHour: req.PricePerHour,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toSpaceResponse(space))
}

// GetSpace handles GET /v1/spaces/:id
func (h *SpaceHandler) GetSpace(c *gin.Context) {
	space, err := h.spaceService.GetSpace(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toSpaceResponse(space))
}

// ListSpaces handles GET /v1/spaces
func (h *SpaceHandler) ListSpaces(c *gin.Context) {
	var (
		spaces []*domain.ParkingSpace
		err    error
	)
	if c.Query("available") == "true" {
		spaces, err = h.spaceService.ListAvailable(c.Request.Context())
	} else {
		spaces, err = h.spaceService.ListSpaces(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]SpaceResponse, 0, len(spaces))
	for _, s := range spaces {
		responses = append(responses, toSpaceResponse(s))
	}
	respondJSON(c, http.StatusOK, gin.H{"spaces": responses, "count": len(responses)})
}

// FindNearby handles GET /v1/spaces/nearby
func (h *SpaceHandler) FindNearby(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid lat"})
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid lng"})
		return
	}
	radiusKm, _ := strconv.ParseFloat(c.DefaultQuery("radius_km", "5"), 64)

	results, err := h.spaceService.FindNearby(c.Request.Context(), lat, lng, radiusKm)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]NearbySpaceResponse, 0, len(results))
	for _, r := range results {
		responses = append(responses, NearbySpaceResponse{
			SpaceResponse: toSpaceResponse(r.Space),
			DistanceKm:    r.DistanceKm,
		})
	}
	respondJSON(c, http.StatusOK, gin.H{"spaces": responses, "count": len(responses)})
}

// UpdateSpace handles PUT /v1/spaces/:id
func (h *SpaceHandler) UpdateSpace(c *gin.Context) {
	var req UpdateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	space, err := h.spaceService.UpdateSpace(c.Request.Context(), service.UpdateSpaceRequest{
		SpaceID:      c.Param("id"),
		OwnerID:      c.Query("owner_id"),
		Name:         req.Name,
		Address:      req.Address,
		PricePerHour: req.PricePerHour,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toSpaceResponse(space))
}

// UpdateAvailability handles PUT /v1/spaces/:id/availability
func (h *SpaceHandler) UpdateAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	space, err := h.spaceService.UpdateAvailability(c.Request.Context(), service.AvailabilityUpdateRequest{
		SpaceID:        c.Param("id"),
		OwnerID:        c.Query("owner_id"),
		AvailableSpots: req.AvailableSpots,
		Lat:            req.Lat,
		Lng:            req.Lng,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toSpaceResponse(space))
}

// BulkUpdateAvailability handles PUT /v1/spaces/availability
func (h *SpaceHandler) BulkUpdateAvailability(c *gin.Context) {
	var req BulkAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	updates := make([]service.AvailabilityUpdateRequest, 0, len(req.Updates))
	for _, u := range req.Updates {
		updates = append(updates, service.AvailabilityUpdateRequest{
			SpaceID:        u.SpaceID,
			OwnerID:        req.OwnerID,
			AvailableSpots: u.AvailableSpots,
			Lat:            u.Lat,
			Lng:            u.Lng,
		})
	}

	results := h.spaceService.BulkUpdateAvailability(c.Request.Context(), updates)

	type bulkItem struct {
		SpaceID string         `json:"space_id"`
		Space   *SpaceResponse `json:"space,omitempty"`
		Error   string         `json:"error,omitempty"`
	}

	items := make([]bulkItem, 0, len(results))
	updated := 0
	for _, r := range results {
		item := bulkItem{SpaceID: r.SpaceID}
		if r.Err != nil {
			item.Error = r.Err.Error()
		} else {
			resp := toSpaceResponse(r.Space)
			item.Space = &resp
			updated++
		}
		items = append(items, item)
	}
	respondJSON(c, http.StatusOK, gin.H{"results": items, "updated": updated})
}
