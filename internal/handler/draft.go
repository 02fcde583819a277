package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"cupo/internal/domain"
	"cupo/internal/service"
)

// DraftHandler handles HTTP requests for trip drafts.
type DraftHandler struct {
	draftService *service.DraftService
}

// NewDraftHandler creates a new DraftHandler.
func NewDraftHandler(draftService *service.DraftService) *DraftHandler {
	return &DraftHandler{draftService: draftService}
}

// SaveDraftRequest is the HTTP request body for saving a draft.
type SaveDraftRequest struct {
	Origin       string          `json:"origin"`
	Destination  string          `json:"destination"`
	Distance     string          `json:"distance"`
	DateTime     *time.Time      `json:"date_time"`
	Seats        int             `json:"seats"`
	PricePerSeat decimal.Decimal `json:"price_per_seat"`
	VehicleID    string          `json:"vehicle_id"`
}

// GetDraft handles GET /v1/drafts/:userID
func (h *DraftHandler) GetDraft(c *gin.Context) {
	draft, err := h.draftService.GetDraft(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, draft)
}

// SaveDraft handles PUT /v1/drafts/:userID
func (h *DraftHandler) SaveDraft(c *gin.Context) {
	var req SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	draft, err := h.draftService.SaveDraft(c.Request.Context(), &domain.TripDraft{
		UserID:       c.Param("userID"),
		Origin:       req.Origin,
		Destination:  req.Destination,
		Distance:     req.Distance,
		DateTime:     req.DateTime,
		Seats:        req.Seats,
		PricePerSeat: req.PricePerSeat,
		VehicleID:    req.VehicleID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, draft)
}

// DeleteDraft handles DELETE /v1/drafts/:userID
func (h *DraftHandler) DeleteDraft(c *gin.Context) {
	if err := h.draftService.DeleteDraft(c.Request.Context(), c.Param("userID")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
