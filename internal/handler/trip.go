package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"cupo/internal/domain"
	"cupo/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// PublishTripRequest is the HTTP request body for publishing a trip.
type PublishTripRequest struct {
	DriverID     string          `json:"driver_id"`
	Origin       string          `json:"origin"`
	Destination  string          `json:"destination"`
	DateTime     time.Time       `json:"date_time"`
	Seats        int             `json:"seats"`
	PricePerSeat decimal.Decimal `json:"price_per_seat"`
}

// TripResponse is the HTTP response for trip operations.
type TripResponse struct {
	ID            string              `json:"id"`
	DriverID      string              `json:"driver_id"`
	Origin        string              `json:"origin"`
	Destination   string              `json:"destination"`
	Seats         int                 `json:"seats"`
	SeatsReserved int                 `json:"seats_reserved"`
	PricePerSeat  decimal.Decimal     `json:"price_per_seat"`
	FrozenAmount  decimal.Decimal     `json:"frozen_amount"`
	FeePercentage decimal.NullDecimal `json:"fee_percentage"`
	Status        string              `json:"status"`
	DateTime      string              `json:"date_time"`
	Priority      *PriorityInfo       `json:"priority,omitempty"`
}

// PriorityInfo contains the display priority of a trip.
type PriorityInfo struct {
	Level            int    `json:"level"`
	Label            string `json:"label"`
	HasNotifications bool   `json:"has_notifications"`
}

// PublishTripResponse is the HTTP response for publishing a trip.
type PublishTripResponse struct {
	Trip      TripResponse      `json:"trip"`
	Guarantee GuaranteeResponse `json:"guarantee"`
}

// TransitionResponse is the HTTP response for a lifecycle transition.
type TransitionResponse struct {
	Trip       TripResponse       `json:"trip"`
	Settlement SettlementResponse `json:"settlement"`
}

// SettlementResponse contains the wallet effect of a transition.
type SettlementResponse struct {
	Transition         string          `json:"transition"`
	SeatsSold          int             `json:"seats_sold"`
	SeatsUnsold        int             `json:"seats_unsold"`
	CommissionPerSeat  decimal.Decimal `json:"commission_per_seat"`
	Charged            decimal.Decimal `json:"charged"`
	Refunded           decimal.Decimal `json:"refunded"`
	TotalFrozen        decimal.Decimal `json:"total_frozen"`
	BalanceDelta       decimal.Decimal `json:"balance_delta"`
	FrozenBalanceDelta decimal.Decimal `json:"frozen_balance_delta"`
}

// PublishTrip handles POST /v1/trips
func (h *TripHandler) PublishTrip(c *gin.Context) {
	var req PublishTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.tripService.PublishTrip(c.Request.Context(), service.PublishTripRequest{
		DriverID:     req.DriverID,
		Origin:       req.Origin,
		Destination:  req.Destination,
		DateTime:     req.DateTime,
		Seats:        req.Seats,
		PricePerSeat: req.PricePerSeat,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, PublishTripResponse{
		Trip:      toTripResponse(result.Trip, false),
		Guarantee: toGuaranteeResponse(result.Guarantee),
	})
}

// GetTrip handles GET /v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip, true))
}

// ListDriverTrips handles GET /v1/drivers/:id/trips
func (h *TripHandler) ListDriverTrips(c *gin.Context) {
	trips, err := h.tripService.ListDriverTrips(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TripResponse, 0, len(trips))
	for _, trip := range trips {
		response = append(response, toTripResponse(trip, true))
	}

	respondJSON(c, http.StatusOK, response)
}

// StartTrip handles POST /v1/trips/:id/start
func (h *TripHandler) StartTrip(c *gin.Context) {
	result, err := h.tripService.StartTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTransitionResponse(result))
}

// CancelTrip handles POST /v1/trips/:id/cancel
func (h *TripHandler) CancelTrip(c *gin.Context) {
	result, err := h.tripService.CancelTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTransitionResponse(result))
}

// FinishTrip handles POST /v1/trips/:id/finish
func (h *TripHandler) FinishTrip(c *gin.Context) {
	result, err := h.tripService.FinishTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTransitionResponse(result))
}

func toTripResponse(trip *domain.Trip, withPriority bool) TripResponse {
	tr := TripResponse{
		ID:            trip.ID,
		DriverID:      trip.DriverID,
		Origin:        trip.Origin,
		Destination:   trip.Destination,
		Seats:         trip.Seats,
		SeatsReserved: trip.SeatsReserved,
		PricePerSeat:  trip.PricePerSeat,
		FrozenAmount:  trip.FrozenAmount,
		FeePercentage: trip.FeePercentage,
		Status:        string(trip.Status),
		DateTime:      formatTime(trip.DateTime),
	}

	if withPriority {
		p := service.TripPriority(trip)
		tr.Priority = &PriorityInfo{
			Level:            p.Level,
			Label:            p.Label,
			HasNotifications: p.HasNotifications,
		}
	}

	return tr
}

func toTransitionResponse(result *service.TransitionResult) TransitionResponse {
	s := result.Settlement
	return TransitionResponse{
		Trip: toTripResponse(result.Trip, false),
		Settlement: SettlementResponse{
			Transition:         string(s.Transition),
			SeatsSold:          s.SeatsSold,
			SeatsUnsold:        s.SeatsUnsold,
			CommissionPerSeat:  s.CommissionPerSeat,
			Charged:            s.Charged,
			Refunded:           s.Refunded,
			TotalFrozen:        s.TotalFrozen,
			BalanceDelta:       s.BalanceDelta,
			FrozenBalanceDelta: s.FrozenBalanceDelta,
		},
	}
}
