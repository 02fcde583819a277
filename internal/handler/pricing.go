package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"cupo/internal/service"
)

// PricingHandler handles HTTP requests for price suggestions and guarantees.
type PricingHandler struct {
	assumptions *service.AssumptionsService
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(assumptions *service.AssumptionsService) *PricingHandler {
	return &PricingHandler{assumptions: assumptions}
}

// CurrentPricingResponse is the HTTP response for the rate card.
type CurrentPricingResponse struct {
	UrbanPricePerKm          decimal.Decimal `json:"urban_price_per_km"`
	InterurbanPricePerKm     decimal.Decimal `json:"interurban_price_per_km"`
	FeePercentage            decimal.Decimal `json:"fee_percentage"`
	FixedRate                decimal.Decimal `json:"fixed_rate"`
	PriceLimitPercentage     decimal.Decimal `json:"price_limit_percentage"`
	AlertThresholdPercentage decimal.Decimal `json:"alert_threshold_percentage"`
	UrbanDistanceThresholdKm decimal.Decimal `json:"urban_distance_threshold_km"`
	MinPricePerSeat          decimal.Decimal `json:"min_price_per_seat"`
	MaxSeats                 int             `json:"max_seats"`
}

// QuoteRequest is the HTTP request body for a price quote.
// Distance accepts route labels such as "12.5 km"; DistanceKm takes precedence when set.
type QuoteRequest struct {
	Distance   string           `json:"distance"`
	DistanceKm *decimal.Decimal `json:"distance_km"`
}

// QuoteResponse is the HTTP response for a price quote.
type QuoteResponse struct {
	DistanceKm            decimal.Decimal `json:"distance_km"`
	IsUrban               bool            `json:"is_urban"`
	PricePerKm            decimal.Decimal `json:"price_per_km"`
	TotalTripPrice        decimal.Decimal `json:"total_trip_price"`
	SuggestedPricePerSeat decimal.Decimal `json:"suggested_price_per_seat"`
	PriceRange            PriceRangeInfo  `json:"price_range"`
}

// PriceRangeInfo contains the allowed band around a suggested price.
type PriceRangeInfo struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// FeeRequest is the HTTP request body for a fee calculation.
type FeeRequest struct {
	TripPrice decimal.Decimal `json:"trip_price"`
}

// FeeResponse is the HTTP response for a fee calculation.
type FeeResponse struct {
	TripPrice decimal.Decimal `json:"trip_price"`
	Fee       decimal.Decimal `json:"fee"`
}

// GuaranteeRequest is the HTTP request body for a guarantee calculation.
type GuaranteeRequest struct {
	Seats        int             `json:"seats"`
	PricePerSeat decimal.Decimal `json:"price_per_seat"`
}

// GuaranteeResponse is the HTTP response for a guarantee calculation.
type GuaranteeResponse struct {
	Seats          int             `json:"seats"`
	TripValue      decimal.Decimal `json:"trip_value"`
	PercentageFee  decimal.Decimal `json:"percentage_fee"`
	FixedRateTotal decimal.Decimal `json:"fixed_rate_total"`
	Total          decimal.Decimal `json:"total"`
}

// ValidatePriceRequest is the HTTP request body for a price deviation check.
type ValidatePriceRequest struct {
	CurrentPrice   decimal.Decimal `json:"current_price"`
	SuggestedPrice decimal.Decimal `json:"suggested_price"`
}

// ValidatePriceResponse is the HTTP response for a price deviation check.
type ValidatePriceResponse struct {
	Status           string          `json:"status"`
	DeviationPercent decimal.Decimal `json:"deviation_percent"`
}

// ClampPriceRequest is the HTTP request body for clamping a price.
type ClampPriceRequest struct {
	CandidatePrice decimal.Decimal `json:"candidate_price"`
	SuggestedPrice decimal.Decimal `json:"suggested_price"`
}

// ClampPriceResponse is the HTTP response for clamping a price.
type ClampPriceResponse struct {
	Price decimal.Decimal `json:"price"`
}

// CommissionRequest is the HTTP request body for a seat commission.
type CommissionRequest struct {
	PricePerSeat decimal.Decimal `json:"price_per_seat"`
}

// CommissionResponse is the HTTP response for a seat commission.
type CommissionResponse struct {
	PricePerSeat         decimal.Decimal `json:"price_per_seat"`
	PercentageCommission decimal.Decimal `json:"percentage_commission"`
	FixedRate            decimal.Decimal `json:"fixed_rate"`
	TotalCommission      decimal.Decimal `json:"total_commission"`
	DriverPayout         decimal.Decimal `json:"driver_payout"`
}

// GetCurrent handles GET /v1/pricing/current
func (h *PricingHandler) GetCurrent(c *gin.Context) {
	engine, err := h.assumptions.Engine(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondCurrent(c, engine)
}

// Refresh handles POST /v1/pricing/refresh
// It drops the cached assumptions so a rate change in the database applies to the next request.
func (h *PricingHandler) Refresh(c *gin.Context) {
	a, err := h.assumptions.Refresh(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondCurrent(c, service.NewPricingEngine(a, h.assumptions.Policy()))
}

func (h *PricingHandler) respondCurrent(c *gin.Context, engine *service.PricingEngine) {
	view, err := engine.CurrentPricing()
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CurrentPricingResponse{
		UrbanPricePerKm:          view.UrbanPricePerKm,
		InterurbanPricePerKm:     view.InterurbanPricePerKm,
		FeePercentage:            view.FeePercentage,
		FixedRate:                view.FixedRate,
		PriceLimitPercentage:     view.PriceLimitPercentage,
		AlertThresholdPercentage: view.AlertThresholdPercentage,
		UrbanDistanceThresholdKm: view.UrbanDistanceThresholdKm,
		MinPricePerSeat:          view.MinPricePerSeat,
		MaxSeats:                 view.MaxSeats,
	})
}

// Quote handles POST /v1/pricing/quote
func (h *PricingHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	distanceKm := service.ParseDistanceKm(req.Distance)
	if req.DistanceKm != nil {
		distanceKm = *req.DistanceKm
	}

	engine, err := h.assumptions.Engine(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	quote, err := engine.Quote(distanceKm)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, QuoteResponse{
		DistanceKm:            quote.DistanceKm,
		IsUrban:               quote.IsUrban,
		PricePerKm:            quote.PricePerKm,
		TotalTripPrice:        quote.TotalTripPrice,
		SuggestedPricePerSeat: quote.SuggestedPricePerSeat,
		PriceRange:            PriceRangeInfo{Min: quote.Range.Min, Max: quote.Range.Max},
	})
}

// Fee handles POST /v1/pricing/fee
func (h *PricingHandler) Fee(c *gin.Context) {
	var req FeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	engine, err := h.assumptions.Engine(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	fee, err := engine.CalculateFee(req.TripPrice)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, FeeResponse{TripPrice: req.TripPrice, Fee: fee})
}

// Guarantee handles POST /v1/pricing/guarantee
func (h *PricingHandler) Guarantee(c *gin.Context) {
	var req GuaranteeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	engine, err := h.assumptions.Engine(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	g, err := engine.CalculateRequiredGuarantee(req.Seats, req.PricePerSeat)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toGuaranteeResponse(g))
}

// ValidatePrice handles POST /v1/pricing/validate-price
func (h *PricingHandler) ValidatePrice(c *gin.Context) {
	var req ValidatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	engine, err := h.assumptions.Engine(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	check, err := engine.ValidatePriceRange(req.CurrentPrice, req.SuggestedPrice)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, ValidatePriceResponse{
		Status:           string(check.Status),
		DeviationPercent: check.DeviationPercent.Round(2),
	})
}

// ClampPrice handles POST /v1/pricing/clamp-price
func (h *PricingHandler) ClampPrice(c *gin.Context) {
	var req ClampPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	engine, err := h.assumptions.Engine(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	price, err := engine.ClampPriceToLimit(req.CandidatePrice, req.SuggestedPrice)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, ClampPriceResponse{Price: price})
}

// Commission handles POST /v1/pricing/commission
func (h *PricingHandler) Commission(c *gin.Context) {
	var req CommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	engine, err := h.assumptions.Engine(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	sc, err := engine.CalculateSeatCommission(req.PricePerSeat)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CommissionResponse{
		PricePerSeat:         sc.PricePerSeat,
		PercentageCommission: sc.PercentageCommission,
		FixedRate:            sc.FixedRate,
		TotalCommission:      sc.Total,
		DriverPayout:         sc.DriverPayout,
	})
}

func toGuaranteeResponse(g *service.Guarantee) GuaranteeResponse {
	return GuaranteeResponse{
		Seats:          g.Seats,
		TripValue:      g.TripValue,
		PercentageFee:  g.PercentageFee,
		FixedRateTotal: g.FixedRateTotal,
		Total:          g.Total,
	}
}
