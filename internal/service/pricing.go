package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"cupo/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// PricingPolicy holds the business constants that are not part of the assumptions table.
type PricingPolicy struct {
	ReferenceOccupancy       int             // seats the suggested price is spread over
	SuggestedPriceFloor      decimal.Decimal // suggestion used when no distance is known
	UrbanDistanceThresholdKm decimal.Decimal // routes up to this length use the urban rate
	MinSeats                 int
	MaxSeats                 int
	MinPricePerSeat          decimal.Decimal
}

// DefaultPricingPolicy returns the policy used in production.
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		ReferenceOccupancy:       4,
		SuggestedPriceFloor:      decimal.NewFromInt(5000),
		UrbanDistanceThresholdKm: decimal.NewFromInt(30),
		MinSeats:                 1,
		MaxSeats:                 5,
		MinPricePerSeat:          decimal.NewFromInt(2000),
	}
}

// PricingEngine computes prices and guarantees from an assumptions snapshot.
// A nil snapshot makes every assumption-dependent method fail with ErrConfigUnavailable.
type PricingEngine struct {
	assumptions *domain.Assumptions
	policy      PricingPolicy
}

// NewPricingEngine creates a new PricingEngine.
func NewPricingEngine(assumptions *domain.Assumptions, policy PricingPolicy) *PricingEngine {
	return &PricingEngine{
		assumptions: assumptions,
		policy:      policy,
	}
}

// PriceStatus classifies a driver price against the suggestion.
type PriceStatus string

const (
	PriceStatusNormal PriceStatus = "normal"
	PriceStatusHigh   PriceStatus = "high"
	PriceStatusLow    PriceStatus = "low"
)

// PriceCheck is the result of ValidatePriceRange.
type PriceCheck struct {
	Status           PriceStatus
	DeviationPercent decimal.Decimal
}

// Guarantee is the breakdown of the amount a driver must hold to publish a trip.
type Guarantee struct {
	Seats          int
	TripValue      decimal.Decimal
	PercentageFee  decimal.Decimal
	FixedRateTotal decimal.Decimal
	Total          decimal.Decimal
}

// PriceRange is the band a driver price is clamped into.
type PriceRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// PriceQuote is the suggested pricing for a route.
type PriceQuote struct {
	DistanceKm            decimal.Decimal
	IsUrban               bool
	PricePerKm            decimal.Decimal
	TotalTripPrice        decimal.Decimal
	SuggestedPricePerSeat decimal.Decimal
	Range                 PriceRange
}

// SeatCommission is what the platform keeps when one booked seat is validated.
type SeatCommission struct {
	PricePerSeat         decimal.Decimal
	PercentageCommission decimal.Decimal
	FixedRate            decimal.Decimal
	Total                decimal.Decimal
	DriverPayout         decimal.Decimal
}

// PricingView is the rate card shown to drivers before they price a trip.
type PricingView struct {
	UrbanPricePerKm          decimal.Decimal
	InterurbanPricePerKm     decimal.Decimal
	FeePercentage            decimal.Decimal
	FixedRate                decimal.Decimal
	PriceLimitPercentage     decimal.Decimal
	AlertThresholdPercentage decimal.Decimal
	UrbanDistanceThresholdKm decimal.Decimal
	MinPricePerSeat          decimal.Decimal
	MaxSeats                 int
}

// CurrentPricing returns the active rates together with the policy limits.
func (e *PricingEngine) CurrentPricing() (*PricingView, error) {
	if e.assumptions == nil {
		return nil, ErrConfigUnavailable
	}

	return &PricingView{
		UrbanPricePerKm:          e.assumptions.UrbanPricePerKm,
		InterurbanPricePerKm:     e.assumptions.InterurbanPricePerKm,
		FeePercentage:            e.assumptions.FeePercentage,
		FixedRate:                e.assumptions.FixedRate,
		PriceLimitPercentage:     e.assumptions.PriceLimitPercentage,
		AlertThresholdPercentage: e.assumptions.AlertThresholdPercentage,
		UrbanDistanceThresholdKm: e.policy.UrbanDistanceThresholdKm,
		MinPricePerSeat:          e.policy.MinPricePerSeat,
		MaxSeats:                 e.policy.MaxSeats,
	}, nil
}

// Policy returns the engine's pricing policy.
func (e *PricingEngine) Policy() PricingPolicy {
	return e.policy
}

// IsUrban reports whether a route of the given length is priced with the urban rate.
func (e *PricingEngine) IsUrban(distanceKm decimal.Decimal) bool {
	return distanceKm.LessThanOrEqual(e.policy.UrbanDistanceThresholdKm)
}

// CalculateTripPrice returns the base price of the whole route.
func (e *PricingEngine) CalculateTripPrice(distanceKm decimal.Decimal, isUrban bool) (decimal.Decimal, error) {
	if e.assumptions == nil {
		return decimal.Zero, ErrConfigUnavailable
	}
	if distanceKm.IsNegative() {
		return decimal.Zero, ErrInvalidDistance
	}

	return distanceKm.Mul(e.pricePerKm(isUrban)), nil
}

// SuggestedPricePerSeat spreads the route price over the reference occupancy,
// regardless of how many seats are actually published.
func (e *PricingEngine) SuggestedPricePerSeat(distanceKm decimal.Decimal, isUrban bool) (decimal.Decimal, error) {
	if e.assumptions == nil {
		return decimal.Zero, ErrConfigUnavailable
	}
	if !distanceKm.IsPositive() {
		return e.policy.SuggestedPriceFloor, nil
	}

	total, err := e.CalculateTripPrice(distanceKm, isUrban)
	if err != nil {
		return decimal.Zero, err
	}

	return total.Div(decimal.NewFromInt(int64(e.policy.referenceOccupancy()))).Round(0), nil
}

// Quote builds the full price suggestion for a route, classifying it as urban by length.
func (e *PricingEngine) Quote(distanceKm decimal.Decimal) (*PriceQuote, error) {
	if e.assumptions == nil {
		return nil, ErrConfigUnavailable
	}
	if distanceKm.IsNegative() {
		return nil, ErrInvalidDistance
	}

	isUrban := e.IsUrban(distanceKm)
	total, err := e.CalculateTripPrice(distanceKm, isUrban)
	if err != nil {
		return nil, err
	}

	suggested, err := e.SuggestedPricePerSeat(distanceKm, isUrban)
	if err != nil {
		return nil, err
	}

	return &PriceQuote{
		DistanceKm:            distanceKm,
		IsUrban:               isUrban,
		PricePerKm:            e.pricePerKm(isUrban),
		TotalTripPrice:        total,
		SuggestedPricePerSeat: suggested,
		Range:                 e.priceRange(suggested),
	}, nil
}

// CalculateFee returns the percentage commission on a trip price. It is not seat-aware.
func (e *PricingEngine) CalculateFee(tripPrice decimal.Decimal) (decimal.Decimal, error) {
	if e.assumptions == nil {
		return decimal.Zero, ErrConfigUnavailable
	}
	if tripPrice.IsNegative() {
		return decimal.Zero, ErrInvalidPrice
	}

	return percentOf(tripPrice, e.assumptions.FeePercentage), nil
}

// CalculateRequiredGuarantee returns the amount a driver must have available to publish.
// The percentage part is rounded up so the platform never under-collects.
func (e *PricingEngine) CalculateRequiredGuarantee(seats int, pricePerSeat decimal.Decimal) (*Guarantee, error) {
	if e.assumptions == nil {
		return nil, ErrConfigUnavailable
	}
	if seats < 0 {
		return nil, ErrInvalidSeats
	}
	if pricePerSeat.IsNegative() {
		return nil, ErrInvalidPrice
	}

	seatCount := decimal.NewFromInt(int64(seats))
	tripValue := seatCount.Mul(pricePerSeat)
	percentageFee := percentOf(tripValue, e.assumptions.FeePercentage).Ceil()
	fixedRateTotal := e.assumptions.FixedRate.Mul(seatCount)

	return &Guarantee{
		Seats:          seats,
		TripValue:      tripValue,
		PercentageFee:  percentageFee,
		FixedRateTotal: fixedRateTotal,
		Total:          percentageFee.Add(fixedRateTotal),
	}, nil
}

// ValidatePriceRange flags a price that deviates from the suggestion by more than the alert threshold.
// A zero suggestion is never validated.
func (e *PricingEngine) ValidatePriceRange(currentPrice, suggestedPrice decimal.Decimal) (*PriceCheck, error) {
	if e.assumptions == nil {
		return nil, ErrConfigUnavailable
	}
	if suggestedPrice.IsZero() {
		return &PriceCheck{Status: PriceStatusNormal, DeviationPercent: decimal.Zero}, nil
	}

	deviation := currentPrice.Sub(suggestedPrice).Div(suggestedPrice).Mul(hundred)
	threshold := e.assumptions.AlertThresholdPercentage

	status := PriceStatusNormal
	switch {
	case deviation.GreaterThan(threshold):
		status = PriceStatusHigh
	case deviation.LessThan(threshold.Neg()):
		status = PriceStatusLow
	}

	return &PriceCheck{Status: status, DeviationPercent: deviation}, nil
}

// ClampPriceToLimit keeps a candidate price within the allowed deviation from the suggestion.
// A zero suggestion enforces no limit.
func (e *PricingEngine) ClampPriceToLimit(candidatePrice, suggestedPrice decimal.Decimal) (decimal.Decimal, error) {
	if e.assumptions == nil {
		return decimal.Zero, ErrConfigUnavailable
	}
	if suggestedPrice.IsZero() {
		return candidatePrice, nil
	}

	r := e.priceRange(suggestedPrice)
	return decimal.Max(r.Min, decimal.Min(r.Max, candidatePrice)), nil
}

// CalculateSeatCommission returns the commission retained when a single booked seat is validated.
func (e *PricingEngine) CalculateSeatCommission(pricePerSeat decimal.Decimal) (*SeatCommission, error) {
	if e.assumptions == nil {
		return nil, ErrConfigUnavailable
	}
	if pricePerSeat.IsNegative() {
		return nil, ErrInvalidPrice
	}

	percentage := percentOf(pricePerSeat, e.assumptions.FeePercentage).Ceil()
	total := percentage.Add(e.assumptions.FixedRate)

	return &SeatCommission{
		PricePerSeat:         pricePerSeat,
		PercentageCommission: percentage,
		FixedRate:            e.assumptions.FixedRate,
		Total:                total,
		DriverPayout:         pricePerSeat.Sub(total),
	}, nil
}

// ValidatePublish checks the seat count and price a driver wants to publish.
func (e *PricingEngine) ValidatePublish(seats int, pricePerSeat decimal.Decimal) error {
	if seats < e.policy.MinSeats || seats > e.policy.MaxSeats {
		return fmt.Errorf("%w: must be between %d and %d", ErrInvalidSeats, e.policy.MinSeats, e.policy.MaxSeats)
	}
	if !pricePerSeat.IsPositive() {
		return ErrInvalidPrice
	}
	if pricePerSeat.LessThan(e.policy.MinPricePerSeat) {
		return fmt.Errorf("%w: minimum is %s", ErrPriceBelowMinimum, e.policy.MinPricePerSeat)
	}
	return nil
}

func (e *PricingEngine) pricePerKm(isUrban bool) decimal.Decimal {
	if isUrban {
		return e.assumptions.UrbanPricePerKm
	}
	return e.assumptions.InterurbanPricePerKm
}

func (e *PricingEngine) priceRange(suggested decimal.Decimal) PriceRange {
	limitFactor := e.assumptions.PriceLimitPercentage.Shift(-2)
	return PriceRange{
		Min: suggested.Mul(decimal.NewFromInt(1).Sub(limitFactor)),
		Max: suggested.Mul(decimal.NewFromInt(1).Add(limitFactor)),
	}
}

func (p PricingPolicy) referenceOccupancy() int {
	if p.ReferenceOccupancy <= 0 {
		return 4
	}
	return p.ReferenceOccupancy
}

// percentOf returns value × pct / 100 without rounding.
func percentOf(value, pct decimal.Decimal) decimal.Decimal {
	return value.Mul(pct).Shift(-2)
}

var distancePattern = regexp.MustCompile(`([\d,]+\.?\d*)`)

// ParseDistanceKm extracts kilometres from route labels such as "12.5 km" or "1,234 km".
// Unparsable input yields zero.
func ParseDistanceKm(raw string) decimal.Decimal {
	match := distancePattern.FindString(raw)
	if match == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(match, ",", ""))
	if err != nil {
		return decimal.Zero
	}
	return d
}
