package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Assumptions is the globally configured pricing snapshot.
// It is owned by the backend configuration table and read-only to pricing code.
type Assumptions struct {
	ID                       string
	UrbanPricePerKm          decimal.Decimal
	InterurbanPricePerKm     decimal.Decimal
	FeePercentage            decimal.Decimal // commission on trip value, 0-100
	FixedRate                decimal.Decimal // fixed commission per published seat
	PriceLimitPercentage     decimal.Decimal // max deviation of a driver price from the suggestion
	AlertThresholdPercentage decimal.Decimal // deviation at which a price is flagged high/low
	UpdatedAt                time.Time
}
