package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TripDraft is the resumable state of the multi-step publish wizard.
// It is stored per user and passed explicitly between steps.
type TripDraft struct {
	UserID         string          `json:"user_id"`
	Origin         string          `json:"origin,omitempty"`
	Destination    string          `json:"destination,omitempty"`
	Distance       string          `json:"distance,omitempty"`
	DateTime       *time.Time      `json:"date_time,omitempty"`
	Seats          int             `json:"seats,omitempty"`
	PricePerSeat   decimal.Decimal `json:"price_per_seat"`
	SuggestedPrice decimal.Decimal `json:"suggested_price"`
	VehicleID      string          `json:"vehicle_id,omitempty"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
