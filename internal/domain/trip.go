package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TripStatus represents the current status of a published trip.
type TripStatus string

const (
	TripStatusActive   TripStatus = "active"
	TripStatusStarted  TripStatus = "started"
	TripStatusFinished TripStatus = "finished"
	TripStatusCanceled TripStatus = "canceled"
)

// legacyTripStatuses maps historical status names onto the canonical vocabulary.
var legacyTripStatuses = map[string]TripStatus{
	"in_progress": TripStatusStarted,
	"completed":   TripStatusFinished,
	"cancelled":   TripStatusCanceled,
}

// NormalizeTripStatus converts a stored or client-supplied status to the canonical form.
// Unknown values are returned lower-cased and unchanged so callers can rank them last.
func NormalizeTripStatus(raw string) TripStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := legacyTripStatuses[s]; ok {
		return canonical
	}
	return TripStatus(s)
}

// IsTerminal reports whether no further transitions are allowed.
func (s TripStatus) IsTerminal() bool {
	return s == TripStatusFinished || s == TripStatusCanceled
}

// Trip represents a trip published by a driver.
type Trip struct {
	ID            string
	DriverID      string
	Origin        string
	Destination   string
	Seats         int // seats still available
	SeatsReserved int // seats sold
	PricePerSeat  decimal.Decimal
	FrozenAmount  decimal.Decimal     // guarantee frozen at publish time
	FeePercentage decimal.NullDecimal // fee in effect at publish; not set on trips published before it was recorded
	Status        TripStatus
	DateTime      time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TotalSeatsPublished reconstructs the seat count originally published.
func (t *Trip) TotalSeatsPublished() int {
	return t.Seats + t.SeatsReserved
}

// HasPendingNotifications reports whether an active trip already has passengers waiting.
func (t *Trip) HasPendingNotifications() bool {
	return t.SeatsReserved > 0 && t.Status == TripStatusActive
}
