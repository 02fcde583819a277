package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrConfigUnavailable is returned when the pricing assumptions snapshot cannot be obtained.
	ErrConfigUnavailable = errors.New("pricing configuration unavailable")

	// ErrCancellationBlocked is returned when cancelling a trip that already has reserved seats.
	ErrCancellationBlocked = errors.New("trip has reserved seats and cannot be canceled")

	// ErrTransactionWriteFailure is returned when a ledger entry could not be persisted.
	ErrTransactionWriteFailure = errors.New("wallet transaction write failed")

	// ErrInvalidStateTransition is returned when a lifecycle action does not apply to the trip's status.
	ErrInvalidStateTransition = errors.New("invalid trip state transition")

	// ErrTransitionInProgress is returned when another transition holds the trip lock.
	ErrTransitionInProgress = errors.New("another transition is in progress for this trip")

	// ErrInsufficientBalance is returned by the publish flow when the wallet cannot cover the guarantee.
	ErrInsufficientBalance = errors.New("insufficient wallet balance")

	// ErrInvalidTripID is returned when trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidUserID is returned when user or driver ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidSeats is returned when the seat count is outside the allowed range.
	ErrInvalidSeats = errors.New("invalid seat count")

	// ErrInvalidPrice is returned when a price is negative or zero where a positive value is required.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrPriceBelowMinimum is returned when the price per seat is under the configured minimum.
	ErrPriceBelowMinimum = errors.New("price per seat below minimum")

	// ErrInvalidDistance is returned when a distance is negative.
	ErrInvalidDistance = errors.New("invalid distance")

	// ErrInvalidDateTime is returned when a trip has no departure time.
	ErrInvalidDateTime = errors.New("invalid trip date time")

	// ErrDraftNotFound is returned when a user has no stored draft.
	ErrDraftNotFound = errors.New("trip draft not found")
)

// InsufficientBalanceError carries the shortfall of a rejected publish.
type InsufficientBalanceError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
	Deficit   decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s: required %s, available %s, deficit %s",
		ErrInsufficientBalance, e.Required, e.Available, e.Deficit)
}

// Is lets errors.Is match ErrInsufficientBalance.
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}
