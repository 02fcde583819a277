package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"cupo/internal/domain"
)

// Transition names a trip lifecycle action.
type Transition string

const (
	TransitionStart  Transition = "start"
	TransitionCancel Transition = "cancel"
	TransitionFinish Transition = "finish"
)

// BalanceCheck is the publish eligibility decision.
type BalanceCheck struct {
	Sufficient bool
	Available  decimal.Decimal
	Required   decimal.Decimal
	Deficit    decimal.Decimal
}

// Settlement is the wallet reconciliation for one lifecycle transition.
// The caller persists the status change, both deltas and every entry as a single unit.
type Settlement struct {
	TripID             string
	Transition         Transition
	From               domain.TripStatus
	To                 domain.TripStatus
	SeatsSold          int
	SeatsUnsold        int
	CommissionPerSeat  decimal.Decimal
	Charged            decimal.Decimal
	Refunded           decimal.Decimal
	TotalFrozen        decimal.Decimal
	BalanceDelta       decimal.Decimal
	FrozenBalanceDelta decimal.Decimal
	Entries            []domain.WalletTransaction
}

// BalanceGate decides publish eligibility and computes lifecycle wallet deltas.
// It never mutates the wallet or trip it is given.
type BalanceGate struct {
	assumptions *domain.Assumptions
}

// NewBalanceGate creates a new BalanceGate.
func NewBalanceGate(assumptions *domain.Assumptions) *BalanceGate {
	return &BalanceGate{assumptions: assumptions}
}

// CheckSufficientBalance compares the required guarantee with the wallet's total balance.
// Frozen funds are not subtracted; see DESIGN.md.
func (g *BalanceGate) CheckSufficientBalance(required decimal.Decimal, wallet *domain.Wallet) BalanceCheck {
	available := decimal.Zero
	if wallet != nil {
		available = wallet.Balance
	}

	return BalanceCheck{
		Sufficient: available.GreaterThanOrEqual(required),
		Available:  available,
		Required:   required,
		Deficit:    decimal.Max(decimal.Zero, required.Sub(available)),
	}
}

// Start charges the commission on sold seats and releases the rest of what the trip froze at publish.
// The commission uses the fee recorded on the trip, falling back to the current snapshot for trips
// published without one. The charge never exceeds the frozen amount, so the trip's guarantee leaves
// frozen balance exactly once.
func (g *BalanceGate) Start(trip *domain.Trip, walletID string) (*Settlement, error) {
	if trip.Status != domain.TripStatusActive {
		return nil, fmt.Errorf("%w: cannot start a %s trip", ErrInvalidStateTransition, trip.Status)
	}

	commission, err := g.commissionPerSeat(trip)
	if err != nil {
		return nil, err
	}

	sold := trip.SeatsReserved
	unsold := trip.Seats
	totalFrozen := trip.FrozenAmount

	charged := decimal.Min(commission.Mul(decimal.NewFromInt(int64(sold))), totalFrozen)
	refunded := totalFrozen.Sub(charged)

	return &Settlement{
		TripID:             trip.ID,
		Transition:         TransitionStart,
		From:               trip.Status,
		To:                 domain.TripStatusStarted,
		SeatsSold:          sold,
		SeatsUnsold:        unsold,
		CommissionPerSeat:  commission,
		Charged:            charged,
		Refunded:           refunded,
		TotalFrozen:        totalFrozen,
		BalanceDelta:       refunded,
		FrozenBalanceDelta: totalFrozen.Neg(),
		Entries: []domain.WalletTransaction{
			ledgerEntry(walletID, trip.ID, domain.TransactionTypeCharge, charged,
				fmt.Sprintf("Commission for %d sold seat(s) on trip %s", sold, trip.ID)),
			ledgerEntry(walletID, trip.ID, domain.TransactionTypeRefund, refunded,
				fmt.Sprintf("Guarantee released for %d unsold seat(s) on trip %s", unsold, trip.ID)),
		},
	}, nil
}

// CheckCancellable reports why a trip cannot be canceled, or nil if it can.
// Only active trips can be canceled, and only while nobody has booked a seat.
func (g *BalanceGate) CheckCancellable(trip *domain.Trip) error {
	if trip.Status != domain.TripStatusActive {
		return fmt.Errorf("%w: cannot cancel a %s trip", ErrInvalidStateTransition, trip.Status)
	}
	if trip.SeatsReserved > 0 {
		return ErrCancellationBlocked
	}
	return nil
}

// Cancel releases everything the trip froze at publish.
func (g *BalanceGate) Cancel(trip *domain.Trip, walletID string) (*Settlement, error) {
	if err := g.CheckCancellable(trip); err != nil {
		return nil, err
	}

	totalFrozen := trip.FrozenAmount
	// Reported only; zero when no fee is known.
	commission, _ := g.commissionPerSeat(trip)

	return &Settlement{
		TripID:             trip.ID,
		Transition:         TransitionCancel,
		From:               trip.Status,
		To:                 domain.TripStatusCanceled,
		SeatsSold:          0,
		SeatsUnsold:        trip.Seats,
		CommissionPerSeat:  commission,
		Charged:            decimal.Zero,
		Refunded:           totalFrozen,
		TotalFrozen:        totalFrozen,
		BalanceDelta:       totalFrozen,
		FrozenBalanceDelta: totalFrozen.Neg(),
		Entries: []domain.WalletTransaction{
			ledgerEntry(walletID, trip.ID, domain.TransactionTypeRefund, totalFrozen,
				fmt.Sprintf("Guarantee released for canceled trip %s", trip.ID)),
		},
	}, nil
}

// Finish closes a started trip. The guarantee was already reconciled at start.
func (g *BalanceGate) Finish(trip *domain.Trip) (*Settlement, error) {
	if trip.Status != domain.TripStatusStarted {
		return nil, fmt.Errorf("%w: cannot finish a %s trip", ErrInvalidStateTransition, trip.Status)
	}

	return &Settlement{
		TripID:             trip.ID,
		Transition:         TransitionFinish,
		From:               trip.Status,
		To:                 domain.TripStatusFinished,
		SeatsSold:          trip.SeatsReserved,
		SeatsUnsold:        trip.Seats,
		CommissionPerSeat:  decimal.Zero,
		Charged:            decimal.Zero,
		Refunded:           decimal.Zero,
		TotalFrozen:        decimal.Zero,
		BalanceDelta:       decimal.Zero,
		FrozenBalanceDelta: decimal.Zero,
	}, nil
}

func (g *BalanceGate) commissionPerSeat(trip *domain.Trip) (decimal.Decimal, error) {
	if trip.FeePercentage.Valid {
		return percentOf(trip.PricePerSeat, trip.FeePercentage.Decimal), nil
	}
	if g.assumptions == nil {
		return decimal.Zero, ErrConfigUnavailable
	}
	return percentOf(trip.PricePerSeat, g.assumptions.FeePercentage), nil
}

func ledgerEntry(walletID, tripID string, kind domain.TransactionType, amount decimal.Decimal, detail string) domain.WalletTransaction {
	return domain.WalletTransaction{
		WalletID:        walletID,
		TripID:          tripID,
		TransactionType: kind,
		Amount:          amount,
		Detail:          detail,
		Status:          domain.TransactionStatusCompleted,
	}
}
