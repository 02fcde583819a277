package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is a user's balance snapshot.
type Wallet struct {
	ID            string
	UserID        string
	Balance       decimal.Decimal // unfrozen, spendable
	FrozenBalance decimal.Decimal // held as trip guarantees
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TransactionTypeCharge TransactionType = "cobro"
	TransactionTypeRefund TransactionType = "devolución"
)

// TransactionStatus is the persisted state of a ledger entry.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
)

// WalletTransaction is an append-only ledger entry.
type WalletTransaction struct {
	ID              string
	WalletID        string
	TripID          string
	TransactionType TransactionType
	Amount          decimal.Decimal
	Detail          string
	Status          TransactionStatus
	CreatedAt       time.Time
}
