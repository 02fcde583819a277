package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"cupo/internal/domain"
)

// WalletRepository defines the persistence operations for wallets.
type WalletRepository interface {
	// GetByUserID retrieves the wallet owned by a user.
	GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error)

	// Freeze moves amount from balance to frozen balance.
	// Returns ErrInsufficientFunds if the balance does not cover it.
	Freeze(ctx context.Context, walletID string, amount decimal.Decimal, at time.Time) error

	// ApplyDelta adds the given deltas to balance and frozen balance.
	ApplyDelta(ctx context.Context, walletID string, balanceDelta, frozenDelta decimal.Decimal, at time.Time) error
}

// TransactionRepository defines the persistence operations for the wallet ledger.
type TransactionRepository interface {
	// Create appends a ledger entry.
	Create(ctx context.Context, tx *domain.WalletTransaction) error

	// ListByWalletID retrieves the ledger of a wallet, newest first.
	ListByWalletID(ctx context.Context, walletID string) ([]*domain.WalletTransaction, error)
}
