package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"cupo/internal/domain"
	"cupo/internal/repository"
)

// WalletRepository is a PostgreSQL implementation of repository.WalletRepository.
type WalletRepository struct {
	q Querier
}

// NewWalletRepository creates a new PostgreSQL wallet repository.
func NewWalletRepository(db *sql.DB) *WalletRepository {
	return &WalletRepository{q: db}
}

// NewWalletRepositoryWithTx creates a wallet repository using a transaction.
func NewWalletRepositoryWithTx(tx *sql.Tx) *WalletRepository {
	return &WalletRepository{q: tx}
}

// GetByUserID retrieves the wallet owned by a user.
func (r *WalletRepository) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	query := `
		SELECT id, user_id, balance, frozen_balance, created_at, updated_at
		FROM wallets WHERE user_id = $1
	`

	var w domain.Wallet
	err := r.q.QueryRowContext(ctx, query, userID).Scan(
		&w.ID,
		&w.UserID,
		&w.Balance,
		&w.FrozenBalance,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &w, nil
}

// Freeze moves amount from balance to frozen balance if the balance covers it.
func (r *WalletRepository) Freeze(ctx context.Context, walletID string, amount decimal.Decimal, at time.Time) error {
	query := `
		UPDATE wallets
		SET balance = balance - $1, frozen_balance = frozen_balance + $1, updated_at = $2
		WHERE id = $3 AND balance >= $1
	`

	result, err := r.q.ExecContext(ctx, query, amount, at, walletID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrInsufficientFunds
	}

	return nil
}

// ApplyDelta adds the given deltas to balance and frozen balance.
func (r *WalletRepository) ApplyDelta(ctx context.Context, walletID string, balanceDelta, frozenDelta decimal.Decimal, at time.Time) error {
	query := `
		UPDATE wallets
		SET balance = balance + $1, frozen_balance = frozen_balance + $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.q.ExecContext(ctx, query, balanceDelta, frozenDelta, at, walletID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ repository.WalletRepository = (*WalletRepository)(nil)
