package postgres

import (
	"context"
	"database/sql"

	"cupo/internal/domain"
	"cupo/internal/repository"
)

// TransactionRepository is a PostgreSQL implementation of repository.TransactionRepository.
type TransactionRepository struct {
	q Querier
}

// NewTransactionRepository creates a new PostgreSQL ledger repository.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{q: db}
}

// NewTransactionRepositoryWithTx creates a ledger repository using a transaction.
func NewTransactionRepositoryWithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

// Create appends a ledger entry.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.WalletTransaction) error {
	query := `
		INSERT INTO wallet_transactions (id, wallet_id, trip_id, transaction_type, amount, detail, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var tripID sql.NullString
	if tx.TripID != "" {
		tripID = sql.NullString{String: tx.TripID, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		tx.ID,
		tx.WalletID,
		tripID,
		string(tx.TransactionType),
		tx.Amount,
		tx.Detail,
		string(tx.Status),
		tx.CreatedAt,
	)

	return err
}

// ListByWalletID retrieves the ledger of a wallet, newest first.
func (r *TransactionRepository) ListByWalletID(ctx context.Context, walletID string) ([]*domain.WalletTransaction, error) {
	query := `
		SELECT id, wallet_id, trip_id, transaction_type, amount, detail, status, created_at
		FROM wallet_transactions WHERE wallet_id = $1
		ORDER BY created_at DESC LIMIT 100
	`

	rows, err := r.q.QueryContext(ctx, query, walletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []*domain.WalletTransaction
	for rows.Next() {
		var tx domain.WalletTransaction
		var tripID sql.NullString
		var kind, status string

		if err := rows.Scan(
			&tx.ID,
			&tx.WalletID,
			&tripID,
			&kind,
			&tx.Amount,
			&tx.Detail,
			&status,
			&tx.CreatedAt,
		); err != nil {
			return nil, err
		}

		tx.TripID = tripID.String
		tx.TransactionType = domain.TransactionType(kind)
		tx.Status = domain.TransactionStatus(status)
		txs = append(txs, &tx)
	}

	return txs, rows.Err()
}

var _ repository.TransactionRepository = (*TransactionRepository)(nil)
