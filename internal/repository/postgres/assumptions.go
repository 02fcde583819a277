package postgres

import (
	"context"
	"database/sql"
	"errors"

	"cupo/internal/domain"
	"cupo/internal/repository"
)

// AssumptionsRepository is a PostgreSQL implementation of repository.AssumptionsRepository.
type AssumptionsRepository struct {
	q Querier
}

// NewAssumptionsRepository creates a new PostgreSQL assumptions repository.
func NewAssumptionsRepository(db *sql.DB) *AssumptionsRepository {
	return &AssumptionsRepository{q: db}
}

// Get returns the single configured assumptions row.
func (r *AssumptionsRepository) Get(ctx context.Context) (*domain.Assumptions, error) {
	query := `
		SELECT id, urban_price_per_km, interurban_price_per_km, fee_percentage, fixed_rate,
		       price_limit_percentage, alert_threshold_percentage, updated_at
		FROM assumptions ORDER BY updated_at DESC LIMIT 1
	`

	var a domain.Assumptions
	err := r.q.QueryRowContext(ctx, query).Scan(
		&a.ID,
		&a.UrbanPricePerKm,
		&a.InterurbanPricePerKm,
		&a.FeePercentage,
		&a.FixedRate,
		&a.PriceLimitPercentage,
		&a.AlertThresholdPercentage,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &a, nil
}

var _ repository.AssumptionsRepository = (*AssumptionsRepository)(nil)
