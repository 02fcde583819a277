package repository

import (
	"context"

	"cupo/internal/domain"
)

// AssumptionsRepository reads the pricing configuration.
type AssumptionsRepository interface {
	// Get returns the current assumptions row. Returns ErrNotFound if none is configured.
	Get(ctx context.Context) (*domain.Assumptions, error)
}
