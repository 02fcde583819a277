package repository

import (
	"context"
	"time"

	"cupo/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// ListByDriverID retrieves every trip published by a driver.
	ListByDriverID(ctx context.Context, driverID string) ([]*domain.Trip, error)

	// UpdateStatus moves a trip from one status to another.
	// Returns ErrStatusConflict if the trip is no longer in the expected status.
	UpdateStatus(ctx context.Context, id string, from, to domain.TripStatus, at time.Time) error
}
