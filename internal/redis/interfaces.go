package redis

import (
	"context"
	"time"

	"cupo/internal/domain"
)

// AssumptionsCacheInterface defines the interface for the assumptions snapshot cache.
type AssumptionsCacheInterface interface {
	GetAssumptions(ctx context.Context) (*domain.Assumptions, error)
	SetAssumptions(ctx context.Context, a *domain.Assumptions) error
	InvalidateAssumptions(ctx context.Context) error
}

// LockStoreInterface defines the interface for per-trip transition locking.
type LockStoreInterface interface {
	AcquireTripLock(ctx context.Context, tripID string, ttl time.Duration) (string, bool, error)
	ReleaseTripLock(ctx context.Context, tripID, token string) error
}

// DraftStoreInterface defines the interface for trip draft persistence.
type DraftStoreInterface interface {
	GetDraft(ctx context.Context, userID string) (*domain.TripDraft, error)
	SaveDraft(ctx context.Context, draft *domain.TripDraft) error
	DeleteDraft(ctx context.Context, userID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ AssumptionsCacheInterface = (*CacheStore)(nil)
	_ LockStoreInterface        = (*LockStore)(nil)
	_ DraftStoreInterface       = (*DraftStore)(nil)
)
