package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"cupo/internal/domain"
	internalRedis "cupo/internal/redis"
	"cupo/internal/repository"
)

// AssumptionsService loads the pricing assumptions snapshot, reading through the Redis cache.
type AssumptionsService struct {
	repo   repository.AssumptionsRepository
	cache  internalRedis.AssumptionsCacheInterface
	policy PricingPolicy
	log    logrus.FieldLogger
}

// NewAssumptionsService creates a new AssumptionsService. cache may be nil.
func NewAssumptionsService(
	repo repository.AssumptionsRepository,
	cache internalRedis.AssumptionsCacheInterface,
	policy PricingPolicy,
	log logrus.FieldLogger,
) *AssumptionsService {
	return &AssumptionsService{
		repo:   repo,
		cache:  cache,
		policy: policy,
		log:    log,
	}
}

// Current returns the active assumptions snapshot.
// Cache errors are logged and fall through to the database.
func (s *AssumptionsService) Current(ctx context.Context) (*domain.Assumptions, error) {
	if s.cache != nil {
		cached, err := s.cache.GetAssumptions(ctx)
		if err != nil {
			s.log.WithError(err).Warn("assumptions cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	a, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrConfigUnavailable
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigUnavailable, err)
	}

	if s.cache != nil {
		if err := s.cache.SetAssumptions(ctx, a); err != nil {
			s.log.WithError(err).Warn("assumptions cache write failed")
		}
	}

	return a, nil
}

// Refresh drops the cached snapshot and reloads it from the database.
func (s *AssumptionsService) Refresh(ctx context.Context) (*domain.Assumptions, error) {
	if s.cache != nil {
		if err := s.cache.InvalidateAssumptions(ctx); err != nil {
			s.log.WithError(err).Warn("assumptions cache invalidation failed")
		}
	}
	return s.Current(ctx)
}

// Engine returns a PricingEngine bound to the current snapshot.
func (s *AssumptionsService) Engine(ctx context.Context) (*PricingEngine, error) {
	a, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	return NewPricingEngine(a, s.policy), nil
}

// Policy returns the pricing policy used for every engine this service builds.
func (s *AssumptionsService) Policy() PricingPolicy {
	return s.policy
}
