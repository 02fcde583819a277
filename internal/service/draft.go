package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"cupo/internal/domain"
	internalRedis "cupo/internal/redis"
)

// DraftService stores the publish wizard state between steps and keeps its price suggestion current.
type DraftService struct {
	store       internalRedis.DraftStoreInterface
	assumptions *AssumptionsService
	log         logrus.FieldLogger
	now         func() time.Time
}

// NewDraftService creates a new DraftService.
func NewDraftService(store internalRedis.DraftStoreInterface, assumptions *AssumptionsService, log logrus.FieldLogger) *DraftService {
	return &DraftService{
		store:       store,
		assumptions: assumptions,
		log:         log,
		now:         time.Now,
	}
}

// GetDraft returns the user's draft.
func (s *DraftService) GetDraft(ctx context.Context, userID string) (*domain.TripDraft, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	draft, err := s.store.GetDraft(ctx, userID)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, ErrDraftNotFound
	}
	return draft, nil
}

// SaveDraft stores the draft. When a distance is known the suggested price is recomputed
// and a driver price is clamped into the allowed band around it.
func (s *DraftService) SaveDraft(ctx context.Context, draft *domain.TripDraft) (*domain.TripDraft, error) {
	if draft == nil || draft.UserID == "" {
		return nil, ErrInvalidUserID
	}

	if draft.Distance != "" {
		s.applySuggestion(ctx, draft)
	}
	draft.UpdatedAt = s.now()

	if err := s.store.SaveDraft(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// DeleteDraft discards the user's draft.
func (s *DraftService) DeleteDraft(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrInvalidUserID
	}
	return s.store.DeleteDraft(ctx, userID)
}

func (s *DraftService) applySuggestion(ctx context.Context, draft *domain.TripDraft) {
	engine, err := s.assumptions.Engine(ctx)
	if err != nil {
		s.log.WithError(err).WithField("user_id", draft.UserID).Warn("draft saved without price suggestion")
		return
	}

	quote, err := engine.Quote(ParseDistanceKm(draft.Distance))
	if err != nil {
		return
	}
	draft.SuggestedPrice = quote.SuggestedPricePerSeat

	if draft.PricePerSeat.IsPositive() {
		if clamped, err := engine.ClampPriceToLimit(draft.PricePerSeat, quote.SuggestedPricePerSeat); err == nil {
			draft.PricePerSeat = clamped
		}
	}
}
