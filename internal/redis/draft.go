package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"cupo/internal/domain"
)

// DefaultDraftTTL is how long an unfinished publish form is kept.
const DefaultDraftTTL = 24 * time.Hour

const draftKeyPrefix = "draft:trip:"

// DraftStore keeps one in-progress trip draft per user.
type DraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftStore creates a new DraftStore. A non-positive ttl falls back to DefaultDraftTTL.
func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &DraftStore{client: client, ttl: ttl}
}

// GetDraft returns the user's draft, or nil if none is stored.
func (s *DraftStore) GetDraft(ctx context.Context, userID string) (*domain.TripDraft, error) {
	data, err := s.client.Get(ctx, draftKeyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var draft domain.TripDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// SaveDraft overwrites the user's draft and refreshes its TTL.
func (s *DraftStore) SaveDraft(ctx context.Context, draft *domain.TripDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, draftKeyPrefix+draft.UserID, data, s.ttl).Err()
}

// DeleteDraft removes the user's draft. Deleting a missing draft is not an error.
func (s *DraftStore) DeleteDraft(ctx context.Context, userID string) error {
	return s.client.Del(ctx, draftKeyPrefix+userID).Err()
}
