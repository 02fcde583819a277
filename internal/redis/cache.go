package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"cupo/internal/domain"
)

// DefaultAssumptionsTTL bounds how long a stale assumptions row can be served.
const DefaultAssumptionsTTL = 60 * time.Second

const assumptionsCacheKey = "cache:assumptions"

// cachedAssumptions is the JSON shape stored in Redis. Decimals are encoded as strings.
type cachedAssumptions struct {
	ID                       string          `json:"id"`
	UrbanPricePerKm          decimal.Decimal `json:"urban_price_per_km"`
	InterurbanPricePerKm     decimal.Decimal `json:"interurban_price_per_km"`
	FeePercentage            decimal.Decimal `json:"fee_percentage"`
	FixedRate                decimal.Decimal `json:"fixed_rate"`
	PriceLimitPercentage     decimal.Decimal `json:"price_limit_percentage"`
	AlertThresholdPercentage decimal.Decimal `json:"alert_threshold_percentage"`
	UpdatedAt                time.Time       `json:"updated_at"`
}

// CacheStore caches the pricing assumptions snapshot in Redis.
type CacheStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCacheStore creates a new CacheStore. A non-positive ttl falls back to DefaultAssumptionsTTL.
func NewCacheStore(client *redis.Client, ttl time.Duration) *CacheStore {
	if ttl <= 0 {
		ttl = DefaultAssumptionsTTL
	}
	return &CacheStore{client: client, ttl: ttl}
}

// GetAssumptions returns the cached snapshot, or nil on a cache miss.
func (s *CacheStore) GetAssumptions(ctx context.Context) (*domain.Assumptions, error) {
	data, err := s.client.Get(ctx, assumptionsCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	return decodeAssumptions(data)
}

// SetAssumptions stores a snapshot.
func (s *CacheStore) SetAssumptions(ctx context.Context, a *domain.Assumptions) error {
	data, err := encodeAssumptions(a)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, assumptionsCacheKey, data, s.ttl).Err()
}

// InvalidateAssumptions drops the cached snapshot so the next read goes to the database.
func (s *CacheStore) InvalidateAssumptions(ctx context.Context) error {
	return s.client.Del(ctx, assumptionsCacheKey).Err()
}

func encodeAssumptions(a *domain.Assumptions) ([]byte, error) {
	return json.Marshal(cachedAssumptions{
		ID:                       a.ID,
		UrbanPricePerKm:          a.UrbanPricePerKm,
		InterurbanPricePerKm:     a.InterurbanPricePerKm,
		FeePercentage:            a.FeePercentage,
		FixedRate:                a.FixedRate,
		PriceLimitPercentage:     a.PriceLimitPercentage,
		AlertThresholdPercentage: a.AlertThresholdPercentage,
		UpdatedAt:                a.UpdatedAt,
	})
}

func decodeAssumptions(data []byte) (*domain.Assumptions, error) {
	var c cachedAssumptions
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}

	return &domain.Assumptions{
		ID:                       c.ID,
		UrbanPricePerKm:          c.UrbanPricePerKm,
		InterurbanPricePerKm:     c.InterurbanPricePerKm,
		FeePercentage:            c.FeePercentage,
		FixedRate:                c.FixedRate,
		PriceLimitPercentage:     c.PriceLimitPercentage,
		AlertThresholdPercentage: c.AlertThresholdPercentage,
		UpdatedAt:                c.UpdatedAt,
	}, nil
}
