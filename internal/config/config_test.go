package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "cupo", cfg.Database.DBName)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 4, cfg.Pricing.ReferenceOccupancy)
	assert.Equal(t, "5000", cfg.Pricing.SuggestedPriceFloor.String())
	assert.Equal(t, "30", cfg.Pricing.UrbanDistanceThresholdKm.String())
	assert.Equal(t, 5, cfg.Pricing.MaxSeats)
	assert.Equal(t, 10*time.Second, cfg.Pricing.TransitionLockTTL)
}

func TestFromViper_EnvOverrides(t *testing.T) {
	t.Setenv("PRICING_MAX_SEATS", "3")
	t.Setenv("PRICING_MIN_PRICE_PER_SEAT", "2500.50")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Pricing.MaxSeats)
	assert.Equal(t, "2500.5", cfg.Pricing.MinPricePerSeat.String())
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestFromViper_RejectsInvalidPricing(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"zero occupancy", "pricing.reference_occupancy", 0},
		{"inverted seat range", "pricing.max_seats", 0},
		{"malformed decimal", "pricing.suggested_price_floor", "five thousand"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)

			_, err := FromViper(v)
			assert.Error(t, err)
		})
	}
}
