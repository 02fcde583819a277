package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	Log      LogConfig
	Pricing  PricingConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	AutoMigrate bool
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string
	Format string // json or text
}

// PricingConfig holds the business constants that are not stored in the assumptions table.
type PricingConfig struct {
	ReferenceOccupancy       int
	SuggestedPriceFloor      decimal.Decimal
	UrbanDistanceThresholdKm decimal.Decimal
	MinSeats                 int
	MaxSeats                 int
	MinPricePerSeat          decimal.Decimal
	AssumptionsCacheTTL      time.Duration
	TransitionLockTTL        time.Duration
	DraftTTL                 time.Duration
}

var defaults = map[string]any{
	"server.port":          "8080",
	"server.read_timeout":  10 * time.Second,
	"server.write_timeout": 10 * time.Second,

	"db.host":         "localhost",
	"db.port":         "5432",
	"db.user":         "postgres",
	"db.password":     "postgres",
	"db.name":         "cupo",
	"db.sslmode":      "disable",
	"db.auto_migrate": false,

	"redis.addr":     "localhost:6379",
	"redis.password": "",
	"redis.db":       0,

	"new_relic.app_name":    "cupo-wallet-service",
	"new_relic.license_key": "",
	"new_relic.enabled":     false,

	"log.level":  "info",
	"log.format": "json",

	"pricing.reference_occupancy":         4,
	"pricing.suggested_price_floor":       "5000",
	"pricing.urban_distance_threshold_km": "30",
	"pricing.min_seats":                   1,
	"pricing.max_seats":                   5,
	"pricing.min_price_per_seat":          "2000",
	"pricing.assumptions_cache_ttl":       60 * time.Second,
	"pricing.transition_lock_ttl":         10 * time.Second,
	"pricing.draft_ttl":                   24 * time.Hour,
}

// Load reads configuration from an optional config.yaml and environment variables.
// Environment variables use the upper-cased key with dots replaced by underscores,
// e.g. DB_HOST or PRICING_MAX_SEATS.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper builds a Config from an existing viper instance, applying defaults and env overrides.
func FromViper(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	pricing, err := loadPricing(v)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Port:         v.GetString("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetString("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),

			AutoMigrate: v.GetBool("db.auto_migrate"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		NewRelic: NewRelicConfig{
			AppName:    v.GetString("new_relic.app_name"),
			LicenseKey: v.GetString("new_relic.license_key"),
			Enabled:    v.GetBool("new_relic.enabled"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Pricing: pricing,
	}, nil
}

func loadPricing(v *viper.Viper) (PricingConfig, error) {
	floor, err := getDecimal(v, "pricing.suggested_price_floor")
	if err != nil {
		return PricingConfig{}, err
	}
	threshold, err := getDecimal(v, "pricing.urban_distance_threshold_km")
	if err != nil {
		return PricingConfig{}, err
	}
	minPrice, err := getDecimal(v, "pricing.min_price_per_seat")
	if err != nil {
		return PricingConfig{}, err
	}

	cfg := PricingConfig{
		ReferenceOccupancy:       v.GetInt("pricing.reference_occupancy"),
		SuggestedPriceFloor:      floor,
		UrbanDistanceThresholdKm: threshold,
		MinSeats:                 v.GetInt("pricing.min_seats"),
		MaxSeats:                 v.GetInt("pricing.max_seats"),
		MinPricePerSeat:          minPrice,
		AssumptionsCacheTTL:      v.GetDuration("pricing.assumptions_cache_ttl"),
		TransitionLockTTL:        v.GetDuration("pricing.transition_lock_ttl"),
		DraftTTL:                 v.GetDuration("pricing.draft_ttl"),
	}

	if cfg.ReferenceOccupancy <= 0 {
		return PricingConfig{}, fmt.Errorf("pricing.reference_occupancy must be positive, got %d", cfg.ReferenceOccupancy)
	}
	if cfg.MinSeats < 1 || cfg.MaxSeats < cfg.MinSeats {
		return PricingConfig{}, fmt.Errorf("invalid seat range [%d, %d]", cfg.MinSeats, cfg.MaxSeats)
	}

	return cfg, nil
}

func getDecimal(v *viper.Viper, key string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.GetString(key))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
