package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"cupo/internal/app"
	"cupo/internal/config"
	"cupo/internal/handler"
	internalRedis "cupo/internal/redis"
	"cupo/internal/repository/postgres"
	"cupo/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic first so the database and Redis clients are instrumented.
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.WithError(err).Warn("failed to initialize New Relic")
		} else {
			logger.WithField("app", cfg.NewRelic.AppName).Info("New Relic enabled")
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL")

	if cfg.Database.AutoMigrate {
		if err := app.EnsureSchema(ctx, db); err != nil {
			logger.WithError(err).Fatal("failed to apply schema")
		}
	}

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to redis")
	}
	defer redisClient.Close()
	logger.Info("Connected to Redis")

	server := wireServer(db, redisClient, nrApp, logger, cfg)

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}

	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	logger.Info("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, logger *logrus.Logger, cfg *config.Config) *http.Server {
	// Redis stores.
	cacheStore := internalRedis.NewCacheStore(redisClient, cfg.Pricing.AssumptionsCacheTTL)
	lockStore := internalRedis.NewLockStore(redisClient)
	draftStore := internalRedis.NewDraftStore(redisClient, cfg.Pricing.DraftTTL)

	// Repositories.
	assumptionsRepo := postgres.NewAssumptionsRepository(db)
	tripRepo := postgres.NewTripRepository(db)
	walletRepo := postgres.NewWalletRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)

	// Services.
	policy := service.PricingPolicy{
		ReferenceOccupancy:       cfg.Pricing.ReferenceOccupancy,
		SuggestedPriceFloor:      cfg.Pricing.SuggestedPriceFloor,
		UrbanDistanceThresholdKm: cfg.Pricing.UrbanDistanceThresholdKm,
		MinSeats:                 cfg.Pricing.MinSeats,
		MaxSeats:                 cfg.Pricing.MaxSeats,
		MinPricePerSeat:          cfg.Pricing.MinPricePerSeat,
	}
	assumptionsService := service.NewAssumptionsService(assumptionsRepo, cacheStore, policy, logger)
	walletService := service.NewWalletService(walletRepo, transactionRepo, assumptionsService)
	tripService := service.NewTripService(db, tripRepo, walletRepo, assumptionsService, lockStore, draftStore, cfg.Pricing.TransitionLockTTL, logger)
	draftService := service.NewDraftService(draftStore, assumptionsService, logger)

	router := app.NewRouter(app.RouterDeps{
		PricingHandler: handler.NewPricingHandler(assumptionsService),
		WalletHandler:  handler.NewWalletHandler(walletService),
		TripHandler:    handler.NewTripHandler(tripService),
		DraftHandler:   handler.NewDraftHandler(draftService),
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
		Logger:         logger,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
