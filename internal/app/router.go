package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"cupo/internal/handler"
	"cupo/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	PricingHandler *handler.PricingHandler
	WalletHandler  *handler.WalletHandler
	TripHandler    *handler.TripHandler
	DraftHandler   *handler.DraftHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
	Logger         logrus.FieldLogger
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
		router.Use(middleware.TransactionAttributes())
	}

	if deps.RedisClient != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.RedisClient, deps.Logger))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	{
		pricing := v1.Group("/pricing")
		{
			pricing.GET("/current", deps.PricingHandler.GetCurrent)
			pricing.POST("/refresh", deps.PricingHandler.Refresh)
			pricing.POST("/quote", deps.PricingHandler.Quote)
			pricing.POST("/fee", deps.PricingHandler.Fee)
			pricing.POST("/guarantee", deps.PricingHandler.Guarantee)
			pricing.POST("/validate-price", deps.PricingHandler.ValidatePrice)
			pricing.POST("/clamp-price", deps.PricingHandler.ClampPrice)
			pricing.POST("/commission", deps.PricingHandler.Commission)
		}

		wallets := v1.Group("/wallets")
		{
			wallets.GET("/:userID", deps.WalletHandler.GetWallet)
			wallets.GET("/:userID/transactions", deps.WalletHandler.GetTransactions)
			wallets.POST("/:userID/check-balance", deps.WalletHandler.CheckBalance)
		}

		trips := v1.Group("/trips")
		{
			trips.POST("", deps.TripHandler.PublishTrip)
			trips.GET("/:id", deps.TripHandler.GetTrip)
			trips.POST("/:id/start", deps.TripHandler.StartTrip)
			trips.POST("/:id/cancel", deps.TripHandler.CancelTrip)
			trips.POST("/:id/finish", deps.TripHandler.FinishTrip)
		}

		v1.GET("/drivers/:id/trips", deps.TripHandler.ListDriverTrips)

		drafts := v1.Group("/drafts")
		{
			drafts.GET("/:userID", deps.DraftHandler.GetDraft)
			drafts.PUT("/:userID", deps.DraftHandler.SaveDraft)
			drafts.DELETE("/:userID", deps.DraftHandler.DeleteDraft)
		}
	}

	return router
}
