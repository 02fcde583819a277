package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cupo/internal/handler"
)

func TestNewRouter_HealthAndPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, hook := test.NewNullLogger()

	router := NewRouter(RouterDeps{
		PricingHandler: handler.NewPricingHandler(nil),
		WalletHandler:  handler.NewWalletHandler(nil),
		TripHandler:    handler.NewTripHandler(nil),
		DraftHandler:   handler.NewDraftHandler(nil),
		Logger:         logger,
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "/health", hook.LastEntry().Data["path"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/v1/trips/trip-1/start", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS wallet_transactions")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, EnsureSchema(context.Background(), db))

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("permission denied"))
	err = EnsureSchema(context.Background(), db)
	assert.ErrorContains(t, err, "failed to apply schema")

	assert.NoError(t, mock.ExpectationsWereMet())
}
