package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-123", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestLoggerMiddleware_LevelByStatus(t *testing.T) {
	logger, hook := test.NewNullLogger()

	r := gin.New()
	r.Use(RequestIDMiddleware(), LoggerMiddleware(logger))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	tests := []struct {
		path    string
		level   logrus.Level
		message string
	}{
		{"/ok", logrus.InfoLevel, "Request processed"},
		{"/missing", logrus.WarnLevel, "Client error"},
		{"/broken", logrus.ErrorLevel, "Server error"},
	}

	for _, tt := range tests {
		hook.Reset()
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path+"?debug=1", nil))

		entry := hook.LastEntry()
		require.NotNil(t, entry, tt.path)
		assert.Equal(t, tt.level, entry.Level, tt.path)
		assert.Equal(t, tt.message, entry.Message, tt.path)
		assert.Equal(t, tt.path+"?debug=1", entry.Data["path"])
		assert.NotEmpty(t, entry.Data["request_id"])
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware())
	r.POST("/v1/trips", func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/v1/trips", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Idempotency-Key")
}

func TestIdempotencyMiddleware_RedisDownFallsThrough(t *testing.T) {
	logger, hook := test.NewNullLogger()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	calls := 0
	r := gin.New()
	r.Use(IdempotencyMiddleware(client, logger))
	r.POST("/v1/trips/:id/start", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"status": "started"})
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/trips/trip-1/start", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Idempotent-Replayed"))
	}

	assert.Equal(t, 2, calls)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestIdempotencyCacheKey_ScopedByRoute(t *testing.T) {
	start := idempotencyCacheKey(http.MethodPost, "/v1/trips/trip-1/start", "key-1")
	cancel := idempotencyCacheKey(http.MethodPost, "/v1/trips/trip-1/cancel", "key-1")

	assert.NotEqual(t, start, cancel)
	assert.Equal(t, "idempotency:POST:/v1/trips/trip-1/start:key-1", start)
	assert.True(t, isMutating(http.MethodDelete))
	assert.False(t, isMutating(http.MethodGet))
}

func TestCacheableResponse(t *testing.T) {
	retryLater := http.Header{}
	retryLater.Set("Retry-After", "1")

	tests := []struct {
		name      string
		status    int
		header    http.Header
		cacheable bool
	}{
		{"created", http.StatusCreated, http.Header{}, true},
		{"invalid transition", http.StatusConflict, http.Header{}, true},
		{"cancellation blocked", http.StatusUnprocessableEntity, http.Header{}, true},
		{"transition in progress", http.StatusConflict, retryLater, false},
		{"rate limited", http.StatusTooManyRequests, http.Header{}, false},
		{"config unavailable", http.StatusServiceUnavailable, http.Header{}, false},
		{"internal error", http.StatusInternalServerError, http.Header{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.cacheable, cacheableResponse(tt.status, tt.header))
		})
	}
}
