package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"research-ai-api/internal/config"
)

type countingLimiter struct {
	limit int
	seen  map[string]int
	err   error
}

func (l *countingLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	if l.seen == nil {
		l.seen = make(map[string]int)
	}
	l.seen[key]++
	return l.seen[key] <= limit, nil
}

func newLimitedEngine(cfg config.RateLimitConfig, limiter RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/gpt", RateLimit(cfg, limiter), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"result": "ok"})
	})
	return r
}

func post(r http.Handler) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/gpt", nil))
	return w
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	limiter := &countingLimiter{}
	r := newLimitedEngine(config.RateLimitConfig{Enabled: true, RequestsPerWindow: 2, Window: time.Minute}, limiter)

	assert.Equal(t, http.StatusOK, post(r).Code)
	assert.Equal(t, http.StatusOK, post(r).Code)

	w := post(r)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, limiter.seen, "ratelimit:192.0.2.1:/api/gpt")
}

func TestRateLimit_FailsOpen(t *testing.T) {
	limiter := &countingLimiter{err: errors.New("redis down")}
	r := newLimitedEngine(config.RateLimitConfig{Enabled: true, RequestsPerWindow: 1}, limiter)

	assert.Equal(t, http.StatusOK, post(r).Code)
	assert.Equal(t, http.StatusOK, post(r).Code)
}

func TestRateLimit_Disabled(t *testing.T) {
	limiter := &countingLimiter{}
	r := newLimitedEngine(config.RateLimitConfig{Enabled: false, RequestsPerWindow: 1}, limiter)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, post(r).Code)
	}
	assert.Empty(t, limiter.seen)
}
