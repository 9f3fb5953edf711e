package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/meridianps/portfolio-api/internal/config"
)

func newTestRateLimiter(cfg *config.RateLimitConfig) *RateLimiter {
	return NewRateLimiter(cfg, zap.NewNop())
}

func hitOnce(handler http.Handler, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.RemoteAddr = ip + ":12345"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := newTestRateLimiter(&config.RateLimitConfig{Enabled: false})
	handler := rl.LimitByIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 50; i++ {
		assert.Equal(t, http.StatusOK, hitOnce(handler, "10.0.0.1"))
	}
}

func TestRateLimiter_LimitsByIP(t *testing.T) {
	rl := newTestRateLimiter(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 3,
	})
	handler := rl.LimitByIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hitOnce(handler, "10.0.0.1"), "request %d", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, hitOnce(handler, "10.0.0.1"))

	// A different client is unaffected.
	assert.Equal(t, http.StatusOK, hitOnce(handler, "10.0.0.2"))
}

func TestRateLimiter_WhitelistedIP(t *testing.T) {
	rl := newTestRateLimiter(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 1,
		WhitelistIPs:      []string{"10.0.0.9"},
	})
	handler := rl.LimitByIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, hitOnce(handler, "10.0.0.9"))
	}
}

func TestRateLimiter_WhitelistedPath(t *testing.T) {
	rl := newTestRateLimiter(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 1,
		WhitelistPaths:    []string{"/health", "/swagger/*"},
	})

	assert.True(t, rl.isPathWhitelisted("/health"))
	assert.True(t, rl.isPathWhitelisted("/swagger/index.html"))
	assert.False(t, rl.isPathWhitelisted("/api/v1/projects"))
}

func TestRateLimiter_ExceededResponseShape(t *testing.T) {
	rl := newTestRateLimiter(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 1,
	})
	handler := rl.LimitByIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	hitOnce(handler, "10.0.0.3")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.RemoteAddr = "10.0.0.3:12345"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")
}
