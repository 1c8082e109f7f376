package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/stagebook/stagebook/internal/config"
)

func rateCtx(t *testing.T, target string, userID interface{}) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = "10.1.2.3:5555"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/orders")
	if userID != nil {
		c.Set("user_id", userID)
	}
	return c
}

func TestBuildRateKeyStrategies(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl"}

	cases := []struct {
		strategy string
		userID   interface{}
		want     string
	}{
		{"ip", nil, "rl:ip:10.1.2.3"},
		{"user", float64(42), "rl:user:42"},
		{"user", nil, "rl:user:anon"},
		{"route", nil, "rl:route:GET /api/v1/orders"},
		{"ip_user", uint64(7), "rl:ip:10.1.2.3:user:7"},
		{"ip_user_route", "9", "rl:ip:10.1.2.3:user:9:route:GET /api/v1/orders"},
	}
	for _, tc := range cases {
		t.Run(tc.strategy, func(t *testing.T) {
			cfg.KeyStrategy = tc.strategy
			c := rateCtx(t, "/api/v1/orders", tc.userID)
			assert.Equal(t, tc.want, buildRateKey(cfg, c))
		})
	}
}

func TestBuildRateKeyUnknownStrategyFallsBack(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "bogus"}
	c := rateCtx(t, "/api/v1/orders", nil)
	assert.Equal(t, "rl:ip:10.1.2.3:user:anon:route:GET /api/v1/orders", buildRateKey(cfg, c))
}

func TestAsInt64(t *testing.T) {
	assert.Equal(t, int64(5), asInt64(int64(5)))
	assert.Equal(t, int64(5), asInt64(5))
	assert.Equal(t, int64(5), asInt64(5.9))
	assert.Equal(t, int64(5), asInt64("5"))
	assert.Equal(t, int64(0), asInt64("nope"))
	assert.Equal(t, int64(0), asInt64(nil))
}

func TestTokenBucketDisabledPassesThrough(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: false}
	called := false
	h := NewTokenBucket(cfg, nil)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	c := rateCtx(t, "/api/v1/orders", nil)
	assert.NoError(t, h(c))
	assert.True(t, called)
}
