package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagebook/stagebook/internal/config"
)

func cacheCfg() config.CacheConfig {
	return config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{"GET": true},
		TTL:         30 * time.Second,
		KeyStrategy: "route_query",
		Prefix:      "cache",
	}
}

func TestEncodeDecodePayload(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	body := []byte(`{"plays":[]}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	_, _, _, ok := decodePayload([]byte("short"))
	assert.False(t, ok)

	// header length pointing past the buffer
	payload, err := encodePayload(200, http.Header{}, nil)
	require.NoError(t, err)
	payload[4] = 0xFF
	_, _, _, ok = decodePayload(payload)
	assert.False(t, ok)
}

func newCacheCtx(e *echo.Echo, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/plays")
	return c, rec
}

func TestCacheKeyStable(t *testing.T) {
	e := echo.New()
	cfg := cacheCfg()

	c1, _ := newCacheCtx(e, "/api/v1/plays?page=1")
	c2, _ := newCacheCtx(e, "/api/v1/plays?page=1")
	c3, _ := newCacheCtx(e, "/api/v1/plays?page=2")

	assert.Equal(t, cacheKeyFrom(cfg, c1), cacheKeyFrom(cfg, c2))
	assert.NotEqual(t, cacheKeyFrom(cfg, c1), cacheKeyFrom(cfg, c3))
}

func TestCacheKeyStrategyRouteIgnoresQuery(t *testing.T) {
	e := echo.New()
	cfg := cacheCfg()
	cfg.KeyStrategy = "route"

	c1, _ := newCacheCtx(e, "/api/v1/plays?page=1")
	c2, _ := newCacheCtx(e, "/api/v1/plays?page=2")
	assert.Equal(t, cacheKeyFrom(cfg, c1), cacheKeyFrom(cfg, c2))
}

func TestRedisCacheHitReplaysResponse(t *testing.T) {
	e := echo.New()
	cfg := cacheCfg()

	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	cached, err := encodePayload(http.StatusOK, hdr, []byte(`{"plays":[]}`))
	require.NoError(t, err)

	c, rec := newCacheCtx(e, "/api/v1/plays")
	key := cacheKeyFrom(cfg, c)

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet(key).SetVal(string(cached))

	handlerCalled := false
	h := NewRedisCache(cfg, rdb)(func(c echo.Context) error {
		handlerCalled = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))

	assert.False(t, handlerCalled, "hit must not reach the handler")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"plays":[]}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheable(t *testing.T) {
	cases := []struct {
		name   string
		status int
		size   int64
		limit  int64
		want   bool
	}{
		{"ok within limit", http.StatusOK, 100, 1024, true},
		{"ok at limit", http.StatusOK, 1024, 1024, true},
		{"ok over limit", http.StatusOK, 2048, 1024, false},
		{"ok unbounded", http.StatusOK, 1 << 30, 0, true},
		{"not found", http.StatusNotFound, 10, 1024, false},
		{"server error", http.StatusInternalServerError, 10, 1024, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, cacheable(tc.status, tc.size, tc.limit))
		})
	}
}

func TestRedisCacheSkipsOversizedBody(t *testing.T) {
	e := echo.New()
	cfg := cacheCfg()
	cfg.MaxBodyBytes = 8

	c, rec := newCacheCtx(e, "/api/v1/plays")
	key := cacheKeyFrom(cfg, c)

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet(key).RedisNil() // miss, and no SetEx expected after

	body := `{"plays":["way past eight bytes"]}`
	h := NewRedisCache(cfg, rdb)(func(c echo.Context) error {
		return c.String(http.StatusOK, body)
	})
	require.NoError(t, h(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, body, rec.Body.String(), "client still gets the full body")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaptureWriterCountsPastLimit(t *testing.T) {
	cw := &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK, limit: 4}

	_, err := cw.Write([]byte("abcd"))
	require.NoError(t, err)
	_, err = cw.Write([]byte("ef"))
	require.NoError(t, err)

	assert.Equal(t, "abcd", cw.buf.String())
	assert.Equal(t, int64(6), cw.size, "size must keep counting past the buffer limit")
	assert.False(t, cacheable(cw.status, cw.size, cw.limit))
}

func TestRedisCacheSkipsUncachedMethods(t *testing.T) {
	e := echo.New()
	cfg := cacheCfg()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plays", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/plays")

	rdb, mock := redismock.NewClientMock() // no expectations: Redis untouched

	handlerCalled := false
	h := NewRedisCache(cfg, rdb)(func(c echo.Context) error {
		handlerCalled = true
		return c.NoContent(http.StatusCreated)
	})
	require.NoError(t, h(c))

	assert.True(t, handlerCalled)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
