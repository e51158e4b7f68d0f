package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/learnhub-auth/internal/config"
)

func limitedEcho(mw echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.POST("/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, mw)
	return e
}

func TestTokenBucket_DisabledIsPassThrough(t *testing.T) {
	e := limitedEcho(NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil, nil))
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestTokenBucket_FailsOpenWhenRedisIsDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Second, TTL: time.Minute, Prefix: "rl"}
	e := limitedEcho(NewTokenBucket(cfg, rdb, nil))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/login")

	cfg := config.RateLimitConfig{Prefix: "rl:auth"}

	cfg.KeyStrategy = "ip_route"
	assert.Equal(t, "rl:auth:ip:203.0.113.7:route:POST /login", buildRateKey(cfg, c))

	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:auth:user:anon", buildRateKey(cfg, c))

	c.Set("user_id", "acc-1")
	cfg.KeyStrategy = ""
	assert.Equal(t, "rl:auth:ip:203.0.113.7:user:acc-1:route:POST /login", buildRateKey(cfg, c))
}

func TestAsInt64(t *testing.T) {
	assert.EqualValues(t, 7, asInt64(int64(7)))
	assert.EqualValues(t, 3, asInt64("3"))
	assert.EqualValues(t, 0, asInt64(nil))
}
