package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/learnhub-auth/internal/auth"
)

const strongSecret = "0123456789abcdef0123456789abcdef"

func setMemoryEnv(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("JWT_SECRET", strongSecret)
}

func TestFromEnv_Defaults(t *testing.T) {
	setMemoryEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Positive(t, cfg.HashConcurrency)
	assert.Equal(t, "token", cfg.CookieName)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, auth.DefaultGoogleCertsURL, cfg.GoogleCertsURL)
	assert.False(t, cfg.GoogleLinkLocal)
	assert.Equal(t, "/login", cfg.LoginPath)
	assert.Equal(t, "/dashboard", cfg.HomePath)
	assert.False(t, cfg.VerboseAuthErrors)
	assert.True(t, cfg.RedirectAnonymous)
	assert.Equal(t, "logs/auth.log", cfg.EventsLogPath)
}

func TestFromEnv_Overrides(t *testing.T) {
	setMemoryEnv(t)
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("GOOGLE_CLIENT_ID", "client-1")
	t.Setenv("GOOGLE_LINK_LOCAL", "yes")
	t.Setenv("AUTH_VERBOSE_ERRORS", "1")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "client-1", cfg.GoogleClientID)
	assert.True(t, cfg.GoogleLinkLocal)
	assert.True(t, cfg.VerboseAuthErrors)
}

func TestFromEnv_MissingRequired(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_NAME", "")

	_, err := FromEnv()
	require.Error(t, err)
	for _, key := range []string{"APP_ENV", "JWT_SECRET", "DB_USER", "DB_HOST", "DB_NAME"} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestFromEnv_MalformedValues(t *testing.T) {
	setMemoryEnv(t)
	t.Setenv("TOKEN_TTL", "two hours")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_TTL")
}

func TestFromEnv_ProdForcesSecureCookie(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "learnhub")
	t.Setenv("JWT_SECRET", strongSecret)
	t.Setenv("COOKIE_SECURE", "false")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "3306", cfg.DBPort)
}

func TestValidate(t *testing.T) {
	base := Config{Env: "test", DBDriver: DriverMemory, JWTSecret: strongSecret, TokenTTL: time.Hour, CookieName: "token"}
	require.NoError(t, base.Validate())

	cases := map[string]func(c *Config){
		"short secret":   func(c *Config) { c.JWTSecret = "short" },
		"no secret":      func(c *Config) { c.JWTSecret = "" },
		"unknown driver": func(c *Config) { c.DBDriver = "sqlite" },
		"zero ttl":       func(c *Config) { c.TokenTTL = 0 },
		"memory in prod": func(c *Config) { c.Env = "prod" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}

	dev := base
	dev.Env = "dev"
	dev.JWTSecret = "short"
	assert.NoError(t, dev.Validate(), "dev tolerates short secrets")
}

func TestLoadRateLimitConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
	t.Setenv("RATE_LIMIT_TTL", "1m")

	rl := LoadRateLimitConfig()
	assert.True(t, rl.Enabled)
	assert.Equal(t, 3, rl.Capacity)
	assert.Equal(t, time.Minute, rl.RefillInterval)
	assert.Equal(t, 5*time.Minute, rl.TTL)
	assert.Equal(t, "ip_route", rl.KeyStrategy)
}

func TestRedisOptions(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_TLS", "true")

	opts := RedisOptions()
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.NotNil(t, opts.TLSConfig)
}
