package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/learnhub-auth/internal/auth"
	"github.com/iliyamo/learnhub-auth/internal/config"
	"github.com/iliyamo/learnhub-auth/internal/database"
	"github.com/iliyamo/learnhub-auth/internal/handler"
	"github.com/iliyamo/learnhub-auth/internal/logging"
	"github.com/iliyamo/learnhub-auth/internal/middleware"
	"github.com/iliyamo/learnhub-auth/internal/queue"
	"github.com/iliyamo/learnhub-auth/internal/repository"
	"github.com/iliyamo/learnhub-auth/internal/router"
	"github.com/iliyamo/learnhub-auth/internal/service"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	var (
		accounts service.AccountStore
		db       *sql.DB
	)
	switch cfg.DBDriver {
	case config.DriverMemory:
		logger.Warn("using in-memory account store; data is lost on restart")
		accounts = repository.NewMemoryAccountRepo()
	default:
		var err error
		db, err = database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		accounts = repository.NewAccountRepo(db)
	}

	var rdb *redis.Client
	rlCfg := config.LoadRateLimitConfig()
	if rlCfg.Enabled {
		if rdb = config.NewRedisClient(); rdb == nil {
			logger.Warn("redis unreachable; auth rate limiting disabled")
		} else {
			defer rdb.Close()
		}
	}

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.EventsEnabled {
		pub := queue.NewPublisher(cfg.AMQPURL, logger)
		defer pub.Close()
		events = pub
	}
	if cfg.EventsConsumer {
		go func() {
			if err := queue.StartAuthEventConsumer(ctx, cfg.AMQPURL, cfg.EventsLogPath, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("auth event consumer stopped", "err", err)
			}
		}()
	}

	hasher := auth.NewHasher(cfg.BcryptCost, cfg.HashConcurrency)
	tokens := auth.NewTokens([]byte(cfg.JWTSecret), cfg.TokenTTL)
	stratCfg := service.StrategyConfig{HomePath: cfg.HomePath, Events: events, Logger: logger}

	h := &handler.AuthHandler{
		Local:     service.NewLocalStrategy(accounts, hasher, tokens, stratCfg),
		Accounts:  accounts,
		Cookie:    handler.CookieConfig{Name: cfg.CookieName, Secure: cfg.CookieSecure, TTL: tokens.TTL()},
		LoginPath: cfg.LoginPath,
		Verbose:   cfg.VerboseAuthErrors,
		Log:       logger,
	}

	if cfg.GoogleClientID != "" {
		jwks, err := auth.NewGoogleKeyfunc(ctx, cfg.GoogleCertsURL, logger)
		if err != nil {
			return err
		}
		defer jwks.EndBackground()
		verifier := auth.NewGoogleVerifier(cfg.GoogleClientID, jwks.Keyfunc)
		h.Federated = service.NewFederatedStrategy(verifier, accounts, tokens, cfg.GoogleLinkLocal, stratCfg)
	} else {
		logger.Info("GOOGLE_CLIENT_ID not set; POST /google disabled")
	}

	e := newEcho(logger)

	var ready echo.HandlerFunc
	if db != nil {
		ready = handler.Ready(map[string]handler.Pinger{"db": db})
	}
	router.RegisterRoutes(e, ready)
	router.RegisterAuth(e, h, middleware.NewGuard(tokens, cfg.CookieName, logger), router.AuthOptions{
		LoginPath:         cfg.LoginPath,
		RedirectAnonymous: cfg.RedirectAnonymous,
		Limiter:           middleware.NewTokenBucket(rlCfg, rdb, logger),
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info("listening", "addr", addr, "env", cfg.Env, "store", cfg.DBDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newEcho(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(_ echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				attrs = append(attrs, "err", v.Error)
				logger.Error("request", attrs...)
				return nil
			}
			logger.Info("request", attrs...)
			return nil
		},
	}))
	return e
}
