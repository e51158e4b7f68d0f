package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/iliyamo/learnhub-auth/internal/auth"
	"github.com/iliyamo/learnhub-auth/internal/model"
	"github.com/iliyamo/learnhub-auth/internal/queue"
)

// StrategyConfig carries the collaborators shared by both strategies.
type StrategyConfig struct {
	// HomePath is returned as the redirect target after a successful login.
	HomePath string
	Events   EventPublisher
	Logger   *slog.Logger
}

func (c StrategyConfig) withDefaults() StrategyConfig {
	if c.HomePath == "" {
		c.HomePath = "/dashboard"
	}
	if c.Events == nil {
		c.Events = NopPublisher{}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

type clientIPKey struct{}

// WithClientIP attaches the caller's address to ctx for auth events.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func clientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// issue mints the token for acc and builds the result.
func issue(tokens *auth.Tokens, acc model.Account, redirect string) (Result, error) {
	tok, err := tokens.Issue(auth.IdentityOf(acc))
	if err != nil {
		return Result{}, err
	}
	return Result{Account: acc, Token: tok, Redirect: redirect}, nil
}

// publish sends an event; failures are logged and otherwise ignored.
func publish(ctx context.Context, cfg StrategyConfig, typ string, acc model.Account) {
	ev := queue.AuthEvent{
		Type:       typ,
		AccountID:  acc.ID,
		Email:      acc.Email,
		Provider:   string(acc.Provider),
		RemoteIP:   clientIP(ctx),
		OccurredAt: time.Now().UTC(),
	}
	if err := cfg.Events.Publish(context.WithoutCancel(ctx), ev); err != nil {
		cfg.Logger.Warn("auth event not published", "type", typ, "account_id", acc.ID, "err", err)
	}
}
