package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/learnhub-auth/internal/auth"
	"github.com/iliyamo/learnhub-auth/internal/model"
	"github.com/iliyamo/learnhub-auth/internal/queue"
	"github.com/iliyamo/learnhub-auth/internal/repository"
)

// FederatedStrategy signs callers in with a Google ID token, creating a
// google account on first sight.
type FederatedStrategy struct {
	verifier  AssertionVerifier
	accounts  AccountStore
	tokens    *auth.Tokens
	linkLocal bool
	cfg       StrategyConfig
}

// NewFederatedStrategy returns a strategy trusting identities vouched for
// by verifier. With linkLocal set, an assertion for an email owned by a
// local account signs into that account instead of failing with
// ErrAccountLinkRequired.
func NewFederatedStrategy(verifier AssertionVerifier, accounts AccountStore, tokens *auth.Tokens, linkLocal bool, cfg StrategyConfig) *FederatedStrategy {
	return &FederatedStrategy{
		verifier:  verifier,
		accounts:  accounts,
		tokens:    tokens,
		linkLocal: linkLocal,
		cfg:       cfg.withDefaults(),
	}
}

// Authenticate verifies assertion and returns a token for the account
// owning its email.
func (s *FederatedStrategy) Authenticate(ctx context.Context, assertion string) (Result, error) {
	gid, err := s.verifier.Verify(ctx, assertion)
	if err != nil {
		s.cfg.Logger.Warn("google assertion rejected", "reason", err)
		return Result{}, ErrAssertionInvalid
	}

	email := model.NormalizeEmail(gid.Email)
	acc, created, err := s.findOrCreate(ctx, email, displayName(gid.Name, email))
	if err != nil {
		return Result{}, err
	}

	event := queue.EventFederatedLogin
	if acc.Provider != model.ProviderGoogle {
		if !s.linkLocal {
			return Result{}, ErrAccountLinkRequired
		}
		event = queue.EventAccountLinked
	}

	res, err := issue(s.tokens, acc, s.cfg.HomePath)
	if err != nil {
		return Result{}, err
	}
	if created {
		s.cfg.Logger.Info("account registered", "account_id", acc.ID, "provider", acc.Provider)
	}
	publish(ctx, s.cfg, event, acc)
	return res, nil
}

func (s *FederatedStrategy) findOrCreate(ctx context.Context, email, name string) (model.Account, bool, error) {
	acc, err := s.accounts.FindByEmail(ctx, email)
	if err == nil {
		return acc, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.cfg.Logger.Error("google: lookup failed", "err", err)
		return model.Account{}, false, storeError(err)
	}

	acc, err = s.accounts.Create(ctx, repository.NewAccount{
		FullName: name,
		Email:    email,
		Provider: model.ProviderGoogle,
		Role:     model.RoleLearner,
	})
	if err == nil {
		return acc, true, nil
	}
	if !errors.Is(err, repository.ErrDuplicateEmail) {
		s.cfg.Logger.Error("google: create failed", "err", err)
		return model.Account{}, false, storeError(err)
	}

	// A concurrent request created the account first; use theirs.
	acc, err = s.accounts.FindByEmail(ctx, email)
	if err != nil {
		s.cfg.Logger.Error("google: re-read after duplicate failed", "err", err)
		return model.Account{}, false, storeError(err)
	}
	return acc, false, nil
}

// displayName falls back to the local part of the email and is cut to
// model.MaxNameLen runes.
func displayName(name, email string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		n, _, _ = strings.Cut(email, "@")
	}
	if r := []rune(n); len(r) > model.MaxNameLen {
		n = strings.TrimSpace(string(r[:model.MaxNameLen]))
	}
	return n
}
