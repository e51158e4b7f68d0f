package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/learnhub-auth/internal/auth"
	"github.com/iliyamo/learnhub-auth/internal/model"
	"github.com/iliyamo/learnhub-auth/internal/queue"
	"github.com/iliyamo/learnhub-auth/internal/repository"
)

// RegisterInput is the payload of a local signup.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
}

// LoginInput is the payload of a local login.
type LoginInput struct {
	Email    string
	Password string
}

// LocalStrategy registers and authenticates email + password accounts.
type LocalStrategy struct {
	accounts AccountStore
	hasher   *auth.Hasher
	tokens   *auth.Tokens
	cfg      StrategyConfig
}

func NewLocalStrategy(accounts AccountStore, hasher *auth.Hasher, tokens *auth.Tokens, cfg StrategyConfig) *LocalStrategy {
	return &LocalStrategy{accounts: accounts, hasher: hasher, tokens: tokens, cfg: cfg.withDefaults()}
}

// Register creates a local account and signs the caller in. An email that
// is already stored, under any provider, yields ErrEmailTaken.
func (s *LocalStrategy) Register(ctx context.Context, in RegisterInput) (Result, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := model.NormalizeEmail(in.Email)
	if err := auth.ValidateRegistration(fullName, email, in.Password); err != nil {
		return Result{}, newValidationError(err)
	}

	_, err := s.accounts.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return Result{}, ErrEmailTaken
	case !errors.Is(err, repository.ErrNotFound):
		s.cfg.Logger.Error("register: lookup failed", "err", err)
		return Result{}, storeError(err)
	}

	digest, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return Result{}, err
	}

	acc, err := s.accounts.Create(ctx, repository.NewAccount{
		FullName:     fullName,
		Email:        email,
		PasswordHash: digest,
		Provider:     model.ProviderLocal,
		Role:         model.RoleLearner,
	})
	if err != nil {
		// Lost a race against a concurrent signup for the same email.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return Result{}, ErrEmailTaken
		}
		s.cfg.Logger.Error("register: create failed", "err", err)
		return Result{}, storeError(err)
	}

	res, err := issue(s.tokens, acc, s.cfg.HomePath)
	if err != nil {
		return Result{}, err
	}
	s.cfg.Logger.Info("account registered", "account_id", acc.ID, "provider", acc.Provider)
	publish(ctx, s.cfg, queue.EventAccountRegistered, acc)
	return res, nil
}

// Login checks an email + password pair. Only local accounts are
// considered; a federated account with the same email is ErrUserNotFound.
func (s *LocalStrategy) Login(ctx context.Context, in LoginInput) (Result, error) {
	email := model.NormalizeEmail(in.Email)
	if err := auth.ValidateLogin(email, in.Password); err != nil {
		return Result{}, newValidationError(err)
	}

	acc, err := s.accounts.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.cfg.Logger.Error("login: lookup failed", "err", err)
		return Result{}, storeError(err)
	}
	if err != nil || acc.Provider != model.ProviderLocal {
		if err := s.hasher.Decoy(ctx, in.Password); err != nil {
			return Result{}, fmt.Errorf("login: no hashing slot: %w", err)
		}
		return Result{}, ErrUserNotFound
	}

	ok, err := s.hasher.Compare(ctx, in.Password, acc.PasswordHash)
	if err != nil {
		s.cfg.Logger.Warn("login: no hashing slot", "account_id", acc.ID, "err", err)
		return Result{}, fmt.Errorf("login: no hashing slot: %w", err)
	}
	if !ok {
		s.cfg.Logger.Debug("login: password mismatch", "account_id", acc.ID)
		return Result{}, ErrInvalidCredentials
	}

	res, err := issue(s.tokens, acc, s.cfg.HomePath)
	if err != nil {
		return Result{}, err
	}
	publish(ctx, s.cfg, queue.EventAccountLogin, acc)
	return res, nil
}
