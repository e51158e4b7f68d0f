package service

import (
	"context"

	"github.com/iliyamo/learnhub-auth/internal/auth"
	"github.com/iliyamo/learnhub-auth/internal/model"
	"github.com/iliyamo/learnhub-auth/internal/queue"
	"github.com/iliyamo/learnhub-auth/internal/repository"
)

// AccountStore is the credential store the strategies depend on.
// repository.AccountRepo and repository.MemoryAccountRepo implement it.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (model.Account, error)
	FindByID(ctx context.Context, id string) (model.Account, error)
	Create(ctx context.Context, in repository.NewAccount) (model.Account, error)
}

// AssertionVerifier checks a federated identity assertion.
type AssertionVerifier interface {
	Verify(ctx context.Context, assertion string) (auth.GoogleIdentity, error)
}

// EventPublisher receives auth events. Delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.AuthEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.AuthEvent) error { return nil }

// Result is the outcome of a successful register or login.
type Result struct {
	Account  model.Account
	Token    auth.Token
	Redirect string
}
