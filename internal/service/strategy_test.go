package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/learnhub-auth/internal/auth"
	"github.com/iliyamo/learnhub-auth/internal/model"
	"github.com/iliyamo/learnhub-auth/internal/queue"
	"github.com/iliyamo/learnhub-auth/internal/repository"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.AuthEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.AuthEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

// brokenStore fails every call with err.
type brokenStore struct{ err error }

func (b brokenStore) FindByEmail(context.Context, string) (model.Account, error) {
	return model.Account{}, b.err
}
func (b brokenStore) FindByID(context.Context, string) (model.Account, error) {
	return model.Account{}, b.err
}
func (b brokenStore) Create(context.Context, repository.NewAccount) (model.Account, error) {
	return model.Account{}, b.err
}

type fixture struct {
	store  *repository.MemoryAccountRepo
	tokens *auth.Tokens
	events *recordingPublisher
	local  *LocalStrategy
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:  repository.NewMemoryAccountRepo(),
		tokens: auth.NewTokens(testSecret, time.Hour),
		events: &recordingPublisher{},
	}
	f.local = NewLocalStrategy(f.store, auth.NewHasher(bcrypt.MinCost, 4), f.tokens,
		StrategyConfig{HomePath: "/dashboard", Events: f.events})
	return f
}
