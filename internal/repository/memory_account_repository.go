package repository

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/learnhub-auth/internal/model"
)

// MemoryAccountRepo keeps accounts in process memory. The mutex is the
// serialization point that makes the uniqueness check and the insert a
// single step. Used for local development and tests.
type MemoryAccountRepo struct {
	mu      sync.RWMutex
	byEmail map[string]model.Account
	byID    map[string]string
}

func NewMemoryAccountRepo() *MemoryAccountRepo {
	return &MemoryAccountRepo{
		byEmail: make(map[string]model.Account),
		byID:    make(map[string]string),
	}
}

func (r *MemoryAccountRepo) Create(ctx context.Context, in NewAccount) (model.Account, error) {
	if err := ctx.Err(); err != nil {
		return model.Account{}, err
	}
	a, err := in.build(time.Now().UTC())
	if err != nil {
		return model.Account{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[a.Email]; ok {
		return model.Account{}, ErrDuplicateEmail
	}
	r.byEmail[a.Email] = a
	r.byID[a.ID] = a.Email
	return a, nil
}

func (r *MemoryAccountRepo) FindByEmail(ctx context.Context, email string) (model.Account, error) {
	if err := ctx.Err(); err != nil {
		return model.Account{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byEmail[model.NormalizeEmail(email)]
	if !ok {
		return model.Account{}, ErrNotFound
	}
	return a, nil
}

func (r *MemoryAccountRepo) FindByID(ctx context.Context, id string) (model.Account, error) {
	if err := ctx.Err(); err != nil {
		return model.Account{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	email, ok := r.byID[id]
	if !ok {
		return model.Account{}, ErrNotFound
	}
	return r.byEmail[email], nil
}

// Len returns the number of stored accounts.
func (r *MemoryAccountRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byEmail)
}
