package repository

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/learnhub-auth/internal/model"
)

// NewAccount carries the fields a caller supplies when creating an account.
// PasswordHash stays empty for federated accounts.
type NewAccount struct {
	FullName     string
	Email        string
	PasswordHash string
	Provider     model.Provider
	Role         string
}

// build normalizes the input, checks the record invariants and assigns the
// identifier and timestamps.
func (n NewAccount) build(now time.Time) (model.Account, error) {
	if !n.Provider.Valid() {
		return model.Account{}, ErrInvalidProvider
	}
	if n.Provider == model.ProviderLocal && n.PasswordHash == "" {
		return model.Account{}, ErrMissingPasswordHash
	}
	role := strings.TrimSpace(n.Role)
	if role == "" {
		role = model.RoleLearner
	}
	return model.Account{
		ID:           uuid.NewString(),
		Email:        model.NormalizeEmail(n.Email),
		FullName:     strings.TrimSpace(n.FullName),
		PasswordHash: n.PasswordHash,
		Provider:     n.Provider,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
