package auth

import (
	"context"

	"github.com/iliyamo/learnhub-auth/internal/model"
)

// Identity is what downstream handlers learn about the caller. The zero
// value is the anonymous identity.
type Identity struct {
	AccountID string         `json:"accountId"`
	Email     string         `json:"email"`
	FullName  string         `json:"fullName"`
	Role      string         `json:"role"`
	Provider  model.Provider `json:"provider"`
}

// IdentityOf maps a stored account to the identity carried in its tokens.
func IdentityOf(a model.Account) Identity {
	return Identity{
		AccountID: a.ID,
		Email:     a.Email,
		FullName:  a.FullName,
		Role:      a.Role,
		Provider:  a.Provider,
	}
}

// Anonymous reports whether no account is attached.
func (i Identity) Anonymous() bool { return i.AccountID == "" }

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored in ctx, or the anonymous
// identity when none is present.
func IdentityFromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey{}).(Identity)
	return id
}
