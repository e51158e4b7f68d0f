package model

import (
	"strings"
	"time"
)

// Provider tags the strategy that created an account. It is fixed at
// creation time.
type Provider string

const (
	ProviderLocal  Provider = "local"
	ProviderGoogle Provider = "google"
)

// Valid reports whether p is one of the known providers.
func (p Provider) Valid() bool {
	return p == ProviderLocal || p == ProviderGoogle
}

// Role labels carried by accounts and tokens.
const (
	RoleLearner = "learner"
	RoleMentor  = "mentor"
	RoleAdmin   = "admin"
)

// MaxNameLen bounds FullName in runes; the full_name column is VARCHAR(200).
const MaxNameLen = 200

// KnownRoles lists every role label the platform hands out.
var KnownRoles = []string{RoleLearner, RoleMentor, RoleAdmin}

// Account represents one authenticated identity as stored in the
// `accounts` table.
//
// Fields:
//
//	ID           – opaque identifier (UUID), assigned at creation.
//	Email        – unique, lower-cased identifying key.
//	FullName     – display name.
//	PasswordHash – bcrypt digest; empty for federated-only accounts.
//	Provider     – local or google.
//	Role         – role label, "learner" unless changed elsewhere.
type Account struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Provider     Provider
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account carries a local credential.
func (a Account) HasPassword() bool { return a.PasswordHash != "" }

// NormalizeEmail trims and lower-cases an email so lookups and the unique
// index agree on a single spelling.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
