package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@x.com", NormalizeEmail("  Alice@X.com \n"))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestProviderValid(t *testing.T) {
	assert.True(t, ProviderLocal.Valid())
	assert.True(t, ProviderGoogle.Valid())
	assert.False(t, Provider("github").Valid())
	assert.False(t, Provider("").Valid())
}

func TestAccountHasPassword(t *testing.T) {
	assert.True(t, Account{PasswordHash: "$2a$10$x"}.HasPassword())
	assert.False(t, Account{Provider: ProviderGoogle}.HasPassword())
}
