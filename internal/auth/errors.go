package auth

import (
	"errors"
	"fmt"
)

// ErrInvalidToken is returned for any token that must not be trusted.
var ErrInvalidToken = errors.New("invalid token")

// ErrTokenExpired is a well-formed, correctly signed token past its expiry.
// It wraps ErrInvalidToken so callers that only care about validity need a
// single errors.Is check; the distinction exists for logs.
var ErrTokenExpired = fmt.Errorf("token expired: %w", ErrInvalidToken)

// ErrAssertionInvalid is returned when a federated identity assertion fails
// verification.
var ErrAssertionInvalid = errors.New("identity assertion invalid")
