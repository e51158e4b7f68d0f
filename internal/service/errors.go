package service

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// ErrValidation marks malformed input; the concrete error is *ValidationError.
	ErrValidation = errors.New("validation error")

	ErrEmailTaken          = errors.New("email taken")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAssertionInvalid    = errors.New("assertion invalid")
	ErrAccountLinkRequired = errors.New("account exists with another provider")

	// ErrStoreUnavailable wraps any failure of the credential store.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError lists the offending fields with a message each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %v", e.Fields)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func newValidationError(err error) error {
	fields := map[string]string{}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for k, v := range verrs {
			fields[k] = v.Error()
		}
	} else {
		fields["_"] = err.Error()
	}
	return &ValidationError{Fields: fields}
}

func storeError(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
