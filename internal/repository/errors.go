// Package repository defines the account store implementations and the
// sentinel errors they share. Higher layers match these with errors.Is to
// tell "no such account" and "email already used" apart from storage
// failures, which are returned wrapped.
package repository

import "errors"

// ErrNotFound is returned when no account matches the lookup key.
var ErrNotFound = errors.New("account not found")

// ErrDuplicateEmail is returned by Create when the email is already taken.
// For the MySQL store this comes from the unique index, so two concurrent
// inserts for the same email can never both succeed.
var ErrDuplicateEmail = errors.New("duplicate email")

// ErrMissingPasswordHash is returned by Create for a local account without
// a password digest.
var ErrMissingPasswordHash = errors.New("local account requires a password hash")

// ErrInvalidProvider is returned by Create for an unknown provider tag.
var ErrInvalidProvider = errors.New("invalid provider")
