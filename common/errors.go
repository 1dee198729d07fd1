// Package common holds the sentinel errors shared by the client core and the
// backend. Callers should match them with errors.Is.
package common

import "errors"

var (
	// Authentication errors.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("an account with this email already exists")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrAuthInProgress     = errors.New("an authentication request is already in progress")

	// Data source errors.
	ErrDataSourceUnavailable = errors.New("could not load data")
	ErrNotFound              = errors.New("not found")
	ErrRateLimited           = errors.New("too many requests")

	// Validation errors.
	ErrInvalidInput = errors.New("invalid input")
)
