// Package common defines shared constants and sentinel errors used across
// the PaceDog core. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Validation errors (bad value supplied by the caller).
	ErrInvalidInput = errors.New("invalid input")

	// State-machine errors (operation not legal in the current state).
	ErrInvalidState = errors.New("invalid state")

	// Persistence/import errors (unparsable or version-less payload).
	ErrCorruptData = errors.New("corrupt data")
)
