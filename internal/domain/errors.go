package domain

import "errors"

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrGeneration marks failures of the external text-generation call.
	// These surface to the caller as a generation failure; the fail-open
	// policy never substitutes fabricated content for a failed initial call.
	ErrGeneration = errors.New("generation failed")
)
