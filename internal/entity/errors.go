package entity

import "errors"

// Domain errors
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionReady    = errors.New("session already ready for diagnosis")

	// Generator errors
	ErrGeneratorUnavailable = errors.New("generator unavailable: missing or invalid credential")
	ErrMalformedResponse    = errors.New("malformed generator response")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")
)
