package common

import "errors"

// Business logic errors
var (
	// ErrUnauthorized covers invalid, expired and revoked credentials.
	ErrUnauthorized = errors.New("unauthorized")
)
