package services

import "errors"

var (
	// ErrNotFound signals a missing listing or user, or a search without results.
	ErrNotFound = errors.New("not found")
	// ErrConflict signals an email that is already registered.
	ErrConflict = errors.New("email is already in use")
	// ErrUnauthorized covers bad credentials, invalid product keys and ownership mismatches.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited signals too many failed sign-in attempts.
	ErrRateLimited = errors.New("too many attempts")

	// ErrInvalidToken signals a malformed token or a bad signature.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired signals a well-signed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
)
