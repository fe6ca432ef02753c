package token

import "errors"

var (
	ErrMissingSecret = errors.New("jwt signing secret is not configured")

	// ErrInvalidSignature covers every rejection other than expiry: bad
	// signature, malformed token, unexpected algorithm or issuer.
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrExpired          = errors.New("token expired")
)
