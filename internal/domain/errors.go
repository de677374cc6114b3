package domain

import "errors"

// Sentinel errors for the domain layer.
var (
	ErrNotFound      = errors.New("domain: not found")
	ErrInvalid       = errors.New("domain: invalid input")
	ErrNotConfigured = errors.New("domain: not configured")
	ErrUnavailable   = errors.New("domain: upstream unavailable")
)
