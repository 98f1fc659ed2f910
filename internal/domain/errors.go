package domain

import "errors"

var (
	// ErrStoreNotConfigured is returned when a command needs a score store that was not configured.
	ErrStoreNotConfigured = errors.New("score store not configured")
	// ErrInvalidLimit indicates a top-N query with a non-positive limit.
	ErrInvalidLimit = errors.New("limit must be positive")
	// ErrInvalidConfig wraps configuration validation failures.
	ErrInvalidConfig = errors.New("invalid config")
)
