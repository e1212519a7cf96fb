package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound       = errors.New("event not found")
	ErrInvalidEvent   = errors.New("invalid event")
	ErrDuplicateEvent = errors.New("duplicate event id")
)
