package service

import "errors"

// Sentinel kinds for service errors. Handlers match them with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrEventFull    = errors.New("event is full")
	ErrNotAttending = errors.New("event has no attendees")
	ErrBackpressure = errors.New("interaction queue is full")
	ErrStopped      = errors.New("service stopped")
)
