package session

import (
	"errors"
	"strings"
)

// Status is the lifecycle state of a navigation session.
type Status string

const (
	// StatusAwaitingLocation is the implicit state before a session exists:
	// the user asked for a route without a known position.
	StatusAwaitingLocation Status = "AWAITING_LOCATION"
	StatusNavigating       Status = "NAVIGATING"
	StatusArrived          Status = "ARRIVED"
	StatusCancelled        Status = "CANCELLED"
)

var ErrInvalidStatus = errors.New("invalid session status")

// ParseStatus normalizes (uppercases+trims) and validates a status string.
func ParseStatus(in string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(in)))
	if status.Valid() {
		return status, nil
	}
	return "", ErrInvalidStatus
}

// Valid reports whether status is one of the allowed status constants.
func (status Status) Valid() bool {
	switch status {
	case StatusAwaitingLocation, StatusNavigating, StatusArrived, StatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Status.
func (status Status) String() string {
	return string(status)
}

// CanTransitionTo specifies if the status can transition to the next status.
func (status Status) CanTransitionTo(next Status) bool {
	switch status {
	case StatusAwaitingLocation:
		return next == StatusNavigating

	case StatusNavigating:
		return next == StatusArrived || next == StatusCancelled

	case StatusArrived, StatusCancelled:
		return false

	default:
		return false
	}
}

// Terminal indicates whether the session can no longer change state.
func (status Status) Terminal() bool {
	return status == StatusArrived || status == StatusCancelled
}
