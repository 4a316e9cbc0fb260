package domain

import "errors"

// Access errors.
var (
	ErrForbidden          = errors.New("access forbidden")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
)

// Identity directory errors.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserExists        = errors.New("user already exists")
	ErrInvalidRole       = errors.New("invalid role")
	ErrLastAdministrator = errors.New("cannot remove the only administrator")
	ErrMissingFields     = errors.New("missing required fields")
	ErrInvalidInput      = errors.New("invalid input")
)

// Record errors.
var (
	ErrPetNotFound         = errors.New("pet not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrEmptyVisit          = errors.New("visit has no content")
	ErrConcurrentVisit     = errors.New("clinical history changed concurrently")
)
