package domain

import "errors"

// Standard application errors
var (
	// ErrNotFound is returned when the requested record does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned for invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrPrecondition is returned when a business precondition is not met
	ErrPrecondition = errors.New("precondition not met")

	// ErrInternal is returned for internal server errors
	ErrInternal = errors.New("internal server error")

	// ErrBadRequest is returned for malformed requests
	ErrBadRequest = errors.New("bad request")
)
