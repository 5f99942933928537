package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrGeneration is returned when a generator fails, times out or produces
// output that cannot be used.
var ErrGeneration = errors.New("generation failed")

// ErrValidation is returned when an event is rejected. The session is unchanged.
var ErrValidation = errors.New("validation failed")

var (
	ErrEmptyCredential = fmt.Errorf("%w: credential must not be empty", ErrValidation)
	ErrEmptyAnswer     = fmt.Errorf("%w: answer must not be empty", ErrValidation)
	ErrInvalidEvent    = fmt.Errorf("%w: event not accepted in current state", ErrValidation)
	ErrInvalidChoice   = fmt.Errorf("%w: unknown destination", ErrValidation)
)
