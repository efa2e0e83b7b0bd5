package types

import "errors"

var (
	// ErrInvalidConfiguration is returned when a configuration key is missing or malformed
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrInvalidAction is returned by Step when the action does not fit the environment
	ErrInvalidAction = errors.New("invalid action")
	// ErrIO is returned when results cannot be written
	ErrIO = errors.New("io failure")
)
