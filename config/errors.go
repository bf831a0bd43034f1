package config

import "errors"

var (
	// ErrInvalidConfiguration is returned when setup parameters cannot produce a valid simulation.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrCapacityExceeded is returned when a particle is appended to a full set.
	ErrCapacityExceeded = errors.New("capacity exceeded")
)
