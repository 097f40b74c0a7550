package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound      = errors.New("not found")
	ErrCorruptRecord = errors.New("corrupt record")

	// Manager-level conditions. They never cross the manager boundary, but
	// are used in logs and by the lower layers.
	ErrLocked                = errors.New("account temporarily locked")
	ErrBiometricsUnavailable = errors.New("biometrics unavailable")
	ErrInvalidCredentials    = errors.New("invalid credentials")
)
