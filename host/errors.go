package host

import "errors"

var (
	// ErrScreenNotFound is returned for names that were never registered.
	ErrScreenNotFound = errors.New("screen not found")

	// ErrAlreadyRegistered is returned when a name is registered twice.
	ErrAlreadyRegistered = errors.New("screen already registered")

	// ErrActivationRefused is returned by Open when the root conductor kept
	// its current item because that item refused to close.
	ErrActivationRefused = errors.New("activation refused")
)
