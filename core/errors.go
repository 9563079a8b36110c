package core

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidItem is returned when a value handed to a conductor cannot be
	// used as a child. It signals a programming error.
	ErrInvalidItem = errors.New("invalid item: value does not implement core.Child")

	// ErrDisposed is returned by operations on a disposed conductor.
	ErrDisposed = errors.New("conductor has been disposed")

	// ErrCloseVetoed is returned when a close request was refused by a guard.
	ErrCloseVetoed = errors.New("close vetoed")
)

// Op names a lifecycle operation for error reporting.
type Op string

const (
	OpInitialize Op = "initialize"
	OpActivate   Op = "activate"
	OpReactivate Op = "reactivate"
	OpDeactivate Op = "deactivate"
	OpCanClose   Op = "can_close"
	OpClose      Op = "close"
)

// LifecycleError wraps a failure raised while running a lifecycle hook.
type LifecycleError struct {
	Op     Op
	Screen string
	Err    error
}

// Error implements error.
func (e *LifecycleError) Error() string {
	if e.Screen == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q failed: %v", e.Op, e.Screen, e.Err)
}

// Unwrap returns the underlying error.
func (e *LifecycleError) Unwrap() error { return e.Err }

// IsCanceled reports whether err is a cancellation outcome rather than a failure.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsInitializationFailure reports whether err originates from an initialize hook.
// Conductors wrap child failures in their own LifecycleError, so the whole
// chain is inspected.
func IsInitializationFailure(err error) bool {
	if IsCanceled(err) {
		return false
	}
	for err != nil {
		var le *LifecycleError
		if !errors.As(err, &le) {
			return false
		}
		if le.Op == OpInitialize {
			return true
		}
		err = le.Err
	}
	return false
}
