package service

import "errors"

var (
	// ErrSimulatedFailure matches every injected failure.
	ErrSimulatedFailure = errors.New("simulated service failure")

	ErrBookingFailed      = errors.New("booking failed")
	ErrRescheduleFailed   = errors.New("reschedule failed")
	ErrCancellationFailed = errors.New("cancellation failed")
)

// FailureError is returned when a call draws an injected failure.
// Message is meant to be shown to the user as is.
type FailureError struct {
	Err     error
	Message string
}

func (e *FailureError) Error() string { return e.Message }

func (e *FailureError) Unwrap() error { return e.Err }

// Is reports true for ErrSimulatedFailure so callers can match any kind.
func (e *FailureError) Is(target error) bool {
	return target == ErrSimulatedFailure
}
