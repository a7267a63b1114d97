package store

import "errors"

var (
	// ErrNotFound is returned when the referenced appointment or doctor does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNoActiveUser is returned when a user update is attempted before a user is set.
	ErrNoActiveUser = errors.New("no active user")
	// ErrDuplicateID is returned when an appointment id is already taken.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrInvalidStateTransition is returned when a mutation would leave a terminal
	// state or move a refund backwards.
	ErrInvalidStateTransition = errors.New("invalid state transition")
	// ErrInvalidRecord is returned when an appointment handed to the store
	// has an unknown status or is cancelled without a refund.
	ErrInvalidRecord = errors.New("invalid appointment record")
)
