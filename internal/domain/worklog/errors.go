package worklog

import (
	"errors"
	"fmt"
)

// Work log domain errors
var (
	// Clock errors
	ErrAlreadyClockedIn = errors.New("employee is already clocked in")
	ErrNotClockedIn     = errors.New("employee is not clocked in")
	ErrClockInMismatch  = errors.New("clock in time does not match the open shift")

	// Work order errors
	ErrShiftResolution = errors.New("cannot determine shift for job start/end time")
	ErrShiftNotFound   = errors.New("cannot retrieve shift information for job start/end time")

	// Store errors
	ErrWorkLogNotFound = errors.New("work log not found")
	ErrWorkLogExists   = errors.New("work log already exists")
	ErrVersionConflict = errors.New("work log was modified concurrently")

	ErrPersistence = errors.New("work log store request failed")
)

// PersistenceError reports a rejected or failed store call. Message is safe to
// show to the user; Err keeps the store's own error for logging.
type PersistenceError struct {
	Op      string
	Message string
	Err     error
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// IsConflict reports whether the store rejected the write because of an
// existing key or a concurrent modification.
func (e *PersistenceError) IsConflict() bool {
	return errors.Is(e.Err, ErrWorkLogExists) || errors.Is(e.Err, ErrVersionConflict)
}

func NewPersistenceError(op, message string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Message: message, Err: err}
}
