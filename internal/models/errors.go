package models

import (
	"errors"
	"fmt"
)

// ErrNotLeadOwner is returned when a non-admin tries to edit a lead owned by
// someone else. Handlers map it to 403.
var ErrNotLeadOwner = errors.New("not the lead owner")

// ValidationError marks a request that failed field-level rules. Handlers map
// it to 400.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PersistenceError wraps a failed store operation so callers can tell a
// storage fault apart from a domain error. Handlers map it to 500.
type PersistenceError struct {
	Op  string
	Err error
}

func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
