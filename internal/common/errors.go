// Package common defines the error taxonomy shared by the tracker engine and
// its callers. Callers match kinds with errors.As or the Is* helpers; any
// other error coming out of the engine is a storage failure.
package common

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or out-of-range input, e.g. an end time
// before its start or unparseable HH:MM text.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError reports that an operation would break an invariant, such as
// a second open session or a duplicate category name.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}

// NotFoundError reports a reference to a record that does not exist.
type NotFoundError struct {
	Kind string
	ID   any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Kind, e.ID)
}

// Invalid builds a ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Conflict builds a ConflictError.
func Conflict(format string, args ...any) error {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

// NotFound builds a NotFoundError.
func NotFound(kind string, id any) error {
	return &NotFoundError{Kind: kind, ID: id}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsUserError reports whether err is one of the recoverable input errors
// above, as opposed to a storage failure.
func IsUserError(err error) bool {
	return IsValidation(err) || IsConflict(err) || IsNotFound(err)
}
