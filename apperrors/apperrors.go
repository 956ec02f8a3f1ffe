package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError reports bad input. It is raised before any database
// access so a failed validation never touches the backend.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NotFoundError reports a missing resource (list, task, participant, user).
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ForbiddenError reports a permission failure: the caller's effective role
// on the list does not allow the attempted action.
type ForbiddenError struct {
	Action string
}

func (e *ForbiddenError) Error() string {
	return "not allowed to " + e.Action
}

// ConflictError reports a state conflict, e.g. adding a participant twice
// or registering an email that is already taken.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// BackendError wraps an unexpected failure from the database or another
// downstream dependency. Its message is safe to log but not to return to
// clients.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

func Forbidden(action string) error {
	return &ForbiddenError{Action: action}
}

func Conflict(reason string) error {
	return &ConflictError{Reason: reason}
}

func Backend(op string, err error) error {
	return &BackendError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsForbidden(err error) bool {
	var e *ForbiddenError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}
