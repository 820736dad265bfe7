package domain

import (
	"errors"
	"fmt"
	"strings"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// ValidationError carries either a single field message or the ordered list
// of violations produced by the booking validators.
type ValidationError struct {
	Field      string
	Msg        string
	Violations []string
	Err        error
}

func (e ValidationError) Error() string {
	if len(e.Violations) > 0 {
		return strings.Join(e.Violations, ", ")
	}
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type UnauthorizedError struct {
	Msg string
	Err error
}

func (e UnauthorizedError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "unauthorized"
}

func (e UnauthorizedError) Unwrap() error { return e.Err }

type ForbiddenError struct {
	Msg string
}

func (e ForbiddenError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "forbidden"
}

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

// Violations extracts the violation list from a ValidationError, if any.
func Violations(err error) []string {
	var target ValidationError
	if errors.As(err, &target) {
		return target.Violations
	}
	return nil
}
