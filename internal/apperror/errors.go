package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is implemented by every expected domain/application failure.
// Code is stable and machine-readable; HTTPStatus is a suggestion for the
// transport layer, the core itself carries no HTTP concepts beyond it.
type AppError interface {
	error
	Code() string
	HTTPStatus() int
}

// InvalidEmailError reports a malformed email. Value holds the normalized
// (trimmed, lowercased) input that failed validation.
type InvalidEmailError struct {
	Value string
}

func (e *InvalidEmailError) Error() string {
	return fmt.Sprintf("invalid email: %q", e.Value)
}
func (e *InvalidEmailError) Code() string    { return "INVALID_EMAIL" }
func (e *InvalidEmailError) HTTPStatus() int { return http.StatusBadRequest }

// InvalidDniError reports a DNI that is not exactly 8 digits after trimming.
type InvalidDniError struct {
	Value string
}

func (e *InvalidDniError) Error() string {
	return fmt.Sprintf("invalid dni: %q", e.Value)
}
func (e *InvalidDniError) Code() string    { return "INVALID_DNI" }
func (e *InvalidDniError) HTTPStatus() int { return http.StatusBadRequest }

// InvalidPasswordError reports a raw password failing the strength rules
// (at least 8 characters, one letter and one digit). The candidate value is
// deliberately not carried.
type InvalidPasswordError struct{}

func (e *InvalidPasswordError) Error() string {
	return "invalid password: must be at least 8 characters and contain a letter and a digit"
}
func (e *InvalidPasswordError) Code() string    { return "INVALID_PASSWORD" }
func (e *InvalidPasswordError) HTTPStatus() int { return http.StatusBadRequest }

// UserNotFoundError reports a lookup miss by id.
type UserNotFoundError struct {
	ID string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user %s not found", e.ID)
}
func (e *UserNotFoundError) Code() string    { return "USER_NOT_FOUND" }
func (e *UserNotFoundError) HTTPStatus() int { return http.StatusNotFound }

// UserAlreadyExistsError reports a uniqueness violation on email or dni.
// Field names the offending attribute.
type UserAlreadyExistsError struct {
	Field string
	Value string
}

func (e *UserAlreadyExistsError) Error() string {
	return fmt.Sprintf("user with %s %q already exists", e.Field, e.Value)
}
func (e *UserAlreadyExistsError) Code() string    { return "USER_ALREADY_EXISTS" }
func (e *UserAlreadyExistsError) HTTPStatus() int { return http.StatusConflict }

// StatusOf maps any error to an HTTP status; unexpected errors fall through
// to 500 so infrastructure failures are never mistaken for client faults.
func StatusOf(err error) int {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// CodeOf returns the stable error code, or UNEXPECTED_ERROR for anything
// outside the taxonomy.
func CodeOf(err error) string {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Code()
	}
	return "UNEXPECTED_ERROR"
}
