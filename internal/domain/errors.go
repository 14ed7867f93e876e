// Package domain holds the error types shared by all layers of the service.
package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a domain error with an associated HTTP status code.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewNotFoundError reports that the named resource does not exist.
func NewNotFoundError(resource, id string) *Error {
	return &Error{
		Code:    http.StatusNotFound,
		Message: fmt.Sprintf("%s %s not found", resource, id),
	}
}

// NewValidationError reports invalid input.
func NewValidationError(msg string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: msg}
}

// NewConflictError reports a state conflict, such as a duplicate record.
func NewConflictError(msg string) *Error {
	return &Error{Code: http.StatusConflict, Message: msg}
}

// StatusCode returns the HTTP status carried by err, or 500 for plain errors.
func StatusCode(err error) int {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return http.StatusInternalServerError
}
