// errors.go - Structured error handling for API responses
package api

import (
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/CryoKynase/wheel-lacing-app/internal/method"
	"github.com/CryoKynase/wheel-lacing-app/internal/storage"
	"github.com/labstack/echo/v4"
)

// APIError represents a structured API error response
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error constructors for consistent error handling

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewValidationError creates a 400 validation error for a specific field
func NewValidationError(field string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("validation failed for field: %s", field),
	}
}

// NewInvalidHoleCountError creates a 400 error for a rim hole count no
// method can lace
func NewInvalidHoleCountError(holes int) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "INVALID_HOLE_COUNT",
		Message: fmt.Sprintf("hole count must be an even integer of at least %d, got %d", method.MinHoles, holes),
	}
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewUnsupportedError creates a 400 error for an operation a method does not
// offer
func NewUnsupportedError(message string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "UNSUPPORTED",
		Message: message,
	}
}

// fromDomainError maps core sentinel errors onto API errors. Unrecognized
// errors become internal errors.
func fromDomainError(err error, holes int, resource, id string) *APIError {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, method.ErrInvalidHoleCount):
		return NewInvalidHoleCountError(holes)
	case errors.Is(err, method.ErrUnknownMethod):
		return NewNotFoundError("method", id)
	case errors.Is(err, storage.ErrNotFound):
		return NewNotFoundError(resource, id)
	}
	return NewInternalError("unexpected failure", err)
}

// ErrorHandler middleware for Echo
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError

	switch e := err.(type) {
	case *APIError:
		apiErr = e
	case *echo.HTTPError:
		apiErr = &APIError{
			Status:  e.Code,
			Code:    "HTTP_ERROR",
			Message: fmt.Sprintf("%v", e.Message),
		}
	default:
		apiErr = &APIError{
			Status:  http.StatusInternalServerError,
			Code:    "UNKNOWN_ERROR",
			Message: "An unexpected error occurred",
		}
		// In development, include error details
		if isDevelopment() {
			apiErr.Details = err.Error()
		}
	}

	// Send JSON response
	if !c.Response().Committed {
		c.JSON(apiErr.Status, apiErr)
	}
}

var showErrorDetails atomic.Bool

// SetDevelopment controls whether unexpected errors expose their details
func SetDevelopment(dev bool) {
	showErrorDetails.Store(dev)
}

// isDevelopment returns true if running in development mode
func isDevelopment() bool {
	return showErrorDetails.Load()
}
