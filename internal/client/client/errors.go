package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/companyanalyzer/internal/common"
)

// Error is a non-2xx backend response.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend: %s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Unwrap maps the status onto the shared sentinels.
func (e *Error) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return common.ErrUnauthorized
	case e.StatusCode == http.StatusNotFound:
		return common.ErrNotFound
	case e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusConflict ||
		e.StatusCode == http.StatusUnprocessableEntity:
		return common.ErrValidation
	case e.StatusCode >= 500:
		return common.ErrUnavailable
	default:
		return nil
	}
}

// IsUnauthorized returns true if the error is a 401.
func IsUnauthorized(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}

// IsNotFound returns true if the error is a 404.
func IsNotFound(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// mapError turns a transport failure into common.ErrUnavailable while
// keeping the cause (including context errors) reachable through errors.Is.
func mapError(method, path string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s %s: %w", common.ErrUnavailable, method, path, err)
}

// Message extracts a user-displayable message from err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	switch {
	case errors.Is(err, common.ErrUnavailable):
		return "The server is not reachable. Please try again."
	case errors.Is(err, common.ErrUnauthorized):
		return "Invalid email or password."
	default:
		return "Something went wrong. Please try again."
	}
}
