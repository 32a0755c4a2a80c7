package providers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/companyanalyzer/internal/common"
)

// StatusError is a non-2xx response, or a 2xx response whose payload
// carried a provider-level failure code.
type StatusError struct {
	Provider   string
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: status %d, code %s: %s", e.Provider, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return common.ErrUnauthorized
	case e.StatusCode == http.StatusNotFound:
		return common.ErrNotFound
	default:
		return common.ErrUnavailable
	}
}

// IsStatus reports whether err is a StatusError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var e *StatusError
	return errors.As(err, &e) && e.StatusCode == status
}

func mapError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", common.ErrUnavailable, provider, err)
}
