// Package client talks to the companyanalyzer backend over HTTP/JSON.
//
// # Overview
//
// Client is the transport-agnostic contract the rest of the application
// depends on; HTTPClient implements it. Every request carries an
// X-Request-ID and, when a token source is set and returns a token,
// an "Authorization: Bearer <token>" header.
//
// # Unauthorized responses
//
// A 401 on any authenticated call runs every hook registered with
// OnUnauthorized before the error is returned. The session store registers
// its teardown there, so a revoked token ends the session no matter which
// view issued the call. Login, signup, verify and logout are exempt: their
// callers handle the outcome themselves.
//
// # Error Handling
//
// HTTP failures are *Error values. They unwrap to the sentinels in
// internal/common (ErrUnauthorized, ErrNotFound, ErrValidation,
// ErrUnavailable), so callers can use errors.Is without knowing about HTTP.
// Transport failures (refused connection, timeout) wrap common.ErrUnavailable.
package client
