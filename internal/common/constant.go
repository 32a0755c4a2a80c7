// Package common contains shared constants and sentinel errors used across
// the companyanalyzer client packages.
package common

// Persisted session keys. Both must be present for a stored session to be
// considered at all.
const (
	AuthTokenKey = "authToken"
	UserKey      = "user"
)

// AuthorizationHeaderName carries the bearer token on outbound backend
// requests; RequestIDHeaderName carries a per-request correlation id.
const (
	AuthorizationHeaderName = "Authorization"
	BearerPrefix            = "Bearer "
	RequestIDHeaderName     = "X-Request-ID"
)

// Well-known view paths.
const (
	RootPath   = "/"
	LoginPath  = "/login"
	SignupPath = "/signup"
)

// DefaultRedirectMessage is shown on the login view when a protected view
// denied access and no custom message was supplied.
const DefaultRedirectMessage = "This page requires you to log in."
