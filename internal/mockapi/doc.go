// Package mockapi is a development backend for the client. It serves the
// backend REST API under /api and stands in for both public data
// providers, so the client can run end to end without credentials.
//
// State lives in memory and is lost on restart. Passwords are bcrypt
// hashed and sessions are HS256 JWTs, so the auth flow behaves like the
// real one, including 401 on expired or revoked tokens.
package mockapi
