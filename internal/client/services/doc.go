// Package services holds the client's use cases. Each service composes
// the backend client, the data providers and the aggregate helpers into
// the operations the terminal client calls.
package services
